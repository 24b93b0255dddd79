package httpclient

import (
	"encoding/json"
	"fmt"
	"time"
)

// genericMessage is the fallback when a response carries no usable error body.
const genericMessage = "An error occurred"

// APIError is the uniform error shape produced by the backend interceptor.
type APIError struct {
	Message   string         `json:"message"`
	Code      string         `json:"code,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp,omitempty"`
	Path      string         `json:"path,omitempty"`

	// StatusCode is the HTTP status the error arrived with.
	StatusCode int `json:"-"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// IsClientError reports whether the error is a 4xx response, which the retry
// helper never retries.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// parseAPIError decodes an error body, falling back to a generic message for
// unrecognised payloads.
func parseAPIError(status int, path string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Path: path}
	if len(body) > 0 {
		if err := json.Unmarshal(body, apiErr); err == nil && apiErr.Message != "" {
			apiErr.StatusCode = status
			return apiErr
		}
	}
	apiErr.Message = genericMessage
	apiErr.Code = fmt.Sprintf("HTTP_%d", status)
	return apiErr
}
