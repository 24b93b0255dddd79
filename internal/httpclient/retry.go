package httpclient

import (
	"context"
	"errors"
	"time"
)

const (
	defaultRetryAttempts = 3
	retryBackoffStep     = 500 * time.Millisecond
)

// GetWithRetry issues a GET, retrying with linear backoff on transport
// failures and 5xx responses. 4xx responses are returned immediately: the
// request will not get better by repeating it.
func (c *Client) GetWithRetry(ctx context.Context, path string, out any, attempts int) error {
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = c.Get(ctx, path, out)
		if lastErr == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(lastErr, &apiErr) && apiErr.IsClientError() {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoffStep):
		}
	}
	return lastErr
}
