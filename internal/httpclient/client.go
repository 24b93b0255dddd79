// Package httpclient is the portal's generic JSON HTTP client: request
// helpers, in-flight GET coalescing, bounded retry and bearer-token
// attachment with a single refresh-and-retry on 401.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout = 30 * time.Second
	authHeader     = "Authorization"
)

// TokenProvider supplies bearer tokens. Refresh is invoked at most once per
// request after a 401; a refresh failure triggers the logout hook.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// Client wraps a base URL with JSON helpers. The coalescing map and abort
// registry belong to the instance; nothing leaks across clients.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenProvider
	onLogout func()

	coalescer *coalescer
	aborts    *abortRegistry
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTokenProvider enables bearer authentication.
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) { c.tokens = tp }
}

// WithLogoutHook sets the callback fired when a token refresh fails.
func WithLogoutHook(fn func()) Option {
	return func(c *Client) { c.onLogout = fn }
}

// WithHTTPClient swaps the underlying transport. Test use.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCoalesceGrace adjusts how long a completed GET stays shared.
func WithCoalesceGrace(d time.Duration) Option {
	return func(c *Client) { c.coalescer.grace = d }
}

// New constructs a Client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("httpclient: base URL is required")
	}
	c := &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: defaultTimeout},
		coalescer: newCoalescer(defaultCoalesceGrace),
		aborts:    newAbortRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get issues a coalesced GET and decodes the JSON response into out.
// Identical in-flight GETs for the same path share one round-trip.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	body, err := c.coalescer.do(path, func() ([]byte, error) {
		return c.roundTrip(ctx, http.MethodGet, path, nil)
	})
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

// getManyConcurrency caps parallel fetches in GetMany.
const getManyConcurrency = 4

// GetMany fetches several paths concurrently (at most getManyConcurrency in
// flight) into the given targets. Mapping is positional; len(paths) must
// equal len(outs). Duplicate paths still share one round-trip through the
// coalescer. The first failure cancels the remaining fetches.
func (c *Client) GetMany(ctx context.Context, paths []string, outs []any) error {
	if len(paths) != len(outs) {
		return errors.New("httpclient: paths and outs length mismatch")
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(getManyConcurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := c.Get(ctx, path, outs[i]); err != nil {
				return fmt.Errorf("get %s: %w", path, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.send(ctx, http.MethodPost, path, in, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.send(ctx, http.MethodPut, path, in, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.send(ctx, http.MethodPatch, path, in, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.send(ctx, http.MethodDelete, path, nil, nil)
}

// RegisterAbortGroup binds the returned context to a named group; CancelGroup
// aborts every request registered under it. Used for bulk cancellation on
// logout-style flows, not per-keystroke search.
func (c *Client) RegisterAbortGroup(ctx context.Context, group string) context.Context {
	return c.aborts.register(ctx, group)
}

// CancelGroup aborts all in-flight requests registered under the group.
func (c *Client) CancelGroup(group string) {
	c.aborts.cancel(group)
}

func (c *Client) send(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode body: %w", err)
		}
	}
	body, err := c.roundTrip(ctx, method, path, payload)
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

// roundTrip performs one authenticated request, with a single
// refresh-and-retry on 401.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	body, status, err := c.once(ctx, method, path, payload, "")
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized && c.tokens != nil {
		fresh, refreshErr := c.tokens.Refresh(ctx)
		if refreshErr != nil {
			if c.onLogout != nil {
				c.onLogout()
			}
			return nil, fmt.Errorf("httpclient: token refresh failed: %w", refreshErr)
		}
		body, status, err = c.once(ctx, method, path, payload, fresh)
		if err != nil {
			return nil, err
		}
	}
	if status >= 400 {
		return nil, parseAPIError(status, path, body)
	}
	return body, nil
}

// once performs a single HTTP exchange. A non-empty token overrides the
// provider (used for the post-refresh retry).
func (c *Client) once(ctx context.Context, method, path string, payload []byte, token string) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if token == "" && c.tokens != nil {
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("httpclient: obtain token: %w", err)
		}
	}
	if token != "" {
		req.Header.Set(authHeader, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func decodeInto(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode response: %w", err)
	}
	return nil
}
