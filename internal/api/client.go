// Package api is the HTTP client for the card service. The request
// executor knows nothing about flashcards; every network-backed
// operation (commit persistence, deck listing, study queue) runs through
// the same retry and status-classification path.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// BackoffFunc computes the delay before the retry following the given
// 0-based attempt. Pluggable so tests and config can override it.
type BackoffFunc func(attempt int) time.Duration

// DefaultBackoff doubles from one second: 2^attempt * 1000ms.
func DefaultBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// Default attempt budgets. Writes retry less aggressively to limit
// duplicate-write risk.
const (
	DefaultReadAttempts  = 3
	DefaultWriteAttempts = 2
)

// Client talks to the card service.
type Client struct {
	baseURL       string
	token         string
	http          *http.Client
	backoff       BackoffFunc
	readAttempts  int
	writeAttempts int
	log           zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBackoff replaces the backoff schedule.
func WithBackoff(fn BackoffFunc) Option {
	return func(c *Client) { c.backoff = fn }
}

// WithAttempts overrides the read/write attempt budgets. Values below 1
// are ignored.
func WithAttempts(read, write int) Option {
	return func(c *Client) {
		if read >= 1 {
			c.readAttempts = read
		}
		if write >= 1 {
			c.writeAttempts = write
		}
	}
}

// WithLogger attaches a logger for per-request debug output.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a card-service client.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:       baseURL,
		token:         token,
		http:          &http.Client{Timeout: 30 * time.Second},
		backoff:       DefaultBackoff,
		readAttempts:  DefaultReadAttempts,
		writeAttempts: DefaultWriteAttempts,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is the machine-readable error envelope the service returns
// on non-2xx responses. Both fields are optional.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// do executes one request with up to maxAttempts attempts, decoding a
// 2xx JSON response into out (skipped when out is nil). Retryable
// failures wait on the backoff schedule between attempts; the wait
// aborts on ctx cancellation. On exhaustion the last error is returned,
// not a generic timeout.
func (c *Client) do(ctx context.Context, method, path string, body, out any, maxAttempts int) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			c.log.Debug().
				Str("method", method).
				Str("path", path).
				Int("attempt", attempt+1).
				Err(lastErr).
				Msg("api: retrying request")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(attempt - 1)):
			}
		}

		lastErr = c.once(ctx, method, path, payload, out)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// once performs a single attempt.
func (c *Client) once(ctx context.Context, method, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return classify(resp)
}

// classify maps a non-2xx response to a typed error, reading the
// optional {code, message} error body.
func classify(resp *http.Response) error {
	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(raw, &eb)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthError{Message: eb.Message}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Message: eb.Message}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Message: eb.Message}
	default:
		return &ServerError{Status: resp.StatusCode, Code: eb.Code, Message: eb.Message}
	}
}
