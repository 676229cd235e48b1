// Package api is the typed HTTP client for the FitCoach REST backend.
//
// Every method is a direct passthrough: one request, JSON in, JSON out.
// The bearer token is read from storage for each request. A 401 is reported
// as an *APIError matching ErrUnauthorized and is never retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NicolasHaas/fitcoach/pkg/kv"
	"github.com/NicolasHaas/fitcoach/pkg/version"
)

const maxResponseBody = 4 << 20

// TokenSource supplies the bearer token for a request. An empty token or a
// read error means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StorageTokens reads the token key from persisted storage on every call.
func StorageTokens(st kv.Storage) TokenSource {
	return TokenFunc(func(ctx context.Context) (string, error) {
		tok, err := st.Get(ctx, kv.KeyToken)
		if errors.Is(err, kv.ErrNotFound) {
			return "", nil
		}
		return tok, err
	})
}

// Client talks to one backend base URL.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    TokenSource
	userAgent string
	stats     *Stats

	onUnauthorized func(*APIError)
	requestID      func() string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithUnauthorizedHandler registers a hook called on every 401. The request
// error is still returned to the caller unchanged.
func WithUnauthorizedHandler(fn func(*APIError)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a client for baseURL (e.g. "https://api.example.com/v1").
// tokens may be nil for a client that never authenticates.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 15 * time.Second},
		tokens:    tokens,
		userAgent: version.UserAgent(),
		stats:     NewStats(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Stats returns the request counters of this client.
func (c *Client) Stats() *Stats { return c.stats }

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do performs one request. body is JSON-encoded when non-nil; out is decoded
// from the response when non-nil and the body is not empty.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	reqID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			// An unreadable token must not block /auth/login.
			slog.Warn("stored token unreadable, sending unauthenticated", "method", method, "path", path, "err", err)
			token = ""
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	c.stats.Requests.Add(1)
	resp, err := c.http.Do(req)
	if err != nil {
		c.stats.Failures.Add(1)
		slog.Debug("api request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		c.stats.Failures.Add(1)
		return fmt.Errorf("api: read %s %s: %w", method, path, err)
	}

	slog.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", reqID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.stats.Failures.Add(1)
		apiErr := newAPIError(method, path, resp.StatusCode, data)
		if resp.StatusCode == http.StatusUnauthorized {
			c.stats.Unauthorized.Add(1)
			slog.Warn("api unauthorized", "method", method, "path", path, "request_id", reqID)
			if c.onUnauthorized != nil {
				c.onUnauthorized(apiErr)
			}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.stats.Failures.Add(1)
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}
