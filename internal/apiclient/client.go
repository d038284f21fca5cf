// Package apiclient provides the shared HTTP client for the Montanha Viva
// backend API.
//
// One Client is constructed per process and injected into every feature
// service; there is no per-request construction and no package-level
// singleton. The client attaches the session's bearer token to every
// outgoing request and transparently recovers from access token expiry:
// a 401 triggers one refresh call and one replay of the original request.
// All other failures, HTTP and transport alike, are propagated verbatim.
//
// The behavior is composed from explicit http.RoundTripper stages:
//
//	metrics -> bearer header -> refresh on 401 -> net/http transport
//
// so each stage is independently testable.
package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/montanha-viva/mv-cli/internal/domain/session"
)

const (
	// defaultTimeout bounds a whole request, refresh and retry included.
	defaultTimeout = 30 * time.Second

	// maxResponseBodySize is the maximum response body size read from the
	// backend. Prevents OOM from an unbounded response.
	maxResponseBodySize = 10 * 1024 * 1024 // 10MB

	// refreshPath is the token refresh endpoint, relative to the base URL.
	refreshPath = "/token/refresh/"
)

// Client issues authenticated requests against the Montanha Viva API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *session.Store
	logger     *slog.Logger
	metrics    *Metrics
	userAgent  string
}

// New creates the shared API client. baseURL is the backend root, e.g.
// "https://api.montanhaviva.pt"; store owns the session the client reads
// tokens from and writes refreshed tokens to.
func New(baseURL string, store *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		store:     store,
		logger:    slog.Default(),
		userAgent: "montanha-cli",
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	refresh := &refreshTransport{
		next:       base,
		store:      store,
		refreshURL: c.baseURL + refreshPath,
		refreshClient: &http.Client{
			Timeout:   c.httpClient.Timeout,
			Transport: base,
		},
		logger:  c.logger,
		metrics: c.metrics,
	}
	bearer := &bearerTransport{next: refresh, store: store}
	c.httpClient.Transport = &metricsTransport{next: bearer, metrics: c.metrics}

	return c
}

// Store returns the session store the client was constructed with.
func (c *Client) Store() *session.Store {
	return c.store
}

// Do issues a request to the given API path. body, when non-nil, is sent as
// JSON; result, when non-nil, receives the decoded JSON response. Non-2xx
// responses are returned as *APIError. A 401 recovered by the refresh flow
// is invisible here; a terminal auth failure surfaces as *SessionExpiredError
// (refresh rejected) or as the original *APIError 401 (no refresh token).
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		// bytes.Reader gives the request a GetBody, which the refresh
		// stage needs to replay the request after a token refresh.
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error wraps transport failures and the refresh stage's
		// errors alike; unwrap so errors.Is/As see the cause directly.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return urlErr.Err
		}
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
			RequestID:  requestID,
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// Get issues a GET request to the given path.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodGet, path, nil, result)
}

// Post issues a POST request with a JSON body to the given path.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPost, path, body, result)
}

// Put issues a PUT request with a JSON body to the given path.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPut, path, body, result)
}

// Delete issues a DELETE request to the given path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}
