package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/montanha-viva/mv-cli/internal/domain/session"
)

// bearerTransport is the attach-credentials stage. When the session holds
// an access token it is added as a bearer Authorization header; otherwise
// the request is sent as-is.
type bearerTransport struct {
	next  http.RoundTripper
	store *session.Store
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// mutation, as required by the RoundTripper contract.
func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := t.store.AccessToken(); token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.next.RoundTrip(req)
}

// refreshTransport is the recover-from-expiry stage. A 401 response
// triggers a token refresh followed by exactly one replay of the original
// request with the new token. The retry bypasses this stage's own 401
// handling, so a second 401 is returned to the caller as-is; there is no
// retry marker to thread and no way to loop.
//
// Every path that gives up clears the session, which callers must treat as
// a sign-out:
//   - no refresh token in the session: session cleared, original 401 returned
//   - refresh call rejected or unreachable: session cleared,
//     *SessionExpiredError returned
type refreshTransport struct {
	next       http.RoundTripper
	store      *session.Store
	refreshURL string
	// refreshClient performs the refresh POST itself. It is a plain client
	// with no auth stages, so a misbehaving refresh endpoint cannot recurse
	// into this transport.
	refreshClient *http.Client
	logger        *slog.Logger
	metrics       *Metrics

	// mu serializes refreshes. Concurrent 401s coalesce: whoever arrives
	// second finds a token newer than the one its request failed with and
	// reuses it without a second refresh call.
	mu sync.Mutex
}

// RoundTrip implements http.RoundTripper.
func (t *refreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		// Anything other than an auth failure is propagated unchanged,
		// success and error alike.
		return resp, err
	}

	// The request body was consumed by the first attempt. Without GetBody
	// there is nothing to replay; surface the 401 as-is.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	staleToken := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
	newToken, refreshErr := t.refresh(req.Context(), staleToken)
	if refreshErr != nil {
		if refreshErr == errNoRefreshToken {
			// Nothing to refresh with: the session was cleared and the
			// original 401 goes back to the caller untouched.
			return resp, nil
		}
		drainAndClose(resp.Body)
		return nil, refreshErr
	}

	drainAndClose(resp.Body)

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, fmt.Errorf("rewind request body for retry: %w", bodyErr)
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+newToken)

	t.logger.Debug("retrying request with refreshed token",
		"method", retry.Method, "url", retry.URL.Path)
	return t.next.RoundTrip(retry)
}

// errNoRefreshToken is internal to the transport: it marks the
// short-circuit path where no refresh was attempted at all.
var errNoRefreshToken = fmt.Errorf("no refresh token")

// refresh exchanges the session's refresh token for a new access token and
// stores it. staleToken is the access token the failing request carried;
// if the store already holds a different token by the time the lock is
// acquired, another caller refreshed first and that token is reused.
func (t *refreshTransport) refresh(ctx context.Context, staleToken string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if current := t.store.AccessToken(); current != "" && current != staleToken {
		t.metrics.observeRefresh("skipped")
		return current, nil
	}

	refreshToken := t.store.RefreshToken()
	if refreshToken == "" {
		t.metrics.observeRefresh("failed")
		if err := t.store.Clear(); err != nil {
			t.logger.Warn("failed to clear session", "error", err)
		}
		return "", errNoRefreshToken
	}

	access, err := t.callRefresh(ctx, refreshToken)
	if err != nil {
		t.metrics.observeRefresh("failed")
		t.logger.Info("token refresh rejected, clearing session", "error", err)
		if clearErr := t.store.Clear(); clearErr != nil {
			t.logger.Warn("failed to clear session", "error", clearErr)
		}
		return "", &SessionExpiredError{Cause: err}
	}

	// The backend rotates only the access token; the refresh token in the
	// session stays as it is.
	t.store.SetAccessToken(access)
	t.metrics.observeRefresh("ok")
	t.logger.Debug("access token refreshed")
	return access, nil
}

// callRefresh performs the POST to the token refresh endpoint.
func (t *refreshTransport) callRefresh(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", fmt.Errorf("marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.refreshClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return "", fmt.Errorf("read refresh response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("refresh rejected with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("parse refresh response: %w", err)
	}
	if tokenResp.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}

	return tokenResp.Access, nil
}

// drainAndClose discards the remainder of a response body and closes it so
// the underlying connection can be reused.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxResponseBodySize))
	_ = body.Close()
}
