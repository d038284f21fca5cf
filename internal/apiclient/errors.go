package apiclient

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrSessionExpired is returned when the refresh flow itself fails and
	// the session has been cleared. The caller must sign in again.
	ErrSessionExpired = errors.New("session expired")
)

// APIError is returned for any non-2xx response the client does not recover
// from. It carries the status code and the raw response body so callers
// (forms, pages, commands) can render the backend's message verbatim.
type APIError struct {
	// StatusCode is the HTTP status of the failed response.
	StatusCode int

	// Body is the raw response body, typically a JSON error document.
	Body string

	// RequestID is the X-Request-Id the client attached to the request.
	RequestID string
}

// Error returns a human-readable description of the API failure.
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// SessionExpiredError is returned when a token refresh was attempted and
// rejected by the backend. The session has been cleared as a side effect;
// from the caller's perspective this is equivalent to being signed out.
type SessionExpiredError struct {
	// Cause is the refresh call's failure.
	Cause error
}

// Error returns a human-readable description of the expired session.
func (e *SessionExpiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session expired: %v", e.Cause)
	}
	return "session expired"
}

// Unwrap returns the underlying refresh failure.
func (e *SessionExpiredError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrSessionExpired).
func (e *SessionExpiredError) Is(target error) bool {
	return target == ErrSessionExpired
}

// IsNetworkError reports whether err is a transport-level failure rather
// than an HTTP or auth failure. Used by services that fall back to the
// offline cache: only unreachable-backend errors qualify, an explicit
// backend error never does.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	if errors.Is(err, ErrSessionExpired) {
		return false
	}
	return true
}
