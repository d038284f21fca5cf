package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// InvalidateFunc asks the backend to blacklist a refresh token. Used by
// Logout for server-side invalidation; failures are logged, never returned.
type InvalidateFunc func(ctx context.Context, refreshToken string) error

// Store is the single source of truth for the Session. All mutations go
// through it, and every mutation that touches persisted fields is written
// through to the Persister before returning.
type Store struct {
	mu         sync.RWMutex
	session    Session
	persister  Persister
	invalidate InvalidateFunc
	logger     *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithInvalidator sets the backend call used by Logout to blacklist the
// refresh token. Without it, Logout is always local-only.
func WithInvalidator(fn InvalidateFunc) StoreOption {
	return func(s *Store) {
		s.invalidate = fn
	}
}

// NewStore creates a Store rehydrated from the persister. A missing or
// empty snapshot yields a signed-out session.
func NewStore(p Persister, logger *slog.Logger, opts ...StoreOption) (*Store, error) {
	snap, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("load session state: %w", err)
	}

	s := &Store{
		session: Session{
			RefreshToken:  snap.RefreshToken,
			User:          snap.User,
			Authenticated: snap.Authenticated,
		},
		persister: p,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login installs a fresh token pair and marks the session authenticated.
// The user profile is not fetched here; callers follow up with SetUser
// once the profile endpoint has answered.
func (s *Store) Login(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.AccessToken = accessToken
	s.session.RefreshToken = refreshToken
	s.session.Authenticated = true
	return s.saveLocked()
}

// Logout resets the session to its signed-out state. Unless localOnly is
// set, it first makes a best-effort call to blacklist the refresh token on
// the backend; a failure there is logged and never surfaced, and the local
// reset happens regardless. Logging out an already-empty session is a no-op.
func (s *Store) Logout(ctx context.Context, localOnly bool) error {
	s.mu.Lock()
	refreshToken := s.session.RefreshToken
	s.mu.Unlock()

	if !localOnly && s.invalidate != nil && refreshToken != "" {
		if err := s.invalidate(ctx, refreshToken); err != nil {
			s.logger.Warn("server-side logout failed, clearing local session anyway", "error", err)
		}
	}

	return s.Clear()
}

// SetUser stores the profile and recomputes the authenticated flag from
// its presence. Passing nil signs the session out of the authenticated
// state without touching the tokens.
func (s *Store) SetUser(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.User = u
	s.session.Authenticated = u != nil
	return s.saveLocked()
}

// SetAccessToken replaces only the access token. Used by the refresh flow;
// the refresh token and user are untouched. Since the access token is not
// persisted, nothing is written to disk.
func (s *Store) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.AccessToken = token
}

// Clear resets the session to its empty initial state and persists the
// reset. Every failure path that clears the session is equivalent to a
// user-initiated local logout.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session{}
	return s.saveLocked()
}

// AccessToken returns the current access token, or "" when absent.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.AccessToken
}

// RefreshToken returns the current refresh token, or "" when absent.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.RefreshToken
}

// User returns the current profile, or nil when not fetched.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User
}

// IsAuthenticated reports whether the session holds a signed-in account.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated
}

// saveLocked writes the persisted fields through to the persister.
// Callers must hold s.mu.
func (s *Store) saveLocked() error {
	snap := Snapshot{
		Authenticated: s.session.Authenticated,
		RefreshToken:  s.session.RefreshToken,
		User:          s.session.User,
	}
	if err := s.persister.Save(snap); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}
