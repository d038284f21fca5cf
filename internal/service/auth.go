// Package service provides the REST wrappers for the Montanha Viva API.
// Every service routes through the shared apiclient.Client; none of them
// carry logic beyond typed requests, typed responses, and input checks.
package service

import (
	"context"
	"log/slog"

	"github.com/montanha-viva/mv-cli/internal/apiclient"
	"github.com/montanha-viva/mv-cli/internal/domain/session"
)

// TokenPair is the response of the login endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the account creation request body.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthService wraps the authentication and account endpoints.
type AuthService struct {
	client *apiclient.Client
	store  *session.Store
	logger *slog.Logger
}

// NewAuthService creates an AuthService bound to the shared client and the
// session store.
func NewAuthService(client *apiclient.Client, store *session.Store, logger *slog.Logger) *AuthService {
	return &AuthService{client: client, store: store, logger: logger}
}

// Login exchanges credentials for a token pair, installs it in the session,
// and follows up with a profile fetch. The token endpoint returns tokens
// only; the profile always comes from a separate call. A failed profile
// fetch does not fail the login: the session stays authenticated with
// tokens, the user stays nil until the next successful fetch.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.User, error) {
	var tokens TokenPair
	err := s.client.Post(ctx, "/token/", Credentials{Email: email, Password: password}, &tokens)
	if err != nil {
		return nil, err
	}

	if err := s.store.Login(tokens.Access, tokens.Refresh); err != nil {
		return nil, err
	}

	user, err := s.Profile(ctx)
	if err != nil {
		s.logger.Warn("profile fetch after login failed", "error", err)
		return nil, nil
	}
	return user, nil
}

// Register creates a new account. The caller signs in separately afterwards.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*session.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var user session.User
	if err := s.client.Post(ctx, "/users/", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Profile fetches the signed-in account's profile and stores it in the
// session.
func (s *AuthService) Profile(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := s.client.Get(ctx, "/users/me/", &user); err != nil {
		return nil, err
	}
	if err := s.store.SetUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword replaces the account password.
func (s *AuthService) ChangePassword(ctx context.Context, current, updated string) error {
	body := map[string]string{
		"current_password": current,
		"new_password":     updated,
	}
	return s.client.Put(ctx, "/users/me/password/", body, nil)
}

// DeleteAccount removes the signed-in account on the backend and clears
// the local session.
func (s *AuthService) DeleteAccount(ctx context.Context) error {
	if err := s.client.Delete(ctx, "/users/me/"); err != nil {
		return err
	}
	return s.store.Clear()
}

// InvalidateRefreshToken asks the backend to blacklist a refresh token.
// Wired into the session store as its logout invalidator.
func (s *AuthService) InvalidateRefreshToken(ctx context.Context, refreshToken string) error {
	return s.client.Post(ctx, "/token/blacklist/", map[string]string{"refresh": refreshToken}, nil)
}
