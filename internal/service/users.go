package service

import (
	"context"
	"net/url"

	"github.com/montanha-viva/mv-cli/internal/apiclient"
	"github.com/montanha-viva/mv-cli/internal/domain/session"
)

// UserService wraps the admin user management endpoints.
type UserService struct {
	client *apiclient.Client
}

// NewUserService creates a UserService.
func NewUserService(client *apiclient.Client) *UserService {
	return &UserService{client: client}
}

// List returns every registered user. Admin only.
func (s *UserService) List(ctx context.Context) ([]session.User, error) {
	var users []session.User
	err := s.client.Get(ctx, "/users/", &users)
	return users, err
}

// Get returns a single user by id. Admin only.
func (s *UserService) Get(ctx context.Context, id string) (*session.User, error) {
	var user session.User
	if err := s.client.Get(ctx, "/users/"+url.PathEscape(id)+"/", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user account. Admin only.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/users/"+url.PathEscape(id)+"/")
}
