// Package session holds the authentication state of the Montanha Viva client.
//
// The Session is owned exclusively by the Store; the API client and the CLI
// read and update it only through the Store's methods. The refresh token, the
// user profile, and the authenticated flag survive restarts through a
// Persister; the access token is kept in memory only and is re-obtained
// through the refresh flow on the first request after a restart.
package session

import (
	"errors"
	"time"
)

// User is the profile of the currently signed-in account.
type User struct {
	// ID is the server-side account identifier.
	ID string `json:"id"`

	// Email is the account's sign-in address.
	Email string `json:"email"`

	// Name is the display name.
	Name string `json:"name"`

	// Role is "admin" or "user". Admin unlocks the back-office commands.
	Role string `json:"role"`

	// Points is the reward balance earned by scanning QR codes on routes.
	Points int `json:"points"`

	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// IsAdmin reports whether the user may call the admin endpoints.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}

// Session is the in-process authentication state.
type Session struct {
	// AccessToken is the short-lived bearer credential. Never persisted.
	AccessToken string

	// RefreshToken is the long-lived credential exchanged for new access
	// tokens. Persisted across restarts.
	RefreshToken string

	// User is the profile of the signed-in account, nil when unknown.
	User *User

	// Authenticated is true when the session holds a signed-in account.
	// Maintained in lockstep with User, except for the window between a
	// login and the first profile fetch.
	Authenticated bool
}

// Snapshot is the persisted portion of a Session. The access token is
// deliberately absent: losing it on restart only costs one refresh round
// trip, while persisting it would widen the exposure of the higher-value
// credential.
type Snapshot struct {
	Authenticated bool
	RefreshToken  string
	User          *User
}

// Persister stores and rehydrates session snapshots across process runs.
type Persister interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// ErrNotAuthenticated is returned when an operation requires a signed-in
// session and none is present.
var ErrNotAuthenticated = errors.New("not authenticated")
