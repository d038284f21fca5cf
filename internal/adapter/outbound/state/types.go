// Package state provides file-based persistence for the Montanha Viva
// client session.
//
// The session.json file stores the fields of the session that survive
// restarts: the authenticated flag, the refresh token, and the cached user
// profile. The access token is intentionally not part of the schema. The
// package provides atomic writes, cross-process file locking, and backups.
package state

import (
	"time"

	"github.com/montanha-viva/mv-cli/internal/domain/session"
)

// SessionState is the top-level structure persisted in session.json.
type SessionState struct {
	// Version is the schema version for forward compatibility. Currently "1".
	Version string `json:"version"`

	// Authenticated mirrors the session's authenticated flag.
	Authenticated bool `json:"authenticated"`

	// RefreshToken is the long-lived credential used to bootstrap a new
	// access token after a restart. Empty when signed out.
	RefreshToken string `json:"refresh_token,omitempty"`

	// User is the cached profile of the signed-in account.
	User *session.User `json:"user,omitempty"`

	// CreatedAt is when this state file was first created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when this state file was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}
