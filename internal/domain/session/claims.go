package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is the subset of JWT claims the CLI displays. The backend signs
// its tokens; the client never verifies them (it has no key and does not
// need to), it only reads the registered claims for display.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry lies in the past.
// Tokens without an exp claim are never considered expired.
func (i TokenInfo) Expired() bool {
	return !i.ExpiresAt.IsZero() && time.Now().After(i.ExpiresAt)
}

// ParseTokenInfo extracts display claims from a JWT without verifying its
// signature.
func ParseTokenInfo(token string) (TokenInfo, error) {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}, fmt.Errorf("parse token: %w", err)
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// ErrNoToken is returned by token inspection helpers when the session holds
// no access token.
var ErrNoToken = errors.New("no access token in session")

// TokenInfoFromStore reads the current access token from the store and
// parses its claims.
func TokenInfoFromStore(s *Store) (TokenInfo, error) {
	token := s.AccessToken()
	if token == "" {
		return TokenInfo{}, ErrNoToken
	}
	return ParseTokenInfo(token)
}
