package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the payload the client reads out of a stored token.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// decodeClaims parses the token payload WITHOUT verifying the signature.
// The client has no key material; the server re-validates the token on every
// request, so a locally tampered token only misleads its own display until
// the first API call rejects it.
func decodeClaims(tokenString string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// expired reports whether the token's exp claim lies in the past. A token
// without exp counts as expired.
func (c *tokenClaims) expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.Before(now)
}
