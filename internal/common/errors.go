// Package common defines shared constants and sentinel errors used across
// client and server layers of modcat. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Authentication errors. ErrInvalidCredentials deliberately covers both
	// unknown email and wrong password so responses cannot be used to probe
	// which addresses have accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoToken            = errors.New("no token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// Conflict errors.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Validation errors.
	ErrMissingField = errors.New("missing field")
	ErrBadFormat    = errors.New("bad format")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
)
