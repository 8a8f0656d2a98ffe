// Package common defines shared constants and sentinel errors used across
// openmuse components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Auth errors. ErrUnauthenticated covers missing, malformed, and
	// expired tokens alike; callers must not branch on the specific cause.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("unauthenticated")

	// Registration errors.
	ErrDuplicateUsername = errors.New("username already registered")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrPasswordTooLong   = errors.New("password exceeds 72 bytes")

	// Persistence collaborator failure surfaced to callers of
	// user-intended writes.
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// AuthHeaderName is the HTTP header carrying the bearer token.
const AuthHeaderName = "Authorization"

// MaskedSecret is the fixed placeholder standing in for a stored API key in
// any payload leaving the server. On input it means "keep the stored value".
// It is a protocol constant shared with clients and is never persisted.
const MaskedSecret = "********"
