// Package common defines shared constants and sentinel errors used across
// the journal backend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors. ErrorNotFound covers both a genuinely absent
	// row and a row owned by another user; the two cases are intentionally
	// indistinguishable so resource existence never leaks across accounts.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors. ErrMissingToken means no credential was presented at all;
	// ErrMalformedToken a credential that does not parse; ErrInvalidToken a
	// parseable token with a bad signature.
	ErrMissingToken   = errors.New("missing token")
	ErrMalformedToken = errors.New("malformed token")
	ErrInvalidToken   = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
