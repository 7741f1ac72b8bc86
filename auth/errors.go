package auth

import "errors"

// Sentinel errors for auth operations.
var (
	// ErrNoToken indicates no token is available from the source.
	ErrNoToken = errors.New("auth: no token available")

	// ErrMalformedToken indicates the token could not be parsed.
	ErrMalformedToken = errors.New("auth: malformed token")
)
