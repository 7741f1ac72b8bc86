package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the user identity carried in the bearer token, used to
// tag locally persisted analysis records.
type Identity struct {
	UserID string
	Role   string
}

type identityClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// ParseIdentity decodes the subject and role claims from a JWT without
// verifying its signature. Verification happens server-side; this is
// only for tagging local state, never for authorization decisions.
func ParseIdentity(token string) (Identity, error) {
	var claims identityClaims

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	return Identity{
		UserID: claims.Subject,
		Role:   claims.Role,
	}, nil
}
