package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the portal's JWT payload the client cares about.
type Claims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// PeekClaims decodes a token's claims WITHOUT verifying its signature. The
// client has no signing key and never needs one: the result is display-only
// (which dashboard to show, when the token expires), while the server stays
// the sole authority on whether the token is accepted.
func PeekClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token claims: %w", err)
	}
	return claims, nil
}
