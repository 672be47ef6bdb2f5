package apiclient

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenClaims mirrors the payload the backend signs.
type TokenClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseTokenClaims reads the claims of token without verifying the
// signature. The client cannot verify it and only uses the result to decide
// whether a persisted session is worth restoring.
func ParseTokenClaims(token string) (*TokenClaims, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}

// Expired reports whether the token's exp claim is before now. Tokens
// without exp never expire.
func (c *TokenClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.Time.After(now)
}
