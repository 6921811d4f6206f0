package client

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the client can read from a bearer token without the
// signing key. It is for display only and must never drive trust decisions.
type TokenInfo struct {
	Subject   string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// Expired reports whether the token carries an expiry at or before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !i.ExpiresAt.After(now)
}

// InspectToken decodes the claims of a JWT without verifying its signature.
// Opaque (non-JWT) tokens yield an error.
func InspectToken(token string) (TokenInfo, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return TokenInfo{}, fmt.Errorf("inspect token: %w", err)
	}

	var info TokenInfo
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iat, err := parsed.Claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.UTC()
		info.IssuedAt = &t
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.UTC()
		info.ExpiresAt = &t
	}
	if info.Subject == "" {
		// Fall back to an "id" claim.
		if mc, ok := parsed.Claims.(jwt.MapClaims); ok {
			if id, ok := mc["id"]; ok {
				info.Subject = fmt.Sprint(id)
			}
		}
	}
	return info, nil
}
