// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is a local, non-authoritative view of an access token's payload.
// The signature is not verified; only the server can decide whether a token
// is actually valid. This exists so the client can skip a round trip when a
// token is obviously expired.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// InspectToken decodes the claims of a JWT access token without verifying
// its signature.
func InspectToken(token string) (Claims, error) {
	var out Claims

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return out, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return out, errors.New("unexpected claims type")
	}

	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	return out, nil
}

// Expired reports whether the token's exp claim lies in the past. Tokens
// without an exp claim are never considered expired locally.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return now.After(c.ExpiresAt)
}
