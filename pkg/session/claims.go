package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aretw0/inkwell/pkg/core"
)

// Claims is what a JWT credential says about itself. It is informational
// only: the server is the arbiter of whether a credential is valid.
type Claims struct {
	Subject   string
	ExpiresAt *time.Time
}

// Expired reports whether the token claims an expiry in the past.
func (c Claims) Expired() bool {
	return c.ExpiresAt != nil && time.Now().After(*c.ExpiresAt)
}

// Inspect decodes the claims of a JWT credential without verifying its
// signature. ok is false for credentials that are not JWTs.
func Inspect(credential core.Credential) (Claims, bool) {
	if credential == "" {
		return Claims{}, false
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(string(credential), jwt.MapClaims{})
	if err != nil {
		return Claims{}, false
	}

	var claims Claims
	if subject, err := token.Claims.GetSubject(); err == nil {
		claims.Subject = subject
	}
	if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		claims.ExpiresAt = &t
	}
	return claims, true
}
