package tokenstore

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expired reports whether raw is a JWT whose exp claim is before now.
// The signature is not checked; that is the API's job. Tokens that are not
// JWTs, or carry no exp, are never considered expired.
func Expired(raw string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
