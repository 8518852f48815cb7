package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether the token's embedded expiry claim lies in
// the past. The claim is decoded without signature verification: this is a
// client-side hint for deciding when to drop a restored session, never an
// authorization decision; the backend alone validates tokens.
//
// A token that cannot be decoded is treated as expired. A decodable token
// without an expiry claim is treated as still valid.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return exp.Before(now)
}
