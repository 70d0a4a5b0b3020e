// Package token inspects the bearer tokens issued by the remote booking API.
// The gateway never signs or validates tokens itself; the remote server owns
// authentication. It only peeks at the expiry claim so that a stale session
// is bounced back to the login screen instead of producing a doomed upstream
// call.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken indicates the bearer token is not a parseable JWT
var ErrMalformedToken = errors.New("malformed bearer token")

// parser performs claim extraction without signature verification. The
// signature can only be checked by the remote server that holds the secret.
var parser = jwt.NewParser()

// Inspect extracts the registered claims from an upstream bearer token.
func Inspect(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// ExpiresAt returns the token's expiry time, or the zero time when it has no
// expiry claim.
func ExpiresAt(tokenString string) (time.Time, error) {
	claims, err := Inspect(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether the token carries an expiry claim in the past.
// Malformed tokens count as expired so the middleware treats them uniformly.
func IsExpired(tokenString string) bool {
	expiry, err := ExpiresAt(tokenString)
	if err != nil {
		return true
	}
	if expiry.IsZero() {
		return false
	}
	return time.Now().After(expiry)
}
