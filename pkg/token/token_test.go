package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("some-remote-secret"))
	require.NoError(t, err)
	return signed
}

func TestInspect(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	tokenString := signedToken(t, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(expiry),
	})

	claims, err := Inspect(tokenString)

	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, expiry.Unix(), claims.ExpiresAt.Unix())
}

func TestInspect_Malformed(t *testing.T) {
	_, err := Inspect("not-a-jwt")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		expired bool
	}{
		{
			name: "future expiry",
			token: signedToken(t, jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}),
			expired: false,
		},
		{
			name: "past expiry",
			token: signedToken(t, jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			}),
			expired: true,
		},
		{
			name:    "no expiry claim",
			token:   signedToken(t, jwt.RegisteredClaims{Subject: "42"}),
			expired: false,
		},
		{
			name:    "malformed",
			token:   "garbage",
			expired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, IsExpired(tt.token))
		})
	}
}
