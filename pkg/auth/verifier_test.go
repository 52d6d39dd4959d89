package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestVerifier_HS256(t *testing.T) {
	v := NewVerifier("s3cret", nil)
	token := sign(t, "s3cret", jwt.MapClaims{"sub": "profile-1", "exp": time.Now().Add(time.Hour).Unix()})

	sub, err := v.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "profile-1", sub)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("s3cret", nil)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := v.Validate(sign(t, "other", jwt.MapClaims{"sub": "p"}))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := v.Validate(sign(t, "s3cret", jwt.MapClaims{"sub": "p", "exp": time.Now().Add(-time.Minute).Unix()}))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		_, err := v.Validate(sign(t, "s3cret", jwt.MapClaims{"email": "x@y"}))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("hmac disabled", func(t *testing.T) {
		_, err := NewVerifier("", nil).Validate(sign(t, "s3cret", jwt.MapClaims{"sub": "p"}))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
