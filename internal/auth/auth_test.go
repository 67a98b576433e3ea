package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeys(t *testing.T) *Keys {
	t.Helper()
	k, err := NewKeys("test-secret-key-for-testing-purposes")
	require.NoError(t, err)
	return k
}

func TestNewKeys_EmptySecret(t *testing.T) {
	_, err := NewKeys("")
	assert.Error(t, err)
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	k := newTestKeys(t)

	token, err := k.GenerateToken("42", RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := k.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, RoleUser, claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
	assert.True(t, claims.ExpiresAt.Before(time.Now().Add(TokenExpiry+time.Minute)))
}

func TestValidateToken_Invalid(t *testing.T) {
	k := newTestKeys(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not-a-valid-token"},
		{"malformed JWT", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := k.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	k1, err := NewKeys("secret-key-1")
	require.NoError(t, err)
	k2, err := NewKeys("secret-key-2")
	require.NoError(t, err)

	token, err := k1.GenerateToken("42", RoleUser)
	require.NoError(t, err)

	_, err = k2.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	k := newTestKeys(t)

	claims := Claims{
		Role: RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-7 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key-for-testing-purposes"))
	require.NoError(t, err)

	_, err = k.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongAlgorithm(t *testing.T) {
	k := newTestKeys(t)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role:             RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42"},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = k.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
