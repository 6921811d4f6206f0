package client

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-server-key"))
	require.NoError(t, err)
	return s
}

func TestInspectToken_RegisteredClaims(t *testing.T) {
	iat := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	exp := iat.Add(time.Hour)
	tok := signed(t, jwt.RegisteredClaims{
		Subject:   "17",
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	info, err := InspectToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "17", info.Subject)
	require.NotNil(t, info.IssuedAt)
	require.NotNil(t, info.ExpiresAt)
	assert.True(t, info.IssuedAt.Equal(iat))
	assert.True(t, info.ExpiresAt.Equal(exp))
	assert.False(t, info.Expired(iat))
	assert.True(t, info.Expired(exp))
}

func TestInspectToken_IDClaimFallback(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"id": 42})

	info, err := InspectToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", info.Subject)
	assert.Nil(t, info.ExpiresAt)
	assert.False(t, info.Expired(time.Now()))
}

func TestInspectToken_Opaque(t *testing.T) {
	_, err := InspectToken("not-a-jwt")
	assert.Error(t, err)
}
