package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator() *JWTAuthenticator {
	return NewJWTAuthenticator(
		"access-secret", "refresh-secret",
		"test-aud", "test-iss",
		time.Hour, 24*time.Hour,
	)
}

func TestGenerateTokens_RoundTrip(t *testing.T) {
	a := newTestAuthenticator()

	access, refresh, err := a.GenerateTokens(42, "owner")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	token, err := a.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "owner", claims["role"])
	assert.Equal(t, "test-iss", claims["iss"])
}

func TestRefreshToken_HasNoRole(t *testing.T) {
	a := newTestAuthenticator()

	_, refresh, err := a.GenerateTokens(7, "player")
	require.NoError(t, err)

	token, err := a.ValidateRefreshToken(refresh)
	require.NoError(t, err)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	_, hasRole := claims["role"]
	assert.False(t, hasRole)
}

func TestTokens_SecretsAreNotInterchangeable(t *testing.T) {
	a := newTestAuthenticator()

	access, refresh, err := a.GenerateTokens(7, "player")
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(refresh)
	assert.Error(t, err)
	_, err = a.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestValidateAccessToken_RejectsExpired(t *testing.T) {
	expired := NewJWTAuthenticator(
		"access-secret", "refresh-secret",
		"test-aud", "test-iss",
		-time.Minute, 24*time.Hour,
	)

	access, _, err := expired.GenerateTokens(7, "player")
	require.NoError(t, err)

	_, err = expired.ValidateAccessToken(access)
	assert.Error(t, err)
}
