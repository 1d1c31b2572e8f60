package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService("test-secret-key-for-testing-purposes", 30*24*time.Hour)
}

func TestNewTokenService(t *testing.T) {
	service := newTestTokenService()
	assert.NotNil(t, service)
	assert.Equal(t, 30*24*time.Hour, service.Expiry())
}

func TestTokenService_Issue(t *testing.T) {
	service := newTestTokenService()

	sessionID, token, expiresAt, err := service.Issue()

	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
}

func TestTokenService_Issue_UniqueSessions(t *testing.T) {
	service := newTestTokenService()

	first, _, _, err := service.Issue()
	require.NoError(t, err)
	second, _, _, err := service.Issue()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenService_Validate_RoundTrip(t *testing.T) {
	service := newTestTokenService()

	sessionID, token, _, err := service.Issue()
	require.NoError(t, err)

	validated, err := service.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, validated)
}

func TestTokenService_Validate_InvalidToken(t *testing.T) {
	service := newTestTokenService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty string", ""},
		{"garbage", "not-a-token"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9.e30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenService_Validate_WrongSecret(t *testing.T) {
	service := newTestTokenService()
	other := NewTokenService("a-completely-different-secret-key!!", 30*24*time.Hour)

	_, token, _, err := other.Issue()
	require.NoError(t, err)

	_, err = service.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Validate_ExpiredToken(t *testing.T) {
	service := NewTokenService("test-secret-key-for-testing-purposes", -time.Hour)

	_, token, _, err := service.Issue()
	require.NoError(t, err)

	_, err = service.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenService_Validate_MissingSessionID(t *testing.T) {
	service := newTestTokenService()

	// A structurally valid token without a session claim is rejected
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key-for-testing-purposes"))
	require.NoError(t, err)

	_, err = service.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
