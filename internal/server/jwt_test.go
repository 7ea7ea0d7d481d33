package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiringdesk/applicant-tracker/internal/config"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})

	token, err := svc.GenerateToken("admin@example.com")
	require.NoError(t, err)

	email, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", email)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	other := NewJWTService(&config.JWTConfig{Secret: "other-secret", ExpirationHours: 1})

	token, err := svc.GenerateToken("admin@example.com")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_Garbage(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
