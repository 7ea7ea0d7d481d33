package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_ADDR", "SESSION_TTL", "SMTP_PORT", "CRON_INTERVAL", "ADMIN_EMAILS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 24*time.Hour, cfg.CronInterval)
	assert.Empty(t, cfg.AdminEmails)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("ADMIN_EMAILS", "a@example.com, b@example.com,")
	t.Setenv("CRON_INTERVAL", "1h")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AdminEmails)
	assert.Equal(t, time.Hour, cfg.CronInterval)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("SESSION_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestNewJWTConfig_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := NewJWTConfig()
	assert.Error(t, err)
}

func TestNewJWTConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours)
}

func TestNewJWTConfig_RejectsNonPositiveExpiry(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION_HOURS", "0")

	_, err := NewJWTConfig()
	assert.Error(t, err)
}

func TestNewAdminConfig_RequiresCredentials(t *testing.T) {
	t.Setenv("ADMIN_LOGIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	_, err := NewAdminConfig()
	assert.Error(t, err)
}

func TestNewAdminConfig_RejectsCostOutOfRange(t *testing.T) {
	t.Setenv("ADMIN_LOGIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$12$placeholderplaceholderplaceh")
	t.Setenv("BCRYPT_COST", "31")

	_, err := NewAdminConfig()
	assert.Error(t, err)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery", 4)
	require.NoError(t, err)

	cfg := &AdminConfig{Email: "admin@example.com", PasswordHash: hash, BcryptCost: 4}

	assert.True(t, cfg.VerifyPassword("correct-horse-battery"))
	assert.False(t, cfg.VerifyPassword("wrong"))
}
