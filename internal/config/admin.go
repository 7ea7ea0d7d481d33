package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// AdminConfig holds the admin credential and bcrypt settings. The service
// has a single configured administrator; the password is stored only as a
// bcrypt hash in the environment.
type AdminConfig struct {
	Email        string
	PasswordHash string
	BcryptCost   int
}

// NewAdminConfig reads ADMIN_LOGIN_EMAIL, ADMIN_PASSWORD_HASH (both
// required for the admin surface) and BCRYPT_COST (default 12).
func NewAdminConfig() (*AdminConfig, error) {
	email := os.Getenv("ADMIN_LOGIN_EMAIL")
	if email == "" {
		return nil, fmt.Errorf("ADMIN_LOGIN_EMAIL is required but not set")
	}
	hash := os.Getenv("ADMIN_PASSWORD_HASH")
	if hash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is required but not set")
	}

	cost := 12
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
		}
		cost = parsed
	}
	if cost < bcrypt.MinCost || cost > 14 {
		return nil, fmt.Errorf("bcrypt cost out of range: %d", cost)
	}

	return &AdminConfig{Email: email, PasswordHash: hash, BcryptCost: cost}, nil
}

// HashPassword hashes a password for storage in ADMIN_PASSWORD_HASH.
func (c *AdminConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a login attempt against the stored hash.
func (c *AdminConfig) VerifyPassword(pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(pw)) == nil
}

// HashPassword hashes a password with the given cost, for the CLI helper
// that generates ADMIN_PASSWORD_HASH values.
func HashPassword(pw string, cost int) (string, error) {
	if cost == 0 {
		cost = 12
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
