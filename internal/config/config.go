// Package config provides environment-driven configuration for the server,
// mail transport and maintenance tasks.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration shared by the server and CLI commands.
type Config struct {
	Port        int
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	SenderName   string

	SiteURL     string
	CompanyName string
	// AdminEmails receive admin notifications and the daily digest.
	// AdminEmail is the single fallback when the list is empty.
	AdminEmails []string
	AdminEmail  string

	CronInterval time.Duration
}

// Load reads configuration from environment variables with defaults suited
// to local development. DATABASE_URL has no default and is validated by the
// commands that need it.
func Load() Config {
	return Config{
		Port:        getEnvInt("PORT", 8080),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		SessionTTL:    getEnvDuration("SESSION_TTL", 30*time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SenderEmail:  getEnv("SENDER_EMAIL", "careers@localhost"),
		SenderName:   getEnv("SENDER_NAME", "The Hiring Team"),

		SiteURL:     getEnv("SITE_URL", "http://localhost:8080"),
		CompanyName: getEnv("COMPANY_NAME", "Acme"),
		AdminEmails: getEnvList("ADMIN_EMAILS", nil),
		AdminEmail:  os.Getenv("ADMIN_EMAIL"),

		CronInterval: getEnvDuration("CRON_INTERVAL", 24*time.Hour),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
