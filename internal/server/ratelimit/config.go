package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig holds the rate limit for a single endpoint pattern.
// A Limit of 0 means unlimited.
type EndpointConfig struct {
	Pattern string
	Method  string // empty matches any method
	Limit   int    // requests per window
	Window  time.Duration
	Burst   int
}

// Config holds the limiter configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	EndpointConfigs []EndpointConfig
}

func defaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    120,
		DefaultWindow:   time.Minute,
		CleanupInterval: 10 * time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint tiers. Public intake
// endpoints are limited aggressively since they accept anonymous traffic;
// authenticated admin endpoints get a higher allowance; health and metrics
// are never limited.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Pattern: "/health", Limit: 0},
		{Pattern: "/metrics", Limit: 0},

		{Pattern: "/submit/", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Pattern: "/applications/draft", Method: "POST", Limit: 20, Window: time.Minute, Burst: 10},
		{Pattern: "/applications/resume/", Limit: 30, Window: time.Minute, Burst: 10},
		{Pattern: "/auth/login", Method: "POST", Limit: 5, Window: time.Minute, Burst: 5},

		{Pattern: "/export.csv", Method: "GET", Limit: 10, Window: time.Minute, Burst: 3},
		{Pattern: "/applications", Limit: 300, Window: time.Minute, Burst: 60},
		{Pattern: "/jobs", Limit: 300, Window: time.Minute, Burst: 60},
		{Pattern: "/templates/", Limit: 60, Window: time.Minute, Burst: 20},
		{Pattern: "/form-mappings", Limit: 60, Window: time.Minute, Burst: 20},
	}
}

// LoadConfig builds a Config from environment variables, falling back to
// defaults for anything unset.
func LoadConfig() *Config {
	cfg := defaultConfig()

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		cfg.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("RATE_LIMIT_DEFAULT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DefaultLimit = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultWindow = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("RATE_LIMIT_CLEANUP_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CleanupInterval = time.Duration(n) * time.Minute
		}
	}
	return cfg
}
