// Package config builds configurations for end-to-end tests.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/you/shopauth/internal/config"
)

// LoadTestConfig returns a configuration backed by an in-memory SQLite
// database and process-local rate limit counters. SHOPAUTH_TEST_DB_DSN
// switches the database to Postgres.
func LoadTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Port:           "0",
		GinMode:        "test",
		Environment:    "test",
		LogLevel:       "error",
		LogFormat:      "text",
		DBDriver:       "sqlite",
		DSN:            ":memory:",
		CookieName:     "session_token",
		SessionTTL:     7 * 24 * time.Hour,
		SlidingSession: true,
		SweepInterval:  time.Hour,
		BcryptCost:     4,
		RateLimitStore: "memory",
		AuthLimit:      config.RatePolicy{Window: 15 * time.Minute, MaxRequests: 5},
		CatalogLimit:   config.RatePolicy{Window: 15 * time.Minute, MaxRequests: 100},
	}
	if dsn := os.Getenv("SHOPAUTH_TEST_DB_DSN"); dsn != "" {
		cfg.DBDriver = "postgres"
		cfg.DSN = dsn
	}

	validateTestConfig(t, cfg)
	return cfg
}

// validateTestConfig applies the production checks except the port, which
// tests leave to httptest
func validateTestConfig(t *testing.T, cfg *config.Config) {
	t.Helper()

	probe := *cfg
	probe.Port = "8080"
	if err := probe.Validate(); err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}
}

// GetProjectRoot returns the project root directory for config files
func GetProjectRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}

	// Navigate up to find the project root (where go.mod exists)
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd
		}

		parent := filepath.Dir(wd)
		if parent == wd {
			break
		}
		wd = parent
	}

	return "."
}
