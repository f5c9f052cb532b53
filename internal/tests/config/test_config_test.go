package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadTestConfig_Defaults(t *testing.T) {
	t.Setenv("SHOPAUTH_TEST_DB_DSN", "")

	cfg := LoadTestConfig(t)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, ":memory:", cfg.DSN)
	assert.Equal(t, "memory", cfg.RateLimitStore)
	assert.Equal(t, 5, cfg.AuthLimit.MaxRequests)
}

func TestGetProjectRoot(t *testing.T) {
	root := GetProjectRoot()
	_, err := os.Stat(filepath.Join(root, "go.mod"))
	assert.NoError(t, err)
}
