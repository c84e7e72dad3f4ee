package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")

	os.Setenv("PROCUREMENT_API_URL", "https://erp.example.com")
	os.Setenv("PROCUREMENT_API_TOKEN", "token_default")
	defer func() {
		os.Unsetenv("PROCUREMENT_API_URL")
		os.Unsetenv("PROCUREMENT_API_TOKEN")
	}()

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.Equal(t, 30, cfg.Redis.SnapshotTTLSeconds)
	assert.Equal(t, "status_flow.yaml", cfg.Workflow.StatusFlowPath)
	assert.Empty(t, cfg.Workflow.GuardPackPath)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("PROCUREMENT_API_URL", "https://erp.example.com")
	os.Setenv("PROCUREMENT_API_TOKEN", "token_123")
	os.Setenv("REDIS_URL", "redis://cache:6380/1")
	os.Setenv("GUARD_PACK_PATH", "guards.yaml")
	defer func() {
		os.Unsetenv("APP_ENV")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("PROCUREMENT_API_URL")
		os.Unsetenv("PROCUREMENT_API_TOKEN")
		os.Unsetenv("REDIS_URL")
		os.Unsetenv("GUARD_PACK_PATH")
	}()

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "https://erp.example.com", cfg.Procurement.URL)
	assert.Equal(t, "token_123", cfg.Procurement.Token)
	assert.Equal(t, "redis://cache:6380/1", cfg.Redis.URL)
	assert.Equal(t, "guards.yaml", cfg.Workflow.GuardPackPath)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
PROCUREMENT_API_URL=https://staging.erp.example.com
PROCUREMENT_API_TOKEN=token_staging
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "https://staging.erp.example.com", cfg.Procurement.URL)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	os.Unsetenv("PROCUREMENT_API_URL")
	os.Unsetenv("PROCUREMENT_API_TOKEN")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration")
}
