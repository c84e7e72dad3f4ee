package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInit_Development verifies the development config builds and replaces
// the global logger.
func TestInit_Development(t *testing.T) {
	err := Init("development", "debug")
	require.NoError(t, err)
	assert.NotNil(t, Get())
	assert.True(t, Get().Core().Enabled(0)) // InfoLevel
}

// TestInit_Production verifies the production config builds.
func TestInit_Production(t *testing.T) {
	err := Init("production", "warn")
	require.NoError(t, err)
	assert.NotNil(t, Get())
}

// TestInit_InvalidLevel verifies an unparseable level falls back to the
// config default instead of failing.
func TestInit_InvalidLevel(t *testing.T) {
	err := Init("development", "not-a-level")
	assert.NoError(t, err)
}

// TestGet_Uninitialized verifies Get returns a usable no-op logger before Init.
func TestGet_Uninitialized(t *testing.T) {
	saved := globalLogger
	globalLogger = nil
	defer func() { globalLogger = saved }()

	l := Get()
	require.NotNil(t, l)
	l.Info("must not panic")
}

// TestNamed verifies Named returns a child logger.
func TestNamed(t *testing.T) {
	require.NoError(t, Init("development", "info"))
	assert.NotNil(t, Named("gateway"))
}
