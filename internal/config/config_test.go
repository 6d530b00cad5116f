package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 5000, cfg.Limits.LoopTimeoutMillis)
	assert.Equal(t, 500, cfg.Limits.EventLimit)
	assert.Equal(t, 6000, cfg.Limits.HardCeilingMillis)
	assert.True(t, cfg.Mirror.Enabled)
	assert.Equal(t, "events.log", cfg.Mirror.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerSecond)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("LOOP_TIMEOUT_MILLIS", "250")
	t.Setenv("EVENT_LIMIT", "42")
	t.Setenv("MIRROR_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9001", cfg.Server.Port)
	assert.Equal(t, 250, cfg.Limits.LoopTimeoutMillis)
	assert.Equal(t, 42, cfg.Limits.EventLimit)
	assert.False(t, cfg.Mirror.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("EVENT_LIMIT", "not a number")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	t.Setenv("EVENT_LIMIT", "garbage")

	cfg := LoadOrDefault()
	assert.Equal(t, 500, cfg.Limits.EventLimit)
}

func TestLimitsConversion(t *testing.T) {
	lc := LimitsConfig{
		LoopTimeoutMillis: 1500,
		EventLimit:        99,
		HardCeilingMillis: 2000,
		MaxCallStackDepth: 64,
	}
	limits := lc.Limits()

	assert.Equal(t, 1500*time.Millisecond, limits.LoopTimeout)
	assert.Equal(t, 99, limits.EventLimit)
	assert.Equal(t, 2*time.Second, limits.HardCeiling)
	assert.Equal(t, 64, limits.MaxCallStackDepth)
}

func TestDefaultMatchesLoad(t *testing.T) {
	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), loaded)
}
