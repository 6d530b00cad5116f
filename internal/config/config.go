// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/run"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Limits    LimitsConfig
	Mirror    MirrorConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LimitsConfig holds the per-run resource bounds. Defaults are the fixed
// production constants.
type LimitsConfig struct {
	LoopTimeoutMillis int `envconfig:"LOOP_TIMEOUT_MILLIS" default:"5000"`
	EventLimit        int `envconfig:"EVENT_LIMIT" default:"500"`
	HardCeilingMillis int `envconfig:"HARD_CEILING_MILLIS" default:"6000"`
	MaxCallStackDepth int `envconfig:"MAX_CALL_STACK_DEPTH" default:"2048"`
}

// Limits converts the raw millisecond values into the runtime form.
func (l LimitsConfig) Limits() run.Limits {
	return run.Limits{
		LoopTimeout:       time.Duration(l.LoopTimeoutMillis) * time.Millisecond,
		EventLimit:        l.EventLimit,
		HardCeiling:       time.Duration(l.HardCeilingMillis) * time.Millisecond,
		MaxCallStackDepth: l.MaxCallStackDepth,
	}
}

// MirrorConfig holds the human-readable side-channel configuration.
type MirrorConfig struct {
	Enabled bool   `envconfig:"MIRROR_ENABLED" default:"true"`
	Path    string `envconfig:"MIRROR_PATH" default:"events.log"`
}

// LogConfig holds operational logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds submission rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"10"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"20"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Limits: LimitsConfig{
			LoopTimeoutMillis: 5000,
			EventLimit:        500,
			HardCeilingMillis: 6000,
			MaxCallStackDepth: 2048,
		},
		Mirror: MirrorConfig{
			Enabled: true,
			Path:    "events.log",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
			Enabled:           true,
		},
	}
}
