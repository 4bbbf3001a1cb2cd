package config

import (
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

// Env holds settings read from EFFORT_* environment variables. Flags take
// precedence over these; these take precedence over config.yml.
type Env struct {
	Dir      string `envconfig:"DIR"`
	Output   string `envconfig:"OUTPUT"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
	Storage  string `envconfig:"STORAGE"`
}

const namespace = "EFFORT"

// LoadEnv reads the EFFORT_* environment.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

// SlogLevel parses LogLevel, falling back to warn.
func (e *Env) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// Apply overlays environment settings onto cfg.
func (e *Env) Apply(cfg *Config) {
	if e == nil || cfg == nil {
		return
	}
	if e.Storage != "" {
		cfg.Storage.Backend = e.Storage
	}
}
