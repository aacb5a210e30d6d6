// Package config loads layertool settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. LAYERTOOL_LOG_LEVEL.
const Prefix = "LAYERTOOL"

type Config struct {
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"warn"`
	LogFormat    string        `envconfig:"LOG_FORMAT" default:"text"`
	HistoryLimit int           `envconfig:"HISTORY_LIMIT" default:"50"`
	Store        string        `envconfig:"STORE" default:"memory"`
	SpoolDir     string        `envconfig:"SPOOL_DIR"`
	Workers      int           `envconfig:"WORKERS" default:"2"`
	CycleTimeout time.Duration `envconfig:"CYCLE_TIMEOUT" default:"5s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("config: unknown log format %q", cfg.LogFormat)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("config: workers must be positive, got %d", cfg.Workers)
	}
	return &cfg, nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: log level: %w", err)
	}
	return l, nil
}
