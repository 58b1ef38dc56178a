// Package config loads parsort settings from YAML or JSON files with PARSORT_* environment overrides.
package config

import (
	"fmt"
	"log/slog"
)

// EnvPrefix prefixes every environment override, e.g. PARSORT_POOL_WORKERS
const EnvPrefix = "PARSORT"

// Config is the full parsort configuration
type Config struct {
	Pool    PoolConfig    `yaml:"pool" json:"pool" env:"POOL"`
	Sort    SortConfig    `yaml:"sort" json:"sort" env:"SORT"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" env:"METRICS"`
	Log     LogConfig     `yaml:"log" json:"log" env:"LOG"`
}

type PoolConfig struct {
	Workers int `yaml:"workers" json:"workers" env:"WORKERS"`
}

type SortConfig struct {
	FanoutThreshold int    `yaml:"fanout_threshold" json:"fanout_threshold" env:"FANOUT_THRESHOLD"`
	Pivot           string `yaml:"pivot" json:"pivot" env:"PIVOT"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" env:"ENABLED"`
	Addr    string `yaml:"addr" json:"addr" env:"ADDR"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level" env:"LEVEL"`
}

// Default returns the built-in configuration: 4 workers, fan-out above 10000 elements, midpoint pivot
func Default() *Config {
	return &Config{
		Pool: PoolConfig{Workers: 4},
		Sort: SortConfig{FanoutThreshold: 10000, Pivot: "midpoint"},
		Metrics: MetricsConfig{
			Addr: ":9464",
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadFile reads path over the defaults, applies environment overrides and validates.
// An empty path skips the file and only applies the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := Load(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnvOverrides(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every field against its allowed range
func (c *Config) Validate() error {
	if err := Validate(c,
		RangeValidator("Pool.Workers", 1, 4096),
		RangeValidator("Sort.FanoutThreshold", 1, 1<<40),
		OneOfValidator("Sort.Pivot", "midpoint", "median3"),
		OneOfValidator("Log.Level", "debug", "info", "warn", "error"),
	); err != nil {
		return err
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("validation failed: metrics.addr is required when metrics are enabled")
	}
	return nil
}

// SlogLevel returns Log.Level as a slog.Level
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
