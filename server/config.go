// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-mcp/mcptask"
)

// Duration wraps time.Duration with YAML support for values like "60s".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the tunable behavior of the task subsystem.
type Config struct {
	// DefaultTTL applies when a task directive omits ttl.
	DefaultTTL Duration `yaml:"defaultTTL"`
	// TTLBuffer extends the stored retention beyond the caller-visible
	// TTL so results remain retrievable shortly after nominal expiry.
	TTLBuffer Duration `yaml:"ttlBuffer"`
	// PollInterval is the polling hint reported on every task.
	PollInterval Duration `yaml:"pollInterval"`
	// ListPageSize caps the number of tasks returned per tasks/list page.
	ListPageSize int `yaml:"listPageSize"`
	// Workers sizes the durable executor's worker pool.
	Workers int `yaml:"workers"`
	// SweepSchedule is the cron spec for the expiry sweep.
	SweepSchedule string `yaml:"sweepSchedule"`
}

// DefaultConfig returns the configuration used when none is provided.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:    Duration(mcptask.DefaultTTL),
		TTLBuffer:     Duration(mcptask.DefaultTTLBuffer),
		PollInterval:  Duration(mcptask.DefaultPollInterval),
		ListPageSize:  50,
		Workers:       4,
		SweepSchedule: "@every 1m",
	}
}

// LoadConfig reads a YAML config file, filling omitted fields with defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for unusable values.
func (c Config) Validate() error {
	if c.DefaultTTL <= 0 {
		return fmt.Errorf("defaultTTL must be positive")
	}
	if c.TTLBuffer < 0 {
		return fmt.Errorf("ttlBuffer cannot be negative")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("pollInterval must be positive")
	}
	if c.ListPageSize <= 0 {
		return fmt.Errorf("listPageSize must be positive")
	}
	return nil
}
