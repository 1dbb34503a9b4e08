// Package config provides YAML configuration loading and validation for the
// ircd chat server.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure for the ircd server.
type Config struct {
	// ListenAddr is the dual-protocol (plain + WebSocket) chat listener
	// address (e.g. ":8080"). Defaults to ":8080" when omitted.
	ListenAddr string `yaml:"listen_addr"`

	// AdminAddr is the listen address for the /healthz and /stats HTTP
	// server. Defaults to "127.0.0.1:9090" when omitted.
	AdminAddr string `yaml:"admin_addr"`

	// IdleTTLSeconds is how long a connection may sit without inbound
	// activity before the cleanup tick evicts it. Defaults to 600 when
	// omitted (must be >= 1).
	IdleTTLSeconds int `yaml:"idle_ttl_seconds"`

	// CleanupTickSeconds is the interval between idle-eviction sweeps.
	// Defaults to 60 when omitted (must be >= 1).
	CleanupTickSeconds int `yaml:"cleanup_tick_seconds"`

	// LogPath is the append-only chat log file path. Defaults to
	// "irc_server.log" when omitted.
	LogPath string `yaml:"log_path"`

	// LogLevel sets the minimum structured-log severity: "debug", "info",
	// "warn", or "error". Defaults to "info" when omitted.
	LogLevel string `yaml:"log_level"`
}

// validLogLevels is the set of accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// IdleTTL returns IdleTTLSeconds as a time.Duration.
func (c *Config) IdleTTL() time.Duration {
	return time.Duration(c.IdleTTLSeconds) * time.Second
}

// CleanupTick returns CleanupTickSeconds as a time.Duration.
func (c *Config) CleanupTick() time.Duration {
	return time.Duration(c.CleanupTickSeconds) * time.Second
}

// LoadConfig reads the YAML file at path, unmarshals it into Config, applies
// defaults, and validates all fields. On validation failure it returns one
// error that joins every validation failure encountered.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: cannot read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: cannot parse %q: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed for %q: %w", path, err)
	}

	return &cfg, nil
}

// Default returns a Config populated entirely with defaults, useful when no
// config file is supplied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in zero-value optional fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.AdminAddr == "" {
		cfg.AdminAddr = "127.0.0.1:9090"
	}
	if cfg.IdleTTLSeconds == 0 {
		cfg.IdleTTLSeconds = 600
	}
	if cfg.CleanupTickSeconds == 0 {
		cfg.CleanupTickSeconds = 60
	}
	if cfg.LogPath == "" {
		cfg.LogPath = "irc_server.log"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// validate checks that all fields are populated and enumerated fields
// contain only valid values.
func validate(cfg *Config) error {
	var errs []error

	if cfg.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr is required"))
	}
	if cfg.AdminAddr == "" {
		errs = append(errs, errors.New("admin_addr is required"))
	}
	if cfg.IdleTTLSeconds < 1 {
		errs = append(errs, fmt.Errorf("idle_ttl_seconds must be >= 1, got %d", cfg.IdleTTLSeconds))
	}
	if cfg.CleanupTickSeconds < 1 {
		errs = append(errs, fmt.Errorf("cleanup_tick_seconds must be >= 1, got %d", cfg.CleanupTickSeconds))
	}
	if cfg.LogPath == "" {
		errs = append(errs, errors.New("log_path is required"))
	}
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level %q must be one of: debug, info, warn, error", cfg.LogLevel))
	}

	return errors.Join(errs...)
}
