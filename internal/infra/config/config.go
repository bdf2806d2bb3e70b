// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Control   ControlConfig    `yaml:"control"`
	Player    PlayerConfig     `yaml:"player"`
	Observers []ObserverConfig `yaml:"observers" validate:"dive"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr  string      `yaml:"addr" default:":8080" validate:"required"`
	Hooks HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// ControlConfig represents access control for state-changing operations.
type ControlConfig struct {
	// Token required in the X-Control-Token header. Empty disables the check.
	Token string `yaml:"token"`
}

// PlayerConfig represents playback state configuration.
type PlayerConfig struct {
	ShuffleSeed           uint64 `yaml:"shuffle_seed"` // 0 = non-deterministic
	NotificationTimeoutMs int    `yaml:"notification_timeout_ms" default:"500" validate:"gte=10,lte=10000"`
}

// ObserverConfig represents a single state observer configuration.
type ObserverConfig struct {
	Type     string         `yaml:"type" validate:"required"`
	Settings map[string]any `yaml:"settings"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes, applying environment
// overrides, defaults and validation in that order.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("PODPLAYER_CONTROL_TOKEN"); v != "" {
		c.Control.Token = v
	}
	if v := os.Getenv("PODPLAYER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// NotificationTimeout returns the per-subscriber send timeout.
func (c *Config) NotificationTimeout() time.Duration {
	return time.Duration(c.Player.NotificationTimeoutMs) * time.Millisecond
}

// ControlEnabled returns true if write operations require a token.
func (c *Config) ControlEnabled() bool {
	return c.Control.Token != ""
}
