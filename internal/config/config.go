// Package config provides application configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (CTFSCOPE_ROOT, CTFSCOPE_LOG_LEVEL, CTFSCOPE_LOG_JSON)
//  2. Config file (~/.ctfscope/config.yaml or ./config.yaml)
//  3. Default values (root defaults to the user's home directory)
//
// The root boundary is the only behavioral knob: everything a client can
// observe is confined beneath it. Validation is fail-fast; a server must
// never start with a root it cannot enforce.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrRootNotFound indicates the configured root does not exist.
	ErrRootNotFound = errors.New("root directory does not exist")

	// ErrRootNotDirectory indicates the configured root is not a directory.
	ErrRootNotDirectory = errors.New("root is not a directory")

	// ErrInvalidLogLevel indicates an unrecognized log level name.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Config holds the ctfscope server configuration.
type Config struct {
	// Root is the boundary directory all tool operations are scoped to.
	Root string `mapstructure:"root"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// LogJSON switches stderr logging to JSON format.
	LogJSON bool `mapstructure:"log_json"`
}

// Load builds the configuration from defaults, an optional config file, and
// environment overrides, then validates it (fail-fast).
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(home, ".ctfscope"))
	v.AddConfigPath(".")

	v.SetDefault("root", home)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)

	v.SetEnvPrefix("CTFSCOPE")
	for _, key := range []string{"root", "log_level", "log_json"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for startup-blocking problems.
func (c *Config) Validate() error {
	info, err := os.Stat(c.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, c.Root)
		}
		return fmt.Errorf("stat root %s: %w", c.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotDirectory, c.Root)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
}
