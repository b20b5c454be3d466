// Package config loads, defaults and validates cachewatch configuration,
// and provides factories that build components from it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete cachewatch configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (CACHEWATCH_*)
//  2. Configuration file (YAML)
//  3. Default values
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Stats configures the statistics collector and periodic reporter
	Stats StatsConfig `mapstructure:"stats"`

	// Cache specifies the cache type and type-specific configuration
	Cache CacheConfig `mapstructure:"cache"`

	// Metrics configures Prometheus exposition
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// StatsConfig configures the statistics collector and its reporter.
type StatsConfig struct {
	// WindowSize is the latency sample window capacity per operation kind
	WindowSize int `mapstructure:"window_size" validate:"required,gt=0"`

	// SummaryInterval is how often the one-line summary is logged
	SummaryInterval time.Duration `mapstructure:"summary_interval" validate:"required,gt=0"`

	// ReportInterval is how often the full report is logged
	ReportInterval time.Duration `mapstructure:"report_interval" validate:"required,gt=0"`
}

// CacheConfig specifies cache configuration.
//
// The Type field determines which cache implementation is used.
// Only the corresponding type-specific configuration section is used.
type CacheConfig struct {
	// Type specifies which cache implementation to use
	// Valid values: memory
	Type string `mapstructure:"type" validate:"required,oneof=memory"`

	// Memory contains memory-cache-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory"`
}

// MetricsConfig configures the Prometheus exposition server.
type MetricsConfig struct {
	// Enabled controls whether the metrics HTTP server is started
	Enabled bool `mapstructure:"enabled"`

	// Port for the metrics HTTP server
	Port int `mapstructure:"port" validate:"gte=0,lte=65535"`
}

// Load reads the configuration from file and environment, applies defaults
// and validates the result.
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file
// settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the CACHEWATCH_ prefix and underscores
	// Example: CACHEWATCH_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("CACHEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists. A missing file
// is acceptable; defaults are used instead.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		// An explicitly specified but missing file is also acceptable
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "cachewatch")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "cachewatch")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
