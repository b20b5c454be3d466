package config

import (
	"strings"
	"time"

	"github.com/marmos91/cachewatch/pkg/stats"
)

// ApplyDefaults sets default values for any unspecified configuration
// fields.
//
// Zero values (0, "", false, nil) are replaced with defaults; explicit
// values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyStatsDefaults(&cfg.Stats)
	applyCacheDefaults(&cfg.Cache)
	applyMetricsDefaults(&cfg.Metrics)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)
}

// applyStatsDefaults sets statistics collector defaults.
func applyStatsDefaults(cfg *StatsConfig) {
	if cfg.WindowSize == 0 {
		cfg.WindowSize = stats.DefaultWindowSize
	}
	if cfg.SummaryInterval == 0 {
		cfg.SummaryInterval = stats.DefaultSummaryInterval
	}
	if cfg.ReportInterval == 0 {
		cfg.ReportInterval = stats.DefaultReportInterval
	}
}

// applyCacheDefaults sets cache defaults.
func applyCacheDefaults(cfg *CacheConfig) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}

	if cfg.Memory == nil {
		cfg.Memory = make(map[string]any)
	}
	if _, ok := cfg.Memory["default_ttl"]; !ok {
		cfg.Memory["default_ttl"] = 5 * time.Minute
	}
	if _, ok := cfg.Memory["cleanup_interval"]; !ok {
		cfg.Memory["cleanup_interval"] = time.Minute
	}
}

// applyMetricsDefaults sets metrics exposition defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	// Enabled defaults to false

	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// GetDefaultConfig returns a Config with all default values applied.
//
// Useful for generating sample configuration files, testing and
// documentation.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Cache: CacheConfig{
			Memory: make(map[string]any),
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
