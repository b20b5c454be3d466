package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/marmos91/cachewatch/pkg/cache"
	"github.com/marmos91/cachewatch/pkg/metrics"
	"github.com/marmos91/cachewatch/pkg/stats"
)

// CreateCollector builds the statistics collector from configuration.
func CreateCollector(cfg *StatsConfig) *stats.Collector {
	return stats.New(stats.Config{
		WindowSize: cfg.WindowSize,
	})
}

// CreateReporter builds the periodic statistics reporter from configuration.
//
// The reporter is initialized but not started. Call Start to begin
// background logging.
func CreateReporter(cfg *StatsConfig, collector *stats.Collector) *stats.Reporter {
	return stats.NewReporter(collector, stats.ReporterConfig{
		SummaryInterval: cfg.SummaryInterval,
		ReportInterval:  cfg.ReportInterval,
	})
}

// memoryCacheConfig is the type-specific configuration for the memory cache.
type memoryCacheConfig struct {
	DefaultTTL      time.Duration `mapstructure:"default_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// CreateCache builds the cache selected by configuration.
//
// The Type field determines the implementation; the matching type-specific
// section is decoded from its map and passed to the constructor.
//
// Supported types:
//   - "memory": in-memory TTL cache (pkg/cache)
func CreateCache(cfg *CacheConfig, collector *stats.Collector) (*cache.Cache, error) {
	switch cfg.Type {
	case "memory":
		return createMemoryCache(cfg.Memory, collector)
	default:
		return nil, fmt.Errorf("unknown cache type: %q", cfg.Type)
	}
}

// createMemoryCache decodes the memory section and builds the cache.
func createMemoryCache(options map[string]any, collector *stats.Collector) (*cache.Cache, error) {
	var cacheCfg memoryCacheConfig

	// Durations may arrive as time.Duration values (defaults) or as strings
	// like "5m" (YAML/env), so decode with a duration hook.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     &cacheCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build memory cache config decoder: %w", err)
	}
	if err := decoder.Decode(options); err != nil {
		return nil, fmt.Errorf("failed to decode memory cache config: %w", err)
	}

	return cache.New(cache.Config{
		DefaultTTL:      cacheCfg.DefaultTTL,
		CleanupInterval: cacheCfg.CleanupInterval,
	}, collector), nil
}

// MetricsResult contains the metrics components created from configuration.
type MetricsResult struct {
	// Server is the HTTP server exposing Prometheus metrics (nil if disabled)
	Server *metrics.Server
}

// InitializeMetrics creates and initializes metrics exposition based on
// configuration.
//
// If metrics are enabled, the global Prometheus registry is initialized,
// the stats exporter is registered against it, and the exposition server is
// created (but not started). If disabled, the returned result carries a nil
// server and nothing is registered.
func InitializeMetrics(cfg *MetricsConfig, collector *stats.Collector) (*MetricsResult, error) {
	if !cfg.Enabled {
		return &MetricsResult{Server: nil}, nil
	}

	metrics.InitRegistry()

	if err := metrics.GetRegistry().Register(metrics.NewStatsExporter(collector)); err != nil {
		return nil, fmt.Errorf("failed to register stats exporter: %w", err)
	}

	server := metrics.NewServer(metrics.ServerConfig{
		Port: cfg.Port,
	})

	return &MetricsResult{Server: server}, nil
}
