// Package metrics exposes cachewatch statistics to Prometheus.
//
// Exposition is optional: if InitRegistry is never called, IsEnabled
// returns false and no exporter is registered, leaving the text-report and
// log-based observability in pkg/stats as the only output.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// registry is the global Prometheus registry for all cachewatch metrics.
	// Write-once through registryOnce, read-many afterwards.
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global Prometheus registry.
//
// Must be called before registering exporters. Safe to call multiple times;
// subsequent calls are ignored. sync.Once provides the memory barrier that
// makes the write visible to all later reads.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// GetRegistry returns the global Prometheus registry, or nil if
// InitRegistry has not been called.
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled returns true if metrics exposition is enabled.
func IsEnabled() bool {
	return GetRegistry() != nil
}
