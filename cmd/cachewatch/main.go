package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marmos91/cachewatch/internal/logger"
	"github.com/marmos91/cachewatch/pkg/cache"
	"github.com/marmos91/cachewatch/pkg/config"
)

// demo workload categories, mirroring the data kinds a caching API client
// would label its lookups with.
var demoCategories = []string{"wellness", "activities", "profile"}

// runDemoWorkload issues a synthetic mix of cache operations so the metrics
// endpoint and periodic logs show live data.
func runDemoWorkload(ctx context.Context, c *cache.Cache) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			category := demoCategories[rng.Intn(len(demoCategories))]
			key := fmt.Sprintf("%s:%d", category, rng.Intn(20))

			switch rng.Intn(10) {
			case 0:
				c.Delete(key, category)
			case 1, 2, 3:
				value := make([]byte, 64+rng.Intn(2048))
				c.Set(key, category, value, 0)
			default:
				c.Get(key, category)
			}
		}
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	logLevel := flag.String("log-level", "", "Log level override (DEBUG, INFO, WARN, ERROR)")
	demo := flag.Bool("demo", false, "Generate a synthetic cache workload")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure logger (flag overrides config)
	level := cfg.Logging.Level
	if *logLevel != "" {
		level = *logLevel
	}
	logger.SetLevel(level)

	fmt.Println("cachewatch - cache observability daemon")
	logger.Info("Log level set to: %s", level)

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire components from configuration
	collector := config.CreateCollector(&cfg.Stats)

	cacheStore, err := config.CreateCache(&cfg.Cache, collector)
	if err != nil {
		log.Fatalf("Failed to create cache: %v", err)
	}
	cacheStore.Start()

	reporter := config.CreateReporter(&cfg.Stats, collector)
	reporter.Start()

	metricsResult, err := config.InitializeMetrics(&cfg.Metrics, collector)
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	metricsDone := make(chan error, 1)
	if metricsResult.Server != nil {
		go func() {
			metricsDone <- metricsResult.Server.Start(ctx)
		}()
	} else {
		logger.Info("Prometheus exposition disabled")
	}

	if *demo {
		logger.Info("Demo workload enabled")
		go runDemoWorkload(ctx, cacheStore)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("cachewatch is running. Press Ctrl+C to stop.")
	<-sigChan

	logger.Info("Shutdown signal received, initiating graceful shutdown...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := reporter.Stop(shutdownCtx); err != nil {
		logger.Error("Reporter shutdown error: %v", err)
	}
	if err := cacheStore.Stop(shutdownCtx); err != nil {
		logger.Error("Cache shutdown error: %v", err)
	}
	if metricsResult.Server != nil {
		if err := <-metricsDone; err != nil {
			logger.Error("Metrics server error: %v", err)
		}
	}

	// Log the final report before exiting
	logger.Info("Final statistics:")
	fmt.Println(collector.Report())

	logger.Info("cachewatch stopped")
}
