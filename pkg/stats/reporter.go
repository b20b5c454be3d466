package stats

import (
	"context"
	"strings"
	"time"
)

const (
	// DefaultSummaryInterval is how often the one-line summary is logged.
	DefaultSummaryInterval = 5 * time.Minute

	// DefaultReportInterval is how often the full report is logged.
	DefaultReportInterval = time.Hour
)

// ReporterConfig configures a Reporter.
type ReporterConfig struct {
	// SummaryInterval is the period between one-line summary log entries.
	// Default: 5m
	SummaryInterval time.Duration

	// ReportInterval is the period between full report log entries. The
	// report fires on its own ticker, independent of the summary interval.
	// Default: 1h
	ReportInterval time.Duration
}

// applyDefaults fills in zero values with sensible defaults.
func (c *ReporterConfig) applyDefaults() {
	if c.SummaryInterval <= 0 {
		c.SummaryInterval = DefaultSummaryInterval
	}
	if c.ReportInterval <= 0 {
		c.ReportInterval = DefaultReportInterval
	}
}

// Reporter periodically logs cache statistics in the background.
//
// Every SummaryInterval it logs a one-line summary (hit rate and total
// operation count); every ReportInterval it logs the full text report. The
// two schedules run on independent tickers.
//
// The reporter runs outside the recording path: each tick takes a snapshot
// under the collector's mutex and formats it without holding any lock, so
// recording is never blocked beyond that brief critical section.
type Reporter struct {
	collector *Collector
	config    ReporterConfig
	log       Logger
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewReporter creates a reporter for the given collector.
//
// The reporter is initialized but not started. Call Start to begin
// background logging.
func NewReporter(collector *Collector, config ReporterConfig) *Reporter {
	config.applyDefaults()

	return &Reporter{
		collector: collector,
		config:    config,
		log:       collector.log,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins background periodic logging.
func (r *Reporter) Start() {
	r.log.Infof("Starting statistics reporter: summary_interval=%s report_interval=%s",
		r.config.SummaryInterval, r.config.ReportInterval)

	go r.worker()
}

// Stop stops the reporter and waits for the worker goroutine to exit.
//
// Stop must be called at most once, after Start.
//
// Returns the context error if the context expires before the worker
// finishes its current tick.
func (r *Reporter) Stop(ctx context.Context) error {
	close(r.stopCh)

	select {
	case <-r.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// worker is the background goroutine driving both logging schedules.
func (r *Reporter) worker() {
	defer close(r.doneCh)

	summary := time.NewTicker(r.config.SummaryInterval)
	defer summary.Stop()

	report := time.NewTicker(r.config.ReportInterval)
	defer report.Stop()

	for {
		select {
		case <-summary.C:
			r.logSummary()
		case <-report.C:
			r.logReport()
		case <-r.stopCh:
			return
		}
	}
}

// logSummary logs the one-line statistics summary.
func (r *Reporter) logSummary() {
	snap := r.collector.Snapshot()
	operations := snap.Hits + snap.Misses + snap.Sets + snap.Deletes

	r.log.Infof("Cache statistics: hit_rate=%.2f%% operations=%d", snap.HitRate, operations)
}

// logReport logs the full text report, one log line per report line.
func (r *Reporter) logReport() {
	text := strings.TrimRight(r.collector.Report(), "\n")
	for _, line := range strings.Split(text, "\n") {
		r.log.Infof("%s", line)
	}
}
