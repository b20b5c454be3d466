// Package stats collects cache operation statistics.
//
// A Collector records the outcome of every cache operation (hit, miss, set,
// delete, error) reported by the owning cache, maintains running and
// windowed performance aggregates, breaks counters down by a caller-supplied
// category label, and produces point-in-time snapshots and formatted text
// reports.
//
// Recording is unconditionally best-effort: record methods never fail, never
// block beyond a brief critical section, and never panic. The only modeled
// failure is an upstream cache operation error, which is counted and logged
// via RecordError without ever raising back to the caller.
//
// All state is in-memory and scoped to one process lifetime; nothing is
// persisted across restarts.
package stats

import (
	"sync"
	"time"
)

// DefaultWindowSize is the default number of latency samples retained per
// operation kind (get, set).
const DefaultWindowSize = 1000

// Config configures a Collector.
type Config struct {
	// WindowSize is the latency sample window capacity per operation kind.
	// Default: 1000
	WindowSize int

	// Logger receives advisory log output (reset notices, error warnings).
	// Default: the process-wide internal logger.
	Logger Logger
}

// applyDefaults fills in zero values with sensible defaults.
func (c *Config) applyDefaults() {
	if c.WindowSize <= 0 {
		c.WindowSize = DefaultWindowSize
	}
	if c.Logger == nil {
		c.Logger = defaultLogger{}
	}
}

// Collector accumulates cache statistics.
//
// Thread safety: all methods are safe for concurrent use. A single mutex
// guards the whole state, so a sequence of concurrent recordings is
// observably equivalent to some serialization of them and Snapshot never
// observes a partially applied update. Each recording is O(1), so the
// critical sections are short.
//
// Category cardinality is unbounded and caller-controlled: every distinct
// label creates an entry that persists until Reset. Callers feeding
// unbounded label sets will grow memory without bound.
type Collector struct {
	mu sync.Mutex

	// Operation totals. Monotonically non-decreasing between resets.
	hits    uint64
	misses  uint64
	sets    uint64
	deletes uint64
	errors  uint64

	// Derived rates, recomputed eagerly after every hit or miss.
	hitRate  float64
	missRate float64

	// Byte volumes.
	bytesStored    uint64
	bytesRetrieved uint64
	largestEntry   uint64

	// Latency windows for get (hit/miss) and set operations.
	getLatency *latencyWindow
	setLatency *latencyWindow

	// Per-category aggregation, created lazily on first observation.
	categories map[string]*CategoryStats

	startTime time.Time
	lastReset time.Time

	windowSize int
	log        Logger
}

// New creates a Collector with all counters zeroed and the start timestamp
// set to now.
func New(cfg Config) *Collector {
	cfg.applyDefaults()

	now := time.Now()
	return &Collector{
		getLatency: newLatencyWindow(cfg.WindowSize),
		setLatency: newLatencyWindow(cfg.WindowSize),
		categories: make(map[string]*CategoryStats),
		startTime:  now,
		lastReset:  now,
		windowSize: cfg.WindowSize,
		log:        cfg.Logger,
	}
}

// RecordHit records a successful cache lookup.
//
// bytesRetrieved is added to the retrieved byte volume and latencyMs is fed
// to the get latency window. Negative latency samples are ignored (the hit
// still counts; the timing sample is dropped).
func (c *Collector) RecordHit(category string, bytesRetrieved uint64, latencyMs float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hits++
	c.bytesRetrieved += bytesRetrieved
	if latencyMs >= 0 {
		c.getLatency.Add(latencyMs)
	}

	cat := c.category(category)
	cat.Hits++
	recomputeCategoryHitRate(cat)
	c.recomputeRates()
}

// RecordMiss records a failed cache lookup.
func (c *Collector) RecordMiss(category string, latencyMs float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.misses++
	if latencyMs >= 0 {
		c.getLatency.Add(latencyMs)
	}

	cat := c.category(category)
	cat.Misses++
	recomputeCategoryHitRate(cat)
	c.recomputeRates()
}

// RecordSet records a cache write.
//
// bytesStored is added to the stored byte volume and compared against the
// running largest-entry maximum, which never decreases except on Reset.
func (c *Collector) RecordSet(category string, bytesStored uint64, latencyMs float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets++
	c.bytesStored += bytesStored
	if bytesStored > c.largestEntry {
		c.largestEntry = bytesStored
	}
	if latencyMs >= 0 {
		c.setLatency.Add(latencyMs)
	}

	cat := c.category(category)
	cat.Sets++
	cat.BytesSet += bytesStored
	cat.AvgEntrySize = float64(cat.BytesSet) / float64(cat.Sets)
}

// RecordDelete records a cache deletion. Deletes are counted only; they have
// no size or rate effect.
func (c *Collector) RecordDelete(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.deletes++

	cat := c.category(category)
	cat.Deletes++
}

// RecordError records an upstream cache operation failure.
//
// The error is counted and logged at warning level with the category and
// operation name; it is never raised back to the caller.
func (c *Collector) RecordError(category string, operation string, err error) {
	c.mu.Lock()
	c.errors++
	c.mu.Unlock()

	c.log.Warnf("Cache %s operation failed for category %q: %v", operation, category, err)
}

// Snapshot returns a fully independent point-in-time copy of the current
// statistics with Uptime freshly computed. The returned snapshot shares no
// mutable state with the collector.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	categories := make(map[string]CategoryStats, len(c.categories))
	for name, cat := range c.categories {
		categories[name] = *cat
	}

	return Snapshot{
		Hits:            c.hits,
		Misses:          c.misses,
		Sets:            c.sets,
		Deletes:         c.deletes,
		Errors:          c.errors,
		HitRate:         c.hitRate,
		MissRate:        c.missRate,
		BytesStored:     c.bytesStored,
		BytesRetrieved:  c.bytesRetrieved,
		LargestEntry:    c.largestEntry,
		AvgGetLatencyMs: c.getLatency.Average(),
		MaxGetLatencyMs: c.getLatency.Max(),
		AvgSetLatencyMs: c.setLatency.Average(),
		MaxSetLatencyMs: c.setLatency.Max(),
		StartTime:       c.startTime,
		LastReset:       c.lastReset,
		Uptime:          time.Since(c.startTime),
		Categories:      categories,
	}
}

// Category returns the statistics for a single category label.
//
// The second return value is false if the category was never observed.
// Looking up an unseen category does not create an entry.
func (c *Collector) Category(name string) (CategoryStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cat, ok := c.categories[name]
	if !ok {
		return CategoryStats{}, false
	}
	return *cat, true
}

// Reset reinitializes the whole statistics state: every counter returns to
// zero, both latency windows are emptied, the category map is cleared, and
// the start and last-reset timestamps are set to the reset instant.
func (c *Collector) Reset() {
	c.mu.Lock()

	now := time.Now()
	c.hits = 0
	c.misses = 0
	c.sets = 0
	c.deletes = 0
	c.errors = 0
	c.hitRate = 0
	c.missRate = 0
	c.bytesStored = 0
	c.bytesRetrieved = 0
	c.largestEntry = 0
	c.getLatency = newLatencyWindow(c.windowSize)
	c.setLatency = newLatencyWindow(c.windowSize)
	c.categories = make(map[string]*CategoryStats)
	c.startTime = now
	c.lastReset = now

	c.mu.Unlock()

	c.log.Infof("Cache statistics reset")
}

// category returns the entry for a label, creating a zeroed one on first
// observation. Caller must hold c.mu.
func (c *Collector) category(name string) *CategoryStats {
	cat, ok := c.categories[name]
	if !ok {
		cat = &CategoryStats{}
		c.categories[name] = cat
	}
	return cat
}

// recomputeRates refreshes the derived global hit and miss rates.
// Caller must hold c.mu.
//
// The miss rate is derived as 100 - hitRate so the two always sum to exactly
// 100 once any lookup was observed.
func (c *Collector) recomputeRates() {
	total := c.hits + c.misses
	if total == 0 {
		c.hitRate = 0
		c.missRate = 0
		return
	}

	c.hitRate = float64(c.hits) / float64(total) * 100
	c.missRate = 100 - c.hitRate
}

// recomputeCategoryHitRate refreshes a category's derived hit rate.
func recomputeCategoryHitRate(cat *CategoryStats) {
	total := cat.Hits + cat.Misses
	if total == 0 {
		cat.HitRate = 0
		return
	}
	cat.HitRate = float64(cat.Hits) / float64(total) * 100
}
