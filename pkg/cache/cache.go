// Package cache provides an instrumented in-memory TTL cache.
//
// Every operation reports its outcome to a stats.Collector: lookups record
// hits or misses with measured latency, writes record stored byte counts,
// and deletions and loader failures are counted. The cache itself decides
// hit/miss and expiration; the statistics subsystem only observes.
//
// Expiration is dual: expired entries are dropped lazily on lookup and
// actively by a background janitor when a cleanup interval is configured.
package cache

import (
	"sync"
	"time"

	"github.com/marmos91/cachewatch/pkg/stats"
	"golang.org/x/sync/singleflight"
)

// entry is a single cached value with its expiration.
type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiration
}

// expired reports whether the entry's TTL has elapsed at the given instant.
func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Config configures a Cache.
type Config struct {
	// DefaultTTL is applied to Set calls that pass a zero TTL.
	// Zero means entries never expire unless a per-call TTL is given.
	DefaultTTL time.Duration

	// CleanupInterval is how often the janitor scans for expired entries.
	// Zero disables the janitor; expired entries are then only dropped
	// lazily on lookup.
	CleanupInterval time.Duration
}

// Cache is an in-memory key/value cache reporting to a stats.Collector.
//
// Thread safety: safe for concurrent use. A single mutex guards the entry
// map; every operation is O(1) except the janitor scan.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	config   Config
	recorder *stats.Collector
	group    singleflight.Group

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a cache reporting to the given collector.
//
// The janitor is not started; call Start to begin active expiration.
func New(config Config, recorder *stats.Collector) *Cache {
	return &Cache{
		entries:  make(map[string]*entry),
		config:   config,
		recorder: recorder,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Get returns a copy of the value stored under key.
//
// The lookup outcome is recorded under the given category: a hit with the
// retrieved size and measured latency, or a miss. Expired entries are
// removed and count as misses.
func (c *Cache) Get(key, category string) ([]byte, bool) {
	start := time.Now()

	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && e.expired(time.Now()) {
		delete(c.entries, key)
		ok = false
	}
	var value []byte
	if ok {
		value = append([]byte(nil), e.value...)
	}
	c.mu.Unlock()

	latency := millisecondsSince(start)
	if !ok {
		c.recorder.RecordMiss(category, latency)
		return nil, false
	}

	c.recorder.RecordHit(category, uint64(len(value)), latency)
	return value, true
}

// Set stores a copy of value under key with the given TTL.
//
// A zero TTL falls back to the configured default; a negative TTL stores
// the entry without expiration. The write is recorded under the given
// category with the stored size and measured latency.
func (c *Cache) Set(key, category string, value []byte, ttl time.Duration) {
	start := time.Now()

	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	stored := append([]byte(nil), value...)

	c.mu.Lock()
	c.entries[key] = &entry{
		value:     stored,
		expiresAt: expiresAt,
	}
	c.mu.Unlock()

	c.recorder.RecordSet(category, uint64(len(stored)), millisecondsSince(start))
}

// Delete removes the entry stored under key and reports whether it existed.
// The deletion is recorded under the given category either way.
func (c *Cache) Delete(key, category string) bool {
	c.mu.Lock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()

	c.recorder.RecordDelete(category)
	return ok
}

// Len returns the number of entries currently stored, including entries
// that have expired but were not yet cleaned up.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// peek returns the live value for key without recording any statistics.
// Used internally to re-check after winning a singleflight round.
func (c *Cache) peek(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.expired(time.Now()) {
		return nil, false
	}
	return append([]byte(nil), e.value...), true
}

// millisecondsSince converts the elapsed time since start to milliseconds.
func millisecondsSince(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / 1e6
}
