package cache

import (
	"context"
	"time"

	"github.com/marmos91/cachewatch/internal/logger"
)

// Start begins background expiration cleanup.
//
// A goroutine scans for expired entries every CleanupInterval and removes
// them. If no cleanup interval is configured, Start is a no-op and the
// cache relies solely on lazy expiration during lookups.
func (c *Cache) Start() {
	if c.config.CleanupInterval <= 0 {
		logger.Debug("Cache janitor disabled (no cleanup interval)")
		return
	}

	logger.Info("Starting cache janitor: interval=%s", c.config.CleanupInterval)
	go c.janitor()
}

// Stop stops the janitor and waits for it to finish.
//
// Stop must be called at most once, after Start. If the janitor was never
// enabled, Stop returns immediately.
//
// Returns the context error if shutdown does not complete in time.
func (c *Cache) Stop(ctx context.Context) error {
	if c.config.CleanupInterval <= 0 {
		return nil
	}

	close(c.stopCh)

	select {
	case <-c.doneCh:
		return nil
	case <-ctx.Done():
		logger.Warn("Cache janitor shutdown timeout")
		return ctx.Err()
	}
}

// janitor is the background goroutine driving active expiration.
func (c *Cache) janitor() {
	defer close(c.doneCh)

	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := c.deleteExpired()
			if removed > 0 {
				logger.Debug("Cache janitor removed %d expired entries", removed)
			}
		case <-c.stopCh:
			return
		}
	}
}

// deleteExpired removes every expired entry and returns how many were
// removed. Janitor removals are not recorded as deletions: the caller never
// issued a delete, the entries simply aged out.
func (c *Cache) deleteExpired() int {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
