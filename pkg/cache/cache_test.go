package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/marmos91/cachewatch/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, config Config) (*Cache, *stats.Collector) {
	t.Helper()
	collector := stats.New(stats.Config{})
	return New(config, collector), collector
}

func TestGetSetDelete(t *testing.T) {
	c, collector := newTestCache(t, Config{})

	// Miss before any write.
	_, ok := c.Get("athlete:1", "wellness")
	assert.False(t, ok)

	c.Set("athlete:1", "wellness", []byte("resting-hr=48"), 0)

	value, ok := c.Get("athlete:1", "wellness")
	require.True(t, ok)
	assert.Equal(t, []byte("resting-hr=48"), value)

	assert.True(t, c.Delete("athlete:1", "wellness"))
	assert.False(t, c.Delete("athlete:1", "wellness"))
	_, ok = c.Get("athlete:1", "wellness")
	assert.False(t, ok)

	snap := collector.Snapshot()
	assert.Equal(t, uint64(1), snap.Hits)
	assert.Equal(t, uint64(2), snap.Misses)
	assert.Equal(t, uint64(1), snap.Sets)
	assert.Equal(t, uint64(2), snap.Deletes)
	assert.Equal(t, uint64(13), snap.BytesStored)
	assert.Equal(t, uint64(13), snap.BytesRetrieved)

	cat, ok := collector.Category("wellness")
	require.True(t, ok)
	assert.Equal(t, uint64(1), cat.Hits)
	assert.Equal(t, uint64(2), cat.Misses)
}

func TestTTLExpiry(t *testing.T) {
	c, collector := newTestCache(t, Config{})

	c.Set("ephemeral", "activities", []byte("ride"), 10*time.Millisecond)

	_, ok := c.Get("ephemeral", "activities")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.Get("ephemeral", "activities")
	assert.False(t, ok, "expired entry should count as a miss")
	assert.Zero(t, c.Len(), "expired entry should be removed lazily")

	snap := collector.Snapshot()
	assert.Equal(t, uint64(1), snap.Hits)
	assert.Equal(t, uint64(1), snap.Misses)
}

func TestDefaultTTLApplied(t *testing.T) {
	c, _ := newTestCache(t, Config{DefaultTTL: 10 * time.Millisecond})

	c.Set("short-lived", "profile", []byte("x"), 0)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("short-lived", "profile")
	assert.False(t, ok)
}

func TestNegativeTTLNeverExpires(t *testing.T) {
	c, _ := newTestCache(t, Config{DefaultTTL: 5 * time.Millisecond})

	c.Set("pinned", "profile", []byte("x"), -1)
	time.Sleep(15 * time.Millisecond)

	_, ok := c.Get("pinned", "profile")
	assert.True(t, ok)
}

func TestReturnedValueIsCopy(t *testing.T) {
	c, _ := newTestCache(t, Config{})

	c.Set("k", "profile", []byte("abc"), 0)

	value, ok := c.Get("k", "profile")
	require.True(t, ok)
	value[0] = 'z'

	again, ok := c.Get("k", "profile")
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), again, "mutating a returned value must not affect the stored entry")
}

func TestJanitorRemovesExpiredEntries(t *testing.T) {
	c, _ := newTestCache(t, Config{CleanupInterval: 10 * time.Millisecond})

	c.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, c.Stop(ctx))
	}()

	c.Set("a", "wellness", []byte("1"), 5*time.Millisecond)
	c.Set("b", "wellness", []byte("2"), 5*time.Millisecond)
	c.Set("keep", "wellness", []byte("3"), 0) // no expiration

	deadline := time.Now().Add(time.Second)
	for c.Len() > 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 1, c.Len(), "janitor should remove only expired entries")
}

func TestStopWithoutJanitorIsNoop(t *testing.T) {
	c, _ := newTestCache(t, Config{})

	c.Start()
	require.NoError(t, c.Stop(context.Background()))
}

func TestGetOrLoadCachesValue(t *testing.T) {
	c, collector := newTestCache(t, Config{})

	calls := 0
	load := func(ctx context.Context, key string) ([]byte, error) {
		calls++
		return []byte("loaded:" + key), nil
	}

	value, err := c.GetOrLoad(context.Background(), "w1", "wellness", load)
	require.NoError(t, err)
	assert.Equal(t, []byte("loaded:w1"), value)
	assert.Equal(t, 1, calls)

	// Second call is served from the cache.
	value, err = c.GetOrLoad(context.Background(), "w1", "wellness", load)
	require.NoError(t, err)
	assert.Equal(t, []byte("loaded:w1"), value)
	assert.Equal(t, 1, calls)

	snap := collector.Snapshot()
	assert.Equal(t, uint64(1), snap.Hits)
	assert.Equal(t, uint64(1), snap.Misses)
	assert.Equal(t, uint64(1), snap.Sets)
}

func TestGetOrLoadCollapsesConcurrentLoads(t *testing.T) {
	c, _ := newTestCache(t, Config{})

	var mu sync.Mutex
	calls := 0
	release := make(chan struct{})
	load := func(ctx context.Context, key string) ([]byte, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return []byte("shared"), nil
	}

	const waiters = 8
	var wg sync.WaitGroup
	results := make([][]byte, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, err := c.GetOrLoad(context.Background(), "hot-key", "activities", load)
			if err != nil {
				t.Errorf("GetOrLoad failed: %v", err)
				return
			}
			results[i] = value
		}(i)
	}

	// Give every goroutine a chance to join the flight, then release it.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls, "concurrent loads for one key should collapse")
	for i := 0; i < waiters; i++ {
		assert.Equal(t, []byte("shared"), results[i])
	}
}

func TestGetOrLoadRecordsLoaderErrors(t *testing.T) {
	c, collector := newTestCache(t, Config{})

	load := func(ctx context.Context, key string) ([]byte, error) {
		return nil, context.DeadlineExceeded
	}

	_, err := c.GetOrLoad(context.Background(), "missing", "wellness", load)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	snap := collector.Snapshot()
	assert.Equal(t, uint64(1), snap.Errors)
	assert.Equal(t, uint64(1), snap.Misses)
	assert.Zero(t, snap.Sets, "failed loads must not cache anything")
	assert.Zero(t, c.Len())
}
