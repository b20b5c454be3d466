package stats

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures log lines for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (l *recordingLogger) Infof(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) infoLines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.infos...)
}

func (l *recordingLogger) warnLines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

func TestHitAndMissSameCategory(t *testing.T) {
	c := New(Config{})

	c.RecordHit("wellness", 200, 5)
	c.RecordMiss("wellness", 50)

	snap := c.Snapshot()
	assert.Equal(t, uint64(1), snap.Hits)
	assert.Equal(t, uint64(1), snap.Misses)
	assert.InDelta(t, 50.0, snap.HitRate, 0.001)
	assert.InDelta(t, 50.0, snap.MissRate, 0.001)
	assert.Equal(t, uint64(200), snap.BytesRetrieved)

	cat, ok := c.Category("wellness")
	require.True(t, ok)
	assert.Equal(t, uint64(1), cat.Hits)
	assert.Equal(t, uint64(1), cat.Misses)
	assert.InDelta(t, 50.0, cat.HitRate, 0.001)
}

func TestRatesSumToHundred(t *testing.T) {
	c := New(Config{})

	// No observations yet: both rates are zero.
	snap := c.Snapshot()
	assert.Zero(t, snap.HitRate)
	assert.Zero(t, snap.MissRate)

	// Rates sum to exactly 100 for arbitrary hit/miss sequences.
	c.RecordHit("a", 10, 1)
	c.RecordHit("a", 10, 1)
	c.RecordMiss("b", 2)
	for i := 0; i < 7; i++ {
		if i%2 == 0 {
			c.RecordHit("c", 1, 0.5)
		} else {
			c.RecordMiss("c", 0.5)
		}
	}

	snap = c.Snapshot()
	assert.Equal(t, 100.0, snap.HitRate+snap.MissRate)
}

func TestRecordSetAveragesAndLargestEntry(t *testing.T) {
	c := New(Config{})

	c.RecordSet("profile", 100, 1)
	c.RecordSet("profile", 200, 1)
	c.RecordSet("profile", 300, 1)

	snap := c.Snapshot()
	assert.Equal(t, uint64(3), snap.Sets)
	assert.Equal(t, uint64(600), snap.BytesStored)
	assert.Equal(t, uint64(300), snap.LargestEntry)

	cat, ok := c.Category("profile")
	require.True(t, ok)
	assert.Equal(t, uint64(3), cat.Sets)
	assert.Equal(t, uint64(600), cat.BytesSet)
	assert.InDelta(t, 200.0, cat.AvgEntrySize, 0.001)
}

func TestLargestEntryNeverDecreases(t *testing.T) {
	c := New(Config{})

	assert.Zero(t, c.Snapshot().LargestEntry)

	sizes := []uint64{10, 500, 100, 499, 501, 3}
	var max uint64
	for _, size := range sizes {
		c.RecordSet("blob", size, 0)
		if size > max {
			max = size
		}
		assert.Equal(t, max, c.Snapshot().LargestEntry)
	}
}

func TestRecordDeleteCountsOnly(t *testing.T) {
	c := New(Config{})

	c.RecordDelete("sessions")
	c.RecordDelete("sessions")

	snap := c.Snapshot()
	assert.Equal(t, uint64(2), snap.Deletes)
	assert.Zero(t, snap.HitRate)
	assert.Zero(t, snap.BytesStored)

	cat, ok := c.Category("sessions")
	require.True(t, ok)
	assert.Equal(t, uint64(2), cat.Deletes)
	assert.Zero(t, cat.HitRate)
}

func TestRecordErrorCountsAndWarns(t *testing.T) {
	log := &recordingLogger{}
	c := New(Config{Logger: log})

	c.RecordError("wellness", "get", errors.New("upstream timeout"))

	snap := c.Snapshot()
	assert.Equal(t, uint64(1), snap.Errors)

	warns := log.warnLines()
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "wellness")
	assert.Contains(t, warns[0], "get")
	assert.Contains(t, warns[0], "upstream timeout")

	// A nil error must not panic; recording is best-effort.
	assert.NotPanics(t, func() {
		c.RecordError("wellness", "get", nil)
	})
	assert.Equal(t, uint64(2), c.Snapshot().Errors)
}

func TestCategoryLookupDoesNotCreateEntry(t *testing.T) {
	c := New(Config{})

	_, ok := c.Category("never-observed")
	assert.False(t, ok)

	snap := c.Snapshot()
	assert.Empty(t, snap.Categories)
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	c := New(Config{})
	c.RecordHit("wellness", 100, 1)

	before := c.Snapshot()

	// Later recording must not mutate the earlier snapshot.
	c.RecordHit("wellness", 100, 1)
	c.RecordMiss("activities", 2)
	assert.Equal(t, uint64(1), before.Hits)
	assert.Len(t, before.Categories, 1)

	// Mutating the returned map must not leak back into the collector.
	before.Categories["wellness"] = CategoryStats{Hits: 999}
	cat, ok := c.Category("wellness")
	require.True(t, ok)
	assert.Equal(t, uint64(2), cat.Hits)
}

func TestSnapshotUptimeNonDecreasing(t *testing.T) {
	c := New(Config{})
	c.RecordHit("a", 1, 1)

	first := c.Snapshot()
	second := c.Snapshot()

	assert.Equal(t, first.Hits, second.Hits)
	assert.Equal(t, first.Misses, second.Misses)
	assert.Equal(t, first.Sets, second.Sets)
	assert.GreaterOrEqual(t, second.Uptime, first.Uptime)
}

func TestNegativeLatencyIgnored(t *testing.T) {
	c := New(Config{})

	c.RecordHit("a", 10, -5)
	c.RecordMiss("a", -1)
	c.RecordSet("a", 10, -3)

	snap := c.Snapshot()
	assert.Equal(t, uint64(1), snap.Hits)
	assert.Equal(t, uint64(1), snap.Misses)
	assert.Equal(t, uint64(1), snap.Sets)
	assert.Zero(t, snap.AvgGetLatencyMs)
	assert.Zero(t, snap.MaxGetLatencyMs)
	assert.Zero(t, snap.AvgSetLatencyMs)
	assert.Zero(t, snap.MaxSetLatencyMs)
}

func TestReset(t *testing.T) {
	log := &recordingLogger{}
	c := New(Config{Logger: log})

	c.RecordHit("wellness", 200, 5)
	c.RecordSet("profile", 300, 2)
	c.RecordError("profile", "set", errors.New("boom"))

	creation := c.Snapshot().StartTime
	time.Sleep(5 * time.Millisecond)
	c.Reset()

	snap := c.Snapshot()
	assert.Zero(t, snap.Hits)
	assert.Zero(t, snap.Misses)
	assert.Zero(t, snap.Sets)
	assert.Zero(t, snap.Deletes)
	assert.Zero(t, snap.Errors)
	assert.Zero(t, snap.BytesStored)
	assert.Zero(t, snap.BytesRetrieved)
	assert.Zero(t, snap.LargestEntry)
	assert.Zero(t, snap.HitRate)
	assert.Zero(t, snap.MaxGetLatencyMs)
	assert.Empty(t, snap.Categories)
	assert.True(t, snap.StartTime.After(creation))
	assert.Equal(t, snap.StartTime, snap.LastReset)

	found := false
	for _, line := range log.infoLines() {
		if line == "Cache statistics reset" {
			found = true
		}
	}
	assert.True(t, found, "reset should be logged at INFO")
}

func TestConcurrentRecording(t *testing.T) {
	c := New(Config{})

	const workers = 8
	const perWorker = 500

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			category := fmt.Sprintf("cat-%d", id%4)
			for i := 0; i < perWorker; i++ {
				c.RecordHit(category, 10, 1)
				c.RecordMiss(category, 2)
				c.RecordSet(category, 20, 3)
				c.RecordDelete(category)
				if _, ok := c.Category(category); !ok {
					t.Errorf("category %s should exist", category)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	snap := c.Snapshot()
	total := uint64(workers * perWorker)
	assert.Equal(t, total, snap.Hits)
	assert.Equal(t, total, snap.Misses)
	assert.Equal(t, total, snap.Sets)
	assert.Equal(t, total, snap.Deletes)
	assert.Equal(t, total*10, snap.BytesRetrieved)
	assert.Equal(t, total*20, snap.BytesStored)
	assert.Equal(t, 100.0, snap.HitRate+snap.MissRate)
	assert.Len(t, snap.Categories, 4)
}
