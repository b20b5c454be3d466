package stats

import "time"

// CategoryStats holds per-category counters and derived rates.
//
// Derived fields (AvgEntrySize, HitRate) are recomputed eagerly on every
// relevant recording, so reads are O(1) and never trigger computation.
type CategoryStats struct {
	// Hits is the number of cache hits recorded for this category.
	Hits uint64

	// Misses is the number of cache misses recorded for this category.
	Misses uint64

	// Sets is the number of cache writes recorded for this category.
	Sets uint64

	// Deletes is the number of cache deletions recorded for this category.
	// Deletes have no size or rate effect.
	Deletes uint64

	// BytesSet is the cumulative number of bytes written for this category.
	BytesSet uint64

	// AvgEntrySize is BytesSet / Sets, or 0 when no sets were recorded.
	AvgEntrySize float64

	// HitRate is Hits / (Hits + Misses) * 100, or 0 when neither a hit nor
	// a miss was recorded yet.
	HitRate float64
}

// Snapshot is an immutable point-in-time view of all collected statistics.
//
// A Snapshot is fully independent of the collector that produced it: the
// Categories map is a copy, so later recording never mutates an
// already-returned snapshot.
type Snapshot struct {
	// Operation totals since the last reset.
	Hits    uint64
	Misses  uint64
	Sets    uint64
	Deletes uint64
	Errors  uint64

	// HitRate and MissRate are percentages. They sum to exactly 100 once at
	// least one hit or miss was recorded, and are both 0 before that.
	HitRate  float64
	MissRate float64

	// Byte volumes since the last reset.
	BytesStored    uint64
	BytesRetrieved uint64

	// LargestEntry is the size of the largest single entry ever written
	// since the last reset. It never decreases except on reset.
	LargestEntry uint64

	// Timing aggregates in milliseconds. Averages cover the retained sample
	// window; maxima cover every sample recorded since the last reset.
	AvgGetLatencyMs float64
	MaxGetLatencyMs float64
	AvgSetLatencyMs float64
	MaxSetLatencyMs float64

	// StartTime is when collection began (construction or last reset).
	StartTime time.Time

	// LastReset is when Reset was last called (equals StartTime initially).
	LastReset time.Time

	// Uptime is the time elapsed between StartTime and this snapshot.
	Uptime time.Duration

	// Categories maps each observed category label to its statistics.
	Categories map[string]CategoryStats
}
