package stats

// latencyWindow maintains a fixed-capacity ring buffer of recent latency
// samples plus a lifetime maximum.
//
// The average is computed over the samples currently retained in the window.
// The maximum is a separate running scalar that survives window eviction, so
// it reflects the true peak since the last reset even after the peak sample
// has rotated out of the averaging window.
//
// latencyWindow has no internal locking: callers synchronize through the
// owning Collector's mutex.
type latencyWindow struct {
	samples []float64
	index   int
	count   int
	max     float64
}

// newLatencyWindow creates a window retaining at most capacity samples.
func newLatencyWindow(capacity int) *latencyWindow {
	return &latencyWindow{
		samples: make([]float64, capacity),
	}
}

// Add records a sample, evicting the oldest one once the window is full.
func (w *latencyWindow) Add(ms float64) {
	w.samples[w.index] = ms
	w.index = (w.index + 1) % len(w.samples)
	if w.count < len(w.samples) {
		w.count++
	}
	if ms > w.max {
		w.max = ms
	}
}

// Average returns the arithmetic mean of the retained samples, or 0 when the
// window is empty.
func (w *latencyWindow) Average() float64 {
	if w.count == 0 {
		return 0
	}

	var total float64
	for i := 0; i < w.count; i++ {
		total += w.samples[i]
	}
	return total / float64(w.count)
}

// Max returns the largest sample recorded since the window was created,
// including samples that have since been evicted.
func (w *latencyWindow) Max() float64 {
	return w.max
}
