package stats

import (
	"fmt"
	"sort"
	"strings"
)

// Report renders the current statistics as a deterministic human-readable
// text report: header, uptime in hours, operation totals, a performance
// block, a data-volume block, and a per-category breakdown when at least one
// category exists. Categories are listed in lexicographic order so repeated
// reports over identical state render identically.
func (c *Collector) Report() string {
	snap := c.Snapshot()

	var b strings.Builder
	b.WriteString("=== Cache Statistics Report ===\n")
	fmt.Fprintf(&b, "Uptime: %.2f hours\n", snap.Uptime.Hours())

	b.WriteString("\nOperations:\n")
	fmt.Fprintf(&b, "  Hits:    %d\n", snap.Hits)
	fmt.Fprintf(&b, "  Misses:  %d\n", snap.Misses)
	fmt.Fprintf(&b, "  Sets:    %d\n", snap.Sets)
	fmt.Fprintf(&b, "  Deletes: %d\n", snap.Deletes)
	fmt.Fprintf(&b, "  Errors:  %d\n", snap.Errors)

	b.WriteString("\nPerformance:\n")
	fmt.Fprintf(&b, "  Hit Rate:  %.2f%%\n", snap.HitRate)
	fmt.Fprintf(&b, "  Miss Rate: %.2f%%\n", snap.MissRate)
	fmt.Fprintf(&b, "  Get Latency: avg=%.2fms max=%.2fms\n", snap.AvgGetLatencyMs, snap.MaxGetLatencyMs)
	fmt.Fprintf(&b, "  Set Latency: avg=%.2fms max=%.2fms\n", snap.AvgSetLatencyMs, snap.MaxSetLatencyMs)

	b.WriteString("\nData Volume:\n")
	fmt.Fprintf(&b, "  Stored:        %s\n", FormatBytes(snap.BytesStored))
	fmt.Fprintf(&b, "  Retrieved:     %s\n", FormatBytes(snap.BytesRetrieved))
	fmt.Fprintf(&b, "  Largest Entry: %s\n", FormatBytes(snap.LargestEntry))

	if len(snap.Categories) > 0 {
		names := make([]string, 0, len(snap.Categories))
		for name := range snap.Categories {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("\nCategories:\n")
		for _, name := range names {
			cat := snap.Categories[name]
			fmt.Fprintf(&b, "  %s: hits=%d (%.2f%%), misses=%d, sets=%d, avg size=%s\n",
				name, cat.Hits, cat.HitRate, cat.Misses, cat.Sets,
				FormatBytes(uint64(cat.AvgEntrySize)))
		}
	}

	return b.String()
}

// FormatBytes renders a byte count in human-readable form with thresholds at
// 1024: "0 B" for zero, whole bytes below 1 KB, and two decimals with KB, MB
// or GB units above.
func FormatBytes(n uint64) string {
	const unit = 1024.0

	if n == 0 {
		return "0 B"
	}
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}

	value := float64(n) / unit
	for _, suffix := range []string{"KB", "MB"} {
		if value < unit {
			return fmt.Sprintf("%.2f %s", value, suffix)
		}
		value /= unit
	}
	return fmt.Sprintf("%.2f GB", value)
}
