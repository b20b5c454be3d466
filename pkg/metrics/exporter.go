package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/marmos91/cachewatch/pkg/stats"
)

// StatsExporter is a prometheus.Collector that translates a stats.Collector
// snapshot into Prometheus metrics on every scrape.
//
// Const metrics are built from a fresh snapshot per scrape, so the exporter
// holds no state of its own and recording is never blocked beyond the
// snapshot's critical section.
//
// Counter values restart from zero when the underlying collector is reset;
// Prometheus rate functions handle counter resets natively.
type StatsExporter struct {
	source *stats.Collector

	hits    *prometheus.Desc
	misses  *prometheus.Desc
	sets    *prometheus.Desc
	deletes *prometheus.Desc
	errors  *prometheus.Desc

	bytesStored    *prometheus.Desc
	bytesRetrieved *prometheus.Desc
	largestEntry   *prometheus.Desc

	getLatencyAvg *prometheus.Desc
	getLatencyMax *prometheus.Desc
	setLatencyAvg *prometheus.Desc
	setLatencyMax *prometheus.Desc

	categoryHits   *prometheus.Desc
	categoryMisses *prometheus.Desc
	categorySets   *prometheus.Desc
}

// NewStatsExporter creates an exporter reading from the given collector.
//
// Register the result with a Prometheus registry; it is not registered
// automatically.
func NewStatsExporter(source *stats.Collector) *StatsExporter {
	return &StatsExporter{
		source: source,
		hits: prometheus.NewDesc(
			"cachewatch_hits_total",
			"Total number of cache hits",
			nil, nil,
		),
		misses: prometheus.NewDesc(
			"cachewatch_misses_total",
			"Total number of cache misses",
			nil, nil,
		),
		sets: prometheus.NewDesc(
			"cachewatch_sets_total",
			"Total number of cache writes",
			nil, nil,
		),
		deletes: prometheus.NewDesc(
			"cachewatch_deletes_total",
			"Total number of cache deletions",
			nil, nil,
		),
		errors: prometheus.NewDesc(
			"cachewatch_errors_total",
			"Total number of upstream cache operation errors",
			nil, nil,
		),
		bytesStored: prometheus.NewDesc(
			"cachewatch_stored_bytes_total",
			"Total bytes written to the cache",
			nil, nil,
		),
		bytesRetrieved: prometheus.NewDesc(
			"cachewatch_retrieved_bytes_total",
			"Total bytes read from the cache",
			nil, nil,
		),
		largestEntry: prometheus.NewDesc(
			"cachewatch_largest_entry_bytes",
			"Size of the largest single entry written since the last reset",
			nil, nil,
		),
		getLatencyAvg: prometheus.NewDesc(
			"cachewatch_get_latency_avg_milliseconds",
			"Average get latency over the retained sample window",
			nil, nil,
		),
		getLatencyMax: prometheus.NewDesc(
			"cachewatch_get_latency_max_milliseconds",
			"Maximum get latency since the last reset",
			nil, nil,
		),
		setLatencyAvg: prometheus.NewDesc(
			"cachewatch_set_latency_avg_milliseconds",
			"Average set latency over the retained sample window",
			nil, nil,
		),
		setLatencyMax: prometheus.NewDesc(
			"cachewatch_set_latency_max_milliseconds",
			"Maximum set latency since the last reset",
			nil, nil,
		),
		categoryHits: prometheus.NewDesc(
			"cachewatch_category_hits_total",
			"Cache hits per category",
			[]string{"category"}, nil,
		),
		categoryMisses: prometheus.NewDesc(
			"cachewatch_category_misses_total",
			"Cache misses per category",
			[]string{"category"}, nil,
		),
		categorySets: prometheus.NewDesc(
			"cachewatch_category_sets_total",
			"Cache writes per category",
			[]string{"category"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (e *StatsExporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.hits
	ch <- e.misses
	ch <- e.sets
	ch <- e.deletes
	ch <- e.errors
	ch <- e.bytesStored
	ch <- e.bytesRetrieved
	ch <- e.largestEntry
	ch <- e.getLatencyAvg
	ch <- e.getLatencyMax
	ch <- e.setLatencyAvg
	ch <- e.setLatencyMax
	ch <- e.categoryHits
	ch <- e.categoryMisses
	ch <- e.categorySets
}

// Collect implements prometheus.Collector.
func (e *StatsExporter) Collect(ch chan<- prometheus.Metric) {
	snap := e.source.Snapshot()

	ch <- prometheus.MustNewConstMetric(e.hits, prometheus.CounterValue, float64(snap.Hits))
	ch <- prometheus.MustNewConstMetric(e.misses, prometheus.CounterValue, float64(snap.Misses))
	ch <- prometheus.MustNewConstMetric(e.sets, prometheus.CounterValue, float64(snap.Sets))
	ch <- prometheus.MustNewConstMetric(e.deletes, prometheus.CounterValue, float64(snap.Deletes))
	ch <- prometheus.MustNewConstMetric(e.errors, prometheus.CounterValue, float64(snap.Errors))
	ch <- prometheus.MustNewConstMetric(e.bytesStored, prometheus.CounterValue, float64(snap.BytesStored))
	ch <- prometheus.MustNewConstMetric(e.bytesRetrieved, prometheus.CounterValue, float64(snap.BytesRetrieved))
	ch <- prometheus.MustNewConstMetric(e.largestEntry, prometheus.GaugeValue, float64(snap.LargestEntry))
	ch <- prometheus.MustNewConstMetric(e.getLatencyAvg, prometheus.GaugeValue, snap.AvgGetLatencyMs)
	ch <- prometheus.MustNewConstMetric(e.getLatencyMax, prometheus.GaugeValue, snap.MaxGetLatencyMs)
	ch <- prometheus.MustNewConstMetric(e.setLatencyAvg, prometheus.GaugeValue, snap.AvgSetLatencyMs)
	ch <- prometheus.MustNewConstMetric(e.setLatencyMax, prometheus.GaugeValue, snap.MaxSetLatencyMs)

	for name, cat := range snap.Categories {
		ch <- prometheus.MustNewConstMetric(e.categoryHits, prometheus.CounterValue, float64(cat.Hits), name)
		ch <- prometheus.MustNewConstMetric(e.categoryMisses, prometheus.CounterValue, float64(cat.Misses), name)
		ch <- prometheus.MustNewConstMetric(e.categorySets, prometheus.CounterValue, float64(cat.Sets), name)
	}
}
