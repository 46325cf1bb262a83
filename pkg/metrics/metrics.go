package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PagesTotal counts page fetches per pipeline, labeled by outcome.
	PagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "collector_pages_total", Help: "Page fetches"},
		[]string{"pipeline", "status"},
	)

	// RecordsTotal counts reconciled records per pipeline, labeled created/updated.
	RecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "collector_records_total", Help: "Reconciled records"},
		[]string{"pipeline", "outcome"},
	)

	// ItemsSkippedTotal counts page items dropped after an unrecoverable per-item error.
	ItemsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "collector_items_skipped_total", Help: "Skipped page items"},
		[]string{"pipeline"},
	)

	// PageDuration observes the fetch+process latency of a full page.
	PageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "collector_page_duration_seconds", Help: "Page latency", Buckets: prometheus.DefBuckets},
		[]string{"pipeline"},
	)

	// AggregationDefaultsTotal counts per-validator detail lookups that degraded to defaults.
	AggregationDefaultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "collector_aggregation_defaults_total", Help: "Detail lookups substituted with defaults"},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(PagesTotal, RecordsTotal, ItemsSkippedTotal, PageDuration, AggregationDefaultsTotal)
}
