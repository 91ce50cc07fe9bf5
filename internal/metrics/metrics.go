package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PersistTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelf_persist_total",
			Help: "Total number of collection save attempts",
		},
		[]string{"collection", "result"}, // "ok", "error"
	)

	CollectionSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shelf_collection_records",
			Help: "Number of records currently held by a collection",
		},
		[]string{"collection"},
	)

	LookupTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelf_lookup_total",
			Help: "Total number of external catalog lookups",
		},
		[]string{"provider", "result"}, // "found", "not_found", "rejected", "error"
	)

	LookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shelf_lookup_duration_seconds",
			Help:    "Duration of external catalog lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shelf_breaker_state",
			Help: "Catalog circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"provider"},
	)

	BreakerRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelf_breaker_rejected_total",
			Help: "Catalog calls rejected by an open circuit breaker",
		},
		[]string{"provider"},
	)
)

// RecordPersist records one save attempt and the resulting collection size.
func RecordPersist(collection string, size int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	PersistTotal.WithLabelValues(collection, result).Inc()
	CollectionSize.WithLabelValues(collection).Set(float64(size))
}

// RecordLookup records an external lookup. result is one of found, not_found,
// rejected, error.
func RecordLookup(provider, result string, duration time.Duration) {
	LookupTotal.WithLabelValues(provider, result).Inc()
	LookupDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordBreakerState sets the state gauge for a provider's circuit breaker.
func RecordBreakerState(provider string, state float64) {
	BreakerState.WithLabelValues(provider).Set(state)
}
