package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gathr",
			Subsystem: "rankings",
			Name:      "runs_total",
			Help:      "Ranking computations per (category, outcome)",
		},
		[]string{"category", "status"},
	)
	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gathr",
			Subsystem: "rankings",
			Name:      "run_duration_seconds",
			Help:      "Duration of one (category, period) ranking computation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"category"},
	)
	entriesPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gathr",
			Subsystem: "rankings",
			Name:      "entries_persisted_total",
			Help:      "Ranking rows written by successful replacements",
		},
		[]string{"category"},
	)
)

// ObserveRun records the outcome and duration of one pair computation.
func ObserveRun(category, status string, took time.Duration) {
	runsTotal.WithLabelValues(category, status).Inc()
	runDuration.WithLabelValues(category).Observe(took.Seconds())
}

// AddPersisted records rows written for a category.
func AddPersisted(category string, count int) {
	entriesPersisted.WithLabelValues(category).Add(float64(count))
}
