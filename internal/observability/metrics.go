// Package observability provides prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SourceFetchLatency records per-provider fetch latency in seconds.
	SourceFetchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devflow_source_fetch_latency_seconds",
		Help:    "External source fetch latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	// SourceFetchOutcomes counts fetch results per provider: ok, fallback or error.
	SourceFetchOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devflow_source_fetch_outcomes_total",
		Help: "Total source fetch outcomes by provider and result",
	}, []string{"source", "outcome"})

	// SnapshotSaves counts snapshot persistence attempts by status.
	SnapshotSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devflow_snapshot_saves_total",
		Help: "Total snapshot save attempts by status",
	}, []string{"status"})

	// SnapshotScore observes the distribution of composite scores.
	SnapshotScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "devflow_snapshot_score",
		Help:    "Distribution of computed composite scores",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devflow_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// ObserveFetch records latency and outcome for one source fetch.
func ObserveFetch(source, outcome string, start time.Time) {
	SourceFetchLatency.WithLabelValues(source).Observe(time.Since(start).Seconds())
	SourceFetchOutcomes.WithLabelValues(source, outcome).Inc()
}
