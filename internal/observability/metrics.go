package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circles_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "circles_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CascadeRows counts engagement rows flipped by hide/unhide cascades.
	CascadeRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circles_cascade_rows_total",
		Help: "Rows touched by visibility cascades",
	}, []string{"operation", "table"})

	// CascadeFailures counts cascades that exhausted their retries.
	CascadeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circles_cascade_failures_total",
		Help: "Cascades left incomplete after retries were exhausted",
	}, []string{"operation"})

	// ArchiveExpired counts posts hard-deleted by archive expiry.
	ArchiveExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "circles_archive_expired_total",
		Help: "Archived posts removed after their retention window",
	})

	// ArchiveSweepDuration records how long an archive listing with expiry takes.
	ArchiveSweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "circles_archive_sweep_seconds",
		Help:    "Duration of archive listings including expiry",
		Buckets: prometheus.DefBuckets,
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
