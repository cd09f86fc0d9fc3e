package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PairsLoadedTotal counts left/right pairs read by the loaders
	PairsLoadedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairdist_pairs_loaded_total",
			Help: "Total number of left/right pairs loaded",
		},
		[]string{"format"},
	)

	// LoadErrorsTotal counts failed loads by error type
	LoadErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairdist_load_errors_total",
			Help: "Total number of failed puzzle loads",
		},
		[]string{"type"},
	)

	// ComputationsTotal counts metric computations
	ComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairdist_computations_total",
			Help: "Total number of metric computations",
		},
		[]string{"metric", "status"},
	)

	// ComputationDurationSeconds measures the latency of metric computations
	ComputationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pairdist_computation_duration_seconds",
			Help:    "Duration of metric computations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"metric"},
	)

	// SnapshotWriteDurationSeconds measures parquet snapshot write time
	SnapshotWriteDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pairdist_snapshot_write_duration_seconds",
			Help:    "Duration of parquet snapshot writes",
			Buckets: prometheus.DefBuckets,
		},
	)

	// SnapshotSizeBytes tracks the size of written snapshots
	SnapshotSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pairdist_snapshot_size_bytes",
			Help:    "Size of parquet snapshots in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)

	// VerificationsTotal counts analytical cross-checks by outcome
	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairdist_verifications_total",
			Help: "Total number of SQL cross-checks of computed metrics",
		},
		[]string{"result"},
	)

	// LogEntriesTotal counts log entries by level
	LogEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairdist_log_entries_total",
			Help: "Total number of log entries by level",
		},
		[]string{"level"},
	)
)
