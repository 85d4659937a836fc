package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RefreshAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulseboard_refresh_attempts_total",
		Help: "The total number of refresh attempts by resulting status",
	}, []string{"status"})

	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pulseboard_refresh_duration_seconds",
		Help:    "Duration of full refresh cycles",
		Buckets: prometheus.DefBuckets,
	})

	SourceAvailable = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pulseboard_source_available",
		Help: "Whether an optional source responded on the last refresh (1/0)",
	}, []string{"source"})

	SourceRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulseboard_source_rows_total",
		Help: "The total number of rows fetched per source",
	}, []string{"source"})

	SnapshotMembers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pulseboard_snapshot_members",
		Help: "Number of members in the published snapshot",
	})

	SnapshotChannels = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pulseboard_snapshot_channels",
		Help: "Number of channels in the published snapshot",
	})

	SnapshotSeq = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pulseboard_snapshot_seq",
		Help: "Publication sequence number of the current snapshot",
	})
)
