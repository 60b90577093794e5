package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.StageRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_stage_runs_total",
			Help: "Total number of pipeline stage executions",
		},
		[]string{"stage", "status"},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "strata_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"stage"},
	)

	r.WarningsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_warnings_total",
			Help: "Total number of non-fatal warnings raised by a stage",
		},
		[]string{"stage"},
	)

	r.AuthorityLookups = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_authority_lookups_total",
			Help: "Total number of contact authority table loads",
		},
		[]string{"source", "status"},
	)

	r.ArtifactsWritten = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_artifacts_written_total",
			Help: "Total number of artifacts written",
		},
		[]string{"sink", "kind"},
	)

	r.ArtifactBytesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_artifact_bytes_total",
			Help: "Total bytes of artifacts written",
		},
		[]string{"sink"},
	)
}
