package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// initRunMetrics registers run identity and the Go runtime collector.
// The textfile is written once per run, so runtime figures are a
// snapshot taken at write time.
func (r *Registry) initRunMetrics() {
	r.RunStartTimestamp = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "strata_run_start_timestamp_seconds",
			Help: "Unix time the pipeline run started",
		},
	)

	r.RunInfo = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "strata_run_info",
			Help: "Always 1; labels identify the run",
		},
		[]string{"run_id"},
	)

	r.registry.MustRegister(collectors.NewGoCollector())
}
