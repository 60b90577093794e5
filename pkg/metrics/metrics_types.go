package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for a pipeline run
type Registry struct {
	// Stage Metrics
	StageRunsTotal *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec
	WarningsTotal  *prometheus.CounterVec

	// Graph Metrics
	GraphNodes         *prometheus.GaugeVec
	GraphEdges         *prometheus.GaugeVec
	CyclesFoundTotal   *prometheus.CounterVec
	EdgesRemovedTotal  *prometheus.CounterVec
	CycleLengthMax     *prometheus.GaugeVec
	TopologicalOrders  *prometheus.GaugeVec
	SupergroupsTotal   prometheus.Gauge
	FaultsTracked      prometheus.Gauge
	AuthorityLookups   *prometheus.CounterVec
	ArtifactsWritten   *prometheus.CounterVec
	ArtifactBytesTotal *prometheus.CounterVec

	// Run Metrics
	RunStartTimestamp prometheus.Gauge
	RunInfo           *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry for one run. Registries are not shared
// between runs, so concurrent pipelines never mix their series.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initPipelineMetrics()
	r.initGraphMetrics()
	r.initRunMetrics()

	return r
}

// Gatherer exposes the collected series, for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
