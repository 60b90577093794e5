package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordStage records a stage execution with its duration
func (r *Registry) RecordStage(stage string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.StageRunsTotal.WithLabelValues(stage, status).Inc()
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordWarnings adds n warnings for a stage
func (r *Registry) RecordWarnings(stage string, n int) {
	r.WarningsTotal.WithLabelValues(stage).Add(float64(n))
}

// RecordGraph records node and edge counts of a produced graph
func (r *Registry) RecordGraph(graph string, nodes, edges int) {
	r.GraphNodes.WithLabelValues(graph).Set(float64(nodes))
	r.GraphEdges.WithLabelValues(graph).Set(float64(edges))
}

// RecordCycleBreaking records cycles found, edges removed and the longest
// cycle length seen by a stage
func (r *Registry) RecordCycleBreaking(stage string, cycles, removed, longest int) {
	r.CyclesFoundTotal.WithLabelValues(stage).Add(float64(cycles))
	r.EdgesRemovedTotal.WithLabelValues(stage).Add(float64(removed))
	r.CycleLengthMax.WithLabelValues(stage).Set(float64(longest))
}

// RecordAuthorityLookup records an authority table load
func (r *Registry) RecordAuthorityLookup(source string, err error) {
	status := "ok"
	if err != nil {
		status = "unavailable"
	}
	r.AuthorityLookups.WithLabelValues(source, status).Inc()
}

// RecordArtifact records a written artifact and its size
func (r *Registry) RecordArtifact(sink, kind string, size int) {
	r.ArtifactsWritten.WithLabelValues(sink, kind).Inc()
	r.ArtifactBytesTotal.WithLabelValues(sink).Add(float64(size))
}

// MarkRunStart stamps the run start time and identity
func (r *Registry) MarkRunStart(t time.Time, runID string) {
	r.RunStartTimestamp.Set(float64(t.Unix()))
	r.RunInfo.WithLabelValues(runID).Set(1)
}

// WriteTextfile writes all metrics in the node_exporter textfile format
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
