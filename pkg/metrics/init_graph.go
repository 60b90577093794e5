package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "strata_graph_nodes",
			Help: "Number of nodes in a produced graph",
		},
		[]string{"graph"},
	)

	r.GraphEdges = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "strata_graph_edges",
			Help: "Number of edges in a produced graph",
		},
		[]string{"graph"},
	)

	r.CyclesFoundTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_cycles_found_total",
			Help: "Total number of elementary cycles enumerated",
		},
		[]string{"stage"},
	)

	r.EdgesRemovedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_edges_removed_total",
			Help: "Total number of edges removed to break cycles",
		},
		[]string{"stage"},
	)

	r.CycleLengthMax = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "strata_cycle_length_max",
			Help: "Edges in the longest cycle enumerated in the last run",
		},
		[]string{"stage"},
	)

	r.TopologicalOrders = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "strata_topological_orders",
			Help: "Number of topological orders emitted",
		},
		[]string{"scope"},
	)

	r.SupergroupsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "strata_supergroups",
			Help: "Number of supergroups including the cover",
		},
	)

	r.FaultsTracked = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "strata_faults_tracked",
			Help: "Number of faults that passed the length filter",
		},
	)
}
