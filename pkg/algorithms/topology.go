package algorithms

import (
	"errors"

	"github.com/dd0wney/cluso-strata/pkg/storage"
)

// ErrNotDAG is returned when an ordering is requested for a cyclic graph.
var ErrNotDAG = errors.New("graph contains cycles, cannot perform topological sort")

// IsDAG checks if the graph is a Directed Acyclic Graph
// Returns true if the graph contains no cycles
func IsDAG(graph *storage.GraphStorage) bool {
	return !HasCycle(graph)
}

// TopologicalSort returns nodes in topological order using Kahn's algorithm
// The ordering ensures that for every directed edge u->v, u comes before v.
// Ties are broken first-in first-out starting from node insertion order, so
// the result is deterministic and proceeds generation by generation.
func TopologicalSort(graph *storage.GraphStorage) ([]uint64, error) {
	nodeIDs := graph.NodeIDs()
	if len(nodeIDs) == 0 {
		return []uint64{}, nil
	}

	// Calculate in-degree for each node, counting parallel edges
	inDegree := make(map[uint64]int, len(nodeIDs))
	for _, edge := range graph.Edges() {
		inDegree[edge.ToNodeID]++
	}

	queue := make([]uint64, 0, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		if inDegree[nodeID] == 0 {
			queue = append(queue, nodeID)
		}
	}

	result := make([]uint64, 0, len(nodeIDs))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		outgoing, err := graph.GetOutgoingEdges(current)
		if err != nil {
			return nil, err
		}
		for _, edge := range outgoing {
			inDegree[edge.ToNodeID]--
			if inDegree[edge.ToNodeID] == 0 {
				queue = append(queue, edge.ToNodeID)
			}
		}
	}

	if len(result) != len(nodeIDs) {
		return nil, ErrNotDAG
	}
	return result, nil
}

// AllTopologicalSorts enumerates distinct topological orders by
// backtracking, choosing candidates in node insertion order. A positive
// limit caps the number of orders returned.
func AllTopologicalSorts(graph *storage.GraphStorage, limit int) ([][]uint64, error) {
	nodeIDs := graph.NodeIDs()
	if HasCycle(graph) {
		return nil, ErrNotDAG
	}
	if len(nodeIDs) == 0 {
		return [][]uint64{{}}, nil
	}

	inDegree := make(map[uint64]int, len(nodeIDs))
	for _, edge := range graph.Edges() {
		inDegree[edge.ToNodeID]++
	}
	outgoing := make(map[uint64][]uint64, len(nodeIDs))
	for _, id := range nodeIDs {
		edges, err := graph.GetOutgoingEdges(id)
		if err != nil {
			return nil, err
		}
		for _, edge := range edges {
			outgoing[id] = append(outgoing[id], edge.ToNodeID)
		}
	}

	var (
		orders  [][]uint64
		current = make([]uint64, 0, len(nodeIDs))
		placed  = make(map[uint64]bool, len(nodeIDs))
	)

	var visit func() bool
	visit = func() bool {
		if len(current) == len(nodeIDs) {
			orders = append(orders, append([]uint64(nil), current...))
			return limit > 0 && len(orders) >= limit
		}
		for _, id := range nodeIDs {
			if placed[id] || inDegree[id] != 0 {
				continue
			}
			placed[id] = true
			current = append(current, id)
			for _, to := range outgoing[id] {
				inDegree[to]--
			}

			stop := visit()

			for _, to := range outgoing[id] {
				inDegree[to]++
			}
			current = current[:len(current)-1]
			placed[id] = false
			if stop {
				return true
			}
		}
		return false
	}
	visit()

	return orders, nil
}
