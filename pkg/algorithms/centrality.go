package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-strata/pkg/storage"
)

// brandesBetweenness runs a single O(VE) Brandes pass and returns raw,
// unnormalised node betweenness. Parallel edges count once.
func brandesBetweenness(adj *adjacency) map[uint64]float64 {
	nodeIDs := adj.order
	betweenness := make(map[uint64]float64, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		betweenness[nodeID] = 0.0
	}

	for _, source := range nodeIDs {
		stack := make([]uint64, 0, len(nodeIDs))
		predecessors := make(map[uint64][]uint64, len(nodeIDs))
		sigma := make(map[uint64]float64, len(nodeIDs))
		distance := make(map[uint64]int, len(nodeIDs))
		for _, nodeID := range nodeIDs {
			distance[nodeID] = -1
		}

		sigma[source] = 1.0
		distance[source] = 0

		queue := []uint64{source}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)

			for _, w := range adj.succ[v] {
				if distance[w] < 0 {
					queue = append(queue, w)
					distance[w] = distance[v] + 1
				}
				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		delta := make(map[uint64]float64, len(nodeIDs))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1.0 + delta[w])
			}
			if w != source {
				betweenness[w] += delta[w]
			}
		}
	}

	return betweenness
}

// BetweennessCentrality computes normalised betweenness centrality for all
// nodes. Measures how often a node appears on shortest paths between other
// nodes; the directed normalisation factor is 1/((n-1)(n-2)).
func BetweennessCentrality(graph *storage.GraphStorage) map[uint64]float64 {
	adj := newAdjacency(graph)
	betweenness := brandesBetweenness(adj)

	n := len(adj.order)
	if n > 2 {
		normFactor := 1.0 / float64((n-1)*(n-2))
		for nodeID := range betweenness {
			betweenness[nodeID] *= normFactor
		}
	}
	return betweenness
}

// ClosenessCentrality computes closeness centrality for all nodes using
// incoming shortest-path distances. For nodes reached by only part of the
// graph the Wasserman-Faust correction r/(n-1) is applied, where r is the
// number of nodes that reach it.
func ClosenessCentrality(graph *storage.GraphStorage) map[uint64]float64 {
	adj := newAdjacency(graph)
	n := len(adj.order)

	// Reverse adjacency so a BFS from u walks incoming edges.
	pred := make(map[uint64][]uint64, n)
	for _, v := range adj.order {
		for _, w := range adj.succ[v] {
			pred[w] = append(pred[w], v)
		}
	}

	closeness := make(map[uint64]float64, n)
	for _, target := range adj.order {
		distance := map[uint64]int{target: 0}
		queue := []uint64{target}
		totalDistance := 0
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, u := range pred[v] {
				if _, seen := distance[u]; !seen {
					distance[u] = distance[v] + 1
					totalDistance += distance[u]
					queue = append(queue, u)
				}
			}
		}

		reached := len(distance) - 1
		if totalDistance > 0 && n > 1 {
			c := float64(reached) / float64(totalDistance)
			c *= float64(reached) / float64(n-1)
			closeness[target] = c
		} else {
			closeness[target] = 0.0
		}
	}
	return closeness
}

// RankedNode holds a node with its centrality score.
type RankedNode struct {
	NodeID uint64
	Score  float64
}

// TopNodes returns the n highest scoring nodes, ties broken by node ID.
func TopNodes(scores map[uint64]float64, n int) []RankedNode {
	ranked := make([]RankedNode, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, RankedNode{NodeID: id, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].NodeID < ranked[j].NodeID
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
