package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-strata/pkg/storage"
)

// Cycle represents an elementary circuit as a sequence of node IDs. The
// closing edge runs from the last node back to the first.
type Cycle []uint64

// Edges returns the cycle's edges as (from, to) pairs, closing edge last.
func (c Cycle) Edges() [][2]uint64 {
	pairs := make([][2]uint64, 0, len(c))
	for i := range c {
		pairs = append(pairs, [2]uint64{c[i], c[(i+1)%len(c)]})
	}
	return pairs
}

// SimpleCycles enumerates the elementary circuits of the graph using
// Johnson's algorithm. Each cycle starts at its earliest node in
// insertion order; self-loops are reported first as one-node cycles.
// A positive limit stops enumeration once that many cycles are found.
func SimpleCycles(graph *storage.GraphStorage, limit int) []Cycle {
	adj := newAdjacency(graph)
	var cycles []Cycle
	full := func() bool { return limit > 0 && len(cycles) >= limit }

	// Self-loops are reported separately and ignored by the circuit search.
	for _, v := range adj.order {
		for _, w := range adj.succ[v] {
			if w == v {
				cycles = append(cycles, Cycle{v})
				if full() {
					return cycles
				}
			}
		}
	}

	// pending is a stack of non-trivial SCCs, earliest start node on top.
	var pending [][]uint64
	push := func(scope []uint64) {
		comps := adj.components(scope, idSet(scope))
		sort.Slice(comps, func(i, j int) bool {
			return adj.pos[comps[i][0]] > adj.pos[comps[j][0]]
		})
		for _, comp := range comps {
			if len(comp) > 1 {
				pending = append(pending, comp)
			}
		}
	}

	push(adj.order)
	for len(pending) > 0 && !full() {
		comp := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		cycles = adj.circuits(comp[0], idSet(comp), cycles, limit)
		push(comp[1:])
	}
	return cycles
}

func idSet(ids []uint64) map[uint64]bool {
	set := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// circuits finds every circuit through start inside member.
func (adj *adjacency) circuits(start uint64, member map[uint64]bool, cycles []Cycle, limit int) []Cycle {
	blocked := make(map[uint64]bool, len(member))
	blockedBy := make(map[uint64]map[uint64]bool, len(member))
	var path []uint64

	var unblock func(u uint64)
	unblock = func(u uint64) {
		blocked[u] = false
		for w := range blockedBy[u] {
			delete(blockedBy[u], w)
			if blocked[w] {
				unblock(w)
			}
		}
	}

	var circuit func(v uint64) bool
	circuit = func(v uint64) bool {
		found := false
		path = append(path, v)
		blocked[v] = true
		for _, w := range adj.succ[v] {
			if limit > 0 && len(cycles) >= limit {
				break
			}
			if !member[w] || w == v {
				continue
			}
			if w == start {
				cycles = append(cycles, append(Cycle(nil), path...))
				found = true
			} else if !blocked[w] {
				if circuit(w) {
					found = true
				}
			}
		}
		if found {
			unblock(v)
		} else {
			for _, w := range adj.succ[v] {
				if !member[w] || w == v {
					continue
				}
				if blockedBy[w] == nil {
					blockedBy[w] = make(map[uint64]bool)
				}
				blockedBy[w][v] = true
			}
		}
		path = path[:len(path)-1]
		return found
	}

	circuit(start)
	return cycles
}

// HasCycle reports whether the graph contains any directed cycle,
// self-loops included.
func HasCycle(graph *storage.GraphStorage) bool {
	adj := newAdjacency(graph)
	for _, v := range adj.order {
		for _, w := range adj.succ[v] {
			if w == v {
				return true
			}
		}
	}
	for _, comp := range adj.components(adj.order, nil) {
		if len(comp) > 1 {
			return true
		}
	}
	return false
}

// CycleStats summarises a cycle enumeration.
type CycleStats struct {
	TotalCycles   int
	ShortestCycle int
	LongestCycle  int
	AverageLength float64
}

// AnalyzeCycles computes statistics over cycles.
func AnalyzeCycles(cycles []Cycle) CycleStats {
	stats := CycleStats{TotalCycles: len(cycles)}
	if len(cycles) == 0 {
		return stats
	}
	total := 0
	stats.ShortestCycle = len(cycles[0])
	for _, c := range cycles {
		total += len(c)
		if len(c) < stats.ShortestCycle {
			stats.ShortestCycle = len(c)
		}
		if len(c) > stats.LongestCycle {
			stats.LongestCycle = len(c)
		}
	}
	stats.AverageLength = float64(total) / float64(len(cycles))
	return stats
}
