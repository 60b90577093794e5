package stratigraphy

import (
	"github.com/dd0wney/cluso-strata/pkg/algorithms"
	"github.com/dd0wney/cluso-strata/pkg/storage"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// RemovedEdge records a relationship dropped to break a cycle.
type RemovedEdge struct {
	Over  string
	Under string
	Code  strata.WarningCode
}

// BreakResult is the outcome of cycle breaking on one graph.
type BreakResult struct {
	Graph    *storage.GraphStorage
	Cycles   int
	Longest  int // most edges in any enumerated cycle
	Removed  []RemovedEdge
	Warnings strata.Warnings
}

// BreakCycles returns an acyclic copy of g. Elementary cycles are
// enumerated in rounds of at most cycleLimit (all when cycleLimit <= 0);
// each cycle not already broken by an earlier removal loses exactly the
// edge breaker picks. The input graph is not modified, and running
// BreakCycles on its own output removes nothing.
func BreakCycles(g *storage.GraphStorage, breaker CycleBreaker, stage, entity string, cycleLimit int) *BreakResult {
	work := g.Clone()
	result := &BreakResult{Graph: work}

	for {
		cycles := algorithms.SimpleCycles(work, cycleLimit)
		if len(cycles) == 0 {
			return result
		}
		result.Cycles += len(cycles)
		result.Longest = max(result.Longest, algorithms.AnalyzeCycles(cycles).LongestCycle)

		for _, cycle := range cycles {
			edges, intact := cycleEdges(work, cycle)
			if !intact {
				continue
			}
			idx, code := breaker.Choose(edges)
			if idx < 0 || idx >= len(edges) {
				idx = 0
			}
			victim := edges[idx]
			work.RemoveEdgeBetween(victim.From, victim.To)

			result.Removed = append(result.Removed, RemovedEdge{Over: victim.Over, Under: victim.Under, Code: code})
			result.Warnings.Add(stage, code, entity, "%s", strata.EdgeRemovedMessage(victim.Over, victim.Under))
		}
	}
}

// cycleEdges resolves a cycle against the working graph. intact is false
// when one of its edges has already been removed.
func cycleEdges(g *storage.GraphStorage, cycle algorithms.Cycle) ([]CycleEdge, bool) {
	pairs := cycle.Edges()
	edges := make([]CycleEdge, 0, len(pairs))
	for _, p := range pairs {
		if !g.HasEdge(p[0], p[1]) {
			return nil, false
		}
		from, err := g.GetNode(p[0])
		if err != nil {
			return nil, false
		}
		to, err := g.GetNode(p[1])
		if err != nil {
			return nil, false
		}
		edges = append(edges, CycleEdge{
			From:       p[0],
			To:         p[1],
			Over:       nodeName(from),
			Under:      nodeName(to),
			FromMarker: strata.IsGroupNode(from),
			ToMarker:   strata.IsGroupNode(to),
		})
	}
	return edges, true
}

// nodeName prefers the display label over the storage key.
func nodeName(n *storage.Node) string {
	if label := strata.Label(n); label != "" {
		return label
	}
	return n.Key
}
