package stratigraphy

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-strata/pkg/algorithms"
	"github.com/dd0wney/cluso-strata/pkg/authority"
	"github.com/dd0wney/cluso-strata/pkg/storage"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

func randomGroup(n int, pairs []int) *storage.GraphStorage {
	raw := &strata.RawGraph{Nodes: []strata.RawNode{{ID: "G", Label: "G", IsGroup: true}}}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("u%d", i)
		raw.Nodes = append(raw.Nodes, strata.RawNode{ID: id, Label: id, GroupID: "G"})
	}
	for _, p := range pairs {
		raw.Edges = append(raw.Edges, strata.RawEdge{
			From: fmt.Sprintf("u%d", p%n),
			To:   fmt.Sprintf("u%d", (p/n)%n),
		})
	}
	g, _ := raw.Graph()
	return g
}

// TestCycleBreakingProperties checks acyclicity and idempotence on random graphs
func TestCycleBreakingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	breakers := []CycleBreaker{
		FirstEdgeBreaker{},
		AuthorityBreaker{Table: authority.NewTable(
			authority.Pair{Over: "u0", Under: "u1"},
			authority.Pair{Over: "u2", Under: "u1"},
		)},
	}

	properties.Property("broken graph is acyclic", prop.ForAll(
		func(n int, pairs []int, which int) bool {
			g := randomGroup(n, pairs)
			res := BreakCycles(g, breakers[which], strata.StageStratigraphy, "G", 0)
			return len(algorithms.SimpleCycles(res.Graph, 0)) == 0
		},
		gen.IntRange(1, 6),
		gen.SliceOfN(12, gen.IntRange(0, 35)),
		gen.IntRange(0, 1),
	))

	properties.Property("second pass removes nothing", prop.ForAll(
		func(n int, pairs []int, which int) bool {
			g := randomGroup(n, pairs)
			first := BreakCycles(g, breakers[which], strata.StageStratigraphy, "G", 0)
			second := BreakCycles(first.Graph, breakers[which], strata.StageStratigraphy, "G", 0)
			return len(second.Removed) == 0 && second.Graph.EdgeCount() == first.Graph.EdgeCount()
		},
		gen.IntRange(1, 6),
		gen.SliceOfN(12, gen.IntRange(0, 35)),
		gen.IntRange(0, 1),
	))

	properties.Property("at most one removal per cycle", prop.ForAll(
		func(n int, pairs []int) bool {
			g := randomGroup(n, pairs)
			res := BreakCycles(g, FirstEdgeBreaker{}, strata.StageStratigraphy, "G", 0)
			return len(res.Removed) <= res.Cycles
		},
		gen.IntRange(1, 6),
		gen.SliceOfN(12, gen.IntRange(0, 35)),
	))

	properties.Property("every resolved group has a valid order", prop.ForAll(
		func(n int, pairs []int) bool {
			g := randomGroup(n, pairs)
			result, err := Resolve(g, Options{})
			if err != nil {
				return false
			}
			group, ok := result.Group("G")
			return ok && len(group.Order) == n && validOrder(group.Graph, group.Order)
		},
		gen.IntRange(1, 6),
		gen.SliceOfN(12, gen.IntRange(0, 35)),
	))

	properties.TestingRun(t)
}
