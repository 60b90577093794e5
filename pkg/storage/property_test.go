package storage

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// nodeExists checks if a node exists in the storage
func nodeExists(gs *GraphStorage, nodeID uint64) bool {
	_, err := gs.GetNode(nodeID)
	return err == nil
}

// TestGraphInvariants verifies index invariants under random operation mixes
func TestGraphInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("edge creation requires both nodes", prop.ForAll(
		func(n int, fromID, toID uint64) bool {
			gs := NewGraphStorage()
			for i := 0; i < n; i++ {
				gs.CreateNode(fmt.Sprintf("n%d", i), nil, nil)
			}
			_, err := gs.CreateEdge(fromID, toID, "E", nil, 1.0)
			if err == nil {
				return nodeExists(gs, fromID) && nodeExists(gs, toID)
			}
			return IsNotFound(err)
		},
		gen.IntRange(0, 5),
		gen.UInt64Range(0, 8),
		gen.UInt64Range(0, 8),
	))

	properties.Property("edge count matches adjacency after deletes", prop.ForAll(
		func(pairs []int, deletes []int) bool {
			gs := NewGraphStorage()
			ids := make([]uint64, 5)
			for i := range ids {
				node, _ := gs.CreateNode(fmt.Sprintf("n%d", i), nil, nil)
				ids[i] = node.ID
			}
			for _, p := range pairs {
				gs.CreateEdge(ids[p%5], ids[(p/5)%5], "E", nil, 1.0)
			}
			for _, d := range deletes {
				gs.DeleteNode(ids[d%5])
			}

			total := 0
			for _, id := range gs.NodeIDs() {
				out, err := gs.GetOutgoingEdges(id)
				if err != nil {
					return false
				}
				total += len(out)
			}
			return total == gs.EdgeCount() && len(gs.Edges()) == gs.EdgeCount()
		},
		gen.SliceOf(gen.IntRange(0, 24)),
		gen.SliceOf(gen.IntRange(0, 4)),
	))

	properties.Property("subgraph of all nodes equals clone", prop.ForAll(
		func(pairs []int) bool {
			gs := NewGraphStorage()
			for i := 0; i < 4; i++ {
				gs.CreateNode(fmt.Sprintf("n%d", i), nil, nil)
			}
			ids := gs.NodeIDs()
			for _, p := range pairs {
				gs.CreateEdge(ids[p%4], ids[(p/4)%4], "E", nil, 1.0)
			}
			sub := gs.Subgraph(ids)
			clone := gs.Clone()
			return sub.NodeCount() == clone.NodeCount() && sub.EdgeCount() == clone.EdgeCount()
		},
		gen.SliceOf(gen.IntRange(0, 15)),
	))

	properties.TestingRun(t)
}
