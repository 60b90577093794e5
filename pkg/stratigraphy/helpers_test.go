package stratigraphy

import (
	"strings"
	"testing"

	"github.com/dd0wney/cluso-strata/pkg/storage"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// rawGroup builds a raw graph with one group node "G" whose units are
// named by units, plus "a>b" overlies edges between raw IDs.
func rawGroup(t *testing.T, units []string, edges ...string) *storage.GraphStorage {
	t.Helper()
	raw := &strata.RawGraph{Nodes: []strata.RawNode{{ID: "G", Label: "G", IsGroup: true}}}
	for _, u := range units {
		raw.Nodes = append(raw.Nodes, strata.RawNode{ID: u, Label: u, GroupID: "G"})
	}
	return withEdges(t, raw, edges...)
}

func withEdges(t *testing.T, raw *strata.RawGraph, edges ...string) *storage.GraphStorage {
	t.Helper()
	for _, e := range edges {
		parts := strings.SplitN(e, ">", 2)
		raw.Edges = append(raw.Edges, strata.RawEdge{From: parts[0], To: parts[1]})
	}
	g, err := raw.Graph()
	if err != nil {
		t.Fatalf("build raw graph: %v", err)
	}
	return g
}

// edgeSet lists edges as "a>b" using node keys.
func edgeSet(g *storage.GraphStorage) map[string]bool {
	set := make(map[string]bool)
	for _, e := range g.Edges() {
		from, _ := g.GetNode(e.FromNodeID)
		to, _ := g.GetNode(e.ToNodeID)
		set[from.Key+">"+to.Key] = true
	}
	return set
}

// validOrder reports whether order lists every unit of g once and never
// puts a unit after one it overlies.
func validOrder(g *storage.GraphStorage, order []string) bool {
	pos := make(map[string]int, len(order))
	for i, u := range order {
		if _, dup := pos[u]; dup {
			return false
		}
		pos[u] = i
	}
	for _, e := range g.Edges() {
		from, _ := g.GetNode(e.FromNodeID)
		to, _ := g.GetNode(e.ToNodeID)
		if strata.IsGroupNode(from) || strata.IsGroupNode(to) {
			continue
		}
		if pos[strata.Label(from)] > pos[strata.Label(to)] {
			return false
		}
	}
	return true
}
