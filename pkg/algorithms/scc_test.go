package algorithms

import "testing"

func TestStronglyConnectedComponents(t *testing.T) {
	graph := setupTestGraph(t)
	ids := addNodes(t, graph, "a", "b", "c", "d")
	addEdges(t, graph, ids, "b>a", "a>b", "b>c", "c>d", "d>c")

	comps := StronglyConnectedComponents(graph)
	if len(comps) != 2 {
		t.Fatalf("Expected 2 components, got %d", len(comps))
	}
	for _, comp := range comps {
		if len(comp) != 2 {
			t.Errorf("Expected component of size 2, got %v", comp)
		}
		if comp[0] != ids["a"] && comp[0] != ids["c"] {
			t.Errorf("Members should be in insertion order, got %v", keysOf(graph, comp))
		}
	}
}

func TestStronglyConnectedComponents_Singletons(t *testing.T) {
	graph := setupTestGraph(t)
	ids := addNodes(t, graph, "a", "b", "c")
	addEdges(t, graph, ids, "a>b", "b>c")

	if comps := StronglyConnectedComponents(graph); len(comps) != 3 {
		t.Errorf("Expected 3 singleton components, got %d", len(comps))
	}
}
