package algorithms

import (
	"errors"
	"reflect"
	"testing"
)

// TestIsDAG_EmptyGraph tests DAG check on empty graph
func TestIsDAG_EmptyGraph(t *testing.T) {
	graph := setupTestGraph(t)

	if !IsDAG(graph) {
		t.Error("Empty graph should be a DAG")
	}
	order, err := TopologicalSort(graph)
	if err != nil || len(order) != 0 {
		t.Errorf("Expected empty order, got %v, %v", order, err)
	}
}

// TestTopologicalSort_Diamond tests FIFO tie-breaking from insertion order
func TestTopologicalSort_Diamond(t *testing.T) {
	graph := setupTestGraph(t)
	ids := addNodes(t, graph, "a", "b", "c", "d")
	addEdges(t, graph, ids, "a>c", "a>b", "b>d", "c>d")

	order, err := TopologicalSort(graph)
	if err != nil {
		t.Fatalf("TopologicalSort failed: %v", err)
	}
	// a's edges were inserted c first, so c is discovered first
	if got := keysOf(graph, order); !reflect.DeepEqual(got, []string{"a", "c", "b", "d"}) {
		t.Errorf("Expected [a c b d], got %v", got)
	}
}

// TestTopologicalSort_Generations tests that sources come before later generations
func TestTopologicalSort_Generations(t *testing.T) {
	graph := setupTestGraph(t)
	ids := addNodes(t, graph, "x", "a", "b", "y")
	addEdges(t, graph, ids, "a>b", "b>y")

	order, err := TopologicalSort(graph)
	if err != nil {
		t.Fatalf("TopologicalSort failed: %v", err)
	}
	if got := keysOf(graph, order); !reflect.DeepEqual(got, []string{"x", "a", "b", "y"}) {
		t.Errorf("Expected [x a b y], got %v", got)
	}
}

// TestTopologicalSort_Cycle tests cyclic graphs are rejected
func TestTopologicalSort_Cycle(t *testing.T) {
	graph := setupTestGraph(t)
	ids := addNodes(t, graph, "a", "b")
	addEdges(t, graph, ids, "a>b", "b>a")

	if _, err := TopologicalSort(graph); !errors.Is(err, ErrNotDAG) {
		t.Errorf("Expected ErrNotDAG, got %v", err)
	}
	if _, err := AllTopologicalSorts(graph, 10); !errors.Is(err, ErrNotDAG) {
		t.Errorf("Expected ErrNotDAG, got %v", err)
	}
}

// TestAllTopologicalSorts_Diamond tests enumeration of every order
func TestAllTopologicalSorts_Diamond(t *testing.T) {
	graph := setupTestGraph(t)
	ids := addNodes(t, graph, "a", "b", "c", "d")
	addEdges(t, graph, ids, "a>b", "a>c", "b>d", "c>d")

	orders, err := AllTopologicalSorts(graph, 0)
	if err != nil {
		t.Fatalf("AllTopologicalSorts failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(orders))
	}
	if got := keysOf(graph, orders[0]); !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("First order = %v", got)
	}
	if got := keysOf(graph, orders[1]); !reflect.DeepEqual(got, []string{"a", "c", "b", "d"}) {
		t.Errorf("Second order = %v", got)
	}
}

// TestAllTopologicalSorts_Limit tests the cap on independent nodes
func TestAllTopologicalSorts_Limit(t *testing.T) {
	graph := setupTestGraph(t)
	addNodes(t, graph, "a", "b", "c", "d", "e")

	orders, err := AllTopologicalSorts(graph, 100)
	if err != nil {
		t.Fatalf("AllTopologicalSorts failed: %v", err)
	}
	// 5! = 120 orders exist
	if len(orders) != 100 {
		t.Errorf("Expected 100 orders, got %d", len(orders))
	}
}
