package algorithms

import (
	"testing"

	"github.com/dd0wney/cluso-strata/pkg/storage"
)

func setupTestGraph(t *testing.T) *storage.GraphStorage {
	t.Helper()
	return storage.NewGraphStorage()
}

// addNodes creates one node per key and returns their IDs by key.
func addNodes(t *testing.T, graph *storage.GraphStorage, keys ...string) map[string]uint64 {
	t.Helper()
	ids := make(map[string]uint64, len(keys))
	for _, key := range keys {
		node, err := graph.CreateNode(key, []string{"Node"}, nil)
		if err != nil {
			t.Fatalf("CreateNode(%s) failed: %v", key, err)
		}
		ids[key] = node.ID
	}
	return ids
}

// addEdges creates edges from "a>b" specs.
func addEdges(t *testing.T, graph *storage.GraphStorage, ids map[string]uint64, specs ...string) {
	t.Helper()
	for _, spec := range specs {
		var from, to string
		for i := range spec {
			if spec[i] == '>' {
				from, to = spec[:i], spec[i+1:]
				break
			}
		}
		if _, err := graph.CreateEdge(ids[from], ids[to], "E", nil, 1.0); err != nil {
			t.Fatalf("CreateEdge(%s) failed: %v", spec, err)
		}
	}
}

func keysOf(graph *storage.GraphStorage, ids []uint64) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		node, err := graph.GetNode(id)
		if err == nil {
			keys[i] = node.Key
		}
	}
	return keys
}
