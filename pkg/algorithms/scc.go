package algorithms

import "github.com/dd0wney/cluso-strata/pkg/storage"

// adjacency is a simple-digraph view of a GraphStorage: distinct successors
// per node, in edge insertion order, plus the node insertion order.
type adjacency struct {
	order []uint64
	pos   map[uint64]int
	succ  map[uint64][]uint64
}

func newAdjacency(graph *storage.GraphStorage) *adjacency {
	order := graph.NodeIDs()
	adj := &adjacency{
		order: order,
		pos:   make(map[uint64]int, len(order)),
		succ:  make(map[uint64][]uint64, len(order)),
	}
	for i, id := range order {
		adj.pos[id] = i
		adj.succ[id] = graph.Successors(id)
	}
	return adj
}

// tarjanState holds per-node state during Tarjan's DFS.
type tarjanState struct {
	index   int
	lowlink int
	onStack bool
}

// StronglyConnectedComponents finds all SCCs using Tarjan's algorithm in O(V+E) time.
// Only outgoing edges are followed (directed graph semantics). Each component
// lists its members in node insertion order.
func StronglyConnectedComponents(graph *storage.GraphStorage) [][]uint64 {
	adj := newAdjacency(graph)
	return adj.components(adj.order, nil)
}

// components runs Tarjan over the nodes in scope (all when allowed is nil).
func (adj *adjacency) components(scope []uint64, allowed map[uint64]bool) [][]uint64 {
	state := make(map[uint64]*tarjanState, len(scope))
	var stack []uint64
	indexCounter := 0
	var result [][]uint64

	var strongconnect func(u uint64)
	strongconnect = func(u uint64) {
		state[u] = &tarjanState{
			index:   indexCounter,
			lowlink: indexCounter,
			onStack: true,
		}
		indexCounter++
		stack = append(stack, u)

		for _, v := range adj.succ[u] {
			if allowed != nil && !allowed[v] {
				continue
			}
			if _, exists := state[v]; !exists {
				strongconnect(v)
				if state[v].lowlink < state[u].lowlink {
					state[u].lowlink = state[v].lowlink
				}
			} else if state[v].onStack {
				if state[v].index < state[u].lowlink {
					state[u].lowlink = state[v].index
				}
			}
		}

		// If u is a root node, pop the stack to form an SCC
		if state[u].lowlink == state[u].index {
			var members []uint64
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				state[w].onStack = false
				members = append(members, w)
				if w == u {
					break
				}
			}
			adj.sortByPosition(members)
			result = append(result, members)
		}
	}

	for _, nodeID := range scope {
		if _, exists := state[nodeID]; !exists {
			strongconnect(nodeID)
		}
	}
	return result
}

func (adj *adjacency) sortByPosition(ids []uint64) {
	// insertion sort; components are small
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && adj.pos[ids[j]] < adj.pos[ids[j-1]]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
