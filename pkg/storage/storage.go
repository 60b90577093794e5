package storage

import (
	"sync"
	"sync/atomic"
)

// GraphStorage is an in-memory attributed directed multigraph.
// Node and edge iteration follows insertion order, and IDs survive
// Clone and Subgraph so callers can use them as a stable tie-break.
type GraphStorage struct {
	nodes         map[uint64]*Node
	edges         map[uint64]*Edge
	nodeOrder     []uint64
	edgeOrder     []uint64
	nodesByKey    map[string]uint64
	nodesByLabel  map[string][]uint64
	edgesByType   map[string][]uint64
	outgoingEdges map[uint64][]uint64
	incomingEdges map[uint64][]uint64
	nextNodeID    uint64
	nextEdgeID    uint64
	mu            sync.RWMutex
	stats         Statistics
}

// Statistics tracks graph statistics
type Statistics struct {
	NodeCount    uint64
	EdgeCount    uint64
	TotalQueries uint64
}

// NewGraphStorage creates an empty graph.
func NewGraphStorage() *GraphStorage {
	return &GraphStorage{
		nodes:         make(map[uint64]*Node),
		edges:         make(map[uint64]*Edge),
		nodesByKey:    make(map[string]uint64),
		nodesByLabel:  make(map[string][]uint64),
		edgesByType:   make(map[string][]uint64),
		outgoingEdges: make(map[uint64][]uint64),
		incomingEdges: make(map[uint64][]uint64),
		nextNodeID:    1,
		nextEdgeID:    1,
	}
}

// GetStatistics returns graph statistics
func (gs *GraphStorage) GetStatistics() Statistics {
	return Statistics{
		NodeCount:    atomic.LoadUint64(&gs.stats.NodeCount),
		EdgeCount:    atomic.LoadUint64(&gs.stats.EdgeCount),
		TotalQueries: atomic.LoadUint64(&gs.stats.TotalQueries),
	}
}

// NodeCount returns the number of nodes.
func (gs *GraphStorage) NodeCount() int {
	return int(atomic.LoadUint64(&gs.stats.NodeCount))
}

// EdgeCount returns the number of edges.
func (gs *GraphStorage) EdgeCount() int {
	return int(atomic.LoadUint64(&gs.stats.EdgeCount))
}

// Clone returns a deep copy that preserves node and edge IDs.
func (gs *GraphStorage) Clone() *GraphStorage {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.subgraphLocked(nil)
}

// Subgraph returns the subgraph induced by nodeIDs, preserving IDs and
// insertion order. Unknown IDs are ignored.
func (gs *GraphStorage) Subgraph(nodeIDs []uint64) *GraphStorage {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	keep := make(map[uint64]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		keep[id] = true
	}
	return gs.subgraphLocked(keep)
}

// subgraphLocked copies the nodes in keep (all nodes when keep is nil)
// and the edges between them. Caller must hold at least a read lock.
func (gs *GraphStorage) subgraphLocked(keep map[uint64]bool) *GraphStorage {
	out := NewGraphStorage()
	out.nextNodeID = gs.nextNodeID
	out.nextEdgeID = gs.nextEdgeID

	for _, id := range gs.nodeOrder {
		if keep != nil && !keep[id] {
			continue
		}
		out.insertNodeLocked(gs.nodes[id].Clone())
	}
	for _, id := range gs.edgeOrder {
		edge := gs.edges[id]
		if _, ok := out.nodes[edge.FromNodeID]; !ok {
			continue
		}
		if _, ok := out.nodes[edge.ToNodeID]; !ok {
			continue
		}
		out.insertEdgeLocked(edge.Clone())
	}
	return out
}

func (gs *GraphStorage) insertNodeLocked(node *Node) {
	gs.nodes[node.ID] = node
	gs.nodeOrder = append(gs.nodeOrder, node.ID)
	if node.Key != "" {
		gs.nodesByKey[node.Key] = node.ID
	}
	for _, label := range node.Labels {
		gs.nodesByLabel[label] = append(gs.nodesByLabel[label], node.ID)
	}
	atomic.AddUint64(&gs.stats.NodeCount, 1)
}

func (gs *GraphStorage) insertEdgeLocked(edge *Edge) {
	gs.edges[edge.ID] = edge
	gs.edgeOrder = append(gs.edgeOrder, edge.ID)
	gs.edgesByType[edge.Type] = append(gs.edgesByType[edge.Type], edge.ID)
	gs.outgoingEdges[edge.FromNodeID] = append(gs.outgoingEdges[edge.FromNodeID], edge.ID)
	gs.incomingEdges[edge.ToNodeID] = append(gs.incomingEdges[edge.ToNodeID], edge.ID)
	atomic.AddUint64(&gs.stats.EdgeCount, 1)
}

// removeID removes the first occurrence of id, keeping order.
func removeID(ids []uint64, id uint64) []uint64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
