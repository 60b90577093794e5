package storage

import "sync/atomic"

// GetOutgoingEdges gets all outgoing edges from a node, in insertion order
func (gs *GraphStorage) GetOutgoingEdges(nodeID uint64) ([]*Edge, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	atomic.AddUint64(&gs.stats.TotalQueries, 1)
	if _, exists := gs.nodes[nodeID]; !exists {
		return nil, NodeNotFoundError(nodeID)
	}
	return gs.cloneEdgesLocked(gs.outgoingEdges[nodeID]), nil
}

// GetIncomingEdges gets all incoming edges to a node, in insertion order
func (gs *GraphStorage) GetIncomingEdges(nodeID uint64) ([]*Edge, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	atomic.AddUint64(&gs.stats.TotalQueries, 1)
	if _, exists := gs.nodes[nodeID]; !exists {
		return nil, NodeNotFoundError(nodeID)
	}
	return gs.cloneEdgesLocked(gs.incomingEdges[nodeID]), nil
}

// Successors returns the distinct targets of a node's outgoing edges,
// in first-seen order.
func (gs *GraphStorage) Successors(nodeID uint64) []uint64 {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.distinctEndpointsLocked(gs.outgoingEdges[nodeID], func(e *Edge) uint64 { return e.ToNodeID })
}

// Predecessors returns the distinct sources of a node's incoming edges,
// in first-seen order.
func (gs *GraphStorage) Predecessors(nodeID uint64) []uint64 {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.distinctEndpointsLocked(gs.incomingEdges[nodeID], func(e *Edge) uint64 { return e.FromNodeID })
}

// Degree returns in-degree plus out-degree, counting parallel edges.
func (gs *GraphStorage) Degree(nodeID uint64) int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return len(gs.outgoingEdges[nodeID]) + len(gs.incomingEdges[nodeID])
}

// FindNodesByLabel finds all nodes with a specific label, in insertion order
func (gs *GraphStorage) FindNodesByLabel(label string) ([]*Node, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	atomic.AddUint64(&gs.stats.TotalQueries, 1)
	ids := gs.nodesByLabel[label]
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if node, ok := gs.nodes[id]; ok {
			nodes = append(nodes, node.Clone())
		}
	}
	return nodes, nil
}

// FindNodesByProperty finds all nodes whose property equals value
func (gs *GraphStorage) FindNodesByProperty(key string, value Value) ([]*Node, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	atomic.AddUint64(&gs.stats.TotalQueries, 1)
	var nodes []*Node
	for _, id := range gs.nodeOrder {
		node := gs.nodes[id]
		if prop, ok := node.Properties[key]; ok && prop.Type == value.Type && string(prop.Data) == string(value.Data) {
			nodes = append(nodes, node.Clone())
		}
	}
	return nodes, nil
}

// FindEdgesByType finds all edges of a specific type, in insertion order
func (gs *GraphStorage) FindEdgesByType(edgeType string) ([]*Edge, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	atomic.AddUint64(&gs.stats.TotalQueries, 1)
	return gs.cloneEdgesLocked(gs.edgesByType[edgeType]), nil
}

// Edges returns clones of all edges in insertion order.
func (gs *GraphStorage) Edges() []*Edge {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.cloneEdgesLocked(gs.edgeOrder)
}

func (gs *GraphStorage) cloneEdgesLocked(ids []uint64) []*Edge {
	edges := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		if edge, ok := gs.edges[id]; ok {
			edges = append(edges, edge.Clone())
		}
	}
	return edges
}

func (gs *GraphStorage) distinctEndpointsLocked(ids []uint64, end func(*Edge) uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		n := end(gs.edges[id])
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
