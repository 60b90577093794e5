package storage

import (
	"fmt"
	"sync/atomic"
)

// CreateEdge creates a new edge between two nodes. Parallel edges are
// permitted; callers that need a simple graph check FindEdge first.
func (gs *GraphStorage) CreateEdge(fromID, toID uint64, edgeType string, properties map[string]Value, weight float64) (*Edge, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if _, exists := gs.nodes[fromID]; !exists {
		return nil, NewError("CreateEdge").Node(fromID).Context("source").Cause(ErrNodeNotFound).Err()
	}
	if _, exists := gs.nodes[toID]; !exists {
		return nil, NewError("CreateEdge").Node(toID).Context("target").Cause(ErrNodeNotFound).Err()
	}

	edge := &Edge{
		ID:         gs.nextEdgeID,
		FromNodeID: fromID,
		ToNodeID:   toID,
		Type:       edgeType,
		Properties: make(map[string]Value, len(properties)),
		Weight:     weight,
	}
	for k, v := range properties {
		edge.Properties[k] = v
	}
	gs.nextEdgeID++
	gs.insertEdgeLocked(edge)

	return edge.Clone(), nil
}

// GetEdge retrieves an edge by ID
func (gs *GraphStorage) GetEdge(edgeID uint64) (*Edge, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	atomic.AddUint64(&gs.stats.TotalQueries, 1)
	edge, exists := gs.edges[edgeID]
	if !exists {
		return nil, EdgeNotFoundError(edgeID)
	}
	return edge.Clone(), nil
}

// UpdateEdge merges properties into an existing edge.
func (gs *GraphStorage) UpdateEdge(edgeID uint64, properties map[string]Value) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	edge, exists := gs.edges[edgeID]
	if !exists {
		return NewError("UpdateEdge").Edge(edgeID).Cause(ErrEdgeNotFound).Err()
	}
	for k, v := range properties {
		edge.Properties[k] = v
	}
	return nil
}

// DeleteEdge deletes an edge
func (gs *GraphStorage) DeleteEdge(edgeID uint64) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if _, exists := gs.edges[edgeID]; !exists {
		return NewError("DeleteEdge").Edge(edgeID).Cause(ErrEdgeNotFound).Err()
	}
	gs.deleteEdgeLocked(edgeID)
	return nil
}

func (gs *GraphStorage) deleteEdgeLocked(edgeID uint64) {
	edge := gs.edges[edgeID]
	gs.outgoingEdges[edge.FromNodeID] = removeID(gs.outgoingEdges[edge.FromNodeID], edgeID)
	gs.incomingEdges[edge.ToNodeID] = removeID(gs.incomingEdges[edge.ToNodeID], edgeID)
	gs.edgesByType[edge.Type] = removeID(gs.edgesByType[edge.Type], edgeID)
	gs.edgeOrder = removeID(gs.edgeOrder, edgeID)
	delete(gs.edges, edgeID)
	atomic.AddUint64(&gs.stats.EdgeCount, ^uint64(0))
}

// RemoveEdgeBetween deletes every edge from fromID to toID and returns
// how many were removed.
func (gs *GraphStorage) RemoveEdgeBetween(fromID, toID uint64) int {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	var victims []uint64
	for _, edgeID := range gs.outgoingEdges[fromID] {
		if gs.edges[edgeID].ToNodeID == toID {
			victims = append(victims, edgeID)
		}
	}
	for _, edgeID := range victims {
		gs.deleteEdgeLocked(edgeID)
	}
	return len(victims)
}

// FindEdge returns the first edge from fromID to toID in insertion order.
func (gs *GraphStorage) FindEdge(fromID, toID uint64) (*Edge, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	for _, edgeID := range gs.outgoingEdges[fromID] {
		edge := gs.edges[edgeID]
		if edge.ToNodeID == toID {
			return edge.Clone(), true
		}
	}
	return nil, false
}

// HasEdge reports whether any edge runs from fromID to toID.
func (gs *GraphStorage) HasEdge(fromID, toID uint64) bool {
	_, ok := gs.FindEdge(fromID, toID)
	return ok
}

// EdgeKeys renders an edge as "from -> to" using node keys, for messages.
func (gs *GraphStorage) EdgeKeys(edge *Edge) string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	from, to := "?", "?"
	if n, ok := gs.nodes[edge.FromNodeID]; ok {
		from = n.Key
	}
	if n, ok := gs.nodes[edge.ToNodeID]; ok {
		to = n.Key
	}
	return fmt.Sprintf("%s -> %s", from, to)
}
