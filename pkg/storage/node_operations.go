package storage

import (
	"sync/atomic"
)

// CreateNode creates a new node. A non-empty key must be unique.
func (gs *GraphStorage) CreateNode(key string, labels []string, properties map[string]Value) (*Node, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if key != "" {
		if _, exists := gs.nodesByKey[key]; exists {
			return nil, NewError("CreateNode").NodeKey(key).Cause(ErrDuplicateKey).Err()
		}
	}

	node := &Node{
		ID:         gs.nextNodeID,
		Key:        key,
		Labels:     append([]string(nil), labels...),
		Properties: make(map[string]Value, len(properties)),
	}
	for k, v := range properties {
		node.Properties[k] = v
	}
	gs.nextNodeID++
	gs.insertNodeLocked(node)

	return node.Clone(), nil
}

// GetNode retrieves a node by ID
func (gs *GraphStorage) GetNode(nodeID uint64) (*Node, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	atomic.AddUint64(&gs.stats.TotalQueries, 1)
	node, exists := gs.nodes[nodeID]
	if !exists {
		return nil, NodeNotFoundError(nodeID)
	}
	return node.Clone(), nil
}

// GetNodeByKey retrieves a node by its domain key
func (gs *GraphStorage) GetNodeByKey(key string) (*Node, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	atomic.AddUint64(&gs.stats.TotalQueries, 1)
	id, exists := gs.nodesByKey[key]
	if !exists {
		return nil, NewError("get").NodeKey(key).Cause(ErrNodeNotFound).Err()
	}
	return gs.nodes[id].Clone(), nil
}

// HasNode reports whether a node with the given key exists.
func (gs *GraphStorage) HasNode(key string) bool {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	_, exists := gs.nodesByKey[key]
	return exists
}

// UpdateNode merges properties into an existing node.
func (gs *GraphStorage) UpdateNode(nodeID uint64, properties map[string]Value) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	node, exists := gs.nodes[nodeID]
	if !exists {
		return NewError("UpdateNode").Node(nodeID).Cause(ErrNodeNotFound).Err()
	}
	for k, v := range properties {
		node.Properties[k] = v
	}
	return nil
}

// AddLabel attaches a label to a node if it is not already present.
func (gs *GraphStorage) AddLabel(nodeID uint64, label string) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	node, exists := gs.nodes[nodeID]
	if !exists {
		return NewError("AddLabel").Node(nodeID).Cause(ErrNodeNotFound).Err()
	}
	if node.HasLabel(label) {
		return nil
	}
	node.Labels = append(node.Labels, label)
	gs.nodesByLabel[label] = append(gs.nodesByLabel[label], nodeID)
	return nil
}

// DeleteNode deletes a node and all its edges
func (gs *GraphStorage) DeleteNode(nodeID uint64) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	node, exists := gs.nodes[nodeID]
	if !exists {
		return NewError("DeleteNode").Node(nodeID).Cause(ErrNodeNotFound).Err()
	}

	incident := append(append([]uint64(nil), gs.outgoingEdges[nodeID]...), gs.incomingEdges[nodeID]...)
	for _, edgeID := range incident {
		if _, ok := gs.edges[edgeID]; ok {
			gs.deleteEdgeLocked(edgeID)
		}
	}

	for _, label := range node.Labels {
		gs.nodesByLabel[label] = removeID(gs.nodesByLabel[label], nodeID)
	}
	if node.Key != "" {
		delete(gs.nodesByKey, node.Key)
	}
	delete(gs.outgoingEdges, nodeID)
	delete(gs.incomingEdges, nodeID)
	delete(gs.nodes, nodeID)
	gs.nodeOrder = removeID(gs.nodeOrder, nodeID)
	atomic.AddUint64(&gs.stats.NodeCount, ^uint64(0))
	return nil
}

// NodeIDs returns all node IDs in insertion order.
func (gs *GraphStorage) NodeIDs() []uint64 {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return append([]uint64(nil), gs.nodeOrder...)
}

// Nodes returns clones of all nodes in insertion order.
func (gs *GraphStorage) Nodes() []*Node {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	out := make([]*Node, 0, len(gs.nodeOrder))
	for _, id := range gs.nodeOrder {
		out = append(out, gs.nodes[id].Clone())
	}
	return out
}

// NodeID returns the ID of the node with the given key.
func (gs *GraphStorage) NodeID(key string) (uint64, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	id, ok := gs.nodesByKey[key]
	return id, ok
}
