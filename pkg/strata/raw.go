package strata

import (
	"fmt"

	"github.com/dd0wney/cluso-strata/pkg/storage"
)

// Node labels, property keys and edge types of the stratigraphic graph.
const (
	LabelUnit  = "unit"
	LabelGroup = "group"

	PropLabel   = "label"
	PropGroupID = "gid"

	EdgeOverlies = "overlies"
)

// RawNode is a node of the extractor's stratigraphic graph. Group nodes
// stand for a whole group; unit nodes name the group they belong to
// through GroupID, which is the ID of that group's node.
type RawNode struct {
	ID      string
	Label   string
	GroupID string
	IsGroup bool
}

// RawEdge is an "overlies" relationship, upper unit first.
type RawEdge struct {
	From string
	To   string
}

// RawGraph is the stratigraphic graph as reported by the topology
// extractor, before any cycle resolution.
type RawGraph struct {
	Nodes []RawNode
	Edges []RawEdge
}

// Graph materialises the raw graph into a storage graph keyed by raw
// node ID. Group labels are cleaned; unit labels are kept as reported.
func (r *RawGraph) Graph() (*storage.GraphStorage, error) {
	g := storage.NewGraphStorage()
	for _, n := range r.Nodes {
		label := n.Label
		kind := LabelUnit
		if n.IsGroup {
			label = CleanLabel(label)
			kind = LabelGroup
		}
		props := map[string]storage.Value{
			PropLabel:   storage.StringValue(label),
			PropGroupID: storage.StringValue(n.GroupID),
		}
		if _, err := g.CreateNode(n.ID, []string{kind}, props); err != nil {
			return nil, NewError(StageExtract).Context("node %s", n.ID).Cause(err).Err()
		}
	}
	for _, e := range r.Edges {
		from, ok := g.NodeID(e.From)
		if !ok {
			return nil, NewError(StageExtract).Context("edge %s -> %s", e.From, e.To).
				Cause(fmt.Errorf("%w: unknown source node", ErrInvalidInput)).Err()
		}
		to, ok := g.NodeID(e.To)
		if !ok {
			return nil, NewError(StageExtract).Context("edge %s -> %s", e.From, e.To).
				Cause(fmt.Errorf("%w: unknown target node", ErrInvalidInput)).Err()
		}
		if _, err := g.CreateEdge(from, to, EdgeOverlies, nil, 1); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// GroupLabels maps group node IDs to their cleaned labels.
func (r *RawGraph) GroupLabels() map[string]string {
	labels := make(map[string]string)
	for _, n := range r.Nodes {
		if n.IsGroup {
			labels[n.ID] = CleanLabel(n.Label)
		}
	}
	return labels
}

// Label returns the display label of a stratigraphic graph node.
func Label(n *storage.Node) string {
	return n.StringProperty(PropLabel)
}

// IsGroupNode reports whether n stands for a whole group.
func IsGroupNode(n *storage.Node) bool {
	return n.HasLabel(LabelGroup)
}
