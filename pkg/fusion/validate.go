package fusion

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-strata/pkg/storage"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// ErrEdgeEndpoints is returned when an edge connects node types its
// edge type does not allow.
var ErrEdgeEndpoints = errors.New("edge connects disallowed node types")

// NodeType returns the ntype of n.
func NodeType(n *storage.Node) string {
	return n.StringProperty(PropNodeType)
}

// Validate checks every edge against the allowed endpoint table and the
// graph against Schema, and joins all violations.
func Validate(g *storage.GraphStorage) error {
	var errs []error
	for _, e := range g.Edges() {
		from, err := g.GetNode(e.FromNodeID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		to, err := g.GetNode(e.ToNodeID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		wantFrom, wantTo, ok := Endpoints(e.Type)
		if !ok {
			errs = append(errs, fmt.Errorf("edge %s -> %s: unknown type %q: %w", from.Key, to.Key, e.Type, ErrEdgeEndpoints))
			continue
		}
		if NodeType(from) != wantFrom || NodeType(to) != wantTo {
			errs = append(errs, fmt.Errorf("%s edge %s (%s) -> %s (%s): %w",
				e.Type, from.Key, NodeType(from), to.Key, NodeType(to), ErrEdgeEndpoints))
		}
	}
	errs = append(errs, checkSchema(g)...)
	if len(errs) == 0 {
		return nil
	}
	return strata.NewError(strata.StageFusion).
		Context("%d violations", len(errs)).
		Cause(errors.Join(errs...)).Err()
}

// Counts tallies nodes by ntype and edges by etype.
func Counts(g *storage.GraphStorage) (nodes, edges map[string]int) {
	nodes = make(map[string]int)
	edges = make(map[string]int)
	for _, n := range g.Nodes() {
		nodes[NodeType(n)]++
	}
	for _, e := range g.Edges() {
		edges[e.Type]++
	}
	return nodes, edges
}
