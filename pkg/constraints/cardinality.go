package constraints

import (
	"fmt"

	"github.com/dd0wney/cluso-strata/pkg/storage"
)

// Direction selects which edges of a node are counted.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
	Any
)

var directionNames = [...]string{"Outgoing", "Incoming", "Any"}

func (d Direction) String() string {
	if d < Outgoing || d > Any {
		return "Unknown"
	}
	return directionNames[d]
}

// CardinalityConstraint bounds the number of edges of EdgeType (any type
// when empty) each node with NodeLabel has. Max 0 means unbounded.
type CardinalityConstraint struct {
	NodeLabel string
	EdgeType  string
	Direction Direction
	Min       int
	Max       int
	Severity  Severity
}

func (cc *CardinalityConstraint) Name() string {
	edgeType := cc.EdgeType
	if edgeType == "" {
		edgeType = "*"
	}
	return fmt.Sprintf("CardinalityConstraint(%s,%s,%s,[%d,%d])",
		cc.NodeLabel, edgeType, cc.Direction, cc.Min, cc.Max)
}

func (cc *CardinalityConstraint) Validate(graph GraphReader) ([]Violation, error) {
	nodes, err := graph.FindNodesByLabel(cc.NodeLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to find nodes with label %s: %w", cc.NodeLabel, err)
	}

	var violations []Violation
	for _, node := range nodes {
		count, err := cc.count(graph, node.ID)
		if err != nil {
			return nil, fmt.Errorf("count edges of %q: %w", node.Key, err)
		}
		bound := cc.check(count)
		if bound == "" {
			continue
		}
		violations = append(violations, Violation{
			Type:       CardinalityViolation,
			Severity:   cc.Severity,
			Node:       node.Key,
			Constraint: cc.Name(),
			Message: fmt.Sprintf("%s %q has %d %s edge(s) of type %q, %s",
				cc.NodeLabel, node.Key, count, cc.Direction, cc.EdgeType, bound),
		})
	}
	return violations, nil
}

// check returns the violated bound, or "".
func (cc *CardinalityConstraint) check(count int) string {
	if cc.Min > 0 && count < cc.Min {
		return fmt.Sprintf("minimum is %d", cc.Min)
	}
	if cc.Max > 0 && count > cc.Max {
		return fmt.Sprintf("maximum is %d", cc.Max)
	}
	return ""
}

func (cc *CardinalityConstraint) count(graph GraphReader, nodeID uint64) (int, error) {
	var sides []func(uint64) ([]*storage.Edge, error)
	if cc.Direction != Incoming {
		sides = append(sides, graph.GetOutgoingEdges)
	}
	if cc.Direction != Outgoing {
		sides = append(sides, graph.GetIncomingEdges)
	}

	n := 0
	for _, edges := range sides {
		list, err := edges(nodeID)
		if err != nil {
			return 0, err
		}
		for _, e := range list {
			if cc.EdgeType == "" || e.Type == cc.EdgeType {
				n++
			}
		}
	}
	return n, nil
}
