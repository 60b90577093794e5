package fusion

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-strata/pkg/constraints"
	"github.com/dd0wney/cluso-strata/pkg/storage"
)

// ErrSchema is returned when node properties or edge counts break the
// fused graph schema.
var ErrSchema = errors.New("fused graph schema violation")

func required(label, prop string, typ storage.ValueType, min, max *float64) *constraints.PropertyConstraint {
	return &constraints.PropertyConstraint{
		NodeLabel:    label,
		PropertyName: prop,
		Type:         typ,
		Required:     true,
		Min:          min,
		Max:          max,
		Severity:     constraints.Error,
	}
}

func optional(label, prop string, typ storage.ValueType, min, max *float64) *constraints.PropertyConstraint {
	c := required(label, prop, typ, min, max)
	c.Required = false
	return c
}

func edges(label, etype string, dir constraints.Direction, min, max int) *constraints.CardinalityConstraint {
	return &constraints.CardinalityConstraint{
		NodeLabel: label,
		EdgeType:  etype,
		Direction: dir,
		Min:       min,
		Max:       max,
		Severity:  constraints.Error,
	}
}

// Schema returns the rules every fused graph satisfies.
func Schema() *constraints.Validator {
	sentinel := constraints.Bound(Sentinel)
	one := constraints.Bound(1)
	return constraints.NewValidator(
		required(NodeFormation, "group", storage.TypeString, nil, nil),
		required(NodeFormation, "GroupNumber", storage.TypeInt, one, nil),
		required(NodeFormation, "IndexInGroup", storage.TypeInt, one, nil),
		required(NodeFormation, "NumberInGroup", storage.TypeInt, one, nil),
		required(NodeFormation, "MinAge", storage.TypeFloat, constraints.Bound(0), nil),
		required(NodeFormation, "MaxAge", storage.TypeFloat, constraints.Bound(0), nil),
		required(NodeFormation, "ThicknessMedian", storage.TypeFloat, sentinel, nil),
		edges(NodeFormation, EdgeGroupFormation, constraints.Incoming, 1, 1),
		edges(NodeFormation, EdgeFormationFormation, constraints.Outgoing, 0, 1),
		edges(NodeFormation, EdgeFormationFormation, constraints.Incoming, 0, 1),
		&constraints.UniqueConstraint{
			NodeLabel:  NodeFormation,
			Properties: []string{"group", "IndexInGroup"},
			Severity:   constraints.Error,
		},

		edges(NodeGroup, EdgeSupergroupGroup, constraints.Incoming, 0, 1),
		edges(NodeGroup, EdgeGroupGroup, constraints.Outgoing, 0, 1),

		required(NodeSupergroup, "l", storage.TypeFloat, sentinel, one),
		required(NodeSupergroup, "m", storage.TypeFloat, sentinel, one),
		required(NodeSupergroup, "n", storage.TypeFloat, sentinel, one),

		required(NodeFault, "ClosenessCentrality", storage.TypeFloat, sentinel, nil),
		required(NodeFault, "BetweennessCentrality", storage.TypeFloat, sentinel, nil),
		optional(NodeFault, "Dip", storage.TypeFloat, sentinel, constraints.Bound(90)),
		optional(NodeFault, "DipDirection", storage.TypeFloat, sentinel, constraints.Bound(360)),
		optional(NodeFault, "OrientationCluster", storage.TypeInt, sentinel, nil),
		optional(NodeFault, "LengthCluster", storage.TypeInt, sentinel, nil),
	)
}

var schema = Schema()

func checkSchema(g *storage.GraphStorage) []error {
	res, err := schema.Validate(g)
	if err != nil {
		return []error{err}
	}
	var errs []error
	for _, v := range res.GetViolationsBySeverity(constraints.Error) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrSchema, v))
	}
	return errs
}
