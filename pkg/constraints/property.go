package constraints

import (
	"fmt"

	"github.com/dd0wney/cluso-strata/pkg/storage"
)

// PropertyConstraint validates one property of every node with a label.
// Min and Max apply to int and float values and are inclusive.
type PropertyConstraint struct {
	NodeLabel    string
	PropertyName string
	Type         storage.ValueType
	AnyType      bool
	Required     bool
	Min          *float64
	Max          *float64
	Severity     Severity
}

// Bound returns a pointer to v, for Min and Max.
func Bound(v float64) *float64 { return &v }

// Name returns the constraint name
func (pc *PropertyConstraint) Name() string {
	return fmt.Sprintf("PropertyConstraint(%s.%s)", pc.NodeLabel, pc.PropertyName)
}

// Validate checks the property constraint against all nodes with the target label
func (pc *PropertyConstraint) Validate(graph GraphReader) ([]Violation, error) {
	nodes, err := graph.FindNodesByLabel(pc.NodeLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to find nodes with label %s: %w", pc.NodeLabel, err)
	}

	var violations []Violation
	add := func(kind ViolationType, node *storage.Node, format string, args ...any) {
		violations = append(violations, Violation{
			Type:       kind,
			Severity:   pc.Severity,
			Node:       node.Key,
			Constraint: pc.Name(),
			Message:    fmt.Sprintf("%s %q ", pc.NodeLabel, node.Key) + fmt.Sprintf(format, args...),
		})
	}

	for _, node := range nodes {
		value, exists := node.GetProperty(pc.PropertyName)
		if !exists {
			if pc.Required {
				add(MissingProperty, node, "missing required property %q", pc.PropertyName)
			}
			continue
		}
		if !pc.AnyType && value.Type != pc.Type {
			add(InvalidType, node, "property %q has type %s, want %s", pc.PropertyName, value.Type, pc.Type)
			continue
		}

		n, ok := numeric(value)
		if !ok {
			continue
		}
		if pc.Min != nil && n < *pc.Min {
			add(OutOfRange, node, "property %q value %g is below minimum %g", pc.PropertyName, n, *pc.Min)
		}
		if pc.Max != nil && n > *pc.Max {
			add(OutOfRange, node, "property %q value %g is above maximum %g", pc.PropertyName, n, *pc.Max)
		}
	}
	return violations, nil
}

func numeric(v storage.Value) (float64, bool) {
	switch v.Type {
	case storage.TypeInt:
		i, err := v.AsInt()
		return float64(i), err == nil
	case storage.TypeFloat:
		f, err := v.AsFloat()
		return f, err == nil
	}
	return 0, false
}
