package constraints

import (
	"fmt"
	"strings"
)

// UniqueConstraint requires the combination of Properties to be unique
// among nodes with NodeLabel. Nodes missing any of the properties are
// not checked.
type UniqueConstraint struct {
	NodeLabel  string
	Properties []string
	Severity   Severity
}

// Name returns a human-readable name for this constraint
func (c *UniqueConstraint) Name() string {
	return fmt.Sprintf("Unique(%s.%s)", c.NodeLabel, strings.Join(c.Properties, "+"))
}

// Validate reports every node after the first that repeats a key.
func (c *UniqueConstraint) Validate(graph GraphReader) ([]Violation, error) {
	nodes, err := graph.FindNodesByLabel(c.NodeLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to find nodes with label %s: %w", c.NodeLabel, err)
	}

	var violations []Violation
	first := make(map[string]string)
	for _, node := range nodes {
		parts := make([]string, 0, len(c.Properties))
		complete := true
		for _, p := range c.Properties {
			v, ok := node.GetProperty(p)
			if !ok {
				complete = false
				break
			}
			parts = append(parts, v.String())
		}
		if !complete {
			continue
		}
		key := strings.Join(parts, "\x00")
		if owner, ok := first[key]; ok {
			violations = append(violations, Violation{
				Type:       UniquenessViolation,
				Severity:   c.Severity,
				Node:       node.Key,
				Constraint: c.Name(),
				Message: fmt.Sprintf("%s %q repeats (%s) of %q",
					c.NodeLabel, node.Key, strings.Join(parts, ", "), owner),
			})
			continue
		}
		first[key] = node.Key
	}
	return violations, nil
}
