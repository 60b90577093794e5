// Package constraints checks a graph against declarative schema rules:
// property presence, type and range, edge cardinality and composite
// uniqueness per node label.
package constraints

import (
	"github.com/dd0wney/cluso-strata/pkg/storage"
)

// GraphReader is the read-only view constraints need.
type GraphReader interface {
	FindNodesByLabel(label string) ([]*storage.Node, error)
	GetOutgoingEdges(nodeID uint64) ([]*storage.Edge, error)
	GetIncomingEdges(nodeID uint64) ([]*storage.Edge, error)
}

// Severity indicates the importance of a violation
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// ViolationType categorizes the type of constraint violation
type ViolationType int

const (
	MissingProperty ViolationType = iota
	InvalidType
	OutOfRange
	CardinalityViolation
	UniquenessViolation
)

func (vt ViolationType) String() string {
	switch vt {
	case MissingProperty:
		return "MissingProperty"
	case InvalidType:
		return "InvalidType"
	case OutOfRange:
		return "OutOfRange"
	case CardinalityViolation:
		return "CardinalityViolation"
	case UniquenessViolation:
		return "UniquenessViolation"
	default:
		return "Unknown"
	}
}

// Violation is one failed rule on one node.
type Violation struct {
	Type       ViolationType
	Severity   Severity
	Node       string // key of the offending node
	Constraint string
	Message    string
}

func (v Violation) String() string {
	return v.Constraint + ": " + v.Message
}

// Constraint is a single schema rule.
type Constraint interface {
	Validate(graph GraphReader) ([]Violation, error)
	Name() string
}
