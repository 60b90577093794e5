package strata

import (
	"errors"
	"fmt"
)

// Stage names used in errors, warnings, logs and metrics.
const (
	StageLoad         = "load"
	StageExtract      = "extract"
	StageAuthority    = "authority"
	StageStratigraphy = "stratigraphy"
	StageGroups       = "groups"
	StageSupergroups  = "supergroups"
	StageFaults       = "faults"
	StageFusion       = "fusion"
	StageExport       = "export"
)

// Common sentinel errors
var (
	// ErrInconsistentOrder means a subgraph still had no valid
	// topological order after cycle breaking.
	ErrInconsistentOrder = errors.New("no valid topological order after cycle breaking")

	// ErrUnsupportedGeometry means a tracked fault is not a single line.
	ErrUnsupportedGeometry = errors.New("fault geometry is not a single line")

	// ErrAuthorityUnavailable means the reference table could not be loaded.
	ErrAuthorityUnavailable = errors.New("authority table unavailable")

	// ErrInvalidInput flags malformed records or reports.
	ErrInvalidInput = errors.New("invalid input")
)

// StageError carries the stage and entity a fatal condition occurred in.
type StageError struct {
	Stage   string // Pipeline stage (e.g., "faults", "groups")
	Entity  string // Entity kind (e.g., "group", "fault")
	ID      string // Entity identifier
	Cause   error  // Underlying error
	Context string // Additional context
}

// Error implements the error interface.
func (e *StageError) Error() string {
	switch {
	case e.ID != "" && e.Context != "":
		return fmt.Sprintf("%s: %s %q (%s): %v", e.Stage, e.Entity, e.ID, e.Context, e.Cause)
	case e.ID != "":
		return fmt.Sprintf("%s: %s %q: %v", e.Stage, e.Entity, e.ID, e.Cause)
	case e.Context != "":
		return fmt.Sprintf("%s (%s): %v", e.Stage, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *StageError) Unwrap() error {
	return e.Cause
}

// ErrorBuilder provides a fluent interface for building StageErrors.
type ErrorBuilder struct {
	err StageError
}

// NewError starts a StageError for the given stage.
func NewError(stage string) *ErrorBuilder {
	return &ErrorBuilder{err: StageError{Stage: stage}}
}

func (b *ErrorBuilder) entity(kind, id string) *ErrorBuilder {
	b.err.Entity = kind
	b.err.ID = id
	return b
}

// Group names the group the failure belongs to.
func (b *ErrorBuilder) Group(label string) *ErrorBuilder { return b.entity("group", label) }

// Unit names the unit the failure belongs to.
func (b *ErrorBuilder) Unit(code string) *ErrorBuilder { return b.entity("unit", code) }

// Fault names the fault the failure belongs to.
func (b *ErrorBuilder) Fault(id string) *ErrorBuilder { return b.entity("fault", id) }

// Context sets additional context information.
func (b *ErrorBuilder) Context(format string, args ...any) *ErrorBuilder {
	b.err.Context = fmt.Sprintf(format, args...)
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// IsFatal reports whether err is one of the conditions that must abort a run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInconsistentOrder) ||
		errors.Is(err, ErrUnsupportedGeometry) ||
		errors.Is(err, ErrInvalidInput)
}
