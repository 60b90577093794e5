package constraints

import (
	"errors"
	"time"
)

// ValidationResult contains the results of validating a graph against constraints
type ValidationResult struct {
	Valid      bool // True if no Error-severity violations were found
	Violations []Violation
	CheckedAt  time.Time
}

// GetViolationsBySeverity returns violations filtered by severity level
func (vr *ValidationResult) GetViolationsBySeverity(severity Severity) []Violation {
	var filtered []Violation
	for _, v := range vr.Violations {
		if v.Severity == severity {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// Err joins Error-severity violations, or returns nil.
func (vr *ValidationResult) Err() error {
	var errs []error
	for _, v := range vr.GetViolationsBySeverity(Error) {
		errs = append(errs, errors.New(v.String()))
	}
	return errors.Join(errs...)
}

// Validator manages a set of constraints and validates graphs against them
type Validator struct {
	constraints []Constraint
}

// NewValidator creates a validator holding constraints.
func NewValidator(constraints ...Constraint) *Validator {
	return &Validator{constraints: constraints}
}

// AddConstraint adds a constraint to the validator
func (v *Validator) AddConstraint(constraint Constraint) {
	v.constraints = append(v.constraints, constraint)
}

// Constraints returns the registered constraints.
func (v *Validator) Constraints() []Constraint {
	return v.constraints
}

// Validate runs all constraints against the graph and returns the results
func (v *Validator) Validate(graph GraphReader) (*ValidationResult, error) {
	result := &ValidationResult{Valid: true, CheckedAt: time.Now()}
	for _, constraint := range v.constraints {
		violations, err := constraint.Validate(graph)
		if err != nil {
			return nil, err
		}
		for _, violation := range violations {
			if violation.Severity == Error {
				result.Valid = false
			}
		}
		result.Violations = append(result.Violations, violations...)
	}
	return result, nil
}
