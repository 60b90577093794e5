package validation

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrInvalidConfig wraps every error returned by ConfigValidator.Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// FieldError is one rejected configuration field.
type FieldError struct {
	Config string
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %v", e.Config, e.Field, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Config, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ConfigValidator collects field errors in call order rather than
// stopping at the first one. Field names are the dotted YAML paths.
type ConfigValidator struct {
	name     string
	problems []*FieldError
}

// NewConfigValidator creates a validator whose errors are prefixed with name.
func NewConfigValidator(name string) *ConfigValidator {
	return &ConfigValidator{name: name}
}

func (cv *ConfigValidator) reject(field, format string, args ...any) *ConfigValidator {
	cv.problems = append(cv.problems, &FieldError{Config: cv.name, Field: field, Reason: fmt.Sprintf(format, args...)})
	return cv
}

func inside[T cmp.Ordered](value, lo, hi T) bool {
	return cmp.Compare(value, lo) >= 0 && cmp.Compare(value, hi) <= 0
}

func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		return cv.reject(field, "must be set")
	}
	return cv
}

// RangeInt accepts lo <= value <= hi.
func (cv *ConfigValidator) RangeInt(field string, value, lo, hi int) *ConfigValidator {
	if !inside(value, lo, hi) {
		return cv.reject(field, "%d is outside [%d, %d]", value, lo, hi)
	}
	return cv
}

// RangeFloat accepts lo <= value <= hi. NaN is rejected.
func (cv *ConfigValidator) RangeFloat(field string, value, lo, hi float64) *ConfigValidator {
	if math.IsNaN(value) || !inside(value, lo, hi) {
		return cv.reject(field, "%g is outside [%g, %g]", value, lo, hi)
	}
	return cv
}

func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	if value <= 0 {
		return cv.reject(field, "%d must be positive", value)
	}
	return cv
}

func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		return cv.reject(field, "%d must not be negative", value)
	}
	return cv
}

func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	if !slices.Contains(allowed, value) {
		return cv.reject(field, "%q is not one of %v", value, allowed)
	}
	return cv
}

// Custom records the error returned by fn, keeping it in the chain.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.problems = append(cv.problems, &FieldError{Config: cv.name, Field: field, Err: err})
	}
	return cv
}

// When runs validations only if condition holds.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.problems) > 0
}

// Problems returns the collected field errors in call order.
func (cv *ConfigValidator) Problems() []*FieldError {
	return cv.problems
}

// Validate joins the field errors under ErrInvalidConfig, or returns nil.
func (cv *ConfigValidator) Validate() error {
	if len(cv.problems) == 0 {
		return nil
	}
	errs := make([]error, len(cv.problems))
	for i, p := range cv.problems {
		errs[i] = p
	}
	return fmt.Errorf("%w (%d): %w", ErrInvalidConfig, len(errs), errors.Join(errs...))
}

// DefaultOr returns value unless it is the zero value.
func DefaultOr[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}

// DefaultOrInt returns value if it is positive, otherwise fallback.
func DefaultOrInt(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
