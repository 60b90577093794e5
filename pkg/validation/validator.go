package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Labels end up inside the extractor's brace and parenthesis lists and
	// in CSV side tables, so those delimiters are rejected.
	labelPattern = regexp.MustCompile(`^[^,{}()\n\r"]+$`)

	// ErrNilRecord is returned when a nil record is validated.
	ErrNilRecord = errors.New("record cannot be nil")
)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("label", func(fl validator.FieldLevel) bool {
		return labelPattern.MatchString(fl.Field().String())
	})
}

// Struct validates a tagged record and returns the first failure in a
// readable form.
func Struct(record any) error {
	if record == nil {
		return ErrNilRecord
	}
	v := reflect.ValueOf(record)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return ErrNilRecord
	}
	if err := validate.Struct(record); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Records validates every element of records and reports the first bad
// row by index. kind names the table in the error message.
func Records[T any](kind string, records []T) error {
	for i := range records {
		if err := Struct(&records[i]); err != nil {
			return fmt.Errorf("%s row %d: %w", kind, i, err)
		}
	}
	return nil
}

// ValidateLabel checks a single unit, group or fault label.
func ValidateLabel(label string) error {
	if label == "" {
		return errors.New("label cannot be empty")
	}
	if !labelPattern.MatchString(label) {
		return fmt.Errorf("label %q contains a reserved delimiter", label)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gtefield":
			return fmt.Errorf("%s: must not be less than %s", field, param)
		case "label":
			return fmt.Errorf("%s: %q contains a reserved delimiter", field, e.Value())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
