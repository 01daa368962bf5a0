package form

import (
	"fmt"
	"regexp"
	"strings"
)

// emailShape is deliberately conservative: one local part, one domain, and a
// dotted TLD. Backends remain free to apply stricter rules server-side.
var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s.]+$`)

// FieldError reports a single local validation failure for display next to
// the offending input.
type FieldError struct {
	Field   string `json:"field"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("form: field %q: %s", e.Field, e.Message)
}

// Validate checks the collected values against the field specs and returns
// every failure in spec order. Required fields reject empty or
// whitespace-only values; email-kind fields must match the conservative
// local@domain.tld shape. A nil or empty return means the values are locally
// acceptable.
func Validate(values map[string]string, fields []FieldSpec) []FieldError {
	var errs []FieldError
	for _, spec := range fields {
		value := strings.TrimSpace(values[spec.Name])
		if spec.Required && value == "" {
			errs = append(errs, FieldError{
				Field:   spec.Name,
				Label:   spec.Label,
				Message: "this field is required",
			})
			continue
		}
		if value == "" {
			continue
		}
		if spec.Kind == FieldKindEmail && !emailShape.MatchString(value) {
			errs = append(errs, FieldError{
				Field:   spec.Name,
				Label:   spec.Label,
				Message: "enter a valid email address",
			})
		}
	}
	return errs
}

// ErrorSummary flattens field errors into a single human-readable message,
// one line per field, for front ends that surface a single error string.
func ErrorSummary(errs []FieldError) string {
	if len(errs) == 0 {
		return ""
	}
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		label := e.Label
		if label == "" {
			label = e.Field
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, e.Message))
	}
	return strings.Join(lines, "\n")
}
