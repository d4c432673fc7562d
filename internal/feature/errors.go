package feature

import (
	"fmt"
	"strings"
)

// Violation is a single problem with one input field.
type Violation struct {
	// Field is the offending field or column name.
	Field string
	// Row is the 1-based data row for CSV input; 0 for single-record input.
	Row     int
	Message string
}

func (v Violation) String() string {
	if v.Row > 0 {
		return fmt.Sprintf("row %d: %s: %s", v.Row, v.Field, v.Message)
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidationError reports malformed, missing or unexpected input. It always names the
// offending field(s) so the message can be returned to the caller as-is.
type ValidationError struct {
	// Summary, when set, is the complete message (e.g. "Missing columns: tenure, Contract").
	Summary    string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if e.Summary != "" {
		return e.Summary
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Fields returns the distinct offending field names in report order.
func (e *ValidationError) Fields() []string {
	seen := make(map[string]bool, len(e.Violations))
	var out []string
	for _, v := range e.Violations {
		if !seen[v.Field] {
			seen[v.Field] = true
			out = append(out, v.Field)
		}
	}
	return out
}

func (e *ValidationError) add(field string, row int, format string, args ...any) {
	e.Violations = append(e.Violations, Violation{Field: field, Row: row, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) orNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
