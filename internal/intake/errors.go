package intake

import "fmt"

// ValidationError names the field that failed and the rule it violated.
// The message is operator-facing, e.g. "supplier is required".
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Rule)
}
