package schema

import "fmt"

// SchemaError represents a single structural validation failure.
// Path locates the offending element (e.g. `node "intro" transition[0]`).
type SchemaError struct {
	Path   string // location within the quiz document
	Reason string // human-readable reason for failure
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d schema errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Diagnostics returns all individual errors if err is an AggregateError.
// Otherwise returns nil.
func Diagnostics(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
