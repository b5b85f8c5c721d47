// pkg/invoice/errors.go

package invoice

import "fmt"

// ValidationError is returned when a line item is rejected at entry.
// The ledger is left unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError is returned when no item occupies the requested position.
type NotFoundError struct {
	SequenceNumber int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no item at position %d", e.SequenceNumber)
}
