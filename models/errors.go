package models

import (
	"errors"
	"fmt"
)

// Ledger errors are user-facing: the HTTP layer translates them into a
// rejected transaction response, they must never surface as a crash.
var (
	// ErrNoMatchingIssue is returned when a return request matches no open issue.
	ErrNoMatchingIssue = errors.New("no matching issue found to return")
)

// ValidationError flags missing or malformed required input. The whole
// operation is aborted with no partial write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError rejects an issue that would oversubscribe stock.
// SerialNo is empty for a whole-item check and set when the check was scoped
// to one serial number.
type InsufficientStockError struct {
	Available int
	Requested int
	SerialNo  string
}

func (e *InsufficientStockError) Error() string {
	if e.SerialNo != "" {
		return fmt.Sprintf("Serial No %s has insufficient stock! Available: %d, Requested: %d", e.SerialNo, e.Available, e.Requested)
	}
	return fmt.Sprintf("Insufficient stock! Available: %d, Requested: %d", e.Available, e.Requested)
}
