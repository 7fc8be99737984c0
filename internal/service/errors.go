package service

import "fmt"

// ValidationError reports bad user input. It carries a short headline and
// an optional detail string; both survive to the caller unchanged.
type ValidationError struct {
	Message string
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// NewValidationError creates a ValidationError with headline and details.
func NewValidationError(message, details string) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// NotFoundError reports a missing asset, transaction, alert or price row,
// distinct from a generic persistence failure so callers can react.
type NotFoundError struct {
	Message string
	Details string
}

func (e *NotFoundError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// NewNotFoundError creates a NotFoundError with headline and details.
func NewNotFoundError(message, details string) *NotFoundError {
	return &NotFoundError{Message: message, Details: details}
}
