package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidInput is returned when identifier generation receives
	// malformed input, such as an empty or whitespace-only handle.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCategory is returned when a content category is not one of
	// the closed set of category variants.
	ErrInvalidCategory = errors.New("invalid content category")

	// ErrInvalidNavigationMode is returned when a navigation mode is not
	// one of timeline, thematic, difficulty, or random.
	ErrInvalidNavigationMode = errors.New("invalid navigation mode")

	// ErrInvalidSetStatus is returned when a content set status is not
	// draft, published, or archived.
	ErrInvalidSetStatus = errors.New("invalid set status")

	// ErrInvalidMediaType is returned when a media reference carries an
	// unknown type tag.
	ErrInvalidMediaType = errors.New("invalid media type")
)

// ValidationError provides field-level context for a validation failure.
// It wraps ErrValidation (or a more specific sentinel) so callers can use
// errors.Is to detect validation failures generically.
type ValidationError struct {
	Field   string // The field that failed validation
	Message string // Human-readable description of the failure
	Err     error  // Wrapped sentinel error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
