package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/cardgraph/internal/domain"
)

// Common service errors.
var (
	// ErrIntegrity is the root of all referential integrity violations.
	// Use errors.Is(err, ErrIntegrity) to detect them regardless of the
	// specific entity or field involved.
	ErrIntegrity = errors.New("integrity violation")

	// ErrUnsupportedMode is returned when a navigation request names a mode
	// the content set does not declare in supported_navigation.
	ErrUnsupportedMode = errors.New("navigation mode not supported by set")

	// ErrEmptyBatch is returned when a batch write is invoked with no
	// records at all.
	ErrEmptyBatch = errors.New("batch contains no records")
)

// IntegrityError describes a single referential integrity violation found
// during pre-write validation: a dangling reference, a duplicate hero
// flag, a creator mismatch, or a colliding order index.
type IntegrityError struct {
	Kind   string // entity kind: "creator", "content_set", "card"
	ID     string // ID of the offending record
	Field  string // the field that violates integrity
	Reason string // human-readable description
}

// Error implements the error interface for IntegrityError.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation on %s %q: %s: %s", e.Kind, e.ID, e.Field, e.Reason)
}

// Unwrap makes every IntegrityError match errors.Is(err, ErrIntegrity).
func (e *IntegrityError) Unwrap() error {
	return ErrIntegrity
}

// NewIntegrityError creates an IntegrityError for the given record and
// field.
func NewIntegrityError(kind, id, field, reason string) *IntegrityError {
	return &IntegrityError{Kind: kind, ID: id, Field: field, Reason: reason}
}

// RecordFailure pairs one rejected record with the error that rejected it.
type RecordFailure struct {
	Kind string
	ID   string
	Err  error
}

// BatchError is returned when a batch write is rejected. It carries every
// failure found across the whole batch, not just the first one, so a
// caller can fix all offending records in one pass. A BatchError means
// nothing from the batch was persisted.
type BatchError struct {
	Failures []RecordFailure
}

// Error implements the error interface for BatchError.
func (e *BatchError) Error() string {
	if len(e.Failures) == 1 {
		f := e.Failures[0]
		return fmt.Sprintf("batch rejected: %s %q: %v", f.Kind, f.ID, f.Err)
	}
	return fmt.Sprintf("batch rejected: %d records failed validation", len(e.Failures))
}

// Unwrap exposes the individual failure errors so errors.Is can match
// sentinels (e.g. ErrIntegrity) anywhere in the batch.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// UnsupportedModeError reports a navigation request for a mode the set
// does not support, naming both so callers can surface a precise message.
type UnsupportedModeError struct {
	SetID string
	Mode  domain.NavigationMode
}

// Error implements the error interface for UnsupportedModeError.
func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("set %q does not support %q navigation", e.SetID, e.Mode)
}

// Unwrap makes every UnsupportedModeError match
// errors.Is(err, ErrUnsupportedMode).
func (e *UnsupportedModeError) Unwrap() error {
	return ErrUnsupportedMode
}

// ContentServiceError is a custom error type for service-layer failures
// with additional context about the operation that failed.
type ContentServiceError struct {
	Operation string // The operation that failed (e.g., "create_set")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for ContentServiceError.
func (e *ContentServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ContentServiceError) Unwrap() error {
	return e.Err
}

// NewContentServiceError creates a new ContentServiceError.
func NewContentServiceError(operation, message string, err error) *ContentServiceError {
	return &ContentServiceError{Operation: operation, Message: message, Err: err}
}
