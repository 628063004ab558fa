package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors identify the error kinds of the library. Every typed error
// below matches exactly one of them through errors.Is, so callers can branch
// on the kind without caring about the concrete type.
var (
	// ErrInvalidArgument marks a violated input precondition.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyContainer marks a read or removal on an empty container.
	ErrEmptyContainer = errors.New("empty container")
	// ErrOutOfBounds marks an index outside the populated range.
	ErrOutOfBounds = errors.New("index out of bounds")
)

// ConfigError represents an engine configuration error, such as an invalid
// tolerance or iteration cap. It indicates that the library cannot be set up
// with the requested values.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// InvalidArgumentError reports that an operation was called with input that
// violates its precondition: mismatched lengths, a zero constant term passed
// to series inversion, a divisor of higher degree than the dividend, and so on.
type InvalidArgumentError struct {
	// Op is the name of the rejecting operation (e.g. "poly.Inverse").
	Op string
	// Message explains which precondition failed.
	Message string
}

// Error returns a formatted message describing the rejected argument.
func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument: %s", e.Op, e.Message)
}

// Is reports whether target is ErrInvalidArgument.
func (e InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// NewInvalidArgument creates an InvalidArgumentError with a formatted message.
func NewInvalidArgument(op, format string, a ...any) error {
	return InvalidArgumentError{Op: op, Message: fmt.Sprintf(format, a...)}
}

// EmptyContainerError reports a peek or removal on an empty container.
type EmptyContainerError struct {
	// Container names the container kind (e.g. "heap").
	Container string
	// Op is the operation that needed an element.
	Op string
}

// Error returns a formatted message describing the empty access.
func (e EmptyContainerError) Error() string {
	return fmt.Sprintf("%s: %s is empty", e.Op, e.Container)
}

// Is reports whether target is ErrEmptyContainer.
func (e EmptyContainerError) Is(target error) bool { return target == ErrEmptyContainer }

// OutOfBoundsError reports an index outside [0, Len).
type OutOfBoundsError struct {
	// Index is the offending index.
	Index int
	// Len is the number of populated slots at the time of the access.
	Len int
}

// Error returns a formatted message describing the bad index.
func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds [0, %d)", e.Index, e.Len)
}

// Is reports whether target is ErrOutOfBounds.
func (e OutOfBoundsError) Is(target error) bool { return target == ErrOutOfBounds }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
