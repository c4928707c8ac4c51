// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// numerical domain, server, etc.) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types implement the Unwrap() method to support errors.Is() and errors.As().
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess          = 0   // Indicates successful execution.
	ExitErrorGeneric     = 1   // Indicates a generic error.
	ExitErrorTimeout     = 2   // Indicates the operation timed out.
	ExitErrorMismatch    = 3   // Indicates a result mismatch between algorithms.
	ExitErrorConfig      = 4   // Indicates a configuration error.
	ExitErrorDomain      = 5   // Indicates the input was rejected by a numerical routine.
	ExitErrorCheckFailed = 6   // Indicates at least one self-check failed.
	ExitErrorCanceled    = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// Sentinel errors for the numerical error taxonomy. Every DomainError wraps
// exactly one of them, so callers can test the class with errors.Is.
var (
	// ErrInvalidArgument reports an out-of-domain input, such as a negative
	// Fibonacci index or an unknown scattering mode.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDimensionMismatch reports sequences whose lengths disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrSingularMatrix reports a linear system that cannot be solved.
	ErrSingularMatrix = errors.New("singular matrix")
)

// DomainError is returned by the numerical routines when an input falls
// outside their domain. Kind is one of the package sentinels.
type DomainError struct {
	// Op is the name of the failing operation (e.g. "chi_squared").
	Op string
	// Kind is the sentinel describing the error class.
	Kind error
	// Message gives the specific reason.
	Message string
	// Cause is the lower-level error, if any (e.g. a solver failure).
	Cause error
}

// Error returns "op: kind: message".
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (%v)", e.Cause)
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause to errors.Is and errors.As.
func (e *DomainError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// NewInvalidArgument creates a DomainError of kind ErrInvalidArgument.
func NewInvalidArgument(op, format string, a ...any) error {
	return &DomainError{Op: op, Kind: ErrInvalidArgument, Message: fmt.Sprintf(format, a...)}
}

// NewDimensionMismatch creates a DomainError of kind ErrDimensionMismatch.
func NewDimensionMismatch(op, format string, a ...any) error {
	return &DomainError{Op: op, Kind: ErrDimensionMismatch, Message: fmt.Sprintf(format, a...)}
}

// NewSingularMatrix creates a DomainError of kind ErrSingularMatrix wrapping
// the solver error that detected it.
func NewSingularMatrix(op, message string, cause error) error {
	return &DomainError{Op: op, Kind: ErrSingularMatrix, Message: message, Cause: cause}
}

// IsDomainError reports whether err belongs to the numerical error taxonomy.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrSingularMatrix)
}

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
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

// CalculationError encapsulates a failed exercise evaluation while
// preserving the original cause.
type CalculationError struct {
	// Exercise names the exercise that failed.
	Exercise string
	// Cause is the underlying error that triggered this calculation error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e CalculationError) Error() string {
	if e.Exercise == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s failed: %v", e.Exercise, e.Cause)
}

// Unwrap returns the original wrapped error.
func (e CalculationError) Unwrap() error { return e.Cause }

// ServerError represents errors that occur in the HTTP server component.
// It wraps an underlying error with additional context specific to the server operation.
type ServerError struct {
	// Message is a descriptive message about the server error.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message for a ServerError.
// It combines the descriptive message and the underlying cause if present.
func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a new ServerError with a message and optional cause.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
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

// ValidationError represents an error due to invalid input validation.
// It is used for API request validation and dataset validation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message describes why validation failed.
	Message string
	// Value is the invalid value (optional, may be nil).
	Value any
}

// Error returns the error message for a ValidationError.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}
