// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// domain policy, search, server) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types implement the Unwrap() method to support errors.Is() and errors.As().
//
// InternalFault is deliberately not part of the recoverable hierarchy: it is a
// defect signal (a certified divisor pair that fails the exact multiplication
// check) and is raised via panic, never returned.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"math/big"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess        = 0   // Indicates successful execution.
	ExitErrorGeneric   = 1   // Indicates a generic error.
	ExitErrorTimeout   = 2   // Indicates the operation timed out.
	ExitErrorExhausted = 3   // Indicates the search exhausted its budget without a result.
	ExitErrorConfig    = 4   // Indicates a configuration error.
	ExitErrorDomain    = 5   // Indicates the input violated the numeric domain policy.
	ExitErrorCanceled  = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

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

// DomainError indicates that the input integer violates the numeric domain
// policy: it is neither a whitelisted benchmark value nor within the configured
// inclusive [min, max] range. The search rejects such inputs synchronously,
// before any precision derivation or sampling work.
type DomainError struct {
	// Input is the rejected value.
	Input *big.Int
	// Message explains which part of the policy was violated.
	Message string
}

// Error returns the error message for a DomainError.
func (e DomainError) Error() string {
	return fmt.Sprintf("domain policy violation for %s: %s", e.Input.String(), e.Message)
}

// NewDomainError creates a new DomainError for the given input.
//
// Parameters:
//   - input: The rejected input value (copied defensively).
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new DomainError instance.
func NewDomainError(input *big.Int, format string, a ...any) error {
	return DomainError{
		Input:   new(big.Int).Set(input),
		Message: fmt.Sprintf(format, a...),
	}
}

// IsDomainError reports whether err is (or wraps) a DomainError.
func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

// SearchError encapsulates a search execution error while preserving the
// original cause. This allows for structured error handling and inspection
// of what went wrong during the candidate search.
type SearchError struct {
	// Cause is the underlying error that triggered this search error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e SearchError) Error() string { return e.Cause.Error() }

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e SearchError) Unwrap() error { return e.Cause }

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
//
// Parameters:
//   - message: A description of the error context.
//   - cause: The underlying error that occurred (can be nil).
//
// Returns:
//   - error: A new ServerError instance.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// InternalFault signals an internal consistency violation: a divisor pair that
// was certified by exact division but fails the multiplication check against
// the input. This cannot happen unless the candidate mapper or the certifier
// is defective, so it is raised via panic and is not meant to be recovered.
type InternalFault struct {
	// Message describes the violated invariant.
	Message string
}

// Error returns the fault description.
func (e InternalFault) Error() string {
	return "internal consistency fault: " + e.Message
}

// NewInternalFault creates a new InternalFault with a formatted message.
// Callers are expected to panic with the returned value.
func NewInternalFault(format string, a ...any) InternalFault {
	return InternalFault{Message: fmt.Sprintf(format, a...)}
}

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
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
