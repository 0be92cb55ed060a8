// Package syncerr defines the error taxonomy of the sync engine.
//
// ValidationError is never retried. TransportError is always retryable.
// ServerError is retryable for 5xx and 429 and surfaced immediately otherwise.
// LWW conflicts are not errors and never appear here.
package syncerr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Sentinel errors for programmatic handling.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenExpired = errors.New("access token expired")
	ErrNotConnected = errors.New("transport not connected")
)

// Operation sync operation during which an error happened.
type Operation string

const (
	OpAppend   Operation = "append"
	OpPush     Operation = "push"
	OpPull     Operation = "pull"
	OpApply    Operation = "apply"
	OpUpload   Operation = "upload"
	OpDownload Operation = "download"
)

// ValidationError malformed payload, oversized file or invalid input.
type ValidationError struct {
	Err error
	Op  Operation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation failed: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TransportError lost connection, timeout or any failure below HTTP status level.
type TransportError struct {
	Err error
	Op  Operation
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError non-2xx response with its status and message.
type ServerError struct {
	Message    string
	Op         Operation
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: server error (%d): %s", e.Op, e.StatusCode, e.Message)
}

// Is matches ErrUnauthorized for 401 responses.
func (e *ServerError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Retryable reports whether the status class is worth retrying.
func (e *ServerError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Validation wraps err as a ValidationError.
func Validation(op Operation, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Op: op, Err: err}
}

// Transport wraps err as a TransportError.
func Transport(op Operation, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}

// Server builds a ServerError.
func Server(op Operation, status int, message string) error {
	return &ServerError{Op: op, StatusCode: status, Message: message}
}

// IsRetryable checks whether err should be retried with backoff.
// Timeouts count as transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return false
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}

	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Retryable()
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrNotConnected) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// UserMessage returns a text safe to show to an end user. Raw transport
// errors are never shown verbatim.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTokenExpired), errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case IsValidation(err):
		return "Some data could not be processed and was skipped."
	case IsRetryable(err):
		return "You appear to be offline. Changes are saved and will sync when the connection is back."
	default:
		return "Sync failed. Use 'retry' to try again."
	}
}
