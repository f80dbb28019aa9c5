// Package errors provides the internal error type used across the engine.
// Errors carry an operator hint and reportable details, and are marked with
// one of the sentinel errors below so callers can branch on category with
// errors.Is without inspecting messages.
package errors

import (
	"github.com/cockroachdb/errors"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrDatabase         = errors.New("database error")
	ErrSystem           = errors.New("system error")
	ErrInternal         = errors.New("internal error")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrHTTPClient       = errors.New("http client error")
	ErrTimeout          = errors.New("timeout")
)

// InternalError is the concrete error produced by the builder in this
// package. The mark determines the category; the cause, if any, is the
// wrapped underlying error.
type InternalError struct {
	message           string
	cause             error
	mark              error
	hint              string
	reportableDetails map[string]any
}

func (e *InternalError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Unwrap exposes the underlying cause to the errors.Is/As chain.
func (e *InternalError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return e.mark
}

// Is matches the sentinel the error was marked with.
func (e *InternalError) Is(target error) bool {
	return e.mark != nil && errors.Is(e.mark, target)
}

// Hint returns the operator-facing hint, if any.
func (e *InternalError) Hint() string { return e.hint }

// ReportableDetails returns structured details safe to surface to callers.
func (e *InternalError) ReportableDetails() map[string]any { return e.reportableDetails }

func Is(err, target error) bool { return errors.Is(err, target) }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

func IsDatabase(err error) bool { return errors.Is(err, ErrDatabase) }

func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }
