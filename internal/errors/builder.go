package errors

import "fmt"

// ErrorBuilder assembles an InternalError fluently. Mark terminates the
// chain and returns the built error.
type ErrorBuilder struct {
	err *InternalError
}

// NewError starts a builder with a fresh message.
func NewError(message string) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{message: message}}
}

// NewErrorf starts a builder with a formatted message.
func NewErrorf(format string, args ...any) *ErrorBuilder {
	return NewError(fmt.Sprintf(format, args...))
}

// WithError starts a builder wrapping an existing error as the cause.
func WithError(cause error) *ErrorBuilder {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	return &ErrorBuilder{err: &InternalError{message: message, cause: cause}}
}

// WithHint attaches an operator-facing hint.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err.hint = hint
	return b
}

// WithHintf attaches a formatted hint.
func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err.hint = fmt.Sprintf(format, args...)
	return b
}

// WithMessage overrides the message while keeping the cause.
func (b *ErrorBuilder) WithMessage(message string) *ErrorBuilder {
	b.err.message = message
	return b
}

// WithReportableDetails attaches details safe to return to API callers.
func (b *ErrorBuilder) WithReportableDetails(details map[string]any) *ErrorBuilder {
	b.err.reportableDetails = details
	return b
}

// Mark categorizes the error with a sentinel and returns it.
func (b *ErrorBuilder) Mark(sentinel error) error {
	b.err.mark = sentinel
	return b.err
}
