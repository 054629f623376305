package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// InternalError is the concrete error carried through the chain. It keeps a
// user-facing hint and structured details separate from the internal message.
type InternalError struct {
	cause   error
	hint    string
	details map[string]interface{}
}

func (e *InternalError) Error() string {
	return e.cause.Error()
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

// Hint returns the user-facing hint attached to err, if any
func Hint(err error) string {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.hint
	}
	return ""
}

// Details returns the reportable details attached to err, if any
func Details(err error) map[string]interface{} {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.details
	}
	return nil
}

// ErrorBuilder assembles an InternalError fluently; Mark finalizes it
type ErrorBuilder struct {
	err *InternalError
}

// NewError starts building an error from a fresh internal message
func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{cause: errors.NewWithDepth(1, msg)}}
}

// NewErrorf starts building an error from a formatted internal message
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{cause: errors.NewWithDepthf(1, format, args...)}}
}

// WithError starts building an error wrapping an upstream cause
func WithError(err error) *ErrorBuilder {
	if err == nil {
		err = errors.New("unknown error")
	}
	return &ErrorBuilder{err: &InternalError{cause: err}}
}

// WithHint attaches a user-facing hint shown in API responses
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err.hint = hint
	return b
}

// WithHintf attaches a formatted user-facing hint
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.err.hint = fmt.Sprintf(format, args...)
	return b
}

// WithMessage wraps the cause with additional internal context
func (b *ErrorBuilder) WithMessage(msg string) *ErrorBuilder {
	b.err.cause = errors.WithMessage(b.err.cause, msg)
	return b
}

// WithReportableDetails attaches structured details safe to surface to callers
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	b.err.details = details
	return b
}

// Mark finalizes the error, marking it with a taxonomy sentinel
func (b *ErrorBuilder) Mark(sentinel error) error {
	return errors.Mark(b.err, sentinel)
}
