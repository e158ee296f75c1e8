package domain

import "fmt"

// ErrorKind classifies a domain error for transport-level mapping.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindForbidden         ErrorKind = "forbidden"
	KindConflict          ErrorKind = "conflict"
	KindUnsupportedStatus ErrorKind = "unsupported_status"
)

// Error is the error type raised by the domain and application layers.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidationError reports malformed, missing or out-of-range input.
func NewValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports an absent entity.
func NewNotFoundError(entity string, id interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s with id = %v not found", entity, id)}
}

// NewForbiddenError reports an operation the caller may not perform.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewConflictError reports a state conflict with existing data.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewUnsupportedStatusError reports an unrecognized booking filter state.
func NewUnsupportedStatusError(state string) *Error {
	return &Error{Kind: KindUnsupportedStatus, Message: fmt.Sprintf("Unknown state: %s", state)}
}

// KindOf returns the kind of err if it is a domain Error, or "" otherwise.
func KindOf(err error) ErrorKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsForbidden reports whether err is a forbidden error.
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsUnsupportedStatus reports whether err is an unsupported-status error.
func IsUnsupportedStatus(err error) bool { return KindOf(err) == KindUnsupportedStatus }
