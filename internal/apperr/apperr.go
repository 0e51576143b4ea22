// Package apperr classifies failures of wallet operations so every transport
// can map them to a distinct status class.
package apperr

import (
	"errors"
	"strings"
)

// Kind is the failure class of an operation.
type Kind int8

const (
	KindUnexpected Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	default:
		return "unexpected"
	}
}

// Violation names one rejected input field and why it was rejected.
type Violation struct {
	Field  string
	Reason string
}

// Error is the single error type returned across service boundaries.
// Message is safe to show to callers; Err is only for logs.
type Error struct {
	Kind       Kind
	Message    string
	Violations []Violation
	Err        error
}

func (e *Error) Error() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + " " + v.Reason
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports malformed or out-of-range input.
func Validation(message string, violations ...Violation) error {
	return &Error{Kind: KindValidation, Message: message, Violations: violations}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Unauthorized reports a missing, invalid or stale credential.
func Unauthorized(message string) error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NotFound reports a referenced entity that does not exist.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Unexpected wraps any other failure behind a generic message.
func Unexpected(err error) error {
	return &Error{Kind: KindUnexpected, Message: "internal error", Err: err}
}

// KindOf classifies err. Errors that are not *Error are unexpected.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
