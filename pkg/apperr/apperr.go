package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies service-level failures so the HTTP boundary can map them
// to status codes without inspecting error strings.
type Kind uint8

const (
	// Internal is the zero-ish default for unclassified failures.
	Internal Kind = iota
	// Validation marks malformed or missing caller input.
	Validation
	// Conflict marks uniqueness violations (duplicate email on registration).
	Conflict
	// Unauthorized marks missing, invalid, or expired credentials.
	Unauthorized
	// NotFound marks an absent entity. Ownership mismatches report NotFound
	// too, so callers cannot probe for tasks they do not own.
	NotFound
)

// Error carries a Kind plus a caller-facing message and an optional cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Kind returns the classification of the error.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the caller-facing message without the wrapped cause.
func (e *Error) Message() string { return e.msg }

// New builds a classified error with a fixed message.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Newf builds a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error while keeping it unwrappable.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

// KindOf walks the error chain and returns the first classification found.
// Unclassified errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return Internal
}

// IsKind reports whether the error chain carries the given classification.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
