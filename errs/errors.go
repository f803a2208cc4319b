// Package errs provides structured error types for the matrix editor.
// These errors carry the operation that failed and a Kind that callers
// switch on to decide whether a failure reaches the user.
package errs

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.Function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindOutOfBounds
	KindInvalidState
	KindNotFound
	KindPersistenceFailure
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindOutOfBounds:
		return "out of bounds"
	case KindInvalidState:
		return "invalid state"
	case KindNotFound:
		return "not found"
	case KindPersistenceFailure:
		return "persistence failure"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown error"
	}
}

// Error is the structured error type.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// OutOfBounds reports a coordinate outside the configured axes.
func OutOfBounds(op Op, row, col int) error {
	return E(op, KindOutOfBounds, fmt.Sprintf("cell (%d,%d) is outside the matrix", row, col))
}

// InvalidState reports an operation invoked out of sequence.
func InvalidState(op Op, msg string) error {
	return E(op, KindInvalidState, msg)
}

// NotFound reports a reference to a missing arrow or template.
func NotFound(op Op, what, id string) error {
	return E(op, KindNotFound, fmt.Sprintf("%s %s not found", what, id))
}

// Persistence wraps a storage or network failure.
func Persistence(op Op, err error) error {
	return E(op, KindPersistenceFailure, err)
}

// UserVisible reports whether an error is expected to reach the end user.
// Contract violations (OutOfBounds, InvalidState) are not.
func UserVisible(err error) bool {
	switch GetKind(err) {
	case KindOutOfBounds, KindInvalidState:
		return false
	}
	return err != nil
}
