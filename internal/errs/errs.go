// Package errs defines the failure taxonomy shared by the engine, the storage
// layer and the query surface. Every failure carries one of the sentinel kinds
// below so callers can branch with errors.Is regardless of how deep the error
// was wrapped.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a required artifact or source file that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTypeMismatch marks a value that should have been a Table but was not.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrCycleDetected marks a dependency graph that is not acyclic.
	ErrCycleDetected = errors.New("cycle detected")
	// ErrQuery marks a statement rejected by the analytical engine.
	ErrQuery = errors.New("query failed")
	// ErrIO marks an underlying storage read/write failure.
	ErrIO = errors.New("i/o failure")
	// ErrInvalidSelection marks a materialization request naming unknown assets.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrInvalidConfig marks a pipeline declaration that cannot be turned into a graph.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Error attaches an operation and its subject (an asset key, a path, a
// statement) to one of the sentinel kinds.
type Error struct {
	Kind    error
	Op      string
	Subject string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Subject != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Subject)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New builds an *Error of the given kind.
func New(kind error, op, subject string, cause error) error {
	return &Error{Kind: kind, Op: op, Subject: subject, Err: cause}
}

// Newf builds an *Error of the given kind whose cause is a formatted message.
func Newf(kind error, op, subject, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Subject: subject, Err: fmt.Errorf(format, args...)}
}

// KindOf reports which sentinel kind err carries, or nil if none.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrTypeMismatch, ErrCycleDetected, ErrQuery, ErrIO, ErrInvalidSelection, ErrInvalidConfig} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
