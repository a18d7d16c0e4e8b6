package eval

import (
	"errors"
	"fmt"
)

// Fatal errors. They abort the whole evaluation and are never seen by the
// backtracking machinery; search failures go through failure continuations
// instead.
var (
	ErrUnboundName   = errors.New("unbound name")
	ErrArityMismatch = errors.New("arity mismatch")
	ErrType          = errors.New("type error")
	ErrUnknownSyntax = errors.New("unknown syntax")
	ErrHost          = errors.New("error")
)

// Error is a fatal evaluation error. Kind is one of the Err* values above,
// so callers can use errors.Is.
type Error struct {
	Kind    error
	Message string
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Message }
func (e *Error) Unwrap() error { return e.Kind }

// raise aborts the evaluation in progress. It is recovered by catch at the
// Evaluate and Resume boundary.
func raise(err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: ErrHost, Message: err.Error()}
	}
	panic(e)
}

func catch(err *error) {
	if rv := recover(); rv != nil {
		if e, ok := rv.(*Error); ok {
			*err = e
			return
		}
		panic(rv)
	}
}
