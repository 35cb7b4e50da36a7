package script

import (
	stderrors "errors"
	"fmt"

	"github.com/wippyai/slotbridge/errors"
	"github.com/wippyai/slotbridge/host"
)

// ExceptionType names an interpreter exception class.
type ExceptionType string

const (
	OverflowError ExceptionType = "OverflowError"
	TypeError     ExceptionType = "TypeError"
	ValueError    ExceptionType = "ValueError"
	RuntimeError  ExceptionType = "RuntimeError"
)

// Exception is an interpreter exception raised by a binding.
type Exception struct {
	Cause error
	Type  ExceptionType
	Msg   string
}

func (e *Exception) Error() string {
	return string(e.Type) + ": " + e.Msg
}

func (e *Exception) Unwrap() error {
	return e.Cause
}

// kind maps an exception class raised by the bindings to an error kind.
func (t ExceptionType) kind() errors.Kind {
	switch t {
	case OverflowError:
		return errors.KindOverflow
	case TypeError:
		return errors.KindTypeMismatch
	case ValueError:
		return errors.KindInvalidInput
	default:
		return errors.KindFailedPrecondition
	}
}

// newException builds an exception raised by the bindings themselves, with a
// script-phase cause so errors.KindOf and errors.CodeOf see through it.
func newException(t ExceptionType, format string, args ...any) *Exception {
	msg := fmt.Sprintf(format, args...)
	return &Exception{
		Type:  t,
		Msg:   msg,
		Cause: errors.New(errors.PhaseScript, t.kind()).Detail("%s", msg).Build(),
	}
}

// Raise aborts the current call frame with an exception. It must only be
// used inside Call.
func Raise(t ExceptionType, format string, args ...any) {
	raise(newException(t, format, args...))
}

func raise(exc *Exception) {
	panic(exc)
}

// Call runs fn as one script call frame. An exception raised with Raise is
// returned as an error; other panics propagate.
func Call(fn func() (Value, error)) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			exc, ok := r.(*Exception)
			if !ok {
				panic(r)
			}
			v, err = nil, exc
		}
	}()
	return fn()
}

// fromError converts a boundary or host error into an exception.
func fromError(op string, err error) *Exception {
	if err == nil {
		return nil
	}
	t := RuntimeError
	switch errors.KindOf(err) {
	case errors.KindOverflow:
		t = OverflowError
	case errors.KindTypeMismatch:
		t = TypeError
	case errors.KindInvalidInput, errors.KindOutOfBounds:
		t = ValueError
	}
	switch {
	case stderrors.Is(err, host.ErrTypeMismatch):
		t = TypeError
	case stderrors.Is(err, host.ErrFieldNotFound):
		t = ValueError
	}
	return &Exception{Type: t, Msg: fmt.Sprintf("%s: %s (%s)", op, err.Error(), errors.CodeOf(err)), Cause: err}
}
