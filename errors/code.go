package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is the host-reported error code returned across the boundary.
type Code int32

const (
	CodeSuccess            Code = 0
	CodeNullArgument       Code = -1
	CodeInvalidRefID       Code = -2
	CodeFailedPrecondition Code = -3
)

// String returns the diagnostic text for the code.
func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeNullArgument:
		return "null argument"
	case CodeInvalidRefID:
		return "invalid reference handle"
	case CodeFailedPrecondition:
		return "failed precondition"
	default:
		return fmt.Sprintf("unknown error code %d", int32(c))
	}
}

// CodeOf maps an error to the boundary error code.
// nil maps to CodeSuccess; errors outside the taxonomy map to CodeFailedPrecondition.
func CodeOf(err error) Code {
	if err == nil {
		return CodeSuccess
	}
	var e *Error
	if !stderrors.As(err, &e) {
		return CodeFailedPrecondition
	}
	switch e.Kind {
	case KindNullArgument:
		return CodeNullArgument
	case KindInvalidHandle:
		return CodeInvalidRefID
	default:
		return CodeFailedPrecondition
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
