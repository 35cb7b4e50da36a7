// Package errors provides structured error types for the slot bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the boundary operation, the handle it was applied to,
// the target type name, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseHost, errors.KindInvalidHandle).
//		Op("slot__get_parent").
//		Handle(uint64(h)).
//		Detail("slot was destroyed").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Overflow(errors.PhaseConvert, v, "uint64")
//	err := errors.NullArgument("slot__find_child_by_name", "name")
//
// Host-side failures map onto the boundary error codes with CodeOf:
//
//	errors.CodeOf(err) // CodeSuccess, CodeNullArgument, CodeInvalidRefID, CodeFailedPrecondition
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
