// Package boundary is the call surface between script bindings and the host.
//
// Each Surface method takes only fixed-width integers, handles, strings and
// envelope bytes, short-circuits the null handle, invokes exactly one
// host.World capability and converts the result. Nothing here owns host
// objects or keeps state between calls.
//
// Null handle arguments yield the null handle or an empty result, except where
// an empty answer would be indistinguishable from a real one (names, child
// counts, type names, writes); those report errors.KindNullArgument.
//
// Field writes report a Status sentinel. ComponentSetFieldValueErr returns
// the underlying cause for callers that need to tell a missing field from a
// type mismatch.
package boundary
