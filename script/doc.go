// Package script binds the boundary surface to an interpreter's object model.
//
// Values passed in and out are interpreter-native: None, Bool, numeric.Int,
// Str, Float, Tuple and the reference wrappers *Slot, *Component, *User and
// *UserRoot. Integers crossing into the host go through the numeric gate, so
// an out-of-range integer raises OverflowError instead of being truncated.
//
// Failures are reported as *Exception. Call runs one script call frame and
// also recovers exceptions raised with Raise, leaving the bindings usable for
// the next call.
package script
