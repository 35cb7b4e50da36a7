// Package numeric converts script integers to and from the fixed-width
// integers used at the boundary.
//
// A script integer is either compact (a native small int that fits the
// interpreter's fast path) or arbitrary precision: a sign flag plus a
// little-endian sequence of DigitBits-wide digits.
//
//	numeric.Small(42)                      // 42
//	numeric.Big(false, 0x7890, 0x3456, 0x12) // 0x1234567890
//
// Conversions never truncate. A value that does not fit the requested width
// fails with an overflow error that matches ErrOverflow:
//
//	v, err := numeric.ToUint64(x)
//	if errors.Is(err, numeric.ErrOverflow) {
//	    // raise in the current script call
//	}
//
// The reverse direction rebuilds script integers from fixed-width values and
// only produces the big form when the value leaves the small-int range.
package numeric
