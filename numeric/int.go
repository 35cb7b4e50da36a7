package numeric

import (
	"math/big"
	"strconv"
)

const (
	// DigitBits is the width of one big-integer digit.
	DigitBits = 16

	// SmallBits is the width of the interpreter's compact integer, sign included.
	SmallBits = 31

	SmallMax = 1<<(SmallBits-1) - 1
	SmallMin = -(1 << (SmallBits - 1))

	digitMask = 1<<DigitBits - 1
)

// Int is a script integer: either compact or arbitrary precision.
// The zero value is the compact integer 0.
type Int struct {
	digits []uint16
	small  int64
	neg    bool
	isBig  bool
}

// Small returns a compact integer.
func Small(v int64) Int {
	return Int{small: v}
}

// Big returns an arbitrary-precision integer from a sign flag and
// little-endian digits. The digits are copied.
func Big(neg bool, digits ...uint16) Int {
	d := make([]uint16, len(digits))
	copy(d, digits)
	return Int{neg: neg, digits: d, isBig: true}
}

// IsSmall reports whether x is in compact form.
func (x Int) IsSmall() bool {
	return !x.isBig
}

// Digits returns a copy of the little-endian digits of a big integer, or nil
// for a compact one.
func (x Int) Digits() []uint16 {
	if !x.isBig {
		return nil
	}
	d := make([]uint16, len(x.digits))
	copy(d, x.digits)
	return d
}

// Sign returns -1, 0 or +1.
func (x Int) Sign() int {
	if !x.isBig {
		switch {
		case x.small < 0:
			return -1
		case x.small > 0:
			return 1
		}
		return 0
	}
	if x.isZeroMagnitude() {
		return 0
	}
	if x.neg {
		return -1
	}
	return 1
}

func (x Int) isZeroMagnitude() bool {
	for _, d := range x.digits {
		if d != 0 {
			return false
		}
	}
	return true
}

// Normalize trims high zero digits and drops the sign of a zero magnitude.
func (x Int) Normalize() Int {
	if !x.isBig {
		return x
	}
	n := len(x.digits)
	for n > 0 && x.digits[n-1] == 0 {
		n--
	}
	out := Big(x.neg && n > 0, x.digits[:n]...)
	return out
}

// Big returns x as a math/big integer.
func (x Int) Big() *big.Int {
	if !x.isBig {
		return big.NewInt(x.small)
	}
	b := new(big.Int)
	for i := len(x.digits) - 1; i >= 0; i-- {
		b.Lsh(b, DigitBits)
		b.Or(b, big.NewInt(int64(x.digits[i])))
	}
	if x.neg {
		b.Neg(b)
	}
	return b
}

// FromBig converts a math/big integer, choosing the compact form when the
// value fits the small-int range.
func FromBig(b *big.Int) Int {
	if b.IsInt64() {
		if v := b.Int64(); v >= SmallMin && v <= SmallMax {
			return Small(v)
		}
	}
	m := new(big.Int).Abs(b)
	mask := big.NewInt(digitMask)
	var digits []uint16
	for m.Sign() > 0 {
		digits = append(digits, uint16(new(big.Int).And(m, mask).Uint64()))
		m.Rsh(m, DigitBits)
	}
	return Int{neg: b.Sign() < 0, digits: digits, isBig: true}
}

// String returns the decimal representation.
func (x Int) String() string {
	if !x.isBig {
		return strconv.FormatInt(x.small, 10)
	}
	return x.Big().String()
}
