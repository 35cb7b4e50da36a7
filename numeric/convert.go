package numeric

import (
	"math"

	"github.com/wippyai/slotbridge/errors"
)

// ErrOverflow matches every conversion failure of this package with errors.Is.
var ErrOverflow = &errors.Error{Phase: errors.PhaseConvert, Kind: errors.KindOverflow}

// ToInt64 converts x to a signed 64-bit integer.
// Big magnitudes are limited to 63 bits; the sign is applied last.
func ToInt64(x Int) (int64, error) {
	if !x.isBig {
		return x.small, nil
	}
	var acc uint64
	for i := len(x.digits) - 1; i >= 0; i-- {
		if acc > math.MaxInt64>>DigitBits {
			return 0, errors.Overflow(errors.PhaseConvert, x, "int64")
		}
		acc = acc<<DigitBits | uint64(x.digits[i])
	}
	v := int64(acc)
	if x.neg {
		v = -v
	}
	return v, nil
}

// ToUint64 converts x to an unsigned 64-bit integer.
// Negative values always fail; big magnitudes are limited to 64 bits.
func ToUint64(x Int) (uint64, error) {
	if !x.isBig {
		if x.small < 0 {
			return 0, errors.Overflow(errors.PhaseConvert, x, "uint64")
		}
		return uint64(x.small), nil
	}
	if x.neg && !x.isZeroMagnitude() {
		return 0, errors.Overflow(errors.PhaseConvert, x, "uint64")
	}
	var acc uint64
	for i := len(x.digits) - 1; i >= 0; i-- {
		if acc > math.MaxUint64>>DigitBits {
			return 0, errors.Overflow(errors.PhaseConvert, x, "uint64")
		}
		acc = acc<<DigitBits | uint64(x.digits[i])
	}
	return acc, nil
}

// ToInt32 converts x to a signed 32-bit integer, used for indexes and depths.
func ToInt32(x Int) (int32, error) {
	v, err := ToInt64(x)
	if err != nil || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, errors.Overflow(errors.PhaseConvert, x, "int32")
	}
	return int32(v), nil
}

// FromInt64 rebuilds a script integer, promoting to big form outside the
// small-int range.
func FromInt64(v int64) Int {
	if v >= SmallMin && v <= SmallMax {
		return Small(v)
	}
	var mag uint64
	if v < 0 {
		mag = uint64(-(v + 1)) + 1
	} else {
		mag = uint64(v)
	}
	return Int{neg: v < 0, digits: splitDigits(mag), isBig: true}
}

// FromUint64 rebuilds a script integer, promoting to big form above SmallMax.
func FromUint64(v uint64) Int {
	if v <= SmallMax {
		return Small(int64(v))
	}
	return Int{digits: splitDigits(v), isBig: true}
}

func splitDigits(mag uint64) []uint16 {
	digits := make([]uint16, 0, 64/DigitBits)
	for mag != 0 {
		digits = append(digits, uint16(mag&digitMask))
		mag >>= DigitBits
	}
	return digits
}
