package handle

import (
	"fmt"

	"github.com/wippyai/slotbridge/numeric"
)

// Handle is an opaque reference to a host object.
// Handle 0 is reserved and always means "no object".
type Handle uint64

// Null is the reserved no-object handle.
const Null Handle = 0

// IsNull reports whether h is the null sentinel.
func (h Handle) IsNull() bool {
	return h == Null
}

// FromHalves assembles a handle from its low and high 32-bit words.
func FromHalves(lo, hi uint32) Handle {
	return Handle(uint64(lo) | uint64(hi)<<32)
}

// Halves splits h into its low and high 32-bit words.
func (h Handle) Halves() (lo, hi uint32) {
	return uint32(h), uint32(h >> 32)
}

// FromInt converts a script integer into a handle through the numeric gate.
// Negative and wider-than-64-bit values fail with numeric.ErrOverflow.
func FromInt(x numeric.Int) (Handle, error) {
	v, err := numeric.ToUint64(x)
	if err != nil {
		return Null, err
	}
	return Handle(v), nil
}

// Int returns h as a script integer, promoting to big form when needed.
func (h Handle) Int() numeric.Int {
	return numeric.FromUint64(uint64(h))
}

func (h Handle) String() string {
	return fmt.Sprintf("%#x", uint64(h))
}
