package envelope

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/slotbridge/errors"
)

// Decode parses an envelope.
// Reserved and unrecognized tags decode to Unknown without error. The only
// failure is a buffer too short for its tag. Bytes past the implied size are
// ignored.
func Decode(data []byte) (Value, error) {
	if len(data) < headerSize {
		return nil, errors.OutOfBounds(errors.PhaseDecode, headerSize, len(data))
	}
	tag := Tag(binary.LittleEndian.Uint32(data))
	k, n := layout(tag)
	if k == kindNone {
		return Unknown{Raw: tag}, nil
	}
	size := headerSize + n*fieldSize
	if len(data) < size {
		return nil, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Type(tag.String()).
			Detail("envelope needs %d bytes, got %d", size, len(data)).
			Build()
	}

	field := func(i int) uint32 {
		off := headerSize + i*fieldSize
		return binary.LittleEndian.Uint32(data[off : off+fieldSize])
	}

	switch k {
	case kindBool:
		out := make([]bool, n)
		for i := range out {
			out[i] = field(i) != 0
		}
		return Vector[bool]{tag: tag, elems: out}, nil
	case kindInt:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(field(i))
		}
		return Vector[int32]{tag: tag, elems: out}, nil
	case kindUInt:
		out := make([]uint32, n)
		for i := range out {
			out[i] = field(i)
		}
		return Vector[uint32]{tag: tag, elems: out}, nil
	default:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(field(i))
		}
		return Vector[float32]{tag: tag, elems: out}, nil
	}
}

// Encode serializes v into a new caller-owned buffer.
// Unknown values cannot be encoded.
func Encode(v Value) (*Buffer, error) {
	if v == nil {
		return nil, errors.InvalidInput(errors.PhaseEncode, "nil value")
	}
	tag := v.Tag()
	k, n := layout(tag)
	if k == kindNone {
		return nil, errors.Unsupported(errors.PhaseEncode, "cannot encode tag "+tag.String())
	}

	var fields []uint32
	switch x := v.(type) {
	case Vector[bool]:
		fields = make([]uint32, len(x.elems))
		for i, e := range x.elems {
			if e {
				fields[i] = 1
			}
		}
	case Vector[int32]:
		fields = make([]uint32, len(x.elems))
		for i, e := range x.elems {
			fields[i] = uint32(e)
		}
	case Vector[uint32]:
		fields = x.elems
	case Vector[float32]:
		fields = make([]uint32, len(x.elems))
		for i, e := range x.elems {
			fields[i] = math.Float32bits(e)
		}
	default:
		return nil, errors.Unsupported(errors.PhaseEncode, "cannot encode tag "+tag.String())
	}
	if len(fields) != n || !matchesKind(v, k) {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Type(tag.String()).
			Detail("value does not fit its tag").
			Build()
	}

	buf := newBuffer(headerSize + n*fieldSize)
	b := buf.Bytes()
	binary.LittleEndian.PutUint32(b, uint32(tag))
	for i, f := range fields {
		binary.LittleEndian.PutUint32(b[headerSize+i*fieldSize:], f)
	}
	return buf, nil
}

// EncodeBytes is Encode followed by a copy into a plain slice.
func EncodeBytes(v Value) ([]byte, error) {
	buf, err := Encode(v)
	if err != nil {
		return nil, err
	}
	defer buf.Release()
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func matchesKind(v Value, k kind) bool {
	switch v.(type) {
	case Vector[bool]:
		return k == kindBool
	case Vector[int32]:
		return k == kindInt
	case Vector[uint32]:
		return k == kindUInt
	case Vector[float32]:
		return k == kindFloat
	}
	return false
}

// Equal reports whether a and b have the same tag and fields.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag() != b.Tag() {
		return false
	}
	ea, eb := a.Elems(), b.Elems()
	if len(ea) != len(eb) {
		return false
	}
	for i := range ea {
		if ea[i] != eb[i] {
			return false
		}
	}
	return true
}
