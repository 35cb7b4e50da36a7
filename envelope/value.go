package envelope

import (
	"fmt"

	"github.com/wippyai/slotbridge/errors"
)

// Value is a decoded envelope. The set of implementations is closed:
// Vector[bool], Vector[int32], Vector[uint32], Vector[float32] and Unknown.
type Value interface {
	Tag() Tag
	// Elems returns the payload fields in order. The length is fixed by Tag.
	Elems() []any
	isValue()
}

// Scalar is the set of payload field types.
type Scalar interface {
	bool | int32 | uint32 | float32
}

// Vector is a decodable value of one to four scalars.
type Vector[T Scalar] struct {
	elems []T
	tag   Tag
}

func (v Vector[T]) Tag() Tag { return v.tag }

func (v Vector[T]) Elems() []any {
	out := make([]any, len(v.elems))
	for i, e := range v.elems {
		out[i] = e
	}
	return out
}

// Values returns a copy of the payload fields.
func (v Vector[T]) Values() []T {
	out := make([]T, len(v.elems))
	copy(out, v.elems)
	return out
}

// At returns field i.
func (v Vector[T]) At(i int) T {
	return v.elems[i]
}

// Len returns the number of fields.
func (v Vector[T]) Len() int {
	return len(v.elems)
}

func (v Vector[T]) String() string {
	return fmt.Sprintf("%s%v", v.tag, v.elems)
}

func (Vector[T]) isValue() {}

// Unknown is the value of an envelope whose tag is reserved or unrecognized.
type Unknown struct {
	Raw Tag
}

func (u Unknown) Tag() Tag     { return u.Raw }
func (u Unknown) Elems() []any { return nil }
func (Unknown) isValue()       {}

func (u Unknown) String() string {
	return fmt.Sprintf("unknown(%s)", u.Raw)
}

func vector[T Scalar](base Tag, vs []T) (Vector[T], error) {
	if len(vs) < 1 || len(vs) > 4 {
		return Vector[T]{}, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Type(base.String()).
			Detail("vector needs 1 to 4 elements, got %d", len(vs)).
			Build()
	}
	out := make([]T, len(vs))
	copy(out, vs)
	return Vector[T]{tag: base + Tag(len(vs)-1), elems: out}, nil
}

// Bools builds a Bool, Bool2, Bool3 or Bool4 value.
func Bools(vs ...bool) (Vector[bool], error) { return vector(TagBool, vs) }

// Ints builds an Int through Int4 value.
func Ints(vs ...int32) (Vector[int32], error) { return vector(TagInt, vs) }

// UInts builds a UInt through UInt4 value.
func UInts(vs ...uint32) (Vector[uint32], error) { return vector(TagUInt, vs) }

// Floats builds a Float through Float4 value.
func Floats(vs ...float32) (Vector[float32], error) { return vector(TagFloat, vs) }

// Bool is shorthand for a single Bool value.
func Bool(v bool) Vector[bool] {
	return Vector[bool]{tag: TagBool, elems: []bool{v}}
}

// Int is shorthand for a single Int value.
func Int(v int32) Vector[int32] {
	return Vector[int32]{tag: TagInt, elems: []int32{v}}
}

// UInt is shorthand for a single UInt value.
func UInt(v uint32) Vector[uint32] {
	return Vector[uint32]{tag: TagUInt, elems: []uint32{v}}
}

// Float is shorthand for a single Float value.
func Float(v float32) Vector[float32] {
	return Vector[float32]{tag: TagFloat, elems: []float32{v}}
}

// Quat builds a FloatQ value.
func Quat(x, y, z, w float32) Vector[float32] {
	return Vector[float32]{tag: TagFloatQ, elems: []float32{x, y, z, w}}
}

// Color builds a Color value.
func Color(r, g, b, a float32) Vector[float32] {
	return Vector[float32]{tag: TagColor, elems: []float32{r, g, b, a}}
}

// Zero returns the zero value for a decodable tag, or Unknown.
func Zero(t Tag) Value {
	k, n := layout(t)
	switch k {
	case kindBool:
		return Vector[bool]{tag: t, elems: make([]bool, n)}
	case kindInt:
		return Vector[int32]{tag: t, elems: make([]int32, n)}
	case kindUInt:
		return Vector[uint32]{tag: t, elems: make([]uint32, n)}
	case kindFloat:
		return Vector[float32]{tag: t, elems: make([]float32, n)}
	}
	return Unknown{Raw: t}
}

// FromElems builds a value of tag t from loosely typed fields, as produced by
// Elems or parsed from a text format. Numbers are accepted as any Go integer
// or float type and range-checked for the target field type.
func FromElems(t Tag, elems []any) (Value, error) {
	k, n := layout(t)
	if k == kindNone {
		return nil, errors.Unsupported(errors.PhaseEncode, "tag "+t.String())
	}
	if len(elems) != n {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Type(t.String()).
			Detail("expected %d elements, got %d", n, len(elems)).
			Build()
	}
	switch k {
	case kindBool:
		out := make([]bool, n)
		for i, e := range elems {
			b, ok := e.(bool)
			if !ok {
				return nil, errors.TypeMismatch(errors.PhaseEncode, fmt.Sprintf("%T", e), "bool")
			}
			out[i] = b
		}
		return Vector[bool]{tag: t, elems: out}, nil
	case kindInt:
		out := make([]int32, n)
		for i, e := range elems {
			v, err := toInt64(e)
			if err != nil {
				return nil, err
			}
			if v < -1<<31 || v > 1<<31-1 {
				return nil, errors.Overflow(errors.PhaseEncode, v, "int32")
			}
			out[i] = int32(v)
		}
		return Vector[int32]{tag: t, elems: out}, nil
	case kindUInt:
		out := make([]uint32, n)
		for i, e := range elems {
			v, err := toInt64(e)
			if err != nil {
				return nil, err
			}
			if v < 0 || v > 1<<32-1 {
				return nil, errors.Overflow(errors.PhaseEncode, v, "uint32")
			}
			out[i] = uint32(v)
		}
		return Vector[uint32]{tag: t, elems: out}, nil
	default:
		out := make([]float32, n)
		for i, e := range elems {
			switch f := e.(type) {
			case float32:
				out[i] = f
			case float64:
				out[i] = float32(f)
			default:
				v, err := toInt64(e)
				if err != nil {
					return nil, err
				}
				out[i] = float32(v)
			}
		}
		return Vector[float32]{tag: t, elems: out}, nil
	}
}

func toInt64(e any) (int64, error) {
	switch v := e.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > 1<<63-1 {
			return 0, errors.Overflow(errors.PhaseEncode, v, "int64")
		}
		return int64(v), nil
	}
	return 0, errors.TypeMismatch(errors.PhaseEncode, fmt.Sprintf("%T", e), "integer")
}
