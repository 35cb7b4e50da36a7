package script

import (
	"math"

	"github.com/wippyai/slotbridge/envelope"
	"github.com/wippyai/slotbridge/numeric"
)

// FromEnvelope converts a decoded envelope into a script value.
// Single-field values become scalars, vectors become tuples, and Unknown
// becomes None.
func FromEnvelope(v envelope.Value) Value {
	if v == nil {
		return None{}
	}
	if _, ok := v.(envelope.Unknown); ok {
		return None{}
	}
	elems := v.Elems()
	out := make(Tuple, len(elems))
	for i, e := range elems {
		out[i] = scalar(e)
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func scalar(e any) Value {
	switch x := e.(type) {
	case bool:
		return Bool(x)
	case int32:
		return numeric.FromInt64(int64(x))
	case uint32:
		return numeric.FromUint64(uint64(x))
	case float32:
		return Float(x)
	}
	return None{}
}

// ToEnvelope converts a script value into an envelope of the given type.
// Vector types take a tuple of matching length; integers go through the
// numeric gate and raise OverflowError when they do not fit.
func ToEnvelope(v Value, tag envelope.Tag) (envelope.Value, error) {
	zero := envelope.Zero(tag)
	if _, ok := zero.(envelope.Unknown); ok {
		return nil, newException(TypeError, "cannot store a value of type %s", tag)
	}
	n := len(zero.Elems())

	var items []Value
	if t, ok := v.(Tuple); ok {
		items = t
	} else {
		items = []Value{v}
	}
	if len(items) != n {
		return nil, newException(ValueError, "%s needs %d elements, got %d", tag, n, len(items))
	}

	elems := make([]any, n)
	for i, item := range items {
		e, err := field(item, zero.Elems()[i])
		if err != nil {
			return nil, err
		}
		elems[i] = e
	}
	out, err := envelope.FromElems(tag, elems)
	if err != nil {
		return nil, fromError("to_envelope", err)
	}
	return out, nil
}

// field converts one script value to the Go type of like.
func field(v Value, like any) (any, error) {
	switch like.(type) {
	case bool:
		b, ok := v.(Bool)
		if !ok {
			return nil, newException(TypeError, "expected bool, got %s", typeName(v))
		}
		return bool(b), nil
	case int32:
		x, ok := v.(numeric.Int)
		if !ok {
			return nil, newException(TypeError, "expected int, got %s", typeName(v))
		}
		n, err := numeric.ToInt32(x)
		if err != nil {
			return nil, fromError("int32", err)
		}
		return n, nil
	case uint32:
		x, ok := v.(numeric.Int)
		if !ok {
			return nil, newException(TypeError, "expected int, got %s", typeName(v))
		}
		n, err := numeric.ToUint64(x)
		if err != nil {
			return nil, fromError("uint32", err)
		}
		if n > math.MaxUint32 {
			return nil, newException(OverflowError, "%s does not fit uint32", x)
		}
		return uint32(n), nil
	default:
		switch x := v.(type) {
		case Float:
			return float32(x), nil
		case numeric.Int:
			n, err := numeric.ToInt64(x)
			if err != nil {
				return nil, fromError("float", err)
			}
			return float32(n), nil
		}
		return nil, newException(TypeError, "expected float, got %s", typeName(v))
	}
}
