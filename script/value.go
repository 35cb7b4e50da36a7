package script

import (
	"fmt"
	"strings"

	"github.com/wippyai/slotbridge/numeric"
)

// Value is an interpreter value: None, Bool, numeric.Int, Str, Float, Tuple,
// *Slot, *Component, *User or *UserRoot.
type Value any

// None is the absent value.
type None struct{}

type (
	Bool  bool
	Str   string
	Float float64
	Tuple []Value
)

func (None) String() string { return "None" }

func (b Bool) String() string {
	if b {
		return "True"
	}
	return "False"
}

func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = Repr(v)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Repr renders v the way the interpreter prints it.
func Repr(v Value) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case Str:
		return fmt.Sprintf("%q", string(x))
	case Float:
		return fmt.Sprintf("%g", float64(x))
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}

// IsNone reports whether v is None or a nil Go value.
func IsNone(v Value) bool {
	switch v.(type) {
	case nil, None:
		return true
	}
	return false
}

// Int returns a script integer for v.
func Int(v int64) numeric.Int {
	return numeric.FromInt64(v)
}

func typeName(v Value) string {
	switch v.(type) {
	case nil, None:
		return "NoneType"
	case Bool:
		return "bool"
	case numeric.Int:
		return "int"
	case Str:
		return "str"
	case Float:
		return "float"
	case Tuple:
		return "tuple"
	case *Slot:
		return "Slot"
	case *Component:
		return "Component"
	case *User:
		return "User"
	case *UserRoot:
		return "UserRoot"
	}
	return fmt.Sprintf("%T", v)
}
