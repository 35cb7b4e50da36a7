// Package host declares the capability interface a scene-graph host offers to
// the boundary layer.
//
// Every method takes a handle that the host issued earlier. A handle that no
// longer resolves yields an error whose kind is errors.KindInvalidHandle;
// callers never see a panic for a stale handle. Absent results (no parent,
// no matching child) are the null handle with a nil error.
package host

import (
	stderrors "errors"

	"github.com/wippyai/slotbridge/envelope"
	"github.com/wippyai/slotbridge/errors"
	"github.com/wippyai/slotbridge/handle"
)

var (
	// ErrFieldNotFound is returned when a component has no field of the given name.
	ErrFieldNotFound = stderrors.New("field not found")

	// ErrTypeMismatch is returned when a field is set with a value of a different type.
	ErrTypeMismatch = stderrors.New("field type mismatch")
)

// Unbounded is the max-depth value that disables the depth limit of a search.
const Unbounded = -1

// World is the host scene graph as seen through the boundary.
type World interface {
	// RootSlot returns the root of the scene graph.
	RootSlot() handle.Handle

	SlotParent(slot handle.Handle) (handle.Handle, error)
	SlotActiveUser(slot handle.Handle) (handle.Handle, error)
	SlotActiveUserRoot(slot handle.Handle) (handle.Handle, error)

	// SlotObjectRoot returns the nearest ancestor (or the slot itself) marked
	// as an object root. Unless onlyExplicit is set, a slot without any marked
	// ancestor resolves to its top-level ancestor below the root.
	SlotObjectRoot(slot handle.Handle, onlyExplicit bool) (handle.Handle, error)

	SlotName(slot handle.Handle) (string, error)
	SetSlotName(slot handle.Handle, name string) error

	SlotChildCount(slot handle.Handle) (int, error)

	// SlotChild returns the child at index, or null when index is out of range.
	SlotChild(slot handle.Handle, index int) (handle.Handle, error)
	SlotChildren(slot handle.Handle) ([]handle.Handle, error)

	// FindChildByName searches descendants breadth-first per level: the direct
	// children in order, then each child's subtree with maxDepth-1.
	// maxDepth 0 checks only direct children; Unbounded removes the limit.
	FindChildByName(slot handle.Handle, name string, matchSubstring, ignoreCase bool, maxDepth int) (handle.Handle, error)
	FindChildByTag(slot handle.Handle, tag string, maxDepth int) (handle.Handle, error)

	// SlotComponent returns the first component of the named type attached to
	// the slot, null if there is none. An unknown type name is a failed
	// precondition.
	SlotComponent(slot handle.Handle, typeName string) (handle.Handle, error)
	SlotComponents(slot handle.Handle) ([]handle.Handle, error)

	ComponentTypeName(component handle.Handle) (string, error)

	// FieldValue returns the current value of a component field.
	FieldValue(component handle.Handle, field string) (envelope.Value, error)

	// SetFieldValue replaces a component field. The value's tag must match the
	// field's type; on any error the field is left unchanged.
	SetFieldValue(component handle.Handle, field string, v envelope.Value) error
}

// FieldNotFound reports a missing component field. It matches
// ErrFieldNotFound under errors.Is.
func FieldNotFound(op string, component handle.Handle, field string) error {
	return errors.New(errors.PhaseHost, errors.KindFieldMissing).
		Op(op).
		Handle(uint64(component)).
		Detail("no field %q", field).
		Cause(ErrFieldNotFound).
		Build()
}

// FieldTypeMismatch reports a field write whose value tag differs from the
// field's type. want may be empty when the field type is not known. It
// matches ErrTypeMismatch under errors.Is.
func FieldTypeMismatch(op string, component handle.Handle, field, want string, got envelope.Tag) error {
	return errors.New(errors.PhaseHost, errors.KindTypeMismatch).
		Op(op).
		Handle(uint64(component)).
		Type(want).
		Value(got).
		Detail("field %q got %s", field, got).
		Cause(ErrTypeMismatch).
		Build()
}

// IsInvalidHandle reports whether err reports a stale or foreign handle.
func IsInvalidHandle(err error) bool {
	return errors.KindOf(err) == errors.KindInvalidHandle
}
