package script

import (
	"github.com/wippyai/slotbridge/boundary"
	"github.com/wippyai/slotbridge/envelope"
	"github.com/wippyai/slotbridge/handle"
	"github.com/wippyai/slotbridge/host"
	"github.com/wippyai/slotbridge/numeric"
)

// Bindings exposes the scene graph to script code.
type Bindings struct {
	s *boundary.Surface
}

// New creates bindings over a boundary surface.
func New(s *boundary.Surface) *Bindings {
	return &Bindings{s: s}
}

// Slot is the script-side reference to a host slot.
type Slot struct {
	b   *Bindings
	ref handle.Ref
}

// Component is the script-side reference to a host component.
type Component struct {
	b   *Bindings
	ref handle.Ref
}

// User is the script-side reference to a host user.
type User struct {
	ref handle.Ref
}

// UserRoot is the script-side reference to a host user root.
type UserRoot struct {
	ref handle.Ref
}

func (s *Slot) ID() handle.Handle      { return s.ref.ID }
func (c *Component) ID() handle.Handle { return c.ref.ID }
func (u *User) ID() handle.Handle      { return u.ref.ID }
func (u *UserRoot) ID() handle.Handle  { return u.ref.ID }

func (s *Slot) String() string      { return s.ref.String() }
func (c *Component) String() string { return c.ref.String() }
func (u *User) String() string      { return u.ref.String() }
func (u *UserRoot) String() string  { return u.ref.String() }

// IDInt returns the slot handle as a script integer.
func (s *Slot) IDInt() numeric.Int { return s.ref.ID.Int() }

func (b *Bindings) slotOrNone(h handle.Handle) Value {
	ref, ok := handle.OrNull(handle.KindSlot, h)
	if !ok {
		return None{}
	}
	return &Slot{b: b, ref: ref}
}

func (b *Bindings) componentOrNone(h handle.Handle) Value {
	ref, ok := handle.OrNull(handle.KindComponent, h)
	if !ok {
		return None{}
	}
	return &Component{b: b, ref: ref}
}

// handleResult collapses a handle-returning call: invalid handles read as
// None, other failures raise.
func handleResult(op string, h handle.Handle, err error, wrap func(handle.Handle) Value) (Value, error) {
	if err != nil {
		if host.IsInvalidHandle(err) {
			return None{}, nil
		}
		return nil, fromError(op, err)
	}
	return wrap(h), nil
}

// RootSlot returns the root slot.
func (b *Bindings) RootSlot() Value {
	return b.slotOrNone(b.s.RootSlot())
}

// NewSlot wraps a raw slot ID. The ID must be an int in the unsigned 64-bit range.
func (b *Bindings) NewSlot(id Value) (*Slot, error) {
	x, ok := id.(numeric.Int)
	if !ok {
		return nil, newException(ValueError, "Slot ID must be an int")
	}
	h, err := handle.FromInt(x)
	if err != nil {
		return nil, fromError("Slot", err)
	}
	return &Slot{b: b, ref: handle.Ref{Kind: handle.KindSlot, ID: h}}, nil
}

// NewComponent wraps a raw component ID.
func (b *Bindings) NewComponent(id Value) (*Component, error) {
	x, ok := id.(numeric.Int)
	if !ok {
		return nil, newException(ValueError, "Component ID must be an int")
	}
	h, err := handle.FromInt(x)
	if err != nil {
		return nil, fromError("Component", err)
	}
	return &Component{b: b, ref: handle.Ref{Kind: handle.KindComponent, ID: h}}, nil
}

func (s *Slot) Parent() (Value, error) {
	h, err := s.b.s.SlotGetParent(s.ref.ID)
	return handleResult("get_parent", h, err, s.b.slotOrNone)
}

func (s *Slot) ObjectRoot(onlyExplicit bool) (Value, error) {
	h, err := s.b.s.SlotGetObjectRoot(s.ref.ID, onlyExplicit)
	return handleResult("get_object_root", h, err, s.b.slotOrNone)
}

func (s *Slot) ActiveUser() (Value, error) {
	h, err := s.b.s.SlotGetActiveUser(s.ref.ID)
	return handleResult("get_active_user", h, err, func(h handle.Handle) Value {
		ref, ok := handle.OrNull(handle.KindUser, h)
		if !ok {
			return None{}
		}
		return &User{ref: ref}
	})
}

func (s *Slot) ActiveUserRoot() (Value, error) {
	h, err := s.b.s.SlotGetActiveUserRoot(s.ref.ID)
	return handleResult("get_active_user_root", h, err, func(h handle.Handle) Value {
		ref, ok := handle.OrNull(handle.KindUserRoot, h)
		if !ok {
			return None{}
		}
		return &UserRoot{ref: ref}
	})
}

func (s *Slot) Name() (Value, error) {
	name, err := s.b.s.SlotGetName(s.ref.ID)
	if err != nil {
		return nil, fromError("get_name", err)
	}
	return Str(name), nil
}

func (s *Slot) SetName(name Value) error {
	_, err := Call(func() (Value, error) {
		str := strArg("set_name", "name", name)
		if err := s.b.s.SlotSetName(s.ref.ID, str); err != nil {
			return nil, fromError("set_name", err)
		}
		return None{}, nil
	})
	return err
}

func (s *Slot) ChildrenCount() (Value, error) {
	n, err := s.b.s.SlotGetNumChildren(s.ref.ID)
	if err != nil {
		return nil, fromError("children_count", err)
	}
	return numeric.FromInt64(int64(n)), nil
}

// int32Arg converts an int argument, raising TypeError or OverflowError.
func int32Arg(op, name string, v Value) int32 {
	x, ok := v.(numeric.Int)
	if !ok {
		Raise(TypeError, "%s: %s must be int, not %s", op, name, typeName(v))
	}
	n, err := numeric.ToInt32(x)
	if err != nil {
		raise(fromError(op, err))
	}
	return n
}

// strArg converts a str argument, raising TypeError.
func strArg(op, name string, v Value) string {
	s, ok := v.(Str)
	if !ok {
		Raise(TypeError, "%s: %s must be str, not %s", op, name, typeName(v))
	}
	return string(s)
}

func (s *Slot) Child(index Value) (Value, error) {
	return Call(func() (Value, error) {
		i := int32Arg("get_child", "index", index)
		h, err := s.b.s.SlotGetChild(s.ref.ID, i)
		return handleResult("get_child", h, err, s.b.slotOrNone)
	})
}

// FindChildByName searches the subtree; maxDepth None or -1 is unbounded.
func (s *Slot) FindChildByName(name Value, matchSubstring, ignoreCase bool, maxDepth Value) (Value, error) {
	return Call(func() (Value, error) {
		n := strArg("find_child_by_name", "name", name)
		d := depthArg("find_child_by_name", maxDepth)
		h, err := s.b.s.SlotFindChildByName(s.ref.ID, n, matchSubstring, ignoreCase, d)
		return handleResult("find_child_by_name", h, err, s.b.slotOrNone)
	})
}

func (s *Slot) FindChildByTag(tag Value, maxDepth Value) (Value, error) {
	return Call(func() (Value, error) {
		t := strArg("find_child_by_tag", "tag", tag)
		d := depthArg("find_child_by_tag", maxDepth)
		h, err := s.b.s.SlotFindChildByTag(s.ref.ID, t, d)
		return handleResult("find_child_by_tag", h, err, s.b.slotOrNone)
	})
}

func depthArg(op string, v Value) int32 {
	if IsNone(v) {
		return -1
	}
	return int32Arg(op, "max_depth", v)
}

func (s *Slot) Component(name Value) (Value, error) {
	return Call(func() (Value, error) {
		t := strArg("get_component", "type_name", name)
		h, err := s.b.s.SlotGetComponent(s.ref.ID, t)
		return handleResult("get_component", h, err, s.b.componentOrNone)
	})
}

// Children returns a tuple of child slots.
func (s *Slot) Children() (Value, error) {
	hs, err := s.b.s.SlotGetChildren(s.ref.ID)
	if err != nil {
		return nil, fromError("get_children", err)
	}
	out := make(Tuple, len(hs))
	for i, h := range hs {
		out[i] = s.b.slotOrNone(h)
	}
	return out, nil
}

// Components returns a tuple of attached components.
func (s *Slot) Components() (Value, error) {
	hs, err := s.b.s.SlotGetComponents(s.ref.ID)
	if err != nil {
		return nil, fromError("get_components", err)
	}
	out := make(Tuple, len(hs))
	for i, h := range hs {
		out[i] = s.b.componentOrNone(h)
	}
	return out, nil
}

func (c *Component) TypeName() (Value, error) {
	name, err := c.b.s.ComponentGetTypeName(c.ref.ID)
	if err != nil {
		return nil, fromError("get_type_name", err)
	}
	return Str(name), nil
}

// Get reads a field. A field of a type the envelope cannot carry, or any
// host failure, reads as None.
func (c *Component) Get(field Value) (Value, error) {
	return Call(func() (Value, error) {
		v, ok := c.get(strArg("get", "field", field))
		if !ok {
			return None{}, nil
		}
		return FromEnvelope(v), nil
	})
}

func (c *Component) get(name string) (envelope.Value, bool) {
	buf, err := c.b.s.ComponentGetFieldValue(c.ref.ID, name)
	if err != nil || buf == nil {
		return nil, false
	}
	defer buf.Release()
	v, err := envelope.Decode(buf.Bytes())
	if err != nil {
		return nil, false
	}
	return v, true
}

// Set writes a field, converting v to the field's current type.
func (c *Component) Set(field Value, v Value) error {
	_, err := Call(func() (Value, error) {
		name := strArg("set", "field", field)
		cur, ok := c.get(name)
		if !ok {
			Raise(ValueError, "set: no readable field %q", name)
		}
		return None{}, c.SetTyped(name, v, cur.Tag())
	})
	return err
}

// SetTyped writes a field as the given envelope type.
func (c *Component) SetTyped(field string, v Value, tag envelope.Tag) error {
	ev, err := ToEnvelope(v, tag)
	if err != nil {
		return err
	}
	env, err := envelope.EncodeBytes(ev)
	if err != nil {
		return fromError("set", err)
	}
	if err := c.b.s.ComponentSetFieldValueErr(c.ref.ID, field, env); err != nil {
		return fromError("set", err)
	}
	return nil
}
