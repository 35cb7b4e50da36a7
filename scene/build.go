package scene

import (
	"github.com/wippyai/slotbridge/envelope"
	"github.com/wippyai/slotbridge/errors"
	"github.com/wippyai/slotbridge/handle"
)

// AddSlot creates a slot as the last child of parent.
func (w *World) AddSlot(parent handle.Handle, name string) (handle.Handle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.slot("scene.add_slot", parent)
	if err != nil {
		return handle.Null, err
	}
	s := &slot{name: name, parent: p}
	if s.id, err = w.refs.Insert(handle.KindSlot, s); err != nil {
		return handle.Null, errors.Wrap(errors.PhaseScene, errors.KindReleased, err, "add slot")
	}
	p.children = append(p.children, s)
	return s.id, nil
}

// SetSlotTag sets the tag searched by FindChildByTag.
func (w *World) SetSlotTag(h handle.Handle, tag string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.slot("scene.set_tag", h)
	if err != nil {
		return err
	}
	s.tag = tag
	return nil
}

// SetObjectRoot marks or unmarks a slot as an object root.
func (w *World) SetObjectRoot(h handle.Handle, on bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.slot("scene.set_object_root", h)
	if err != nil {
		return err
	}
	s.objectRoot = on
	return nil
}

// IsObjectRoot reports whether the slot is explicitly marked as an object root.
func (w *World) IsObjectRoot(h handle.Handle) (bool, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("scene.is_object_root", h)
	if err != nil {
		return false, err
	}
	return s.objectRoot, nil
}

// RemoveSlot detaches a slot and its whole subtree. Every handle into the
// subtree, components included, becomes invalid.
func (w *World) RemoveSlot(h handle.Handle) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.slot("scene.remove_slot", h)
	if err != nil {
		return err
	}
	if s == w.root {
		return errors.FailedPrecondition("scene.remove_slot", "cannot remove the root slot")
	}
	p := s.parent
	for i, c := range p.children {
		if c == s {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	s.parent = nil
	w.dropSubtree(s)
	return nil
}

func (w *World) dropSubtree(s *slot) {
	for _, c := range s.children {
		w.dropSubtree(c)
	}
	for _, c := range s.components {
		w.refs.Drop(c.id)
	}
	if s.userRoot != nil {
		w.refs.Drop(s.userRoot.id)
	}
	w.refs.Drop(s.id)
}

// RegisterType makes a component type name known without attaching it.
func (w *World) RegisterType(typeName string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.types[typeName] = struct{}{}
}

// AddComponent attaches a component of the given type to a slot.
func (w *World) AddComponent(slotH handle.Handle, typeName string) (handle.Handle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.slot("scene.add_component", slotH)
	if err != nil {
		return handle.Null, err
	}
	if typeName == "" {
		return handle.Null, errors.InvalidInput(errors.PhaseScene, "empty component type name")
	}
	c := &component{slot: s, typeName: typeName}
	if c.id, err = w.refs.Insert(handle.KindComponent, c); err != nil {
		return handle.Null, errors.Wrap(errors.PhaseScene, errors.KindReleased, err, "add component")
	}
	s.components = append(s.components, c)
	w.types[typeName] = struct{}{}
	return c.id, nil
}

// RemoveComponent detaches a component; its handle becomes invalid.
func (w *World) RemoveComponent(h handle.Handle) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, err := w.component("scene.remove_component", h)
	if err != nil {
		return err
	}
	s := c.slot
	for i, x := range s.components {
		if x == c {
			s.components = append(s.components[:i], s.components[i+1:]...)
			break
		}
	}
	w.refs.Drop(c.id)
	return nil
}

// AddField declares a field on a component. The initial value fixes the
// field's type for later sets.
func (w *World) AddField(h handle.Handle, name string, initial envelope.Value) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, err := w.component("scene.add_field", h)
	if err != nil {
		return err
	}
	if initial == nil || !initial.Tag().Decodable() {
		return errors.Unsupported(errors.PhaseScene, "field type for "+name)
	}
	if c.field(name) != nil {
		return errors.New(errors.PhaseScene, errors.KindInvalidInput).
			Op("scene.add_field").
			Detail("duplicate field %q", name).
			Build()
	}
	c.fields = append(c.fields, &field{name: name, value: initial})
	return nil
}

// AddUser creates a user.
func (w *World) AddUser(name string) (handle.Handle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	u := &user{name: name}
	var err error
	if u.id, err = w.refs.Insert(handle.KindUser, u); err != nil {
		return handle.Null, errors.Wrap(errors.PhaseScene, errors.KindReleased, err, "add user")
	}
	return u.id, nil
}

// AttachUserRoot makes slot the user root of u. The slot and its subtree
// report u as their active user.
func (w *World) AttachUserRoot(slotH, userH handle.Handle) (handle.Handle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.slot("scene.attach_user_root", slotH)
	if err != nil {
		return handle.Null, err
	}
	u, err := w.user("scene.attach_user_root", userH)
	if err != nil {
		return handle.Null, err
	}
	if s.userRoot != nil {
		return handle.Null, errors.FailedPrecondition("scene.attach_user_root", "slot already has a user root")
	}
	ur := &userRoot{user: u, slot: s}
	if ur.id, err = w.refs.Insert(handle.KindUserRoot, ur); err != nil {
		return handle.Null, errors.Wrap(errors.PhaseScene, errors.KindReleased, err, "attach user root")
	}
	s.userRoot = ur
	return ur.id, nil
}

// UserRootSlot returns the slot a user root is attached to.
func (w *World) UserRootSlot(h handle.Handle) (handle.Handle, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	v, ok := w.refs.GetTyped(h, handle.KindUserRoot)
	if !ok {
		return handle.Null, errors.InvalidHandle("user_root.get_slot", uint64(h), "user root")
	}
	return v.(*userRoot).slot.id, nil
}
