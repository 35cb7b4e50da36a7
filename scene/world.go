package scene

import (
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/wippyai/slotbridge/envelope"
	"github.com/wippyai/slotbridge/errors"
	"github.com/wippyai/slotbridge/handle"
	"github.com/wippyai/slotbridge/host"
	"github.com/wippyai/slotbridge/scene/refs"
)

// RootName is the name given to the root slot of a new world.
const RootName = "Root"

type slot struct {
	parent     *slot
	userRoot   *userRoot
	name       string
	tag        string
	children   []*slot
	components []*component
	id         handle.Handle
	objectRoot bool
}

type user struct {
	name string
	id   handle.Handle
}

type userRoot struct {
	user *user
	slot *slot
	id   handle.Handle
}

type field struct {
	value envelope.Value
	name  string
}

type component struct {
	slot     *slot
	typeName string
	fields   []*field
	id       handle.Handle
}

func (c *component) field(name string) *field {
	for _, f := range c.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// World is an in-memory scene graph. It is safe for concurrent use.
type World struct {
	refs  *refs.Table
	root  *slot
	types map[string]struct{}
	mu    sync.RWMutex
}

var _ host.World = (*World)(nil)

// New creates a world holding only a root slot.
func New() *World {
	w := &World{
		refs:  refs.NewTable(),
		types: make(map[string]struct{}),
	}
	w.root = &slot{name: RootName}
	w.root.id, _ = w.refs.Insert(handle.KindSlot, w.root)
	return w
}

// Subscribe registers an observer for object creation and removal.
// Observers run while the world is locked and must not call back into it.
func (w *World) Subscribe(o refs.Observer) {
	w.refs.Subscribe(o)
}

// Len returns the number of live objects of every kind.
func (w *World) Len() int {
	return w.refs.Len()
}

// Kind returns the kind of object h refers to.
func (w *World) Kind(h handle.Handle) (handle.Kind, bool) {
	return w.refs.Kind(h)
}

// Close invalidates every handle issued by the world.
func (w *World) Close() error {
	return w.refs.Close()
}

func (w *World) slot(op string, h handle.Handle) (*slot, error) {
	v, ok := w.refs.GetTyped(h, handle.KindSlot)
	if !ok {
		return nil, errors.InvalidHandle(op, uint64(h), "slot")
	}
	return v.(*slot), nil
}

func (w *World) component(op string, h handle.Handle) (*component, error) {
	v, ok := w.refs.GetTyped(h, handle.KindComponent)
	if !ok {
		return nil, errors.InvalidHandle(op, uint64(h), "component")
	}
	return v.(*component), nil
}

func (w *World) user(op string, h handle.Handle) (*user, error) {
	v, ok := w.refs.GetTyped(h, handle.KindUser)
	if !ok {
		return nil, errors.InvalidHandle(op, uint64(h), "user")
	}
	return v.(*user), nil
}

func idOf[T interface{ *slot | *user | *userRoot }](v T) handle.Handle {
	switch x := any(v).(type) {
	case *slot:
		if x != nil {
			return x.id
		}
	case *user:
		if x != nil {
			return x.id
		}
	case *userRoot:
		if x != nil {
			return x.id
		}
	}
	return handle.Null
}

// RootSlot returns the root slot.
func (w *World) RootSlot() handle.Handle {
	return w.root.id
}

// SlotParent returns the parent of a slot; the root has none.
func (w *World) SlotParent(h handle.Handle) (handle.Handle, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("slot.get_parent", h)
	if err != nil {
		return handle.Null, err
	}
	return idOf(s.parent), nil
}

func (s *slot) activeUserRoot() *userRoot {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.userRoot != nil {
			return cur.userRoot
		}
	}
	return nil
}

// SlotActiveUser returns the user owning the nearest user root above the slot.
func (w *World) SlotActiveUser(h handle.Handle) (handle.Handle, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("slot.get_active_user", h)
	if err != nil {
		return handle.Null, err
	}
	ur := s.activeUserRoot()
	if ur == nil {
		return handle.Null, nil
	}
	return idOf(ur.user), nil
}

// SlotActiveUserRoot returns the nearest user root at or above the slot.
func (w *World) SlotActiveUserRoot(h handle.Handle) (handle.Handle, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("slot.get_active_user_root", h)
	if err != nil {
		return handle.Null, err
	}
	return idOf(s.activeUserRoot()), nil
}

// SlotObjectRoot returns the nearest slot at or above h marked as an object
// root. Without onlyExplicit, a slot with no marked ancestor resolves to its
// top-level ancestor, the one directly below the root.
func (w *World) SlotObjectRoot(h handle.Handle, onlyExplicit bool) (handle.Handle, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("slot.get_object_root", h)
	if err != nil {
		return handle.Null, err
	}
	for cur := s; cur != nil; cur = cur.parent {
		if cur.objectRoot {
			return cur.id, nil
		}
	}
	if onlyExplicit || s == w.root {
		return handle.Null, nil
	}
	top := s
	for top.parent != nil && top.parent != w.root {
		top = top.parent
	}
	return top.id, nil
}

func (w *World) SlotName(h handle.Handle) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("slot.get_name", h)
	if err != nil {
		return "", err
	}
	return s.name, nil
}

func (w *World) SetSlotName(h handle.Handle, name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.slot("slot.set_name", h)
	if err != nil {
		return err
	}
	s.name = name
	return nil
}

// SlotTag returns the tag of a slot.
func (w *World) SlotTag(h handle.Handle) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("slot.get_tag", h)
	if err != nil {
		return "", err
	}
	return s.tag, nil
}

func (w *World) SlotChildCount(h handle.Handle) (int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("slot.get_num_children", h)
	if err != nil {
		return 0, err
	}
	return len(s.children), nil
}

func (w *World) SlotChild(h handle.Handle, index int) (handle.Handle, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("slot.get_child", h)
	if err != nil {
		return handle.Null, err
	}
	if index < 0 || index >= len(s.children) {
		return handle.Null, nil
	}
	return s.children[index].id, nil
}

func (w *World) SlotChildren(h handle.Handle) ([]handle.Handle, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("slot.get_children", h)
	if err != nil {
		return nil, err
	}
	out := make([]handle.Handle, len(s.children))
	for i, c := range s.children {
		out[i] = c.id
	}
	return out, nil
}

func (s *slot) findChild(match func(*slot) bool, maxDepth int) *slot {
	if i := slices.IndexFunc(s.children, match); i >= 0 {
		return s.children[i]
	}
	if maxDepth == 0 {
		return nil
	}
	next := maxDepth - 1
	if maxDepth < 0 {
		next = host.Unbounded
	}
	for _, c := range s.children {
		if found := c.findChild(match, next); found != nil {
			return found
		}
	}
	return nil
}

// matchName compares ordinally, or under Unicode case folding when fold is set.
func matchName(fold *cases.Caser, slotName, name string, matchSubstring bool) bool {
	if slotName == "" {
		return name == ""
	}
	if fold != nil {
		slotName = fold.String(slotName)
		name = fold.String(name)
	}
	if matchSubstring {
		return strings.Contains(slotName, name)
	}
	return slotName == name
}

func (w *World) FindChildByName(h handle.Handle, name string, matchSubstring, ignoreCase bool, maxDepth int) (handle.Handle, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("slot.find_child_by_name", h)
	if err != nil {
		return handle.Null, err
	}
	var fold *cases.Caser
	if ignoreCase {
		c := cases.Fold()
		fold = &c
	}
	found := s.findChild(func(c *slot) bool {
		return matchName(fold, c.name, name, matchSubstring)
	}, maxDepth)
	return idOf(found), nil
}

func (w *World) FindChildByTag(h handle.Handle, tag string, maxDepth int) (handle.Handle, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("slot.find_child_by_tag", h)
	if err != nil {
		return handle.Null, err
	}
	found := s.findChild(func(c *slot) bool { return c.tag == tag }, maxDepth)
	return idOf(found), nil
}

func (w *World) SlotComponent(h handle.Handle, typeName string) (handle.Handle, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("slot.get_component", h)
	if err != nil {
		return handle.Null, err
	}
	if _, ok := w.types[typeName]; !ok {
		return handle.Null, errors.FailedPrecondition("slot.get_component", "no such type: "+typeName)
	}
	for _, c := range s.components {
		if c.typeName == typeName {
			return c.id, nil
		}
	}
	return handle.Null, nil
}

func (w *World) SlotComponents(h handle.Handle) ([]handle.Handle, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, err := w.slot("slot.get_components", h)
	if err != nil {
		return nil, err
	}
	out := make([]handle.Handle, len(s.components))
	for i, c := range s.components {
		out[i] = c.id
	}
	return out, nil
}

func (w *World) ComponentTypeName(h handle.Handle) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c, err := w.component("component.get_type_name", h)
	if err != nil {
		return "", err
	}
	return c.typeName, nil
}

func (w *World) FieldValue(h handle.Handle, name string) (envelope.Value, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c, err := w.component("component.get_field_value", h)
	if err != nil {
		return nil, err
	}
	f := c.field(name)
	if f == nil {
		return nil, host.FieldNotFound("component.get_field_value", h, name)
	}
	return f.value, nil
}

func (w *World) SetFieldValue(h handle.Handle, name string, v envelope.Value) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, err := w.component("component.set_field_value", h)
	if err != nil {
		return err
	}
	f := c.field(name)
	if f == nil {
		return host.FieldNotFound("component.set_field_value", h, name)
	}
	if v == nil {
		return host.FieldTypeMismatch("component.set_field_value", h, name, f.value.Tag().String(), envelope.TagUnknown)
	}
	if v.Tag() != f.value.Tag() {
		return host.FieldTypeMismatch("component.set_field_value", h, name, f.value.Tag().String(), v.Tag())
	}
	f.value = v
	return nil
}

// FieldNames lists the fields of a component in declaration order.
func (w *World) FieldNames(h handle.Handle) ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c, err := w.component("component.fields", h)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(c.fields))
	for i, f := range c.fields {
		out[i] = f.name
	}
	return out, nil
}

// UserName returns the name of a user.
func (w *World) UserName(h handle.Handle) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	u, err := w.user("user.get_name", h)
	if err != nil {
		return "", err
	}
	return u.name, nil
}
