package scene

import (
	"errors"
	"testing"

	"github.com/wippyai/slotbridge/envelope"
	slerrors "github.com/wippyai/slotbridge/errors"
	"github.com/wippyai/slotbridge/handle"
	"github.com/wippyai/slotbridge/host"
)

func mustSlot(t *testing.T, w *World, parent handle.Handle, name string) handle.Handle {
	t.Helper()
	h, err := w.AddSlot(parent, name)
	if err != nil {
		t.Fatalf("AddSlot(%q): %v", name, err)
	}
	return h
}

func TestWorld_RootAndParent(t *testing.T) {
	w := New()
	root := w.RootSlot()
	if root.IsNull() {
		t.Fatal("root slot is null")
	}

	p, err := w.SlotParent(root)
	if err != nil || !p.IsNull() {
		t.Fatalf("root parent = %v, %v", p, err)
	}

	child := mustSlot(t, w, root, "child")
	p, err = w.SlotParent(child)
	if err != nil || p != root {
		t.Fatalf("child parent = %v, %v", p, err)
	}

	name, err := w.SlotName(root)
	if err != nil || name != RootName {
		t.Errorf("root name = %q, %v", name, err)
	}
}

func TestWorld_Children(t *testing.T) {
	w := New()
	root := w.RootSlot()
	a := mustSlot(t, w, root, "a")
	b := mustSlot(t, w, root, "b")

	n, err := w.SlotChildCount(root)
	if err != nil || n != 2 {
		t.Fatalf("child count = %d, %v", n, err)
	}
	if c, _ := w.SlotChild(root, 1); c != b {
		t.Errorf("child 1 = %v, want %v", c, b)
	}
	for _, idx := range []int{-1, 2, 100} {
		c, err := w.SlotChild(root, idx)
		if err != nil || !c.IsNull() {
			t.Errorf("SlotChild(%d) = %v, %v; want null", idx, c, err)
		}
	}
	kids, err := w.SlotChildren(root)
	if err != nil || len(kids) != 2 || kids[0] != a || kids[1] != b {
		t.Errorf("SlotChildren = %v, %v", kids, err)
	}
}

func TestWorld_FindChildByName(t *testing.T) {
	w := New()
	root := w.RootSlot()
	// root
	//   a
	//     deep
	//       deeper "Target"
	//   b "target"
	a := mustSlot(t, w, root, "a")
	deep := mustSlot(t, w, a, "deep")
	deeper := mustSlot(t, w, deep, "Target")
	b := mustSlot(t, w, root, "bTarget")

	tests := []struct {
		name      string
		query     string
		substring bool
		fold      bool
		depth     int
		want      handle.Handle
	}{
		{"exact direct", "a", false, false, 0, a},
		{"exact not direct at depth 0", "deep", false, false, 0, handle.Null},
		{"exact at depth 1", "deep", false, false, 1, deep},
		{"unbounded", "Target", false, false, host.Unbounded, deeper},
		{"depth too shallow", "Target", false, false, 1, handle.Null},
		{"depth exactly enough", "Target", false, false, 2, deeper},
		{"direct substring wins over deep exact", "Target", true, false, host.Unbounded, b},
		{"case folded", "TARGET", false, true, host.Unbounded, deeper},
		{"case sensitive miss", "TARGET", false, false, host.Unbounded, handle.Null},
		{"no match", "zzz", true, true, host.Unbounded, handle.Null},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.FindChildByName(root, tt.query, tt.substring, tt.fold, tt.depth)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWorld_FindChildByName_UnicodeFolding(t *testing.T) {
	w := New()
	root := w.RootSlot()
	s := mustSlot(t, w, root, "Straße")

	got, _ := w.FindChildByName(root, "STRASSE", false, true, 0)
	if got != s {
		t.Errorf("full case folding: got %v, want %v", got, s)
	}
	got, _ = w.FindChildByName(root, "ΣΑΣ", true, true, 0)
	if !got.IsNull() {
		t.Errorf("unexpected match %v", got)
	}
}

func TestWorld_FindChildByName_EmptyName(t *testing.T) {
	w := New()
	root := w.RootSlot()
	mustSlot(t, w, root, "named")
	empty := mustSlot(t, w, root, "")

	got, _ := w.FindChildByName(root, "", false, false, 0)
	if got != empty {
		t.Errorf("empty query matched %v, want the unnamed slot", got)
	}
}

func TestWorld_FindChildByTag(t *testing.T) {
	w := New()
	root := w.RootSlot()
	a := mustSlot(t, w, root, "a")
	b := mustSlot(t, w, a, "b")
	if err := w.SetSlotTag(b, "handle"); err != nil {
		t.Fatal(err)
	}

	if got, _ := w.FindChildByTag(root, "handle", 0); !got.IsNull() {
		t.Errorf("depth 0 found %v", got)
	}
	if got, _ := w.FindChildByTag(root, "handle", host.Unbounded); got != b {
		t.Errorf("got %v, want %v", got, b)
	}
}

func TestWorld_ObjectRoot(t *testing.T) {
	w := New()
	root := w.RootSlot()
	top := mustSlot(t, w, root, "top")
	obj := mustSlot(t, w, top, "obj")
	leaf := mustSlot(t, w, obj, "leaf")

	got, _ := w.SlotObjectRoot(leaf, true)
	if !got.IsNull() {
		t.Errorf("explicit-only without marks = %v", got)
	}
	got, _ = w.SlotObjectRoot(leaf, false)
	if got != top {
		t.Errorf("implicit object root = %v, want %v", got, top)
	}

	if err := w.SetObjectRoot(obj, true); err != nil {
		t.Fatal(err)
	}
	for _, explicit := range []bool{true, false} {
		got, _ = w.SlotObjectRoot(leaf, explicit)
		if got != obj {
			t.Errorf("object root (explicit=%v) = %v, want %v", explicit, got, obj)
		}
	}
	got, _ = w.SlotObjectRoot(obj, true)
	if got != obj {
		t.Errorf("marked slot should be its own object root, got %v", got)
	}
}

func TestWorld_ActiveUser(t *testing.T) {
	w := New()
	root := w.RootSlot()
	avatar := mustSlot(t, w, root, "avatar")
	hand := mustSlot(t, w, avatar, "hand")

	if u, _ := w.SlotActiveUser(hand); !u.IsNull() {
		t.Fatalf("unexpected active user %v", u)
	}

	u, err := w.AddUser("alice")
	if err != nil {
		t.Fatal(err)
	}
	ur, err := w.AttachUserRoot(avatar, u)
	if err != nil {
		t.Fatal(err)
	}

	if got, _ := w.SlotActiveUser(hand); got != u {
		t.Errorf("active user = %v, want %v", got, u)
	}
	if got, _ := w.SlotActiveUserRoot(hand); got != ur {
		t.Errorf("active user root = %v, want %v", got, ur)
	}
	if got, _ := w.UserRootSlot(ur); got != avatar {
		t.Errorf("user root slot = %v, want %v", got, avatar)
	}
	if name, _ := w.UserName(u); name != "alice" {
		t.Errorf("user name = %q", name)
	}
	if _, err := w.AttachUserRoot(avatar, u); slerrors.KindOf(err) != slerrors.KindFailedPrecondition {
		t.Errorf("second user root: %v", err)
	}
}

func TestWorld_Components(t *testing.T) {
	w := New()
	root := w.RootSlot()
	s := mustSlot(t, w, root, "s")
	w.RegisterType("Unused")

	c, err := w.AddComponent(s, "ValueField<bool>")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.AddField(c, "Value", envelope.Bool(false)); err != nil {
		t.Fatal(err)
	}

	got, err := w.SlotComponent(s, "ValueField<bool>")
	if err != nil || got != c {
		t.Fatalf("SlotComponent = %v, %v", got, err)
	}
	got, err = w.SlotComponent(s, "Unused")
	if err != nil || !got.IsNull() {
		t.Errorf("known type not attached = %v, %v", got, err)
	}
	_, err = w.SlotComponent(s, "NoSuchType")
	if slerrors.CodeOf(err) != slerrors.CodeFailedPrecondition {
		t.Errorf("unknown type error = %v", err)
	}

	name, err := w.ComponentTypeName(c)
	if err != nil || name != "ValueField<bool>" {
		t.Errorf("type name = %q, %v", name, err)
	}
	list, _ := w.SlotComponents(s)
	if len(list) != 1 || list[0] != c {
		t.Errorf("SlotComponents = %v", list)
	}
	fields, _ := w.FieldNames(c)
	if len(fields) != 1 || fields[0] != "Value" {
		t.Errorf("FieldNames = %v", fields)
	}
	if err := w.AddField(c, "Value", envelope.Bool(true)); err == nil {
		t.Error("duplicate field accepted")
	}
	if err := w.AddField(c, "Str", envelope.Unknown{Raw: envelope.TagString}); err == nil {
		t.Error("reserved field type accepted")
	}
}

func TestWorld_SetFieldValue(t *testing.T) {
	w := New()
	s := mustSlot(t, w, w.RootSlot(), "s")
	c, _ := w.AddComponent(s, "ValueField<bool>")
	w.AddField(c, "Value", envelope.Bool(false))

	if err := w.SetFieldValue(c, "Value", envelope.Bool(true)); err != nil {
		t.Fatal(err)
	}
	v, err := w.FieldValue(c, "Value")
	if err != nil || !envelope.Equal(v, envelope.Bool(true)) {
		t.Fatalf("FieldValue = %v, %v", v, err)
	}

	err = w.SetFieldValue(c, "Value", envelope.Int(1))
	if !errors.Is(err, host.ErrTypeMismatch) {
		t.Errorf("mismatched set: %v", err)
	}
	v, _ = w.FieldValue(c, "Value")
	if !envelope.Equal(v, envelope.Bool(true)) {
		t.Errorf("field changed by failed set: %v", v)
	}

	if err := w.SetFieldValue(c, "Missing", envelope.Bool(true)); !errors.Is(err, host.ErrFieldNotFound) {
		t.Errorf("missing field: %v", err)
	}
	if _, err := w.FieldValue(c, "Missing"); !errors.Is(err, host.ErrFieldNotFound) {
		t.Errorf("missing field get: %v", err)
	}
}

func TestWorld_StaleHandles(t *testing.T) {
	w := New()
	root := w.RootSlot()
	a := mustSlot(t, w, root, "a")
	b := mustSlot(t, w, a, "b")
	c, _ := w.AddComponent(b, "Thing")

	if err := w.RemoveSlot(a); err != nil {
		t.Fatal(err)
	}

	for _, h := range []handle.Handle{a, b} {
		if _, err := w.SlotName(h); !host.IsInvalidHandle(err) {
			t.Errorf("SlotName(%v) after removal: %v", h, err)
		}
	}
	if _, err := w.ComponentTypeName(c); !host.IsInvalidHandle(err) {
		t.Errorf("component after removal: %v", err)
	}
	if n, _ := w.SlotChildCount(root); n != 0 {
		t.Errorf("root still has %d children", n)
	}

	// A new slot must not be reachable through the old handles.
	fresh := mustSlot(t, w, root, "fresh")
	if fresh == a || fresh == b {
		t.Fatal("stale handle reissued")
	}
	if _, err := w.SlotName(a); !host.IsInvalidHandle(err) {
		t.Errorf("stale handle resolved after reuse: %v", err)
	}

	if err := w.RemoveSlot(root); slerrors.KindOf(err) != slerrors.KindFailedPrecondition {
		t.Errorf("removing root: %v", err)
	}
}

func TestWorld_KindConfusion(t *testing.T) {
	w := New()
	s := mustSlot(t, w, w.RootSlot(), "s")
	c, _ := w.AddComponent(s, "Thing")

	if _, err := w.SlotName(c); slerrors.CodeOf(err) != slerrors.CodeInvalidRefID {
		t.Errorf("component handle used as slot: %v", err)
	}
	if _, err := w.ComponentTypeName(s); slerrors.CodeOf(err) != slerrors.CodeInvalidRefID {
		t.Errorf("slot handle used as component: %v", err)
	}
}

func TestWorld_RemoveComponent(t *testing.T) {
	w := New()
	s := mustSlot(t, w, w.RootSlot(), "s")
	c, _ := w.AddComponent(s, "Thing")

	if err := w.RemoveComponent(c); err != nil {
		t.Fatal(err)
	}
	got, err := w.SlotComponent(s, "Thing")
	if err != nil || !got.IsNull() {
		t.Errorf("SlotComponent after removal = %v, %v", got, err)
	}
	if err := w.RemoveComponent(c); !host.IsInvalidHandle(err) {
		t.Errorf("double removal: %v", err)
	}
}
