package script

import (
	"errors"
	"testing"

	"github.com/wippyai/slotbridge/boundary"
	"github.com/wippyai/slotbridge/envelope"
	"github.com/wippyai/slotbridge/handle"
	"github.com/wippyai/slotbridge/numeric"
	"github.com/wippyai/slotbridge/scene"
)

type fixture struct {
	w    *scene.World
	b    *Bindings
	foo  handle.Handle
	comp handle.Handle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := scene.New()
	foo, _ := w.AddSlot(w.RootSlot(), "Foo")
	c, _ := w.AddComponent(foo, "ValueField<bool>")
	if err := w.AddField(c, "Value", envelope.Bool(false)); err != nil {
		t.Fatal(err)
	}
	if err := w.AddField(c, "Position", envelope.Zero(envelope.TagFloat3)); err != nil {
		t.Fatal(err)
	}
	if err := w.AddField(c, "Count", envelope.UInt(0)); err != nil {
		t.Fatal(err)
	}
	return &fixture{w: w, b: New(boundary.New(w)), foo: foo, comp: c}
}

func mustSlotValue(t *testing.T, v Value, err error) *Slot {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
	s, ok := v.(*Slot)
	if !ok {
		t.Fatalf("got %s (%v), want Slot", typeName(v), v)
	}
	return s
}

func TestBindings_RootParent(t *testing.T) {
	f := newFixture(t)

	root := mustSlotValue(t, f.b.RootSlot(), nil)
	p, err := root.Parent()
	if err != nil || !IsNone(p) {
		t.Fatalf("root.Parent() = %v, %v", p, err)
	}
	name, err := root.Name()
	if err != nil || name != Str(scene.RootName) {
		t.Errorf("root.Name() = %v, %v", name, err)
	}
}

func TestBindings_FindAndComponent(t *testing.T) {
	f := newFixture(t)
	root := mustSlotValue(t, f.b.RootSlot(), nil)

	fv, err := root.FindChildByName(Str("FOO"), false, true, None{})
	foo := mustSlotValue(t, fv, err)
	if foo.ID() != f.foo {
		t.Fatalf("found %v, want %v", foo.ID(), f.foo)
	}

	cv, err := foo.Component(Str("ValueField<bool>"))
	if err != nil {
		t.Fatal(err)
	}
	c, ok := cv.(*Component)
	if !ok {
		t.Fatalf("Component() = %v", cv)
	}

	if err := c.Set(Str("Value"), Bool(true)); err != nil {
		t.Fatal(err)
	}
	v, err := c.Get(Str("Value"))
	if err != nil || v != Bool(true) {
		t.Errorf("Get(Value) = %v, %v", v, err)
	}

	if err := c.Set(Str("Position"), Tuple{Float(1), numeric.Small(2), Float(3.5)}); err != nil {
		t.Fatal(err)
	}
	v, _ = c.Get(Str("Position"))
	tup, ok := v.(Tuple)
	if !ok || len(tup) != 3 || tup[0] != Float(1) || tup[1] != Float(2) || tup[2] != Float(3.5) {
		t.Errorf("Get(Position) = %v", v)
	}

	tn, err := c.TypeName()
	if err != nil || tn != Str("ValueField<bool>") {
		t.Errorf("TypeName() = %v, %v", tn, err)
	}
}

func TestBindings_SetErrors(t *testing.T) {
	f := newFixture(t)
	c, _ := f.b.NewComponent(f.comp.Int())

	tests := []struct {
		name  string
		field Value
		value Value
		want  ExceptionType
	}{
		{"wrong scalar type", Str("Value"), numeric.Small(1), TypeError},
		{"tuple arity", Str("Position"), Tuple{Float(1)}, ValueError},
		{"negative into uint", Str("Count"), numeric.Small(-1), OverflowError},
		{"too wide for uint32", Str("Count"), numeric.FromUint64(1 << 40), OverflowError},
		{"missing field", Str("Nope"), Bool(true), ValueError},
		{"field name not str", numeric.Small(1), Bool(true), TypeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Set(tt.field, tt.value)
			var exc *Exception
			if !errors.As(err, &exc) {
				t.Fatalf("expected exception, got %v", err)
			}
			if exc.Type != tt.want {
				t.Errorf("exception %s, want %s", exc, tt.want)
			}
		})
	}

	v, _ := c.Get(Str("Value"))
	if v != Bool(false) {
		t.Errorf("field changed by failed sets: %v", v)
	}
}

func TestBindings_ChildIndexOverflow(t *testing.T) {
	f := newFixture(t)
	root := mustSlotValue(t, f.b.RootSlot(), nil)

	_, err := root.Child(numeric.FromInt64(1 << 40))
	var exc *Exception
	if !errors.As(err, &exc) || exc.Type != OverflowError {
		t.Fatalf("Child(2**40) = %v", err)
	}
	if !errors.Is(err, numeric.ErrOverflow) {
		t.Errorf("cause lost: %v", err)
	}

	// The bindings stay usable after a failed call.
	cv, err := root.Child(numeric.Small(0))
	child := mustSlotValue(t, cv, err)
	if child.ID() != f.foo {
		t.Errorf("Child(0) = %v", child)
	}
	none, err := root.Child(numeric.Small(9))
	if err != nil || !IsNone(none) {
		t.Errorf("Child(9) = %v, %v", none, err)
	}
}

func TestBindings_NewSlot(t *testing.T) {
	f := newFixture(t)

	s, err := f.b.NewSlot(f.foo.Int())
	if err != nil {
		t.Fatal(err)
	}
	if name, _ := s.Name(); name != Str("Foo") {
		t.Errorf("Name() = %v", name)
	}

	if _, err := f.b.NewSlot(Str("1")); err == nil {
		t.Error("string ID accepted")
	} else if exc := err.(*Exception); exc.Type != ValueError {
		t.Errorf("got %s", exc)
	}

	_, err = f.b.NewSlot(numeric.Small(-1))
	var exc *Exception
	if !errors.As(err, &exc) || exc.Type != OverflowError {
		t.Errorf("NewSlot(-1) = %v", err)
	}
	_, err = f.b.NewSlot(numeric.Big(false, 0, 0, 0, 0, 1))
	if !errors.As(err, &exc) || exc.Type != OverflowError {
		t.Errorf("NewSlot(2**64) = %v", err)
	}
}

func TestBindings_StaleSlotReadsAsNone(t *testing.T) {
	f := newFixture(t)
	s, _ := f.b.NewSlot(f.foo.Int())
	f.w.RemoveSlot(f.foo)

	p, err := s.Parent()
	if err != nil || !IsNone(p) {
		t.Errorf("Parent() of removed slot = %v, %v", p, err)
	}
	// A name has no null form, so it raises.
	if _, err := s.Name(); err == nil {
		t.Error("Name() of removed slot succeeded")
	}
}

func TestBindings_String(t *testing.T) {
	f := newFixture(t)
	s, _ := f.b.NewSlot(numeric.Small(42))
	if got := s.String(); got != "Slot(ID=0x2a)" {
		t.Errorf("String() = %q", got)
	}
}

func TestBindings_ChildrenComponents(t *testing.T) {
	f := newFixture(t)
	root := mustSlotValue(t, f.b.RootSlot(), nil)

	kids, err := root.Children()
	if err != nil {
		t.Fatal(err)
	}
	if tup := kids.(Tuple); len(tup) != 1 || tup[0].(*Slot).ID() != f.foo {
		t.Errorf("Children() = %v", kids)
	}

	foo, _ := f.b.NewSlot(f.foo.Int())
	comps, _ := foo.Components()
	if tup := comps.(Tuple); len(tup) != 1 || tup[0].(*Component).ID() != f.comp {
		t.Errorf("Components() = %v", comps)
	}

	cnt, err := root.ChildrenCount()
	if err != nil || cnt.(numeric.Int).String() != "1" {
		t.Errorf("ChildrenCount() = %v, %v", cnt, err)
	}
}

func TestBindings_Users(t *testing.T) {
	f := newFixture(t)
	u, _ := f.w.AddUser("carol")
	ur, _ := f.w.AttachUserRoot(f.foo, u)
	foo, _ := f.b.NewSlot(f.foo.Int())

	uv, err := foo.ActiveUser()
	if err != nil || uv.(*User).ID() != u {
		t.Errorf("ActiveUser() = %v, %v", uv, err)
	}
	urv, err := foo.ActiveUserRoot()
	if err != nil || urv.(*UserRoot).ID() != ur {
		t.Errorf("ActiveUserRoot() = %v, %v", urv, err)
	}

	root := mustSlotValue(t, f.b.RootSlot(), nil)
	none, err := root.ActiveUser()
	if err != nil || !IsNone(none) {
		t.Errorf("root.ActiveUser() = %v, %v", none, err)
	}
}

func TestBindings_SetNameAndTag(t *testing.T) {
	f := newFixture(t)
	foo, _ := f.b.NewSlot(f.foo.Int())

	if err := foo.SetName(Str("Bar")); err != nil {
		t.Fatal(err)
	}
	if n, _ := foo.Name(); n != Str("Bar") {
		t.Errorf("Name() = %v", n)
	}
	var exc *Exception
	if err := foo.SetName(numeric.Small(3)); !errors.As(err, &exc) || exc.Type != TypeError {
		t.Errorf("SetName(3) = %v", err)
	}

	f.w.SetSlotTag(f.foo, "thing")
	root := mustSlotValue(t, f.b.RootSlot(), nil)
	tv, err := root.FindChildByTag(Str("thing"), numeric.Small(0))
	got := mustSlotValue(t, tv, err)
	if got.ID() != f.foo {
		t.Errorf("FindChildByTag = %v", got)
	}
	obj, err := foo.ObjectRoot(false)
	if err != nil || obj.(*Slot).ID() != f.foo {
		t.Errorf("ObjectRoot(false) = %v, %v", obj, err)
	}
}

func TestBindings_ArgumentExceptions(t *testing.T) {
	f := newFixture(t)
	root := mustSlotValue(t, f.b.RootSlot(), nil)
	c, _ := f.b.NewComponent(f.comp.Int())

	tests := []struct {
		name string
		call func() (Value, error)
		want ExceptionType
	}{
		{"find name not str", func() (Value, error) { return root.FindChildByName(numeric.Small(1), false, false, None{}) }, TypeError},
		{"find depth not int", func() (Value, error) { return root.FindChildByName(Str("Foo"), false, false, Str("x")) }, TypeError},
		{"find depth overflow", func() (Value, error) {
			return root.FindChildByTag(Str("t"), numeric.FromInt64(1<<40))
		}, OverflowError},
		{"component name not str", func() (Value, error) { return root.Component(Bool(true)) }, TypeError},
		{"get field not str", func() (Value, error) { return c.Get(numeric.Small(0)) }, TypeError},
		{"child index not int", func() (Value, error) { return root.Child(Str("0")) }, TypeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.call()
			if v != nil {
				t.Errorf("value = %v, want nil", v)
			}
			var exc *Exception
			if !errors.As(err, &exc) || exc.Type != tt.want {
				t.Fatalf("err = %v, want %s", err, tt.want)
			}
		})
	}

	found, err := root.FindChildByName(Str("foo"), false, true, None{})
	if s := mustSlotValue(t, found, err); s.ID() != f.foo {
		t.Errorf("find after failures = %v", s)
	}
}
