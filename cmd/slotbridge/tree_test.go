package main

import (
	"strings"
	"testing"

	"github.com/wippyai/slotbridge/envelope"
	"github.com/wippyai/slotbridge/scene"
)

func TestTreeRenderer_Plain(t *testing.T) {
	w := scene.New()
	root := w.RootSlot()
	box, err := w.AddSlot(root, "Box")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.SetSlotTag(box, "prop"); err != nil {
		t.Fatal(err)
	}
	if err := w.SetObjectRoot(box, true); err != nil {
		t.Fatal(err)
	}
	comp, err := w.AddComponent(box, "ValueField<bool>")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.AddField(comp, "Value", envelope.Bool(true)); err != nil {
		t.Fatal(err)
	}
	lid, err := w.AddSlot(box, "Lid")
	if err != nil {
		t.Fatal(err)
	}
	avatar, err := w.AddSlot(root, "Avatar")
	if err != nil {
		t.Fatal(err)
	}
	alice, err := w.AddUser("alice")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.AttachUserRoot(avatar, alice); err != nil {
		t.Fatal(err)
	}

	r := treeRenderer{world: w, depth: -1, fields: true}
	want := strings.Join([]string{
		"Root " + root.String(),
		"├── Box " + box.String() + " [prop] *root",
		"│   ├── ◆ ValueField<bool> " + comp.String() + " {Value=bool[true]}",
		"│   └── Lid " + lid.String(),
		"└── Avatar " + avatar.String() + " @alice",
		"",
	}, "\n")
	if got := r.render(root); got != want {
		t.Errorf("render:\n%s\nwant:\n%s", got, want)
	}

	r = treeRenderer{world: w, depth: 0, fields: false}
	want = strings.Join([]string{
		"Root " + root.String(),
		"└── … 2 more",
		"",
	}, "\n")
	if got := r.render(root); got != want {
		t.Errorf("depth 0:\n%s\nwant:\n%s", got, want)
	}

	r = treeRenderer{world: w, depth: 1, fields: false}
	got := r.render(root)
	if !strings.Contains(got, "│   ├── ◆ ValueField<bool> "+comp.String()+"\n") {
		t.Errorf("depth 1 missing component line:\n%s", got)
	}
	if !strings.Contains(got, "│   └── … 1 more\n") {
		t.Errorf("depth 1 not truncated:\n%s", got)
	}
}

func TestTreeRenderer_InvalidHandle(t *testing.T) {
	w := scene.New()
	box, err := w.AddSlot(w.RootSlot(), "Box")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.RemoveSlot(box); err != nil {
		t.Fatal(err)
	}
	r := treeRenderer{world: w, depth: -1}
	if got := r.render(box); !strings.HasPrefix(got, "<invalid ") {
		t.Errorf("render stale = %q", got)
	}
}
