package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/slotbridge/boundary"
	"github.com/wippyai/slotbridge/handle"
	"github.com/wippyai/slotbridge/scene"
)

type browseFixture struct {
	m     *browseModel
	world *scene.World
	box   handle.Handle
	lid   handle.Handle
	other handle.Handle
}

// Root > Box > Lid, Root > Other
func newBrowseFixture(t *testing.T) *browseFixture {
	t.Helper()
	w := scene.New()
	box, err := w.AddSlot(w.RootSlot(), "Box")
	if err != nil {
		t.Fatal(err)
	}
	lid, err := w.AddSlot(box, "Lid")
	if err != nil {
		t.Fatal(err)
	}
	other, err := w.AddSlot(w.RootSlot(), "Other")
	if err != nil {
		t.Fatal(err)
	}
	return &browseFixture{
		m:     newBrowseModel(w, boundary.New(w), "test.toml"),
		world: w,
		box:   box,
		lid:   lid,
		other: other,
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (f *browseFixture) send(keys ...string) {
	for _, k := range keys {
		f.m.Update(key(k))
	}
}

func TestBrowse_Navigate(t *testing.T) {
	f := newBrowseFixture(t)

	if len(f.m.rows) != 3 {
		t.Fatalf("initial rows = %d, want 3 (root expanded)", len(f.m.rows))
	}
	f.send("down")
	if f.m.selected() != f.box {
		t.Fatalf("selected = %v, want Box", f.m.selected())
	}
	f.send("right")
	if len(f.m.rows) != 4 {
		t.Fatalf("rows after expand = %d, want 4", len(f.m.rows))
	}
	f.send("down")
	if f.m.selected() != f.lid {
		t.Errorf("selected = %v, want Lid", f.m.selected())
	}
	f.send("left")
	if f.m.selected() != f.box {
		t.Errorf("left from leaf selected %v, want parent Box", f.m.selected())
	}
	f.send("left")
	if len(f.m.rows) != 3 {
		t.Errorf("rows after collapse = %d, want 3", len(f.m.rows))
	}
	f.send("down", "down", "down")
	if f.m.selected() != f.other {
		t.Errorf("cursor ran past the end: %v", f.m.selected())
	}
}

func TestBrowse_Find(t *testing.T) {
	f := newBrowseFixture(t)

	f.send("/")
	if f.m.state != stateFind {
		t.Fatalf("state = %v, want find", f.m.state)
	}
	f.m.input.SetValue("LI")
	f.send("enter")
	if f.m.state != stateNavigate {
		t.Fatalf("state = %v after enter", f.m.state)
	}
	if f.m.selected() != f.lid {
		t.Errorf("selected = %v, want Lid", f.m.selected())
	}
	if !f.m.expanded[f.box] {
		t.Error("ancestor Box not expanded")
	}
	if f.m.status != "found Lid" {
		t.Errorf("status = %q", f.m.status)
	}

	f.send("/")
	f.m.input.SetValue("nothing")
	f.send("enter")
	if f.m.selected() != f.lid {
		t.Errorf("failed find moved the cursor")
	}
	if f.m.status != `no slot matches "nothing"` {
		t.Errorf("status = %q", f.m.status)
	}
}

func TestBrowse_Rename(t *testing.T) {
	f := newBrowseFixture(t)

	f.send("down", "r")
	if f.m.state != stateRename || f.m.input.Value() != "Box" {
		t.Fatalf("rename input = %v %q", f.m.state, f.m.input.Value())
	}
	f.m.input.SetValue("Crate")
	f.send("enter")
	if name, _ := f.world.SlotName(f.box); name != "Crate" {
		t.Errorf("name = %q, want Crate", name)
	}

	f.send("r")
	f.m.input.SetValue("Ignored")
	f.send("esc")
	if name, _ := f.world.SlotName(f.box); name != "Crate" {
		t.Errorf("esc applied rename: %q", name)
	}
}

func TestBrowse_StaleSelection(t *testing.T) {
	f := newBrowseFixture(t)

	f.send("down", "down")
	if err := f.world.RemoveSlot(f.other); err != nil {
		t.Fatal(err)
	}
	f.send("r")
	if f.m.err == nil {
		t.Error("renaming a removed slot did not report an error")
	}
	if f.m.state != stateNavigate {
		t.Errorf("state = %v, want navigate", f.m.state)
	}
}

func TestBrowse_ViewportFollowsCursor(t *testing.T) {
	f := newBrowseFixture(t)
	f.m.Update(tea.WindowSizeMsg{Width: 40, Height: chrome + 2})

	f.send("down", "down")
	if f.m.view.YOffset != 1 {
		t.Errorf("YOffset = %d, want 1", f.m.view.YOffset)
	}
	f.send("up", "up")
	if f.m.view.YOffset != 0 {
		t.Errorf("YOffset = %d, want 0", f.m.view.YOffset)
	}
	if f.m.View() == "" {
		t.Error("empty view")
	}
}

func TestBrowse_Quit(t *testing.T) {
	f := newBrowseFixture(t)
	_, cmd := f.m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
