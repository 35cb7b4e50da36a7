// Package scene is an in-memory scene graph implementing host.World.
//
// It stands in for a real engine in tests and in the slotbridge CLI. Every
// slot, user, user root and component is registered in a refs.Table, so
// handles to removed objects go stale and are reported as invalid instead of
// resolving to something else.
//
// A world is built programmatically:
//
//	w := scene.New()
//	box, _ := w.AddSlot(w.RootSlot(), "Box")
//	c, _ := w.AddComponent(box, "FrooxEngine.ValueField<bool>")
//	w.AddField(c, "Value", envelope.Bool(false))
//
// or loaded from TOML with Load.
package scene
