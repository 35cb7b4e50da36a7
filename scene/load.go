package scene

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/wippyai/slotbridge/envelope"
	"github.com/wippyai/slotbridge/errors"
	"github.com/wippyai/slotbridge/handle"
)

// Document is the TOML form of a scene.
//
//	root_name = "Root"
//	types = ["FrooxEngine.Grabbable"]
//
//	[[slot]]
//	name = "Box"
//	tag = "prop"
//	object_root = true
//
//	  [[slot.component]]
//	  type = "FrooxEngine.ValueField<bool>"
//
//	    [[slot.component.field]]
//	    name = "Value"
//	    type = "bool"
//	    value = false
//
//	  [[slot.slot]]
//	  name = "Lid"
type Document struct {
	RootName string     `toml:"root_name"`
	Types    []string   `toml:"types"`
	Slots    []SlotSpec `toml:"slot"`
}

// SlotSpec describes a slot and its subtree.
type SlotSpec struct {
	Name       string          `toml:"name"`
	Tag        string          `toml:"tag"`
	User       string          `toml:"user"`
	Components []ComponentSpec `toml:"component"`
	Children   []SlotSpec      `toml:"slot"`
	ObjectRoot bool            `toml:"object_root"`
}

// ComponentSpec describes a component and its fields.
type ComponentSpec struct {
	Type   string      `toml:"type"`
	Fields []FieldSpec `toml:"field"`
}

// FieldSpec describes a typed field. Value is a scalar for one-element types
// and an array otherwise.
type FieldSpec struct {
	Value any    `toml:"value"`
	Name  string `toml:"name"`
	Type  string `toml:"type"`
}

// LoadFile reads a TOML scene from path.
func LoadFile(path string) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseScene, errors.KindNotFound, err, "open scene "+path)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a TOML scene. Unknown keys are rejected.
func Load(r io.Reader) (*World, error) {
	var doc Document
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.PhaseScene, errors.KindInvalidData, err, "parse scene")
	}
	return Build(&doc)
}

// Build creates a world from a parsed document.
func Build(doc *Document) (*World, error) {
	w := New()
	if doc.RootName != "" {
		w.root.name = doc.RootName
	}
	for _, t := range doc.Types {
		w.RegisterType(t)
	}
	users := make(map[string]handle.Handle)
	for i := range doc.Slots {
		if err := w.build(w.RootSlot(), &doc.Slots[i], users, doc.Slots[i].Name); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *World) build(parent handle.Handle, spec *SlotSpec, users map[string]handle.Handle, path string) error {
	h, err := w.AddSlot(parent, spec.Name)
	if err != nil {
		return err
	}
	if spec.Tag != "" {
		if err := w.SetSlotTag(h, spec.Tag); err != nil {
			return err
		}
	}
	if spec.ObjectRoot {
		if err := w.SetObjectRoot(h, true); err != nil {
			return err
		}
	}
	if spec.User != "" {
		u, ok := users[spec.User]
		if !ok {
			if u, err = w.AddUser(spec.User); err != nil {
				return err
			}
			users[spec.User] = u
		}
		if _, err := w.AttachUserRoot(h, u); err != nil {
			return err
		}
	}
	for _, cs := range spec.Components {
		c, err := w.AddComponent(h, cs.Type)
		if err != nil {
			return errors.Wrap(errors.PhaseScene, errors.KindInvalidData, err, "slot "+path)
		}
		for _, fs := range cs.Fields {
			v, err := fieldValue(fs)
			if err != nil {
				return errors.Wrap(errors.PhaseScene, errors.KindInvalidData, err,
					fmt.Sprintf("slot %s component %s field %s", path, cs.Type, fs.Name))
			}
			if err := w.AddField(c, fs.Name, v); err != nil {
				return err
			}
		}
	}
	for i := range spec.Children {
		child := &spec.Children[i]
		if err := w.build(h, child, users, path+"/"+child.Name); err != nil {
			return err
		}
	}
	return nil
}

func fieldValue(fs FieldSpec) (envelope.Value, error) {
	tag, ok := envelope.ParseTag(fs.Type)
	if !ok {
		return nil, errors.NotFound(errors.PhaseScene, "field type", fs.Type)
	}
	if fs.Value == nil {
		if !tag.Decodable() {
			return nil, errors.Unsupported(errors.PhaseScene, "field type "+fs.Type)
		}
		return envelope.Zero(tag), nil
	}
	var elems []any
	if arr, ok := fs.Value.([]any); ok {
		elems = arr
	} else {
		elems = []any{fs.Value}
	}
	return envelope.FromElems(tag, elems)
}
