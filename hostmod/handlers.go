package hostmod

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/slotbridge/envelope"
	"github.com/wippyai/slotbridge/errors"
	"github.com/wippyai/slotbridge/handle"
)

var handlers = map[string]handlerFunc{
	"slot__root_slot":            rootSlot,
	"slot__get_parent":           slotGetParent,
	"slot__get_active_user":      slotGetActiveUser,
	"slot__get_active_user_root": slotGetActiveUserRoot,
	"slot__get_object_root":      slotGetObjectRoot,
	"slot__get_name":             slotGetName,
	"slot__set_name":             slotSetName,
	"slot__get_num_children":     slotGetNumChildren,
	"slot__get_child":            slotGetChild,
	"slot__find_child_by_name":   slotFindChildByName,
	"slot__find_child_by_tag":    slotFindChildByTag,
	"slot__get_component":        slotGetComponent,
	"slot__get_children":         slotGetChildren,
	"slot__get_components":       slotGetComponents,
	"component__get_type_name":   componentGetTypeName,
	"component__get_field_value": componentGetFieldValue,
	"component__set_field_value": componentSetFieldValue,
	"resonite__error_string":     errorString,
}

// Failures are already logged by the surface; handle results carry only the
// handle, with null standing for every failure.

func rootSlot(c *call, stack []uint64) {
	stack[0] = uint64(c.host.surface.RootSlot())
}

func slotGetParent(c *call, stack []uint64) {
	h, _ := c.host.surface.SlotGetParent(handleArg(stack[0]))
	stack[0] = uint64(h)
}

func slotGetActiveUser(c *call, stack []uint64) {
	h, _ := c.host.surface.SlotGetActiveUser(handleArg(stack[0]))
	stack[0] = uint64(h)
}

func slotGetActiveUserRoot(c *call, stack []uint64) {
	h, _ := c.host.surface.SlotGetActiveUserRoot(handleArg(stack[0]))
	stack[0] = uint64(h)
}

func slotGetObjectRoot(c *call, stack []uint64) {
	h, _ := c.host.surface.SlotGetObjectRoot(handleArg(stack[0]), boolArg(stack[1]))
	stack[0] = uint64(h)
}

func slotGetName(c *call, stack []uint64) {
	name, err := c.host.surface.SlotGetName(handleArg(stack[0]))
	if err != nil {
		stack[0] = 0
		return
	}
	stack[0] = api.EncodeU32(c.putString(name))
}

func slotSetName(c *call, stack []uint64) {
	name, ok := c.readString(api.DecodeU32(stack[1]))
	if !ok {
		stack[0] = api.EncodeI32(int32(errors.CodeNullArgument))
		return
	}
	err := c.host.surface.SlotSetName(handleArg(stack[0]), name)
	stack[0] = api.EncodeI32(int32(errors.CodeOf(err)))
}

// slotGetNumChildren returns the count, or a negative error code.
func slotGetNumChildren(c *call, stack []uint64) {
	n, err := c.host.surface.SlotGetNumChildren(handleArg(stack[0]))
	if err != nil {
		stack[0] = api.EncodeI32(int32(errors.CodeOf(err)))
		return
	}
	stack[0] = api.EncodeI32(n)
}

func slotGetChild(c *call, stack []uint64) {
	h, _ := c.host.surface.SlotGetChild(handleArg(stack[0]), api.DecodeI32(stack[1]))
	stack[0] = uint64(h)
}

func slotFindChildByName(c *call, stack []uint64) {
	name, ok := c.readString(api.DecodeU32(stack[1]))
	if !ok {
		stack[0] = uint64(handle.Null)
		return
	}
	h, _ := c.host.surface.SlotFindChildByName(handleArg(stack[0]), name,
		boolArg(stack[2]), boolArg(stack[3]), api.DecodeI32(stack[4]))
	stack[0] = uint64(h)
}

func slotFindChildByTag(c *call, stack []uint64) {
	tag, ok := c.readString(api.DecodeU32(stack[1]))
	if !ok {
		stack[0] = uint64(handle.Null)
		return
	}
	h, _ := c.host.surface.SlotFindChildByTag(handleArg(stack[0]), tag, api.DecodeI32(stack[2]))
	stack[0] = uint64(h)
}

func slotGetComponent(c *call, stack []uint64) {
	typeName, ok := c.readString(api.DecodeU32(stack[1]))
	if !ok {
		stack[0] = uint64(handle.Null)
		return
	}
	h, _ := c.host.surface.SlotGetComponent(handleArg(stack[0]), typeName)
	stack[0] = uint64(h)
}

func slotGetChildren(c *call, stack []uint64) {
	hs, _ := c.host.surface.SlotGetChildren(handleArg(stack[0]))
	stack[0] = api.EncodeU32(c.putHandleList(hs, api.DecodeU32(stack[1])))
}

func slotGetComponents(c *call, stack []uint64) {
	hs, _ := c.host.surface.SlotGetComponents(handleArg(stack[0]))
	stack[0] = api.EncodeU32(c.putHandleList(hs, api.DecodeU32(stack[1])))
}

// putHandleList writes hs to the guest and its length to outLen. An empty
// list is returned as NULL with length 0.
func (c *call) putHandleList(hs []handle.Handle, outLen uint32) uint32 {
	if len(hs) == 0 {
		c.writeOutLen(outLen, 0)
		return 0
	}
	ptr := c.putHandles(hs)
	if ptr == 0 {
		c.writeOutLen(outLen, 0)
		return 0
	}
	c.writeOutLen(outLen, uint32(len(hs)))
	return ptr
}

func componentGetTypeName(c *call, stack []uint64) {
	name, err := c.host.surface.ComponentGetTypeName(handleArg(stack[0]))
	if err != nil {
		stack[0] = 0
		return
	}
	stack[0] = api.EncodeU32(c.putString(name))
}

func componentGetFieldValue(c *call, stack []uint64) {
	outLen := api.DecodeU32(stack[2])
	name, ok := c.readString(api.DecodeU32(stack[1]))
	if !ok {
		c.writeOutLen(outLen, 0)
		stack[0] = 0
		return
	}
	buf, err := c.host.surface.ComponentGetFieldValue(handleArg(stack[0]), name)
	if err != nil || buf == nil {
		c.writeOutLen(outLen, 0)
		stack[0] = 0
		return
	}
	defer buf.Release()

	ptr := c.put(buf.Bytes(), 4)
	if ptr == 0 {
		c.writeOutLen(outLen, 0)
		stack[0] = 0
		return
	}
	c.writeOutLen(outLen, uint32(buf.Len()))
	stack[0] = api.EncodeU32(ptr)
}

// componentSetFieldValue reads the envelope header, then as many payload
// bytes as the tag calls for. An unrecognised tag is passed on as a bare
// header and rejected by the surface.
func componentSetFieldValue(c *call, stack []uint64) {
	failed := api.EncodeI32(-1)
	name, ok := c.readString(api.DecodeU32(stack[1]))
	if !ok {
		stack[0] = failed
		return
	}
	ptr := api.DecodeU32(stack[2])
	if ptr == 0 {
		stack[0] = failed
		return
	}
	header, err := c.memory().ReadU32(ptr)
	if err != nil {
		panic(err)
	}
	size, ok := envelope.Size(envelope.Tag(header))
	if !ok {
		size = 4
	}
	env := c.readBytes(ptr, uint32(size))
	status := c.host.surface.ComponentSetFieldValue(handleArg(stack[0]), name, env)
	stack[0] = api.EncodeI32(int32(status))
}

func errorString(c *call, stack []uint64) {
	code := errors.Code(api.DecodeI32(stack[0]))
	stack[0] = api.EncodeU32(c.putString(code.String()))
}
