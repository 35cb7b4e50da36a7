package wasmtest

import "github.com/tetratelabs/wazero/api"

const (
	opEnd       = 0x0b
	opCall      = 0x10
	opDrop      = 0x1a
	opLocalGet  = 0x20
	opGlobalGet = 0x23
	opGlobalSet = 0x24
	opI32Const  = 0x41
	opI64Const  = 0x42
	opI32Add    = 0x6a
	opI32And    = 0x71
)

// Code builds a function body.
type Code struct {
	w writer
}

func (c *Code) LocalGet(idx uint32) *Code {
	c.w.byte(opLocalGet)
	c.w.u32(idx)
	return c
}

func (c *Code) GlobalGet(idx uint32) *Code {
	c.w.byte(opGlobalGet)
	c.w.u32(idx)
	return c
}

func (c *Code) GlobalSet(idx uint32) *Code {
	c.w.byte(opGlobalSet)
	c.w.u32(idx)
	return c
}

func (c *Code) Call(funcIdx uint32) *Code {
	c.w.byte(opCall)
	c.w.u32(funcIdx)
	return c
}

func (c *Code) I32Const(v int32) *Code {
	c.w.byte(opI32Const)
	c.w.s64(int64(v))
	return c
}

func (c *Code) I64Const(v int64) *Code {
	c.w.byte(opI64Const)
	c.w.s64(v)
	return c
}

func (c *Code) I32Add() *Code {
	c.w.byte(opI32Add)
	return c
}

func (c *Code) I32And() *Code {
	c.w.byte(opI32And)
	return c
}

func (c *Code) Drop() *Code {
	c.w.byte(opDrop)
	return c
}

// End terminates the body and returns its bytes.
func (c *Code) End() []byte {
	c.w.byte(opEnd)
	return c.w.bytes()
}

// HeapBase is where the bump allocator of a Guest starts handing out memory.
// Bytes below it are free for tests to use as scratch space.
const HeapBase = 4096

var (
	mallocSig = Signature{Params: []api.ValueType{api.ValueTypeI32}, Results: []api.ValueType{api.ValueTypeI32}}
	freeSig   = Signature{Params: []api.ValueType{api.ValueTypeI32}}
)

// Guest builds a module that exports malloc, free, memory and, for every
// import, a function of the same name forwarding its arguments to the import.
// malloc is a bump allocator aligned to 8 bytes; free does nothing.
func Guest(imports ...Import) []byte {
	m := NewModule(1)
	for _, imp := range imports {
		m.Import(imp)
	}
	heap := m.Global(HeapBase)

	malloc := (&Code{}).
		GlobalGet(heap).
		GlobalGet(heap).
		LocalGet(0).I32Const(7).I32Add().I32Const(-8).I32And().
		I32Add().
		GlobalSet(heap).
		End()
	m.Export("malloc", m.Func(mallocSig, nil, malloc))
	m.Export("free", m.Func(freeSig, nil, (&Code{}).End()))

	for i, imp := range imports {
		c := &Code{}
		for p := range imp.Params {
			c.LocalGet(uint32(p))
		}
		c.Call(uint32(i))
		m.Export(imp.Name, m.Func(imp.Signature, nil, c.End()))
	}
	return m.Bytes()
}
