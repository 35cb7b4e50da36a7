package wasmtest

import (
	"github.com/tetratelabs/wazero/api"
)

const (
	magic   = 0x6d736100
	version = 1

	sectionType     = 1
	sectionImport   = 2
	sectionFunction = 3
	sectionMemory   = 5
	sectionGlobal   = 6
	sectionExport   = 7
	sectionCode     = 10

	funcTypeByte = 0x60
	kindFunc     = 0x00
	kindMemory   = 0x02
)

// Signature is a core function type.
type Signature struct {
	Params  []api.ValueType
	Results []api.ValueType
}

// Import is a function imported by the guest.
type Import struct {
	Module string
	Name   string
	Signature
}

type function struct {
	body   []byte
	locals []api.ValueType
	typ    uint32
}

type export struct {
	name string
	kind byte
	idx  uint32
}

// Module assembles a core WASM module with one exported memory.
// Imported functions must be added before any defined function.
type Module struct {
	types     []Signature
	imports   []Import
	importTyp []uint32
	funcs     []function
	globals   []int32
	exports   []export
	pages     uint32
}

// NewModule creates a module whose memory has the given number of pages.
func NewModule(pages uint32) *Module {
	return &Module{
		pages:   pages,
		exports: []export{{name: "memory", kind: kindMemory}},
	}
}

func (m *Module) typeIndex(sig Signature) uint32 {
	for i, t := range m.types {
		if equalTypes(t.Params, sig.Params) && equalTypes(t.Results, sig.Results) {
			return uint32(i)
		}
	}
	m.types = append(m.types, sig)
	return uint32(len(m.types) - 1)
}

func equalTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Import adds a function import and returns its function index.
func (m *Module) Import(imp Import) uint32 {
	if len(m.funcs) > 0 {
		panic("wasmtest: import after defined function")
	}
	m.importTyp = append(m.importTyp, m.typeIndex(imp.Signature))
	m.imports = append(m.imports, imp)
	return uint32(len(m.imports) - 1)
}

// Func adds a function with the given body (including the trailing end)
// and returns its function index.
func (m *Module) Func(sig Signature, locals []api.ValueType, body []byte) uint32 {
	m.funcs = append(m.funcs, function{typ: m.typeIndex(sig), locals: locals, body: body})
	return uint32(len(m.imports) + len(m.funcs) - 1)
}

// Global adds a mutable i32 global and returns its index.
func (m *Module) Global(init int32) uint32 {
	m.globals = append(m.globals, init)
	return uint32(len(m.globals) - 1)
}

// Export exports a function under name.
func (m *Module) Export(name string, funcIdx uint32) {
	m.exports = append(m.exports, export{name: name, kind: kindFunc, idx: funcIdx})
}

// Bytes encodes the module in the WebAssembly binary format.
func (m *Module) Bytes() []byte {
	w := &writer{}
	w.u32le(magic)
	w.u32le(version)

	if len(m.types) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(m.types)))
		for _, t := range m.types {
			sec.byte(funcTypeByte)
			writeValTypes(sec, t.Params)
			writeValTypes(sec, t.Results)
		}
		w.section(sectionType, sec)
	}

	if len(m.imports) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(m.imports)))
		for i, imp := range m.imports {
			sec.name(imp.Module)
			sec.name(imp.Name)
			sec.byte(kindFunc)
			sec.u32(m.importTyp[i])
		}
		w.section(sectionImport, sec)
	}

	if len(m.funcs) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(m.funcs)))
		for _, f := range m.funcs {
			sec.u32(f.typ)
		}
		w.section(sectionFunction, sec)
	}

	mem := &writer{}
	mem.u32(1)
	mem.byte(0x00)
	mem.u32(m.pages)
	w.section(sectionMemory, mem)

	if len(m.globals) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(m.globals)))
		for _, g := range m.globals {
			sec.byte(api.ValueTypeI32)
			sec.byte(0x01)
			sec.byte(opI32Const)
			sec.s64(int64(g))
			sec.byte(opEnd)
		}
		w.section(sectionGlobal, sec)
	}

	sec := &writer{}
	sec.u32(uint32(len(m.exports)))
	for _, e := range m.exports {
		sec.name(e.name)
		sec.byte(e.kind)
		sec.u32(e.idx)
	}
	w.section(sectionExport, sec)

	if len(m.funcs) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(m.funcs)))
		for _, f := range m.funcs {
			body := &writer{}
			body.u32(uint32(len(f.locals)))
			for _, l := range f.locals {
				body.u32(1)
				body.byte(l)
			}
			body.write(f.body)
			sec.u32(uint32(body.buf.Len()))
			sec.write(body.bytes())
		}
		w.section(sectionCode, sec)
	}

	return w.bytes()
}

func writeValTypes(w *writer, types []api.ValueType) {
	w.u32(uint32(len(types)))
	for _, t := range types {
		w.byte(t)
	}
}
