package runtime

import (
	"context"
	"slices"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/slotbridge/errors"
	"github.com/wippyai/slotbridge/hostmod"
)

type Module struct {
	runtime  *Runtime
	compiled wazero.CompiledModule
}

// Import is a function the module imports.
type Import struct {
	Module string
	Name   string
}

// Imports lists the module's function imports in declaration order.
func (m *Module) Imports() []Import {
	defs := m.compiled.ImportedFunctions()
	out := make([]Import, 0, len(defs))
	for _, def := range defs {
		mod, name, _ := def.Import()
		out = append(out, Import{Module: mod, Name: name})
	}
	return out
}

// HostImports returns the names the module imports from the resonite module.
func (m *Module) HostImports() []string {
	var out []string
	for _, imp := range m.Imports() {
		if imp.Module == hostmod.ModuleName {
			out = append(out, imp.Name)
		}
	}
	return out
}

// Exports returns the sorted names of exported functions.
func (m *Module) Exports() []string {
	defs := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Instantiate creates an instance. Reactor-style guests get their
// _initialize export run; _start is never called implicitly.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions("_initialize")
	if m.runtime.opts.Stdout != nil {
		cfg = cfg.WithStdout(m.runtime.opts.Stdout)
	}
	if m.runtime.opts.Stderr != nil {
		cfg = cfg.WithStderr(m.runtime.opts.Stderr)
	}

	mod, err := m.runtime.wazero.InstantiateModule(ctx, m.compiled, cfg)
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	return &Instance{module: m, mod: mod}, nil
}

// Close releases the compiled module.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}
