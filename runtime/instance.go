package runtime

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/slotbridge"
	"github.com/wippyai/slotbridge/errors"
	"github.com/wippyai/slotbridge/hostmod"
)

type Instance struct {
	module *Module
	mod    api.Module
}

// Call invokes an exported function with raw core-typed arguments, as
// wazero encodes them (api.EncodeI32 and friends). Results are raw words
// too: an i32 result leaves the upper 32 bits undefined, so decode it with
// api.DecodeI32 or api.DecodeU32 using the types from
// GetExportedFunction(name).Definition().ResultTypes().
func (i *Instance) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "function", name)
	}
	if want := len(fn.Definition().ParamTypes()); want != len(args) {
		return nil, errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
			Op(name).
			Detail("got %d arguments, want %d", len(args), want).
			Build()
	}
	res, err := fn.Call(ctx, args...)
	if err != nil {
		return nil, errors.Trap(name, err)
	}
	return res, nil
}

// Memory returns the instance's linear memory.
func (i *Instance) Memory() slotbridge.Memory {
	return hostmod.NewMemory(i.mod.Memory())
}

// Allocator returns an allocator over the guest's malloc and free.
func (i *Instance) Allocator(ctx context.Context) slotbridge.Allocator {
	a := hostmod.NewAllocator(i.mod)
	a.SetContext(ctx)
	return a
}

// GetExportedFunction returns the raw wazero api.Function, or nil if not found.
func (i *Instance) GetExportedFunction(name string) api.Function {
	return i.mod.ExportedFunction(name)
}

func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}
