// Package runtime loads core WASM guests and runs them against a scene.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx, world, runtime.WithLogger(log))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.LoadWASM(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	res, err := inst.Call(ctx, "run", uint64(rt.Surface().RootSlot()))
//
// # Imports
//
// Every runtime provides two import modules:
//
//	resonite                 slot, component and field access (see hostmod)
//	wasi_snapshot_preview1   WASI preview1, for guests built by WASI toolchains
//
// Guests are treated as reactors: _initialize runs on instantiation if
// exported, and _start is never called implicitly.
//
// # Memory
//
// Host functions return strings, envelopes and handle lists in memory the
// guest allocates through its exported malloc (or cabi_realloc) and releases
// with free. Instance.Memory and Instance.Allocator give Go callers the same
// access.
package runtime
