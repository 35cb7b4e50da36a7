// Package slotbridge connects an embedded WASM scripting runtime to a host
// scene graph made of slots, components and fields.
//
// Guest code never holds host objects directly. It holds 64-bit reference
// handles and exchanges field values as compact, self-describing byte
// envelopes. This module provides the pieces on both sides of that boundary.
//
// # Architecture Overview
//
//	slotbridge/          Root package with guest Memory and Allocator interfaces
//	├── numeric/         Script integers and the checked fixed-width gate
//	├── handle/          Reference handles and their typed wrappers
//	├── envelope/        Value envelope codec (tag header plus payload)
//	├── host/            The host capability interface the boundary calls
//	├── boundary/        Handle-level surface with null short-circuit and error codes
//	├── script/          Script-facing value model and bindings
//	├── hostmod/         wazero host module "resonite" over guest linear memory
//	├── runtime/         Load guest modules and call their exports
//	├── scene/           Reference in-memory scene graph and TOML loader
//	├── scene/refs/      Generational handle table backing the scene
//	└── errors/          Structured error types and host error codes
//
// # Quick Start
//
// Load a scene and run a guest against it:
//
//	world, err := scene.LoadFile("world.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rt, err := runtime.New(ctx, world)
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
//	results, err := inst.Call(ctx, "main")
//
// # Handles
//
// A handle is an opaque uint64; zero is the null reference. Handles cross the
// WASM boundary as a single i64. Dropped handles never resolve again, so a
// guest holding a stale handle gets null rather than a different object.
//
// # Envelopes
//
// Field values are encoded as a 4-byte little-endian type tag followed by one
// to four 4-byte elements. See the envelope package for the tag table.
package slotbridge
