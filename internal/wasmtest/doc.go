// Package wasmtest assembles small core WASM modules for tests.
package wasmtest
