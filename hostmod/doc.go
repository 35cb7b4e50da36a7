// Package hostmod exposes the boundary surface to WASM guests as the wazero
// host module "resonite".
//
// Every function is declared with WIT types and flattened to core value types:
//
//	u64  handle      -> i64 (0 is null)
//	bool, s32        -> i32
//	u32  pointer     -> i32 (NUL-terminated UTF-8 for strings)
//
// Strings, envelopes and handle lists returned to the guest are allocated with
// the guest's exported malloc and belong to the guest afterwards. Failures
// surface as a null handle, a NULL pointer, or a negative error code; the
// string for a code is available from resonite__error_string.
//
// Reads through caller-supplied pointers that fall outside guest memory are a
// guest bug and trap the calling function.
package hostmod
