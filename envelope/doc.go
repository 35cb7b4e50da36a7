// Package envelope implements the tagged binary form used to move typed field
// values between a script and the host.
//
// An envelope is a 4-byte little-endian tag followed by zero or more 4-byte
// little-endian payload fields. The payload size is implied by the tag:
//
//	tag    payload
//	Bool   i32 (0 false, non-zero true)
//	Int2   i32 i32
//	Float4 f32 f32 f32 f32
//	Color  f32 f32 f32 f32 (r g b a)
//
// Only tags whose payload is made of 4-byte fields are decodable. Every other
// tag in the enumeration is reserved: Decode returns Unknown for it instead of
// an error, so a script reading a field of an unsupported type sees "no value".
//
// Buffers returned by Encode are owned by the caller and must be released
// exactly once with Release.
package envelope
