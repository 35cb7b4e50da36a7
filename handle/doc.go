// Package handle defines the opaque 64-bit references that cross the
// script/host boundary.
//
// A Handle is weak and non-owning. Zero is the null sentinel; every other
// value is opaque to the script side and meaningful only to the host that
// issued it. Handles are never registered or reference counted here: a handle
// whose object has gone away is reported invalid by the host when used.
//
// Wire transport is a single i64. FromHalves and Halves exist for call
// surfaces that only carry 32-bit integers.
package handle
