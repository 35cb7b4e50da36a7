package slotbridge

// Memory represents guest linear memory as seen by the host module
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
	// ReadCString reads a NUL-terminated string starting at offset.
	// At most limit bytes are scanned; a missing terminator is an error.
	ReadCString(offset uint32, limit uint32) (string, error)
}

// MemorySizer provides the current size of guest linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Allocator allocates memory in guest linear memory.
// Memory handed to the guest this way is owned by the guest afterwards.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}
