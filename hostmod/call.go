package hostmod

import (
	"context"
	"encoding/binary"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/slotbridge/handle"
)

// call carries the per-invocation state of a host function.
type call struct {
	ctx   context.Context
	mod   api.Module
	host  *HostModule
	mem   *Memory
	alloc *Allocator
	op    string
}

func (c *call) memory() *Memory {
	if c.mem == nil {
		c.mem = NewMemory(c.mod.Memory())
	}
	return c.mem
}

func (c *call) allocator() *Allocator {
	if c.alloc == nil {
		c.alloc = NewAllocator(c.mod)
		c.alloc.SetContext(c.ctx)
	}
	return c.alloc
}

// readString reads a guest string argument. ok is false for a NULL pointer.
// A pointer outside guest memory traps the caller.
func (c *call) readString(ptr uint32) (s string, ok bool) {
	if ptr == 0 {
		return "", false
	}
	s, err := c.memory().ReadCString(ptr, c.host.maxStringLen)
	if err != nil {
		panic(err)
	}
	return s, true
}

// readBytes reads length bytes at a caller-supplied pointer, trapping on
// out-of-bounds access.
func (c *call) readBytes(ptr, length uint32) []byte {
	data, err := c.memory().Read(ptr, length)
	if err != nil {
		panic(err)
	}
	return data
}

// writeOutLen stores n at a caller-supplied out pointer, if any.
func (c *call) writeOutLen(ptr uint32, n uint32) {
	if ptr == 0 {
		return
	}
	if err := c.memory().WriteU32(ptr, n); err != nil {
		panic(err)
	}
}

// put copies data into freshly allocated guest memory and returns the
// pointer, or 0 after logging the failure.
func (c *call) put(data []byte, align uint32) uint32 {
	ptr, err := c.allocator().Alloc(uint32(len(data)), align)
	if err != nil {
		c.host.log.Warn("guest allocation failed",
			zap.String("op", c.op),
			zap.Int("size", len(data)),
			zap.Error(err))
		return 0
	}
	if err := c.memory().Write(ptr, data); err != nil {
		c.host.log.Warn("guest write failed",
			zap.String("op", c.op),
			zap.Uint32("ptr", ptr),
			zap.Error(err))
		c.allocator().Free(ptr, uint32(len(data)), align)
		return 0
	}
	return ptr
}

// putString returns a guest copy of s with a trailing NUL.
func (c *call) putString(s string) uint32 {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return c.put(buf, 1)
}

// putHandles returns a guest array of little-endian u64 handles.
func (c *call) putHandles(hs []handle.Handle) uint32 {
	buf := make([]byte, 8*len(hs))
	for i, h := range hs {
		binary.LittleEndian.PutUint64(buf[8*i:], uint64(h))
	}
	return c.put(buf, 8)
}

func handleArg(v uint64) handle.Handle {
	return handle.Handle(v)
}

func boolArg(v uint64) bool {
	return api.DecodeU32(v) != 0
}
