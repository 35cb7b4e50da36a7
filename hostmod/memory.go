package hostmod

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/slotbridge"
	"github.com/wippyai/slotbridge/errors"
)

// Guest exports used for allocation, tried in order.
const (
	MallocExport = "malloc"
	FreeExport   = "free"
	CabiRealloc  = "cabi_realloc"
)

// Memory wraps wazero memory to implement slotbridge.Memory
type Memory struct {
	mem api.Memory
}

// NewMemory wraps mem. A nil mem yields a memory on which every access fails.
func NewMemory(mem api.Memory) *Memory {
	return &Memory{mem: mem}
}

func outOfBounds(offset uint32, length uint64) error {
	return errors.New(errors.PhaseBoundary, errors.KindOutOfBounds).
		Detail("offset=%d, length=%d", offset, length).
		Build()
}

func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	if m.mem == nil {
		return nil, outOfBounds(offset, uint64(length))
	}
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, outOfBounds(offset, uint64(length))
	}
	return data, nil
}

func (m *Memory) Write(offset uint32, data []byte) error {
	if m.mem == nil || !m.mem.Write(offset, data) {
		return outOfBounds(offset, uint64(len(data)))
	}
	return nil
}

func (m *Memory) ReadU32(offset uint32) (uint32, error) {
	if m.mem == nil {
		return 0, outOfBounds(offset, 4)
	}
	val, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, outOfBounds(offset, 4)
	}
	return val, nil
}

func (m *Memory) ReadU64(offset uint32) (uint64, error) {
	if m.mem == nil {
		return 0, outOfBounds(offset, 8)
	}
	val, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, outOfBounds(offset, 8)
	}
	return val, nil
}

func (m *Memory) WriteU32(offset uint32, value uint32) error {
	if m.mem == nil || !m.mem.WriteUint32Le(offset, value) {
		return outOfBounds(offset, 4)
	}
	return nil
}

func (m *Memory) WriteU64(offset uint32, value uint64) error {
	if m.mem == nil || !m.mem.WriteUint64Le(offset, value) {
		return outOfBounds(offset, 8)
	}
	return nil
}

// ReadCString copies the NUL-terminated string at offset.
func (m *Memory) ReadCString(offset uint32, limit uint32) (string, error) {
	size := uint64(m.Size())
	if uint64(offset) >= size {
		return "", outOfBounds(offset, 1)
	}
	n := min(uint64(limit), size-uint64(offset))
	data, err := m.Read(offset, uint32(n))
	if err != nil {
		return "", err
	}
	end := bytes.IndexByte(data, 0)
	if end < 0 {
		return "", errors.InvalidData(errors.PhaseBoundary,
			fmt.Sprintf("string at %d not terminated within %d bytes", offset, n))
	}
	return string(data[:end]), nil
}

func (m *Memory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// Allocator implements slotbridge.Allocator by calling the guest's exported
// malloc and free, or cabi_realloc when malloc is absent.
type Allocator struct {
	allocFn    api.Function
	freeFn     api.Function
	currentCtx context.Context
	stackBuf   []uint64
	stackMutex sync.Mutex
	realloc    bool
}

// NewAllocator looks up the allocation exports of mod.
func NewAllocator(mod api.Module) *Allocator {
	a := &Allocator{stackBuf: make([]uint64, 4)}
	if fn := mod.ExportedFunction(MallocExport); fn != nil {
		a.allocFn = fn
		a.freeFn = mod.ExportedFunction(FreeExport)
	} else if fn := mod.ExportedFunction(CabiRealloc); fn != nil {
		a.allocFn = fn
		a.realloc = true
	}
	return a
}

// SetContext sets the context used for guest calls.
func (a *Allocator) SetContext(ctx context.Context) {
	a.stackMutex.Lock()
	defer a.stackMutex.Unlock()
	a.currentCtx = ctx
}

func (a *Allocator) ctx() context.Context {
	if a.currentCtx == nil {
		return context.Background()
	}
	return a.currentCtx
}

func (a *Allocator) Alloc(size, align uint32) (uint32, error) {
	if a.allocFn == nil {
		return 0, errors.New(errors.PhaseBoundary, errors.KindAllocation).
			Detail("guest exports neither %s nor %s", MallocExport, CabiRealloc).
			Build()
	}

	a.stackMutex.Lock()
	defer a.stackMutex.Unlock()

	var stack []uint64
	if a.realloc {
		stack = a.stackBuf[:4]
		stack[0], stack[1], stack[2], stack[3] = 0, 0, uint64(align), uint64(size)
	} else {
		stack = a.stackBuf[:1]
		stack[0] = uint64(size)
	}
	if err := a.allocFn.CallWithStack(a.ctx(), stack); err != nil {
		return 0, errors.Wrap(errors.PhaseBoundary, errors.KindAllocation, err, "guest allocator trapped")
	}
	ptr := uint32(stack[0])
	if ptr == 0 && size > 0 {
		return 0, errors.AllocationFailed(errors.PhaseBoundary, size, align)
	}
	return ptr, nil
}

func (a *Allocator) Free(ptr, size, align uint32) {
	if ptr == 0 {
		return
	}

	a.stackMutex.Lock()
	defer a.stackMutex.Unlock()

	var (
		fn    api.Function
		stack []uint64
	)
	switch {
	case a.realloc:
		fn = a.allocFn
		stack = a.stackBuf[:4]
		stack[0], stack[1], stack[2], stack[3] = uint64(ptr), uint64(size), uint64(align), 0
	case a.freeFn != nil:
		fn = a.freeFn
		stack = a.stackBuf[:1]
		stack[0] = uint64(ptr)
	default:
		return
	}
	if err := fn.CallWithStack(a.ctx(), stack); err != nil {
		Logger().Warn("Free: guest deallocation failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

// Compile-time check that Memory implements slotbridge.Memory and MemorySizer
var _ slotbridge.Memory = (*Memory)(nil)
var _ slotbridge.MemorySizer = (*Memory)(nil)

// Compile-time check that Allocator implements slotbridge.Allocator
var _ slotbridge.Allocator = (*Allocator)(nil)
