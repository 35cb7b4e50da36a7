package envelope

import "sync"

var bufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, MaxSize)
		return &buf
	},
}

// Buffer is an encoded envelope owned by whoever received it.
// Release returns the storage; any use afterwards panics.
type Buffer struct {
	buf *[]byte
}

func newBuffer(size int) *Buffer {
	buf := bufPool.Get().(*[]byte)
	if cap(*buf) < size {
		*buf = make([]byte, size)
	}
	*buf = (*buf)[:size]
	return &Buffer{buf: buf}
}

// Bytes returns the encoded envelope. The slice is only valid until Release.
func (b *Buffer) Bytes() []byte {
	if b.buf == nil {
		panic("envelope: use of released buffer")
	}
	return *b.buf
}

// Len returns the envelope length in bytes.
func (b *Buffer) Len() int {
	return len(b.Bytes())
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	return b.buf == nil
}

// Release gives the storage back. Must be called exactly once.
func (b *Buffer) Release() {
	if b.buf == nil {
		panic("envelope: buffer released twice")
	}
	buf := b.buf
	b.buf = nil
	clear(*buf)
	*buf = (*buf)[:0]
	bufPool.Put(buf)
}
