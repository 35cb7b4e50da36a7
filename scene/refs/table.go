package refs

import (
	"errors"
	"sync"

	"github.com/wippyai/slotbridge/handle"
)

var ErrClosed = errors.New("reference table closed")

// EventType identifies a table lifecycle event.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (e EventType) String() string {
	if e == EventCreated {
		return "created"
	}
	return "dropped"
}

// Event is a table lifecycle notification.
type Event struct {
	Value any
	ID    handle.Handle
	Kind  handle.Kind
	Type  EventType
}

// Observer receives table lifecycle events.
type Observer interface {
	OnRefEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnRefEvent(e Event) { f(e) }

const (
	indexBits = 32
	indexMask = 1<<indexBits - 1
)

type entry struct {
	value any
	gen   uint32
	kind  handle.Kind
	valid bool
}

// Table maps generation-checked IDs to values.
type Table struct {
	entries   []entry
	freeList  []uint32
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

func makeID(index, gen uint32) handle.Handle {
	return handle.Handle(uint64(gen)<<indexBits | uint64(index))
}

func splitID(id handle.Handle) (index, gen uint32) {
	return uint32(uint64(id) & indexMask), uint32(uint64(id) >> indexBits)
}

// Insert stores value under a new ID.
func (t *Table) Insert(kind handle.Kind, value any) (handle.Handle, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return handle.Null, ErrClosed
	}

	var index uint32
	if n := len(t.freeList); n > 0 {
		index = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		e := &t.entries[index-1]
		e.value = value
		e.kind = kind
		e.valid = true
	} else {
		t.entries = append(t.entries, entry{value: value, kind: kind, gen: 1, valid: true})
		index = uint32(len(t.entries))
	}
	id := makeID(index, t.entries[index-1].gen)
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, ID: id, Kind: kind, Value: value})
	return id, nil
}

// lookup must be called with mu held.
func (t *Table) lookup(id handle.Handle) (*entry, bool) {
	index, gen := splitID(id)
	if index == 0 || int(index) > len(t.entries) {
		return nil, false
	}
	e := &t.entries[index-1]
	if !e.valid || e.gen != gen {
		return nil, false
	}
	return e, true
}

// Get returns the value stored under id.
func (t *Table) Get(id handle.Handle) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookup(id)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// GetTyped returns the value stored under id only if it has the given kind.
func (t *Table) GetTyped(id handle.Handle, kind handle.Kind) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookup(id)
	if !ok || e.kind != kind {
		return nil, false
	}
	return e.value, true
}

// Kind returns the kind recorded for id.
func (t *Table) Kind(id handle.Handle) (handle.Kind, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookup(id)
	if !ok {
		return handle.KindUnknown, false
	}
	return e.kind, true
}

// Drop removes id. The ID and every copy of it become permanently stale.
func (t *Table) Drop(id handle.Handle) (any, bool) {
	t.mu.Lock()
	e, ok := t.lookup(id)
	if !ok {
		t.mu.Unlock()
		return nil, false
	}
	value, kind := e.value, e.kind
	e.value = nil
	e.valid = false
	e.gen++
	if e.gen == 0 {
		// Generation wrapped; retire the slot rather than reissue old IDs.
		e.gen = 1 << 31
	} else {
		index, _ := splitID(id)
		t.freeList = append(t.freeList, index)
	}
	t.mu.Unlock()

	t.notify(Event{Type: EventDropped, ID: id, Kind: kind, Value: value})
	return value, true
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, e := range t.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over live entries in slot order until fn returns false.
func (t *Table) Each(fn func(handle.Handle, handle.Kind, any) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, e := range t.entries {
		if e.valid {
			if !fn(makeID(uint32(i+1), e.gen), e.kind, e.value) {
				break
			}
		}
	}
}

// Subscribe adds an observer.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Close drops every entry and rejects further inserts.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	for i := range t.entries {
		t.entries[i].valid = false
		t.entries[i].value = nil
	}
	t.entries = nil
	t.freeList = nil
	return nil
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnRefEvent(e)
	}
}
