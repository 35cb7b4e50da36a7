// Package refs provides the reference table behind the in-memory scene.
//
// IDs are 64-bit: the low 32 bits select a table slot (1-based), the high 32
// bits carry the slot's generation. Dropping an entry bumps the generation,
// so an ID handed out before the drop never resolves again even after the
// slot is reused:
//
//	t := refs.NewTable()
//	id := t.Insert(handle.KindSlot, s)
//	v, ok := t.Get(id)           // s, true
//	t.Drop(id)
//	_, ok = t.Get(id)            // false, forever
//
// ID 0 is never issued.
//
// # Observers
//
// Observers receive EventCreated and EventDropped notifications after the
// table has been updated.
package refs
