package handle

import "fmt"

// Kind is the kind of host entity a reference addresses.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSlot
	KindUser
	KindUserRoot
	KindComponent
	KindField
)

var kindNames = [...]string{
	KindUnknown:   "Unknown",
	KindSlot:      "Slot",
	KindUser:      "User",
	KindUserRoot:  "UserRoot",
	KindComponent: "Component",
	KindField:     "Field",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Ref is a handle tagged with the kind of object it refers to.
type Ref struct {
	ID   Handle
	Kind Kind
}

// OrNull wraps raw as a reference of the given kind.
// A null raw handle yields ok == false and no reference.
func OrNull(kind Kind, raw Handle) (Ref, bool) {
	if raw.IsNull() {
		return Ref{}, false
	}
	return Ref{Kind: kind, ID: raw}, true
}

// IsNull reports whether r carries the null handle.
func (r Ref) IsNull() bool {
	return r.ID.IsNull()
}

// String renders r as Kind(ID=0x...).
func (r Ref) String() string {
	return fmt.Sprintf("%s(ID=%#x)", r.Kind, uint64(r.ID))
}
