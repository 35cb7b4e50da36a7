package envelope

import "fmt"

// Tag identifies the type of an envelope payload.
// Numbering matches the host engine's simple serialization table.
type Tag uint32

const (
	TagUnknown Tag = iota
	TagBool
	TagBool2
	TagBool3
	TagBool4
	TagInt
	TagInt2
	TagInt3
	TagInt4
	TagUInt
	TagUInt2
	TagUInt3
	TagUInt4
	TagLong
	TagLong2
	TagLong3
	TagLong4
	TagULong
	TagULong2
	TagULong3
	TagULong4
	TagFloat
	TagFloat2
	TagFloat3
	TagFloat4
	TagFloatQ
	TagDouble
	TagDouble2
	TagDouble3
	TagDouble4
	TagDoubleQ
	TagString
	TagColor
	TagColorX
	TagRefID
	TagSlot
	TagUser
	TagUserRoot
)

var tagNames = [...]string{
	"unknown",
	"bool", "bool2", "bool3", "bool4",
	"int", "int2", "int3", "int4",
	"uint", "uint2", "uint3", "uint4",
	"long", "long2", "long3", "long4",
	"ulong", "ulong2", "ulong3", "ulong4",
	"float", "float2", "float3", "float4",
	"floatQ",
	"double", "double2", "double3", "double4",
	"doubleQ",
	"string",
	"color",
	"colorX",
	"refID",
	"slot",
	"user",
	"userRoot",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("tag(%d)", uint32(t))
}

// ParseTag returns the tag with the given name.
func ParseTag(name string) (Tag, bool) {
	for i, n := range tagNames {
		if n == name {
			return Tag(i), true
		}
	}
	return TagUnknown, false
}

// kind is the scalar family of a decodable tag.
type kind uint8

const (
	kindNone kind = iota
	kindBool
	kindInt
	kindUInt
	kindFloat
)

// layout returns the scalar family and element count of a decodable tag.
func layout(t Tag) (kind, int) {
	switch {
	case t >= TagBool && t <= TagBool4:
		return kindBool, int(t-TagBool) + 1
	case t >= TagInt && t <= TagInt4:
		return kindInt, int(t-TagInt) + 1
	case t >= TagUInt && t <= TagUInt4:
		return kindUInt, int(t-TagUInt) + 1
	case t >= TagFloat && t <= TagFloat4:
		return kindFloat, int(t-TagFloat) + 1
	case t == TagFloatQ, t == TagColor:
		return kindFloat, 4
	}
	return kindNone, 0
}

// Decodable reports whether values with tag t can be encoded and decoded.
func (t Tag) Decodable() bool {
	k, _ := layout(t)
	return k != kindNone
}

// Size reports the total envelope size implied by t, tag included.
// Reserved and out-of-range tags report false.
func Size(t Tag) (int, bool) {
	k, n := layout(t)
	if k == kindNone {
		return 0, false
	}
	return headerSize + n*fieldSize, true
}

const (
	headerSize = 4
	fieldSize  = 4

	// MaxSize is the largest envelope any decodable tag implies.
	MaxSize = headerSize + 4*fieldSize
)
