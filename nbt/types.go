package nbt

import (
	"fmt"
)

// TagType is the one-byte type ID of a tag. The ordinals are fixed by the
// binary format.
type TagType uint8

const (
	TagEnd TagType = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

// String returns the type name.
func (t TagType) String() string {
	switch t {
	case TagEnd:
		return "End"
	case TagByte:
		return "Byte"
	case TagShort:
		return "Short"
	case TagInt:
		return "Int"
	case TagLong:
		return "Long"
	case TagFloat:
		return "Float"
	case TagDouble:
		return "Double"
	case TagByteArray:
		return "ByteArray"
	case TagString:
		return "String"
	case TagList:
		return "List"
	case TagCompound:
		return "Compound"
	case TagIntArray:
		return "IntArray"
	case TagLongArray:
		return "LongArray"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the 13 defined tag types.
func (t TagType) Valid() bool {
	return t <= TagLongArray
}

// Tag is one unnamed node of a tree. The set of implementations is closed:
// End, Byte, Short, Int, Long, Float, Double, ByteArray, String, List,
// *Compound, IntArray and LongArray.
type Tag interface {
	// Type returns the TagType of the active variant.
	Type() TagType
	isTag()
}

// End is the unit tag. It only appears as the element type of an empty
// list or as a Compound terminator on the wire.
type End struct{}

// Byte is a signed 8-bit integer tag.
type Byte int8

// Short is a signed 16-bit integer tag.
type Short int16

// Int is a signed 32-bit integer tag.
type Int int32

// Long is a signed 64-bit integer tag.
type Long int64

// Float is a 32-bit IEEE 754 tag.
type Float float32

// Double is a 64-bit IEEE 754 tag.
type Double float64

// ByteArray is a sequence of signed bytes.
type ByteArray []int8

// String holds opaque bytes. No charset validation is performed.
type String string

// IntArray is a sequence of signed 32-bit integers.
type IntArray []int32

// LongArray is a sequence of signed 64-bit integers.
type LongArray []int64

func (End) Type() TagType       { return TagEnd }
func (Byte) Type() TagType      { return TagByte }
func (Short) Type() TagType     { return TagShort }
func (Int) Type() TagType       { return TagInt }
func (Long) Type() TagType      { return TagLong }
func (Float) Type() TagType     { return TagFloat }
func (Double) Type() TagType    { return TagDouble }
func (ByteArray) Type() TagType { return TagByteArray }
func (String) Type() TagType    { return TagString }
func (IntArray) Type() TagType  { return TagIntArray }
func (LongArray) Type() TagType { return TagLongArray }

func (End) isTag()       {}
func (Byte) isTag()      {}
func (Short) isTag()     {}
func (Int) isTag()       {}
func (Long) isTag()      {}
func (Float) isTag()     {}
func (Double) isTag()    {}
func (ByteArray) isTag() {}
func (String) isTag()    {}
func (IntArray) isTag()  {}
func (LongArray) isTag() {}

// NBT is a named root tag. Every document holds exactly one.
type NBT struct {
	Name string
	Tag  Tag
}

// Named creates a root with the given name.
func Named(name string, tag Tag) NBT {
	return NBT{Name: name, Tag: tag}
}

// Root creates a root with an empty name.
func Root(tag Tag) NBT {
	return NBT{Tag: tag}
}

// typeName describes t for error messages.
func typeName(t Tag) string {
	if t == nil {
		return "nil"
	}
	return t.Type().String()
}
