package nbt

import (
	"math"
	"slices"
)

// Equal reports whether a and b are the same tree. Floats compare by bit
// pattern, so NaN payloads survive a round trip check.
func Equal(a, b Tag) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case End:
		return true
	case Byte:
		return x == b.(Byte)
	case Short:
		return x == b.(Short)
	case Int:
		return x == b.(Int)
	case Long:
		return x == b.(Long)
	case Float:
		return math.Float32bits(float32(x)) == math.Float32bits(float32(b.(Float)))
	case Double:
		return math.Float64bits(float64(x)) == math.Float64bits(float64(b.(Double)))
	case ByteArray:
		return slices.Equal(x, b.(ByteArray))
	case String:
		return x == b.(String)
	case IntArray:
		return slices.Equal(x, b.(IntArray))
	case LongArray:
		return slices.Equal(x, b.(LongArray))
	case List:
		return equalList(x, b.(List))
	case *Compound:
		return equalCompound(x, b.(*Compound))
	}
	return false
}

func equalList(a, b List) bool {
	if a.ElemType() != b.ElemType() || a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !Equal(a.Elem(i), b.Elem(i)) {
			return false
		}
	}
	return true
}

func equalCompound(a, b *Compound) bool {
	if a.Len() != b.Len() {
		return false
	}
	for name, v := range a.All() {
		w, ok := b.Lookup(name)
		if !ok || !Equal(v, w) {
			return false
		}
	}
	return true
}

// EqualNBT reports whether two roots have the same name and tree.
func EqualNBT(a, b NBT) bool {
	return a.Name == b.Name && Equal(a.Tag, b.Tag)
}

// Clone returns a deep copy of t.
func Clone(t Tag) Tag {
	switch v := t.(type) {
	case ByteArray:
		return slices.Clone(v)
	case IntArray:
		return slices.Clone(v)
	case LongArray:
		return slices.Clone(v)
	case List:
		return cloneList(v)
	case *Compound:
		return v.Clone()
	default:
		// Scalars and strings are immutable values.
		return t
	}
}

// Clone returns a deep copy of c.
func (c *Compound) Clone() *Compound {
	if c == nil {
		return nil
	}
	out := &Compound{entries: make([]Entry, c.Len())}
	for i, e := range c.entries {
		out.entries[i] = Entry{Name: e.Name, Tag: Clone(e.Tag)}
	}
	return out
}

func cloneEach[T any, L ~[]T](l L, f func(T) T) L {
	out := make(L, len(l))
	for i, v := range l {
		out[i] = f(v)
	}
	return out
}

func cloneList(l List) List {
	switch v := l.(type) {
	case EndList:
		return slices.Clone(v)
	case ByteList:
		return slices.Clone(v)
	case ShortList:
		return slices.Clone(v)
	case IntList:
		return slices.Clone(v)
	case LongList:
		return slices.Clone(v)
	case FloatList:
		return slices.Clone(v)
	case DoubleList:
		return slices.Clone(v)
	case StringList:
		return slices.Clone(v)
	case ByteArrayList:
		return cloneEach(v, func(a ByteArray) ByteArray { return slices.Clone(a) })
	case IntArrayList:
		return cloneEach(v, func(a IntArray) IntArray { return slices.Clone(a) })
	case LongArrayList:
		return cloneEach(v, func(a LongArray) LongArray { return slices.Clone(a) })
	case ListList:
		return cloneEach(v, cloneList)
	case CompoundList:
		return cloneEach(v, (*Compound).Clone)
	}
	return l
}
