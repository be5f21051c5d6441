package nbt

// List is an ordered sequence of unnamed tags that all share one type.
// Each implementation stores a slice of a single element type, so a List
// cannot hold mixed elements. An empty EndList is the canonical empty list.
type List interface {
	Tag
	// ElemType returns the TagType of the elements.
	ElemType() TagType
	// Len returns the number of elements.
	Len() int
	// Elem returns element i as a Tag, or nil if i is out of range.
	Elem(i int) Tag
	// elems returns the backing slice with its plain element type
	// ([]Byte, []*Compound, ...).
	elems() any
}

type (
	EndList       []End
	ByteList      []Byte
	ShortList     []Short
	IntList       []Int
	LongList      []Long
	FloatList     []Float
	DoubleList    []Double
	ByteArrayList []ByteArray
	StringList    []String
	ListList      []List
	CompoundList  []*Compound
	IntArrayList  []IntArray
	LongArrayList []LongArray
)

// EmptyList returns the canonical empty untyped list.
func EmptyList() List {
	return EndList{}
}

func elemAt[T Tag](s []T, i int) Tag {
	if i < 0 || i >= len(s) {
		return nil
	}
	return s[i]
}

func (EndList) Type() TagType       { return TagList }
func (ByteList) Type() TagType      { return TagList }
func (ShortList) Type() TagType     { return TagList }
func (IntList) Type() TagType       { return TagList }
func (LongList) Type() TagType      { return TagList }
func (FloatList) Type() TagType     { return TagList }
func (DoubleList) Type() TagType    { return TagList }
func (ByteArrayList) Type() TagType { return TagList }
func (StringList) Type() TagType    { return TagList }
func (ListList) Type() TagType      { return TagList }
func (CompoundList) Type() TagType  { return TagList }
func (IntArrayList) Type() TagType  { return TagList }
func (LongArrayList) Type() TagType { return TagList }

func (EndList) isTag()       {}
func (ByteList) isTag()      {}
func (ShortList) isTag()     {}
func (IntList) isTag()       {}
func (LongList) isTag()      {}
func (FloatList) isTag()     {}
func (DoubleList) isTag()    {}
func (ByteArrayList) isTag() {}
func (StringList) isTag()    {}
func (ListList) isTag()      {}
func (CompoundList) isTag()  {}
func (IntArrayList) isTag()  {}
func (LongArrayList) isTag() {}

func (EndList) ElemType() TagType       { return TagEnd }
func (ByteList) ElemType() TagType      { return TagByte }
func (ShortList) ElemType() TagType     { return TagShort }
func (IntList) ElemType() TagType       { return TagInt }
func (LongList) ElemType() TagType      { return TagLong }
func (FloatList) ElemType() TagType     { return TagFloat }
func (DoubleList) ElemType() TagType    { return TagDouble }
func (ByteArrayList) ElemType() TagType { return TagByteArray }
func (StringList) ElemType() TagType    { return TagString }
func (ListList) ElemType() TagType      { return TagList }
func (CompoundList) ElemType() TagType  { return TagCompound }
func (IntArrayList) ElemType() TagType  { return TagIntArray }
func (LongArrayList) ElemType() TagType { return TagLongArray }

func (l EndList) Len() int       { return len(l) }
func (l ByteList) Len() int      { return len(l) }
func (l ShortList) Len() int     { return len(l) }
func (l IntList) Len() int       { return len(l) }
func (l LongList) Len() int      { return len(l) }
func (l FloatList) Len() int     { return len(l) }
func (l DoubleList) Len() int    { return len(l) }
func (l ByteArrayList) Len() int { return len(l) }
func (l StringList) Len() int    { return len(l) }
func (l ListList) Len() int      { return len(l) }
func (l CompoundList) Len() int  { return len(l) }
func (l IntArrayList) Len() int  { return len(l) }
func (l LongArrayList) Len() int { return len(l) }

func (l EndList) Elem(i int) Tag       { return elemAt(l, i) }
func (l ByteList) Elem(i int) Tag      { return elemAt(l, i) }
func (l ShortList) Elem(i int) Tag     { return elemAt(l, i) }
func (l IntList) Elem(i int) Tag       { return elemAt(l, i) }
func (l LongList) Elem(i int) Tag      { return elemAt(l, i) }
func (l FloatList) Elem(i int) Tag     { return elemAt(l, i) }
func (l DoubleList) Elem(i int) Tag    { return elemAt(l, i) }
func (l ByteArrayList) Elem(i int) Tag { return elemAt(l, i) }
func (l StringList) Elem(i int) Tag    { return elemAt(l, i) }
func (l ListList) Elem(i int) Tag      { return elemAt(l, i) }
func (l CompoundList) Elem(i int) Tag  { return elemAt(l, i) }
func (l IntArrayList) Elem(i int) Tag  { return elemAt(l, i) }
func (l LongArrayList) Elem(i int) Tag { return elemAt(l, i) }

func (l EndList) elems() any       { return []End(l) }
func (l ByteList) elems() any      { return []Byte(l) }
func (l ShortList) elems() any     { return []Short(l) }
func (l IntList) elems() any       { return []Int(l) }
func (l LongList) elems() any      { return []Long(l) }
func (l FloatList) elems() any     { return []Float(l) }
func (l DoubleList) elems() any    { return []Double(l) }
func (l ByteArrayList) elems() any { return []ByteArray(l) }
func (l StringList) elems() any    { return []String(l) }
func (l ListList) elems() any      { return []List(l) }
func (l CompoundList) elems() any  { return []*Compound(l) }
func (l IntArrayList) elems() any  { return []IntArray(l) }
func (l LongArrayList) elems() any { return []LongArray(l) }

// MakeList builds the List variant for elemType from tags. Every tag must
// have type elemType; an empty tags with elemType End yields the canonical
// empty list.
func MakeList(elemType TagType, tags []Tag) (List, error) {
	return Match[List](elemType, listBuilder{tags: tags})
}

// listBuilder collects loosely typed tags into the one typed slice bound to
// the element type.
type listBuilder struct {
	tags []Tag
}

func collect[T Tag, L ~[]T](want TagType, tags []Tag) (List, error) {
	out := make(L, len(tags))
	for i, t := range tags {
		v, ok := t.(T)
		if !ok {
			return nil, formatError("list element %d is %s, want %s", i, typeName(t), want)
		}
		out[i] = v
	}
	// L is always one of the List variants; the assertion cannot fail.
	return any(out).(List), nil
}

func (b listBuilder) OnEnd() (List, error)       { return collect[End, EndList](TagEnd, b.tags) }
func (b listBuilder) OnByte() (List, error)      { return collect[Byte, ByteList](TagByte, b.tags) }
func (b listBuilder) OnShort() (List, error)     { return collect[Short, ShortList](TagShort, b.tags) }
func (b listBuilder) OnInt() (List, error)       { return collect[Int, IntList](TagInt, b.tags) }
func (b listBuilder) OnLong() (List, error)      { return collect[Long, LongList](TagLong, b.tags) }
func (b listBuilder) OnFloat() (List, error)     { return collect[Float, FloatList](TagFloat, b.tags) }
func (b listBuilder) OnDouble() (List, error)    { return collect[Double, DoubleList](TagDouble, b.tags) }
func (b listBuilder) OnByteArray() (List, error) { return collect[ByteArray, ByteArrayList](TagByteArray, b.tags) }
func (b listBuilder) OnString() (List, error)    { return collect[String, StringList](TagString, b.tags) }
func (b listBuilder) OnList() (List, error)      { return collect[List, ListList](TagList, b.tags) }
func (b listBuilder) OnCompound() (List, error)  { return collect[*Compound, CompoundList](TagCompound, b.tags) }
func (b listBuilder) OnIntArray() (List, error)  { return collect[IntArray, IntArrayList](TagIntArray, b.tags) }
func (b listBuilder) OnLongArray() (List, error) { return collect[LongArray, LongArrayList](TagLongArray, b.tags) }
