package nbt

// Matcher handles a runtime TagType with one method per static payload
// type. Match calls exactly one of them.
type Matcher[R any] interface {
	OnEnd() (R, error)
	OnByte() (R, error)
	OnShort() (R, error)
	OnInt() (R, error)
	OnLong() (R, error)
	OnFloat() (R, error)
	OnDouble() (R, error)
	OnByteArray() (R, error)
	OnString() (R, error)
	OnList() (R, error)
	OnCompound() (R, error)
	OnIntArray() (R, error)
	OnLongArray() (R, error)
}

// Match dispatches t to the Matcher method bound to it. It fails with
// ErrUnsupportedTag if t is not a defined TagType.
func Match[R any](t TagType, m Matcher[R]) (R, error) {
	switch t {
	case TagEnd:
		return m.OnEnd()
	case TagByte:
		return m.OnByte()
	case TagShort:
		return m.OnShort()
	case TagInt:
		return m.OnInt()
	case TagLong:
		return m.OnLong()
	case TagFloat:
		return m.OnFloat()
	case TagDouble:
		return m.OnDouble()
	case TagByteArray:
		return m.OnByteArray()
	case TagString:
		return m.OnString()
	case TagList:
		return m.OnList()
	case TagCompound:
		return m.OnCompound()
	case TagIntArray:
		return m.OnIntArray()
	case TagLongArray:
		return m.OnLongArray()
	default:
		var zero R
		return zero, unsupported(t)
	}
}

// Zero returns the zero value of the payload type bound to t: End{},
// Byte(0), ..., an empty *Compound, a nil IntArray. Lists yield the
// canonical empty list.
func Zero(t TagType) (Tag, error) {
	return Match[Tag](t, zeroMatcher{})
}

type zeroMatcher struct{}

func (zeroMatcher) OnEnd() (Tag, error)       { return End{}, nil }
func (zeroMatcher) OnByte() (Tag, error)      { return Byte(0), nil }
func (zeroMatcher) OnShort() (Tag, error)     { return Short(0), nil }
func (zeroMatcher) OnInt() (Tag, error)       { return Int(0), nil }
func (zeroMatcher) OnLong() (Tag, error)      { return Long(0), nil }
func (zeroMatcher) OnFloat() (Tag, error)     { return Float(0), nil }
func (zeroMatcher) OnDouble() (Tag, error)    { return Double(0), nil }
func (zeroMatcher) OnByteArray() (Tag, error) { return ByteArray(nil), nil }
func (zeroMatcher) OnString() (Tag, error)    { return String(""), nil }
func (zeroMatcher) OnList() (Tag, error)      { return EmptyList(), nil }
func (zeroMatcher) OnCompound() (Tag, error)  { return NewCompound(), nil }
func (zeroMatcher) OnIntArray() (Tag, error)  { return IntArray(nil), nil }
func (zeroMatcher) OnLongArray() (Tag, error) { return LongArray(nil), nil }
