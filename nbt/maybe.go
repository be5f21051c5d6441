package nbt

// Maybe is an optional Tag. Lookups on an empty Maybe yield an empty Maybe,
// so chains of any depth never fail:
//
//	x, ok := nbt.Value[nbt.Double](nbt.Find(root).Get("Data").Get("Player").Get("Pos").Index(0))
type Maybe struct {
	tag Tag
}

// Find wraps t. A nil t gives an empty Maybe.
func Find(t Tag) Maybe {
	return Maybe{tag: t}
}

// None returns an empty Maybe.
func None() Maybe {
	return Maybe{}
}

// Present reports whether m holds a tag.
func (m Maybe) Present() bool {
	return m.tag != nil
}

// Tag returns the held tag.
func (m Maybe) Tag() (Tag, bool) {
	return m.tag, m.tag != nil
}

// Get looks up name when m holds a Compound.
func (m Maybe) Get(name string) Maybe {
	c, ok := m.tag.(*Compound)
	if !ok {
		return Maybe{}
	}
	t, _ := c.Lookup(name)
	return Maybe{tag: t}
}

// Index returns element i when m holds a List or an array. Array elements
// are wrapped as Byte, Int or Long.
func (m Maybe) Index(i int) Maybe {
	switch v := m.tag.(type) {
	case ByteArray:
		if i >= 0 && i < len(v) {
			return Maybe{tag: Byte(v[i])}
		}
	case IntArray:
		if i >= 0 && i < len(v) {
			return Maybe{tag: Int(v[i])}
		}
	case LongArray:
		if i >= 0 && i < len(v) {
			return Maybe{tag: Long(v[i])}
		}
	case List:
		return Maybe{tag: v.Elem(i)}
	}
	return Maybe{}
}

// Then applies f to the held tag, or returns m unchanged when empty.
func (m Maybe) Then(f func(Tag) Maybe) Maybe {
	if m.tag == nil {
		return m
	}
	return f(m.tag)
}

// Value returns the held tag as T.
func Value[T Tag](m Maybe) (T, bool) {
	v, ok := m.tag.(T)
	return v, ok
}

// NumIf converts the held tag like NumAs, reporting false instead of
// failing.
func NumIf[N Number](m Maybe) (N, bool) {
	v, err := NumAs[N](m.tag)
	return v, err == nil
}

// GetIf returns entry name of the Compound t as T, if all of that holds.
func GetIf[T Tag](t Tag, name string) (T, bool) {
	return Value[T](Find(t).Get(name))
}
