package nbt

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"slices"
)

// DefaultMaxDepth bounds List/Compound nesting while decoding.
const DefaultMaxDepth = 512

// maxPrealloc caps how much is allocated up front from an untrusted count.
const maxPrealloc = 1 << 16

type options struct {
	order    binary.ByteOrder
	maxDepth int
}

// Option configures the binary Decoder and Encoder.
type Option func(*options)

// WithByteOrder sets the byte order of fixed-width fields (default:
// big-endian). The order is not recorded in the stream.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithMaxDepth sets the maximum List/Compound nesting depth.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

func newOptions(opts []Option) options {
	o := options{order: binary.BigEndian, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ============================================================
// Decoder
// ============================================================

// Decoder reads binary NBT documents front to back. It never seeks and
// reads no further than the end of the document.
type Decoder struct {
	r     io.Reader
	order binary.ByteOrder
	max   int
	depth int
	buf   [8]byte
}

// NewDecoder creates a Decoder reading from r. Wrap r in a bufio.Reader
// when it is unbuffered.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	o := newOptions(opts)
	return &Decoder{r: r, order: o.order, max: o.maxDepth}
}

// Decode reads one document: the root type ID, the root name and the root
// payload.
func (d *Decoder) Decode() (NBT, error) {
	typ, err := d.readType()
	if err != nil {
		return NBT{}, err
	}
	name, err := d.readString()
	if err != nil {
		return NBT{}, err
	}
	tag, err := d.readTag(typ)
	if err != nil {
		return NBT{}, err
	}
	return NBT{Name: name, Tag: tag}, nil
}

func (d *Decoder) fill(n int, what string) ([]byte, error) {
	b := d.buf[:n]
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, ioError("read "+what, err)
	}
	return b, nil
}

// readBytes reads n bytes, growing the buffer as data arrives so a bogus
// count cannot force a huge allocation.
func (d *Decoder) readBytes(n int, what string) ([]byte, error) {
	buf := make([]byte, 0, min(n, maxPrealloc))
	for len(buf) < n {
		start := len(buf)
		k := min(n-start, maxPrealloc)
		buf = slices.Grow(buf, k)[:start+k]
		if _, err := io.ReadFull(d.r, buf[start:]); err != nil {
			return nil, ioError("read "+what, err)
		}
	}
	return buf, nil
}

func (d *Decoder) readType() (TagType, error) {
	b, err := d.fill(1, "tag type")
	if err != nil {
		return 0, err
	}
	t := TagType(b[0])
	if !t.Valid() {
		return 0, badType(t)
	}
	return t, nil
}

func (d *Decoder) readInt8() (int8, error) {
	b, err := d.fill(1, "byte")
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (d *Decoder) readInt16() (int16, error) {
	b, err := d.fill(2, "short")
	if err != nil {
		return 0, err
	}
	return int16(d.order.Uint16(b)), nil
}

func (d *Decoder) readInt32() (int32, error) {
	b, err := d.fill(4, "int")
	if err != nil {
		return 0, err
	}
	return int32(d.order.Uint32(b)), nil
}

func (d *Decoder) readInt64() (int64, error) {
	b, err := d.fill(8, "long")
	if err != nil {
		return 0, err
	}
	return int64(d.order.Uint64(b)), nil
}

func (d *Decoder) readFloat32() (float32, error) {
	b, err := d.fill(4, "float")
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(d.order.Uint32(b)), nil
}

func (d *Decoder) readFloat64() (float64, error) {
	b, err := d.fill(8, "double")
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(d.order.Uint64(b)), nil
}

// readString reads a u16 byte length followed by that many opaque bytes.
func (d *Decoder) readString() (string, error) {
	b, err := d.fill(2, "string length")
	if err != nil {
		return "", err
	}
	n := int(d.order.Uint16(b))
	if n == 0 {
		return "", nil
	}
	s, err := d.readBytes(n, "string")
	if err != nil {
		return "", err
	}
	return string(s), nil
}

func (d *Decoder) readCount(what string) (int, error) {
	n, err := d.readInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, formatError("negative %s length %d", what, n)
	}
	return int(n), nil
}

func (d *Decoder) enter() error {
	d.depth++
	if d.depth > d.max {
		return formatError("nesting deeper than %d", d.max)
	}
	return nil
}

func (d *Decoder) leave() {
	d.depth--
}

func (d *Decoder) readTag(t TagType) (Tag, error) {
	return Match[Tag](t, tagDecoder{d})
}

func (d *Decoder) readList() (List, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	elem, err := d.readType()
	if err != nil {
		return nil, err
	}
	n, err := d.readCount("list")
	if err != nil {
		return nil, err
	}
	return Match[List](elem, listDecoder{d: d, n: n})
}

func (d *Decoder) readCompound() (*Compound, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	c := NewCompound()
	for {
		t, err := d.readType()
		if err != nil {
			return nil, err
		}
		if t == TagEnd {
			return c, nil
		}
		name, err := d.readString()
		if err != nil {
			return nil, err
		}
		v, err := d.readTag(t)
		if err != nil {
			return nil, err
		}
		c.Set(name, v)
	}
}

// decodeFixed reads n elements of width bytes each in one pass.
func decodeFixed[T any](d *Decoder, n, width int, what string, conv func([]byte) T) ([]T, error) {
	b, err := d.readBytes(n*width, what)
	if err != nil {
		return nil, err
	}
	out := make([]T, n)
	for i := range out {
		out[i] = conv(b[i*width:])
	}
	return out, nil
}

// decodeEach reads n variable-width elements.
func decodeEach[T any](n int, read func() (T, error)) ([]T, error) {
	out := make([]T, 0, min(n, maxPrealloc))
	for range n {
		v, err := read()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *Decoder) readByteArray() (ByteArray, error) {
	n, err := d.readCount("byte array")
	if err != nil {
		return nil, err
	}
	return decodeFixed(d, n, 1, "byte array", d.int8At)
}

func (d *Decoder) readIntArray() (IntArray, error) {
	n, err := d.readCount("int array")
	if err != nil {
		return nil, err
	}
	return decodeFixed(d, n, 4, "int array", d.int32At)
}

func (d *Decoder) readLongArray() (LongArray, error) {
	n, err := d.readCount("long array")
	if err != nil {
		return nil, err
	}
	return decodeFixed(d, n, 8, "long array", d.int64At)
}

func (d *Decoder) int8At(b []byte) int8   { return int8(b[0]) }
func (d *Decoder) int16At(b []byte) int16 { return int16(d.order.Uint16(b)) }
func (d *Decoder) int32At(b []byte) int32 { return int32(d.order.Uint32(b)) }
func (d *Decoder) int64At(b []byte) int64 { return int64(d.order.Uint64(b)) }

// tagDecoder reads one payload of the matched type.
type tagDecoder struct {
	d *Decoder
}

func (m tagDecoder) OnEnd() (Tag, error) { return End{}, nil }

func (m tagDecoder) OnByte() (Tag, error) {
	v, err := m.d.readInt8()
	return Byte(v), err
}

func (m tagDecoder) OnShort() (Tag, error) {
	v, err := m.d.readInt16()
	return Short(v), err
}

func (m tagDecoder) OnInt() (Tag, error) {
	v, err := m.d.readInt32()
	return Int(v), err
}

func (m tagDecoder) OnLong() (Tag, error) {
	v, err := m.d.readInt64()
	return Long(v), err
}

func (m tagDecoder) OnFloat() (Tag, error) {
	v, err := m.d.readFloat32()
	return Float(v), err
}

func (m tagDecoder) OnDouble() (Tag, error) {
	v, err := m.d.readFloat64()
	return Double(v), err
}

func (m tagDecoder) OnByteArray() (Tag, error) { return nilOnError(m.d.readByteArray()) }
func (m tagDecoder) OnIntArray() (Tag, error)  { return nilOnError(m.d.readIntArray()) }
func (m tagDecoder) OnLongArray() (Tag, error) { return nilOnError(m.d.readLongArray()) }
func (m tagDecoder) OnList() (Tag, error)      { return nilOnError(m.d.readList()) }
func (m tagDecoder) OnCompound() (Tag, error)  { return nilOnError(m.d.readCompound()) }

func (m tagDecoder) OnString() (Tag, error) {
	s, err := m.d.readString()
	return String(s), err
}

// nilOnError keeps a failed payload from leaking out as a typed, non-nil Tag.
func nilOnError[T Tag](v T, err error) (Tag, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

// listDecoder reads n list elements of the matched type. No per-element
// type IDs are present on the wire.
type listDecoder struct {
	d *Decoder
	n int
}

func (m listDecoder) OnEnd() (List, error) {
	return make(EndList, m.n), nil
}

func (m listDecoder) OnByte() (List, error) {
	v, err := decodeFixed(m.d, m.n, 1, "list", func(b []byte) Byte { return Byte(b[0]) })
	return listOrNil(ByteList(v), err)
}

func (m listDecoder) OnShort() (List, error) {
	v, err := decodeFixed(m.d, m.n, 2, "list", func(b []byte) Short { return Short(m.d.int16At(b)) })
	return listOrNil(ShortList(v), err)
}

func (m listDecoder) OnInt() (List, error) {
	v, err := decodeFixed(m.d, m.n, 4, "list", func(b []byte) Int { return Int(m.d.int32At(b)) })
	return listOrNil(IntList(v), err)
}

func (m listDecoder) OnLong() (List, error) {
	v, err := decodeFixed(m.d, m.n, 8, "list", func(b []byte) Long { return Long(m.d.int64At(b)) })
	return listOrNil(LongList(v), err)
}

func (m listDecoder) OnFloat() (List, error) {
	v, err := decodeFixed(m.d, m.n, 4, "list", func(b []byte) Float {
		return Float(math.Float32frombits(m.d.order.Uint32(b)))
	})
	return listOrNil(FloatList(v), err)
}

func (m listDecoder) OnDouble() (List, error) {
	v, err := decodeFixed(m.d, m.n, 8, "list", func(b []byte) Double {
		return Double(math.Float64frombits(m.d.order.Uint64(b)))
	})
	return listOrNil(DoubleList(v), err)
}

func (m listDecoder) OnByteArray() (List, error) {
	v, err := decodeEach(m.n, m.d.readByteArray)
	return listOrNil(ByteArrayList(v), err)
}

func (m listDecoder) OnString() (List, error) {
	v, err := decodeEach(m.n, func() (String, error) {
		s, err := m.d.readString()
		return String(s), err
	})
	return listOrNil(StringList(v), err)
}

func (m listDecoder) OnList() (List, error) {
	v, err := decodeEach(m.n, m.d.readList)
	return listOrNil(ListList(v), err)
}

func (m listDecoder) OnCompound() (List, error) {
	v, err := decodeEach(m.n, m.d.readCompound)
	return listOrNil(CompoundList(v), err)
}

func (m listDecoder) OnIntArray() (List, error) {
	v, err := decodeEach(m.n, m.d.readIntArray)
	return listOrNil(IntArrayList(v), err)
}

func (m listDecoder) OnLongArray() (List, error) {
	v, err := decodeEach(m.n, m.d.readLongArray)
	return listOrNil(LongArrayList(v), err)
}

func listOrNil[L List](l L, err error) (List, error) {
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ============================================================
// Encoder
// ============================================================

// Encoder writes binary NBT documents.
type Encoder struct {
	w     *bufio.Writer
	order binary.ByteOrder
	buf   [8]byte
}

// NewEncoder creates an Encoder writing to w. Output is buffered and
// flushed at the end of each Encode.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	o := newOptions(opts)
	return &Encoder{w: bufio.NewWriter(w), order: o.order}
}

// Encode writes root: its type ID, its name and its payload. Compound
// entries are written in name order followed by an End byte.
func (e *Encoder) Encode(root NBT) error {
	if root.Tag == nil {
		return formatError("root tag is nil")
	}
	if err := e.writeType(root.Tag.Type()); err != nil {
		return err
	}
	if err := e.writeString(root.Name); err != nil {
		return err
	}
	if err := e.writeTag(root.Tag); err != nil {
		return err
	}
	if err := e.w.Flush(); err != nil {
		return ioError("flush", err)
	}
	return nil
}

func (e *Encoder) put(b []byte) error {
	if _, err := e.w.Write(b); err != nil {
		return ioError("write", err)
	}
	return nil
}

func (e *Encoder) writeType(t TagType) error {
	return e.writeInt8(int8(t))
}

func (e *Encoder) writeInt8(v int8) error {
	e.buf[0] = byte(v)
	return e.put(e.buf[:1])
}

func (e *Encoder) writeInt16(v int16) error {
	e.order.PutUint16(e.buf[:2], uint16(v))
	return e.put(e.buf[:2])
}

func (e *Encoder) writeInt32(v int32) error {
	e.order.PutUint32(e.buf[:4], uint32(v))
	return e.put(e.buf[:4])
}

func (e *Encoder) writeInt64(v int64) error {
	e.order.PutUint64(e.buf[:8], uint64(v))
	return e.put(e.buf[:8])
}

func (e *Encoder) writeFloat32(v float32) error {
	return e.writeInt32(int32(math.Float32bits(v)))
}

func (e *Encoder) writeFloat64(v float64) error {
	return e.writeInt64(int64(math.Float64bits(v)))
}

func (e *Encoder) writeString(s string) error {
	if len(s) > math.MaxUint16 {
		return formatError("string of %d bytes exceeds %d", len(s), math.MaxUint16)
	}
	e.order.PutUint16(e.buf[:2], uint16(len(s)))
	if err := e.put(e.buf[:2]); err != nil {
		return err
	}
	if _, err := e.w.WriteString(s); err != nil {
		return ioError("write", err)
	}
	return nil
}

func (e *Encoder) writeCount(n int) error {
	if n > math.MaxInt32 {
		return formatError("length %d exceeds %d", n, math.MaxInt32)
	}
	return e.writeInt32(int32(n))
}

// encodeEach writes a count followed by every element.
func encodeEach[T any](e *Encoder, s []T, write func(T) error) error {
	if err := e.writeCount(len(s)); err != nil {
		return err
	}
	for _, v := range s {
		if err := write(v); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeTag(t Tag) error {
	switch v := t.(type) {
	case End:
		return nil
	case Byte:
		return e.writeInt8(int8(v))
	case Short:
		return e.writeInt16(int16(v))
	case Int:
		return e.writeInt32(int32(v))
	case Long:
		return e.writeInt64(int64(v))
	case Float:
		return e.writeFloat32(float32(v))
	case Double:
		return e.writeFloat64(float64(v))
	case ByteArray:
		return e.writeByteArray(v)
	case String:
		return e.writeString(string(v))
	case List:
		return e.writeList(v)
	case *Compound:
		return e.writeCompound(v)
	case IntArray:
		return e.writeIntArray(v)
	case LongArray:
		return e.writeLongArray(v)
	case nil:
		return formatError("nil tag")
	default:
		return unsupported(t.Type())
	}
}

func (e *Encoder) writeByteArray(a ByteArray) error   { return encodeEach(e, a, e.writeInt8) }
func (e *Encoder) writeIntArray(a IntArray) error     { return encodeEach(e, a, e.writeInt32) }
func (e *Encoder) writeLongArray(a LongArray) error   { return encodeEach(e, a, e.writeInt64) }
func (e *Encoder) writeStringTag(s String) error      { return e.writeString(string(s)) }
func (e *Encoder) writeByteTag(v Byte) error          { return e.writeInt8(int8(v)) }
func (e *Encoder) writeShortTag(v Short) error        { return e.writeInt16(int16(v)) }
func (e *Encoder) writeIntTag(v Int) error            { return e.writeInt32(int32(v)) }
func (e *Encoder) writeLongTag(v Long) error          { return e.writeInt64(int64(v)) }
func (e *Encoder) writeFloatTag(v Float) error        { return e.writeFloat32(float32(v)) }
func (e *Encoder) writeDoubleTag(v Double) error      { return e.writeFloat64(float64(v)) }
func (e *Encoder) writeEndTag(End) error              { return nil }
func (e *Encoder) writeCompoundTag(c *Compound) error { return e.writeCompound(c) }

// writeList writes the element type, the count and the bare payloads.
func (e *Encoder) writeList(l List) error {
	if l == nil {
		return formatError("nil list")
	}
	if err := e.writeType(l.ElemType()); err != nil {
		return err
	}
	switch v := l.(type) {
	case EndList:
		return encodeEach(e, v, e.writeEndTag)
	case ByteList:
		return encodeEach(e, v, e.writeByteTag)
	case ShortList:
		return encodeEach(e, v, e.writeShortTag)
	case IntList:
		return encodeEach(e, v, e.writeIntTag)
	case LongList:
		return encodeEach(e, v, e.writeLongTag)
	case FloatList:
		return encodeEach(e, v, e.writeFloatTag)
	case DoubleList:
		return encodeEach(e, v, e.writeDoubleTag)
	case ByteArrayList:
		return encodeEach(e, v, e.writeByteArray)
	case StringList:
		return encodeEach(e, v, e.writeStringTag)
	case ListList:
		return encodeEach(e, v, e.writeList)
	case CompoundList:
		return encodeEach(e, v, e.writeCompoundTag)
	case IntArrayList:
		return encodeEach(e, v, e.writeIntArray)
	case LongArrayList:
		return encodeEach(e, v, e.writeLongArray)
	default:
		return unsupported(l.ElemType())
	}
}

func (e *Encoder) writeCompound(c *Compound) error {
	for name, v := range c.All() {
		if v == nil {
			return formatError("nil tag at %q", name)
		}
		if err := e.writeType(v.Type()); err != nil {
			return err
		}
		if err := e.writeString(name); err != nil {
			return err
		}
		if err := e.writeTag(v); err != nil {
			return err
		}
	}
	return e.writeType(TagEnd)
}

// ============================================================
// Entry points
// ============================================================

// Read decodes one binary document from r.
func Read(r io.Reader, opts ...Option) (NBT, error) {
	return NewDecoder(r, opts...).Decode()
}

// Write encodes root to w.
func Write(w io.Writer, root NBT, opts ...Option) error {
	return NewEncoder(w, opts...).Encode(root)
}

// Marshal encodes root into a byte slice.
func Marshal(root NBT, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, root, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes one document from data. Bytes after the document are
// ignored.
func Unmarshal(data []byte, opts ...Option) (NBT, error) {
	return Read(bytes.NewReader(data), opts...)
}
