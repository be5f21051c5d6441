package snbt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Neumenon/nbt/nbt"
)

// SyntaxError describes malformed or truncated input. Err is nbt.ErrFormat
// for grammar violations and wraps nbt.ErrIO when the input ran out or
// failed.
type SyntaxError struct {
	Offset int64 // byte offset of the problem
	Msg    string
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("snbt: %s at offset %d", e.Msg, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

const eof = -1

// Decoder reads SNBT values from a byte stream. It reads one byte at a time
// and never looks further than the byte after a value.
type Decoder struct {
	r     io.ByteScanner
	off   int64
	depth int
	max   int
	err   error
}

// NewDecoder creates a Decoder reading from r. If r is not an
// io.ByteScanner it is wrapped in a bufio.Reader, which may read past the
// end of a value.
func NewDecoder(r io.Reader) *Decoder {
	bs, ok := r.(io.ByteScanner)
	if !ok {
		bs = bufio.NewReader(r)
	}
	return &Decoder{r: bs, max: nbt.DefaultMaxDepth}
}

// Decode reads the next value. When the input holds nothing but whitespace
// the error wraps io.EOF.
func (d *Decoder) Decode() (nbt.Tag, error) {
	d.skipSpace()
	if d.peek() == eof {
		return nil, d.ioError("no value", io.EOF)
	}
	return d.value()
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int64 {
	return d.off
}

// ============================================================
// Entry points
// ============================================================

// Read parses one value from r and stops after it.
func Read(r io.Reader) (nbt.Tag, error) {
	return NewDecoder(r).Decode()
}

// Parse parses s, which must hold exactly one value. Surrounding whitespace
// is allowed.
func Parse(s string) (nbt.Tag, error) {
	return parseAll(NewDecoder(strings.NewReader(s)))
}

// Unmarshal parses data like Parse.
func Unmarshal(data []byte) (nbt.Tag, error) {
	return parseAll(NewDecoder(bytes.NewReader(data)))
}

func parseAll(d *Decoder) (nbt.Tag, error) {
	t, err := d.Decode()
	if err != nil {
		return nil, err
	}
	d.skipSpace()
	if c := d.peek(); c != eof {
		return nil, d.formatError(d.off, "unexpected %s after value", describe(c))
	}
	if d.err != nil {
		return nil, d.err
	}
	return t, nil
}

// ReadCompound reads a value that must be a compound.
func ReadCompound(r io.Reader) (*nbt.Compound, error) {
	d := NewDecoder(r)
	d.skipSpace()
	if c := d.peek(); c != '{' {
		return nil, d.unexpected(c, "'{'")
	}
	return d.compound()
}

// ReadList reads a value that must be a list. Typed arrays fail with
// nbt.ErrTypeMismatch.
func ReadList(r io.Reader) (nbt.List, error) {
	d := NewDecoder(r)
	d.skipSpace()
	if c := d.peek(); c != '[' {
		return nil, d.unexpected(c, "'['")
	}
	t, err := d.listOrArray()
	if err != nil {
		return nil, err
	}
	return nbt.As[nbt.List](t)
}

// ReadString reads a quoted string.
func ReadString(r io.Reader) (string, error) {
	d := NewDecoder(r)
	d.skipSpace()
	if c := d.peek(); c != '"' && c != '\'' {
		return "", d.unexpected(c, "quoted string")
	}
	return d.quoted()
}

// ReadNumber reads an unquoted numeric token and converts it to N.
func ReadNumber[N nbt.Number](r io.Reader) (N, error) {
	d := NewDecoder(r)
	d.skipSpace()
	start := d.off
	tok := d.token()
	if tok == "" {
		return 0, d.unexpected(d.peek(), "number")
	}
	t, err := resolve(tok, start)
	if err != nil {
		return 0, err
	}
	n, err := nbt.NumAs[N](t)
	if err != nil {
		return 0, err
	}
	if !fits(t, n) {
		return 0, &SyntaxError{Offset: start, Msg: fmt.Sprintf("%s out of range for %T", tok, n), Err: nbt.ErrFormat}
	}
	return n, nil
}

// fits reports whether n holds the value of t. A fraction truncated to an
// integer N fits; precision lost converting to a float N is accepted.
func fits[N nbt.Number](t nbt.Tag, n N) bool {
	switch v := t.(type) {
	case nbt.Float, nbt.Double:
		f, _ := nbt.NumAs[float64](v)
		if isFloat[N]() {
			return !math.IsInf(float64(n), 0) || math.IsInf(f, 0)
		}
		return float64(n) == math.Trunc(f)
	default:
		if isFloat[N]() {
			return true
		}
		i, _ := nbt.NumAs[int64](v)
		return int64(n) == i
	}
}

func isFloat[N nbt.Number]() bool {
	var half N = 1
	half /= 2
	return half != 0
}

// ============================================================
// Scanning
// ============================================================

// peek returns the next byte without consuming it, or eof at the end of
// input or after a read failure.
func (d *Decoder) peek() int {
	if d.err != nil {
		return eof
	}
	c, err := d.r.ReadByte()
	if err != nil {
		if err != io.EOF {
			d.err = d.ioError("read failed", err)
		}
		return eof
	}
	if err := d.r.UnreadByte(); err != nil {
		d.err = d.ioError("unread failed", err)
		return eof
	}
	return int(c)
}

// next consumes and returns the next byte, or eof.
func (d *Decoder) next() int {
	c := d.peek()
	if c != eof {
		_, _ = d.r.ReadByte()
		d.off++
	}
	return c
}

func (d *Decoder) skipSpace() {
	for {
		switch d.peek() {
		case ' ', '\t', '\r', '\n':
			d.next()
		default:
			return
		}
	}
}

func (d *Decoder) expect(want byte) error {
	if c := d.peek(); c != int(want) {
		return d.unexpected(c, fmt.Sprintf("%q", want))
	}
	d.next()
	return nil
}

// token reads a maximal run of unquoted-token bytes.
func (d *Decoder) token() string {
	var sb strings.Builder
	for c := d.peek(); isTokenByte(c); c = d.peek() {
		sb.WriteByte(byte(c))
		d.next()
	}
	return sb.String()
}

func isTokenByte(c int) bool {
	return c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' ||
		c == '_' || c == '-' || c == '.' || c == '+'
}

func (d *Decoder) enter() error {
	d.depth++
	if d.depth > d.max {
		return d.formatError(d.off, "nesting deeper than %d", d.max)
	}
	return nil
}

func (d *Decoder) leave() {
	d.depth--
}

// ============================================================
// Errors
// ============================================================

func (d *Decoder) formatError(off int64, format string, args ...any) error {
	return &SyntaxError{Offset: off, Msg: fmt.Sprintf(format, args...), Err: nbt.ErrFormat}
}

// ioError reports that the input ran out or failed. A pending read failure
// takes precedence over the caller's message.
func (d *Decoder) ioError(msg string, cause error) error {
	if d.err != nil {
		return d.err
	}
	return &SyntaxError{Offset: d.off, Msg: msg, Err: fmt.Errorf("%w: %w", nbt.ErrIO, cause)}
}

func (d *Decoder) unexpected(c int, want string) error {
	if c == eof {
		return d.ioError("unexpected end of input, expected "+want, io.ErrUnexpectedEOF)
	}
	return d.formatError(d.off, "unexpected %s, expected %s", describe(c), want)
}

func describe(c int) string {
	if c == eof {
		return "end of input"
	}
	return fmt.Sprintf("%q", []byte{byte(c)})
}

// ============================================================
// Values
// ============================================================

func (d *Decoder) value() (nbt.Tag, error) {
	switch c := d.peek(); c {
	case '"', '\'':
		s, err := d.quoted()
		if err != nil {
			return nil, err
		}
		return nbt.String(s), nil
	case '{':
		comp, err := d.compound()
		if err != nil {
			return nil, err
		}
		return comp, nil
	case '[':
		return d.listOrArray()
	default:
		start := d.off
		tok := d.token()
		if tok == "" {
			return nil, d.unexpected(c, "value")
		}
		return resolve(tok, start)
	}
}

// quoted reads a string delimited by the quote byte under the cursor.
func (d *Decoder) quoted() (string, error) {
	start := d.off
	mark := d.next()
	var sb strings.Builder
	for {
		c := d.next()
		switch c {
		case eof:
			return "", d.ioError(fmt.Sprintf("unterminated string starting at offset %d", start), io.ErrUnexpectedEOF)
		case mark:
			return sb.String(), nil
		case '\\':
			e := d.next()
			if e == eof {
				return "", d.ioError(fmt.Sprintf("unterminated string starting at offset %d", start), io.ErrUnexpectedEOF)
			}
			b, ok := unescape(e)
			if !ok {
				return "", d.formatError(d.off-2, "invalid escape \\%c", e)
			}
			sb.WriteByte(b)
		default:
			sb.WriteByte(byte(c))
		}
	}
}

func unescape(c int) (byte, bool) {
	switch c {
	case '\'', '"', '?', '\\':
		return byte(c), true
	case 'a':
		return '\a', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case 'v':
		return '\v', true
	}
	return 0, false
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// resolve types an unquoted token by its suffix. The remainder must parse
// completely.
func resolve(tok string, off int64) (nbt.Tag, error) {
	switch tok {
	case "true":
		return nbt.Byte(1), nil
	case "false":
		return nbt.Byte(0), nil
	}

	var (
		t    nbt.Tag
		err  error
		body = tok[:len(tok)-1]
	)
	switch lower(tok[len(tok)-1]) {
	case 'b':
		t, err = parseInt[nbt.Byte](body, 8)
	case 's':
		t, err = parseInt[nbt.Short](body, 16)
	case 'l':
		t, err = parseInt[nbt.Long](body, 64)
	case 'f':
		t, err = parseFloat[nbt.Float](body, 32)
	case 'd':
		t, err = parseFloat[nbt.Double](body, 64)
	default:
		if strings.Contains(tok, ".") {
			t, err = parseFloat[nbt.Double](tok, 64)
		} else {
			t, err = parseInt[nbt.Int](tok, 32)
		}
	}
	if err != nil {
		return nil, &SyntaxError{Offset: off, Msg: fmt.Sprintf("invalid number %q", tok), Err: nbt.ErrFormat}
	}
	return t, nil
}

func parseInt[T ~int8 | ~int16 | ~int32 | ~int64](s string, bits int) (T, error) {
	if !plainNumber(s) {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseInt(s, 10, bits)
	return T(v), err
}

func parseFloat[T ~float32 | ~float64](s string, bits int) (T, error) {
	if !plainNumber(s) {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseFloat(s, bits)
	return T(v), err
}

// plainNumber rejects a leading '+' and a 0x prefix, which strconv accepts
// but the text format does not.
func plainNumber(s string) bool {
	if strings.HasPrefix(s, "+") {
		return false
	}
	s = strings.TrimPrefix(s, "-")
	return len(s) < 2 || s[0] != '0' || lower(s[1]) != 'x'
}

func (d *Decoder) compound() (*nbt.Compound, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	d.next() // '{'
	c := nbt.NewCompound()
	d.skipSpace()
	if d.peek() == '}' {
		d.next()
		return c, nil
	}
	for {
		name, err := d.name()
		if err != nil {
			return nil, err
		}
		d.skipSpace()
		if err := d.expect(':'); err != nil {
			return nil, err
		}
		d.skipSpace()
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		c.Set(name, v)

		d.skipSpace()
		switch ch := d.peek(); ch {
		case '}':
			d.next()
			return c, nil
		case ',':
			d.next()
			d.skipSpace()
		default:
			return nil, d.unexpected(ch, "',' or '}'")
		}
	}
}

// name reads a compound key: quoted, or a possibly empty unquoted token.
func (d *Decoder) name() (string, error) {
	if c := d.peek(); c == '"' || c == '\'' {
		return d.quoted()
	}
	return d.token(), nil
}

func (d *Decoder) listOrArray() (nbt.Tag, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	d.next() // '['
	var first nbt.Tag
	if c := d.peek(); c == 'B' || c == 'I' || c == 'L' {
		start := d.off
		d.next()
		if d.peek() == ';' {
			d.next()
			return d.array(byte(c))
		}
		// Not an array header; the letter starts the first element.
		t, err := resolve(string(rune(c))+d.token(), start)
		if err != nil {
			return nil, err
		}
		first = t
	} else {
		d.skipSpace()
		if d.peek() == ']' {
			d.next()
			return nbt.EmptyList(), nil
		}
		t, err := d.value()
		if err != nil {
			return nil, err
		}
		first = t
	}
	return d.list(first)
}

// list reads the remaining elements of a list whose first element fixes
// the element type.
func (d *Decoder) list(first nbt.Tag) (nbt.Tag, error) {
	tags := []nbt.Tag{first}
	for {
		d.skipSpace()
		switch c := d.peek(); c {
		case ']':
			d.next()
			l, err := nbt.MakeList(first.Type(), tags)
			if err != nil {
				return nil, err
			}
			return l, nil
		case ',':
			d.next()
			d.skipSpace()
			start := d.off
			v, err := d.value()
			if err != nil {
				return nil, err
			}
			if v.Type() != first.Type() {
				return nil, d.formatError(start, "list element %d is %s, want %s", len(tags), v.Type(), first.Type())
			}
			tags = append(tags, v)
		default:
			return nil, d.unexpected(c, "',' or ']'")
		}
	}
}

func (d *Decoder) array(kind byte) (nbt.Tag, error) {
	switch kind {
	case 'B':
		return arrayTag(readArray[int8, nbt.ByteArray](d, 8, 'b'))
	case 'I':
		return arrayTag(readArray[int32, nbt.IntArray](d, 32, 0))
	default:
		return arrayTag(readArray[int64, nbt.LongArray](d, 64, 'l'))
	}
}

func arrayTag[A nbt.Tag](a A, err error) (nbt.Tag, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}

// readArray reads the comma-separated elements of a typed array up to the
// closing bracket. An element may carry the suffix matching the array type;
// byte arrays also accept true and false.
func readArray[T ~int8 | ~int32 | ~int64, A ~[]T](d *Decoder, bits int, suffix byte) (A, error) {
	out := A{}
	d.skipSpace()
	if d.peek() == ']' {
		d.next()
		return out, nil
	}
	for {
		start := d.off
		tok := d.token()
		if tok == "" {
			return nil, d.unexpected(d.peek(), "number")
		}
		v, err := arrayElem[T](tok, bits, suffix)
		if err != nil {
			return nil, &SyntaxError{Offset: start, Msg: fmt.Sprintf("invalid array element %q", tok), Err: nbt.ErrFormat}
		}
		out = append(out, v)

		d.skipSpace()
		switch c := d.peek(); c {
		case ']':
			d.next()
			return out, nil
		case ',':
			d.next()
			d.skipSpace()
		default:
			return nil, d.unexpected(c, "',' or ']'")
		}
	}
}

func arrayElem[T ~int8 | ~int32 | ~int64](tok string, bits int, suffix byte) (T, error) {
	if suffix == 'b' {
		switch tok {
		case "true":
			return 1, nil
		case "false":
			return 0, nil
		}
	}
	if suffix != 0 && lower(tok[len(tok)-1]) == suffix {
		tok = tok[:len(tok)-1]
	}
	return parseInt[T](tok, bits)
}
