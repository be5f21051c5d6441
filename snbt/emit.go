package snbt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Neumenon/nbt/nbt"
)

// Writer configures SNBT output. Writers are plain values; copy a preset and
// change fields to customize it. The zero Writer writes inline output with
// no numeric suffixes, which does not read back with the original types.
type Writer struct {
	// Indent is written once per nesting level after a line feed.
	Indent string
	// LineFeed breaks compounds and structured lists over lines.
	LineFeed bool
	// Space writes a space after ':', ',' and an array's ';'.
	Space bool
	// Escape writes control characters as C escapes. When false only the
	// quote character and backslash are escaped.
	Escape bool

	ByteSuffix   string
	ShortSuffix  string
	IntSuffix    string
	LongSuffix   string
	FloatSuffix  string
	DoubleSuffix string

	// FloatFormat is the strconv.FormatFloat verb; 0 means 'g'.
	FloatFormat byte
	// FloatPrecision is the strconv.FormatFloat precision; values <= 0
	// select the shortest representation that reads back exactly.
	FloatPrecision int

	// EndTag is written for an End value unless EndTagError is set, in
	// which case writing an End value fails.
	EndTag      string
	EndTagError bool
}

// DefaultWriter returns the standard configuration: line-wrapped and
// spaced, four-space indent.
func DefaultWriter() Writer {
	return Writer{
		Indent:       "    ",
		LineFeed:     true,
		Space:        true,
		Escape:       true,
		ByteSuffix:   "b",
		ShortSuffix:  "s",
		IntSuffix:    "",
		LongSuffix:   "L",
		FloatSuffix:  "f",
		DoubleSuffix: "d",
		EndTag:       "(End)",
	}
}

// NoLineFeedWriter returns DefaultWriter with everything on one line.
func NoLineFeedWriter() Writer {
	w := DefaultWriter()
	w.LineFeed = false
	return w
}

// CompactWriter returns NoLineFeedWriter without optional spaces.
func CompactWriter() Writer {
	w := NoLineFeedWriter()
	w.Space = false
	return w
}

// Marshal formats t with DefaultWriter.
func Marshal(t nbt.Tag) (string, error) {
	return DefaultWriter().Marshal(t)
}

// MarshalCompact formats t with CompactWriter.
func MarshalCompact(t nbt.Tag) (string, error) {
	return CompactWriter().Marshal(t)
}

// Marshal formats t as a string.
func (w Writer) Marshal(t nbt.Tag) (string, error) {
	var sb strings.Builder
	if err := w.Write(&sb, t); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write formats t to out.
func (w Writer) Write(out io.Writer, t nbt.Tag) error {
	e := &emitter{w: w, out: bufio.NewWriter(out)}
	if err := e.tag(t, 0); err != nil {
		return err
	}
	if err := e.out.Flush(); err != nil {
		return fmt.Errorf("snbt: write: %w: %w", nbt.ErrIO, err)
	}
	return nil
}

// emitter writes into a bufio.Writer, whose first error is reported by
// Flush.
type emitter struct {
	w   Writer
	out *bufio.Writer
	num []byte
}

func (e *emitter) tag(t nbt.Tag, depth int) error {
	switch v := t.(type) {
	case nbt.End:
		if e.w.EndTagError {
			return fmt.Errorf("snbt: %w: End tag has no text form", nbt.ErrFormat)
		}
		e.out.WriteString(e.w.EndTag)
	case nbt.Byte:
		e.int(int64(v), e.w.ByteSuffix)
	case nbt.Short:
		e.int(int64(v), e.w.ShortSuffix)
	case nbt.Int:
		e.int(int64(v), e.w.IntSuffix)
	case nbt.Long:
		e.int(int64(v), e.w.LongSuffix)
	case nbt.Float:
		e.float(float64(v), 32, e.w.FloatSuffix)
	case nbt.Double:
		e.float(float64(v), 64, e.w.DoubleSuffix)
	case nbt.String:
		e.str(string(v))
	case nbt.ByteArray:
		writeArray(e, 'B', v)
	case nbt.IntArray:
		writeArray(e, 'I', v)
	case nbt.LongArray:
		writeArray(e, 'L', v)
	case nbt.List:
		return e.list(v, depth)
	case *nbt.Compound:
		return e.compound(v, depth)
	default:
		return fmt.Errorf("snbt: %w: cannot write %T", nbt.ErrFormat, t)
	}
	return nil
}

func (e *emitter) int(v int64, suffix string) {
	e.num = strconv.AppendInt(e.num[:0], v, 10)
	e.out.Write(e.num)
	e.out.WriteString(suffix)
}

func (e *emitter) float(v float64, bits int, suffix string) {
	verb := e.w.FloatFormat
	if verb == 0 {
		verb = 'g'
	}
	prec := e.w.FloatPrecision
	if prec <= 0 {
		prec = -1
	}
	e.num = strconv.AppendFloat(e.num[:0], v, verb, prec, bits)
	e.out.Write(e.num)
	e.out.WriteString(suffix)
}

func (e *emitter) space() {
	if e.w.Space {
		e.out.WriteByte(' ')
	}
}

func (e *emitter) lineFeed(depth int) {
	if !e.w.LineFeed {
		return
	}
	e.out.WriteByte('\n')
	for range depth {
		e.out.WriteString(e.w.Indent)
	}
}

func (e *emitter) commaSpace() {
	e.out.WriteByte(',')
	e.space()
}

func (e *emitter) commaLineFeed(depth int) {
	e.out.WriteByte(',')
	if e.w.LineFeed {
		e.lineFeed(depth)
	} else {
		e.space()
	}
}

// str writes s quoted. Double quotes are used unless s contains a double
// quote and no single quote.
func (e *emitter) str(s string) {
	mark := byte('"')
	if strings.IndexByte(s, '"') >= 0 && strings.IndexByte(s, '\'') < 0 {
		mark = '\''
	}
	e.out.WriteByte(mark)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !e.w.Escape {
			if c == mark || c == '\\' {
				e.out.WriteByte('\\')
			}
			e.out.WriteByte(c)
			continue
		}
		switch c {
		case '\'', '"':
			if c == mark {
				e.out.WriteByte('\\')
			}
			e.out.WriteByte(c)
		case '\\':
			e.out.WriteString(`\\`)
		case '\a':
			e.out.WriteString(`\a`)
		case '\b':
			e.out.WriteString(`\b`)
		case '\f':
			e.out.WriteString(`\f`)
		case '\n':
			e.out.WriteString(`\n`)
		case '\r':
			e.out.WriteString(`\r`)
		case '\t':
			e.out.WriteString(`\t`)
		case '\v':
			e.out.WriteString(`\v`)
		default:
			e.out.WriteByte(c)
		}
	}
	e.out.WriteByte(mark)
}

// name writes a compound key, bare when it is a non-empty token.
func (e *emitter) name(s string) {
	if isToken(s) {
		e.out.WriteString(s)
		return
	}
	e.str(s)
}

func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenByte(int(s[i])) {
			return false
		}
	}
	return true
}

// writeArray writes [X;a,b,c] on one line. Elements carry no suffix.
func writeArray[T int8 | int32 | int64](e *emitter, kind byte, a []T) {
	e.out.WriteByte('[')
	e.out.WriteByte(kind)
	e.out.WriteByte(';')
	e.space()
	for i, v := range a {
		if i > 0 {
			e.commaSpace()
		}
		e.num = strconv.AppendInt(e.num[:0], int64(v), 10)
		e.out.Write(e.num)
	}
	e.out.WriteByte(']')
}

// wraps reports whether list elements of type t go on separate lines.
func wraps(t nbt.TagType) bool {
	switch t {
	case nbt.TagCompound, nbt.TagList, nbt.TagString,
		nbt.TagByteArray, nbt.TagIntArray, nbt.TagLongArray:
		return true
	}
	return false
}

func (e *emitter) list(l nbt.List, depth int) error {
	e.out.WriteByte('[')
	if n := l.Len(); n > 0 {
		wrap := wraps(l.ElemType())
		if wrap {
			e.lineFeed(depth + 1)
		}
		for i := range n {
			if i > 0 {
				if wrap {
					e.commaLineFeed(depth + 1)
				} else {
					e.commaSpace()
				}
			}
			if err := e.tag(l.Elem(i), depth+1); err != nil {
				return err
			}
		}
		if wrap {
			e.lineFeed(depth)
		}
	}
	e.out.WriteByte(']')
	return nil
}

func (e *emitter) compound(c *nbt.Compound, depth int) error {
	e.out.WriteByte('{')
	if c.Len() > 0 {
		e.lineFeed(depth + 1)
		i := 0
		for name, v := range c.All() {
			if i > 0 {
				e.commaLineFeed(depth + 1)
			}
			i++
			e.name(name)
			e.out.WriteByte(':')
			e.space()
			if err := e.tag(v, depth+1); err != nil {
				return err
			}
		}
		e.lineFeed(depth)
	}
	e.out.WriteByte('}')
	return nil
}
