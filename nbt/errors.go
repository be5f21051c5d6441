package nbt

import (
	"errors"
	"fmt"
	"io"
)

// Error kinds. Every error returned by this module wraps exactly one of
// these, so callers can classify failures with errors.Is.
var (
	// ErrIO indicates the stream was exhausted or failed mid-field.
	ErrIO = errors.New("i/o error")
	// ErrFormat indicates malformed input: an unknown type ID, a bad
	// escape, an unconsumed numeric suffix, an unexpected character or a
	// heterogeneous list.
	ErrFormat = errors.New("format error")
	// ErrTypeMismatch indicates a typed accessor was used against the
	// wrong variant.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrKeyNotFound indicates a Compound has no entry with the name.
	ErrKeyNotFound = errors.New("key not found")
	// ErrIndexOutOfRange indicates an index beyond a sequence's bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotANumber indicates numeric coercion of a non-numeric tag.
	ErrNotANumber = errors.New("not a number")
	// ErrUnsupportedTag indicates a TagType outside 0-12.
	ErrUnsupportedTag = errors.New("unsupported tag type")
)

func mismatch(want string, got Tag) error {
	return fmt.Errorf("nbt: %w: want %s, got %s", ErrTypeMismatch, want, typeName(got))
}

func outOfRange(i, n int) error {
	return fmt.Errorf("nbt: %w: index %d (len=%d)", ErrIndexOutOfRange, i, n)
}

func unsupported(t TagType) error {
	return fmt.Errorf("nbt: %w: %d", ErrUnsupportedTag, uint8(t))
}

// ioError wraps a stream failure. A clean EOF in the middle of a field is
// reported as io.ErrUnexpectedEOF.
func ioError(op string, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("nbt: %s: %w: %w", op, ErrIO, err)
}

func formatError(format string, args ...any) error {
	return fmt.Errorf("nbt: %w: %s", ErrFormat, fmt.Sprintf(format, args...))
}

func mismatchNumber(got Tag) error {
	return fmt.Errorf("nbt: %w: %s", ErrNotANumber, typeName(got))
}

func badType(t TagType) error {
	return fmt.Errorf("nbt: %w: %w: %d", ErrFormat, ErrUnsupportedTag, uint8(t))
}
