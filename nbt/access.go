package nbt

import (
	"reflect"
)

// ============================================================
// Typed accessors
// ============================================================
//
// These fail with a wrapped ErrTypeMismatch, ErrKeyNotFound or
// ErrIndexOutOfRange. The Maybe family in maybe.go never fails.

func nameOf[T any]() string {
	return reflect.TypeFor[T]().String()
}

// As returns t as the payload type T.
func As[T Tag](t Tag) (T, error) {
	v, ok := t.(T)
	if !ok {
		var zero T
		return zero, mismatch(nameOf[T](), t)
	}
	return v, nil
}

// GetAs returns the entry name of the Compound t as the payload type T.
func GetAs[T Tag](t Tag, name string) (T, error) {
	var zero T
	c, err := As[*Compound](t)
	if err != nil {
		return zero, err
	}
	v, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	return As[T](v)
}

// At returns element i of the array tag t. A selects the array type:
//
//	v, err := nbt.At[nbt.IntArray](tag, 2)
func At[A interface {
	Tag
	~[]E
}, E int8 | int32 | int64](t Tag, i int) (E, error) {
	a, err := As[A](t)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(a) {
		return 0, outOfRange(i, len(a))
	}
	return a[i], nil
}

// Elems returns the elements of l, which must be a list of T.
func Elems[T Tag](l List) ([]T, error) {
	if l == nil {
		return nil, mismatch("[]"+nameOf[T](), nil)
	}
	s, ok := l.elems().([]T)
	if !ok {
		return nil, mismatch("[]"+nameOf[T](), l)
	}
	return s, nil
}

// ListAt returns element i of l, which must be a list of T.
func ListAt[T Tag](l List, i int) (T, error) {
	var zero T
	s, err := Elems[T](l)
	if err != nil {
		return zero, err
	}
	if i < 0 || i >= len(s) {
		return zero, outOfRange(i, len(s))
	}
	return s[i], nil
}

// Number is the set of Go types a numeric tag converts to.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// NumAs converts whichever numeric variant t holds to N using Go's
// conversion rules. Non-numeric tags fail with ErrNotANumber.
func NumAs[N Number](t Tag) (N, error) {
	switch v := t.(type) {
	case Byte:
		return N(v), nil
	case Short:
		return N(v), nil
	case Int:
		return N(v), nil
	case Long:
		return N(v), nil
	case Float:
		return N(v), nil
	case Double:
		return N(v), nil
	default:
		return 0, mismatchNumber(t)
	}
}

// IsNumeric reports whether t is Byte, Short, Int, Long, Float or Double.
func IsNumeric(t Tag) bool {
	if t == nil {
		return false
	}
	return t.Type() >= TagByte && t.Type() <= TagDouble
}
