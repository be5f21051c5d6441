package nbt

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// UUIDFromIntArray decodes a UUID stored as four ints, most significant
// first.
func UUIDFromIntArray(a IntArray) (uuid.UUID, error) {
	if len(a) != 4 {
		return uuid.Nil, fmt.Errorf("nbt: %w: uuid needs 4 ints, got %d", ErrFormat, len(a))
	}
	var u uuid.UUID
	for i, v := range a {
		binary.BigEndian.PutUint32(u[i*4:], uint32(v))
	}
	return u, nil
}

// IntArrayFromUUID encodes u as four ints, most significant first.
func IntArrayFromUUID(u uuid.UUID) IntArray {
	a := make(IntArray, 4)
	for i := range a {
		a[i] = int32(binary.BigEndian.Uint32(u[i*4:]))
	}
	return a
}

// ParseUUID parses the canonical string form of a UUID into its IntArray
// encoding.
func ParseUUID(s string) (IntArray, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("nbt: %w: %w", ErrFormat, err)
	}
	return IntArrayFromUUID(u), nil
}

// UUIDOf reads the UUID stored under name in the Compound t.
func UUIDOf(t Tag, name string) (uuid.UUID, error) {
	a, err := GetAs[IntArray](t, name)
	if err != nil {
		return uuid.Nil, err
	}
	return UUIDFromIntArray(a)
}
