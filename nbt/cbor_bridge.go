package nbt

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("nbt: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("nbt: failed to create CBOR dec mode: %v", err))
	}
	cborDecMode = dm
}

// MarshalCBOR encodes t as canonical CBOR using the ToPlain mapping.
func MarshalCBOR(t Tag) ([]byte, error) {
	data, err := cborEncMode.Marshal(ToPlain(t))
	if err != nil {
		return nil, fmt.Errorf("nbt: %w: cbor: %w", ErrFormat, err)
	}
	return data, nil
}

// UnmarshalCBOR decodes CBOR into a tag using the FromPlain mapping.
func UnmarshalCBOR(data []byte) (Tag, error) {
	var v any
	if err := cborDecMode.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("nbt: %w: cbor: %w", ErrFormat, err)
	}
	return FromPlain(v)
}
