package nbt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================
// Plain Go value bridge
// ============================================================
//
// ToPlain and FromPlain convert between tags and the generic Go values used
// by encoding/json and CBOR. The mapping is lossy: numeric widths collapse
// on the way back (integers become Int or Long, floats become Double) and
// booleans become Byte.

// ToPlain converts t to nil, a Go number, string, slice or map[string]any.
func ToPlain(t Tag) any {
	switch v := t.(type) {
	case End:
		return nil
	case Byte:
		return int8(v)
	case Short:
		return int16(v)
	case Int:
		return int32(v)
	case Long:
		return int64(v)
	case Float:
		return float32(v)
	case Double:
		return float64(v)
	case ByteArray:
		return []int8(v)
	case String:
		return string(v)
	case IntArray:
		return []int32(v)
	case LongArray:
		return []int64(v)
	case List:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = ToPlain(v.Elem(i))
		}
		return out
	case *Compound:
		out := make(map[string]any, v.Len())
		for name, e := range v.All() {
			out[name] = ToPlain(e)
		}
		return out
	default:
		return nil
	}
}

// FromPlain converts a generic Go value into a tag. Lists must be
// homogeneous after numeric widening.
func FromPlain(v any) (Tag, error) {
	switch x := v.(type) {
	case nil:
		return nil, formatError("null has no tag equivalent")
	case bool:
		if x {
			return Byte(1), nil
		}
		return Byte(0), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return intTag(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, formatError("invalid number %q", x.String())
		}
		return Double(f), nil
	case int:
		return intTag(int64(x)), nil
	case int64:
		return intTag(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, formatError("integer %d overflows Long", x)
		}
		return intTag(int64(x)), nil
	case float32:
		return Float(x), nil
	case float64:
		return Double(x), nil
	case string:
		return String(x), nil
	case []byte:
		a := make(ByteArray, len(x))
		for i, b := range x {
			a[i] = int8(b)
		}
		return a, nil
	case []any:
		return listFromPlain(x)
	case map[string]any:
		c := NewCompound()
		for k, e := range x {
			t, err := FromPlain(e)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			c.Set(k, t)
		}
		return c, nil
	case map[any]any:
		c := NewCompound()
		for k, e := range x {
			name, ok := k.(string)
			if !ok {
				return nil, formatError("map key %v is not a string", k)
			}
			t, err := FromPlain(e)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", name, err)
			}
			c.Set(name, t)
		}
		return c, nil
	default:
		return nil, formatError("unsupported value type %T", v)
	}
}

func intTag(i int64) Tag {
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return Int(i)
	}
	return Long(i)
}

func listFromPlain(items []any) (List, error) {
	if len(items) == 0 {
		return EmptyList(), nil
	}
	tags := make([]Tag, len(items))
	numeric := true
	widest := TagEnd
	for i, item := range items {
		t, err := FromPlain(item)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		tags[i] = t
		if IsNumeric(t) {
			widest = max(widest, t.Type())
		} else {
			numeric = false
		}
	}
	if numeric {
		for i, t := range tags {
			w, err := widen(t, widest)
			if err != nil {
				return nil, err
			}
			tags[i] = w
		}
	}
	return MakeList(tags[0].Type(), tags)
}

// widen converts the numeric tag t to the numeric type to. The numeric
// TagType ordinals grow with width, so to is never narrower than t.
func widen(t Tag, to TagType) (Tag, error) {
	switch to {
	case TagByte:
		v, err := NumAs[int8](t)
		return Byte(v), err
	case TagShort:
		v, err := NumAs[int16](t)
		return Short(v), err
	case TagInt:
		v, err := NumAs[int32](t)
		return Int(v), err
	case TagLong:
		v, err := NumAs[int64](t)
		return Long(v), err
	case TagFloat:
		v, err := NumAs[float32](t)
		return Float(v), err
	case TagDouble:
		v, err := NumAs[float64](t)
		return Double(v), err
	default:
		return nil, mismatchNumber(t)
	}
}

// ============================================================
// JSON
// ============================================================

// ToJSON encodes t as JSON. Compounds become objects, lists and arrays
// become arrays.
func ToJSON(t Tag) ([]byte, error) {
	data, err := json.Marshal(ToPlain(t))
	if err != nil {
		return nil, fmt.Errorf("nbt: json: %w", err)
	}
	return data, nil
}

// FromJSON decodes JSON into a tag. Integers map to Int when they fit and
// to Long otherwise; other numbers map to Double.
func FromJSON(data []byte) (Tag, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("nbt: %w: json: %w", ErrFormat, err)
	}
	return FromPlain(v)
}
