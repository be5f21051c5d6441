package nbt

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
)

// ============================================================
// JSON Bridge Tests
// ============================================================

func TestToJSON(t *testing.T) {
	c := NewCompound(
		E("name", String("Steve")),
		E("level", Int(3)),
		E("pos", DoubleList{1.5, 2}),
		E("bytes", ByteArray{-1, 2}),
		E("empty", EndList{}),
	)

	data, err := ToJSON(c)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	want := `{"bytes":[-1,2],"empty":[],"level":3,"name":"Steve","pos":[1.5,2]}`
	if string(data) != want {
		t.Errorf("got  %s\nwant %s", data, want)
	}
}

func TestFromJSON(t *testing.T) {
	tag, err := FromJSON([]byte(`{
		"small": 5,
		"big": 10000000000,
		"frac": 0.5,
		"flag": true,
		"name": "x",
		"mixed": [1, 2.5],
		"ints": [1, 2, 3],
		"objs": [{"a": 1}, {}],
		"none": []
	}`))
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	tests := []struct {
		key  string
		want Tag
	}{
		{"small", Int(5)},
		{"big", Long(10000000000)},
		{"frac", Double(0.5)},
		{"flag", Byte(1)},
		{"name", String("x")},
		{"mixed", DoubleList{1, 2.5}},
		{"ints", IntList{1, 2, 3}},
		{"objs", CompoundList{NewCompound(E("a", Int(1))), NewCompound()}},
		{"none", EndList{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := Find(tag).Get(tt.key).Tag()
			if !ok {
				t.Fatalf("missing %q", tt.key)
			}
			if !Equal(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"null", `null`},
		{"null member", `{"a": null}`},
		{"mixed list", `[1, "a"]`},
		{"syntax", `{"a":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.input))
			if !errors.Is(err, ErrFormat) {
				t.Errorf("expected ErrFormat, got %v", err)
			}
		})
	}
}

func TestJSON_StableThroughTree(t *testing.T) {
	src := `{"a":[{"b":"c"}],"d":[1,2],"e":{"f":1.5}}`
	tag, err := FromJSON([]byte(src))
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	out, err := ToJSON(tag)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	var a, b any
	if err := json.Unmarshal([]byte(src), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(out, &b); err != nil {
		t.Fatal(err)
	}
	if !Equal(mustPlain(t, a), mustPlain(t, b)) {
		t.Errorf("JSON changed: %s", out)
	}
}

func mustPlain(t *testing.T, v any) Tag {
	t.Helper()
	tag, err := FromPlain(v)
	if err != nil {
		t.Fatalf("FromPlain failed: %v", err)
	}
	return tag
}

// ============================================================
// CBOR Bridge Tests
// ============================================================

func TestCBOR_RoundTrip(t *testing.T) {
	c := NewCompound(
		E("id", String("minecraft:stone")),
		E("count", Int(64)),
		E("big", Long(math.MaxInt64)),
		E("neg", Long(math.MinInt64)),
		E("ratio", Double(0.25)),
		E("tags", StringList{"a", "b"}),
		E("nested", NewCompound(E("x", Int(-1)))),
	)

	data, err := MarshalCBOR(c)
	if err != nil {
		t.Fatalf("MarshalCBOR failed: %v", err)
	}
	got, err := UnmarshalCBOR(data)
	if err != nil {
		t.Fatalf("UnmarshalCBOR failed: %v", err)
	}
	if !Equal(c, got) {
		t.Errorf("CBOR round trip mismatch: %#v", got)
	}
}

func TestCBOR_Canonical(t *testing.T) {
	a := NewCompound(E("b", Int(1)), E("a", Int(2)))
	b := NewCompound(E("a", Int(2)), E("b", Int(1)))

	da, err := MarshalCBOR(a)
	if err != nil {
		t.Fatalf("MarshalCBOR failed: %v", err)
	}
	db, _ := MarshalCBOR(b)
	if string(da) != string(db) {
		t.Error("CBOR encoding should be canonical")
	}
}

func TestCBOR_NarrowIntsWiden(t *testing.T) {
	data, err := MarshalCBOR(NewCompound(E("b", Byte(5)), E("s", Short(-3))))
	if err != nil {
		t.Fatalf("MarshalCBOR failed: %v", err)
	}
	got, err := UnmarshalCBOR(data)
	if err != nil {
		t.Fatalf("UnmarshalCBOR failed: %v", err)
	}
	if v, ok := GetIf[Int](got, "b"); !ok || v != 5 {
		t.Errorf("b = %v, %v", v, ok)
	}
	if v, ok := GetIf[Int](got, "s"); !ok || v != -3 {
		t.Errorf("s = %v, %v", v, ok)
	}
}

func TestCBOR_Garbage(t *testing.T) {
	_, err := UnmarshalCBOR([]byte{0xFF, 0x00})
	if !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}

// ============================================================
// UUID Tests
// ============================================================

func TestUUID_RoundTrip(t *testing.T) {
	u := uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")
	a := IntArrayFromUUID(u)

	want := IntArray{0x069a79f4, 0x44e94726, -1514210135, 0x0e38aaf5}
	if !Equal(a, want) {
		t.Errorf("IntArrayFromUUID = %v, want %v", a, want)
	}

	back, err := UUIDFromIntArray(a)
	if err != nil {
		t.Fatalf("UUIDFromIntArray failed: %v", err)
	}
	if back != u {
		t.Errorf("got %s, want %s", back, u)
	}

	parsed, err := ParseUUID(u.String())
	if err != nil || !Equal(parsed, a) {
		t.Errorf("ParseUUID = %v, %v", parsed, err)
	}
}

func TestUUID_Errors(t *testing.T) {
	if _, err := UUIDFromIntArray(IntArray{1, 2, 3}); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
	if _, err := ParseUUID("not-a-uuid"); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}

	c := NewCompound(E("UUID", IntArray{0, 0, 0, 1}), E("Name", String("x")))
	u, err := UUIDOf(c, "UUID")
	if err != nil {
		t.Fatalf("UUIDOf failed: %v", err)
	}
	if u[15] != 1 {
		t.Errorf("unexpected uuid %s", u)
	}
	if _, err := UUIDOf(c, "Name"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
	if _, err := UUIDOf(c, "Owner"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

// ============================================================
// Hash Tests
// ============================================================

func TestHash(t *testing.T) {
	a := NewCompound(E("x", Int(1)), E("y", StringList{"a"}))
	b := NewCompound(E("y", StringList{"a"}), E("x", Int(1)))

	ha, err := HashHex(Named("r", a))
	if err != nil {
		t.Fatalf("HashHex failed: %v", err)
	}
	hb, _ := HashHex(Named("r", b))
	if ha != hb {
		t.Error("hash should not depend on insertion order")
	}
	if len(ha) != 64 {
		t.Errorf("hex length = %d", len(ha))
	}

	hc, _ := HashHex(Named("other", a))
	if ha == hc {
		t.Error("root name should affect the hash")
	}

	// SHA-256 of 0a 00 00 00.
	empty, err := HashHex(Root(NewCompound()))
	if err != nil {
		t.Fatalf("HashHex failed: %v", err)
	}
	if empty != "075de2b906dbd7066da008cab735bee896370154603579a50122f9b88545bd45" {
		t.Errorf("empty document hash = %s", empty)
	}
}
