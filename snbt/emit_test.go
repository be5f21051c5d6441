package snbt

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Neumenon/nbt/nbt"
)

// ============================================================
// Writer Layout Tests
// ============================================================

func layoutTree() *nbt.Compound {
	return nbt.NewCompound(
		nbt.E("a", nbt.Int(1)),
		nbt.E("b", nbt.IntList{1, 2}),
		nbt.E("c", nbt.NewCompound()),
		nbt.E("d", nbt.StringList{"x", "y"}),
		nbt.E("e", nbt.IntArray{1, 2}),
	)
}

func TestWriter_Presets(t *testing.T) {
	tests := []struct {
		name string
		w    Writer
		want string
	}{
		{"default", DefaultWriter(), "{\n" +
			"    a: 1,\n" +
			"    b: [1, 2],\n" +
			"    c: {},\n" +
			"    d: [\n" +
			"        \"x\",\n" +
			"        \"y\"\n" +
			"    ],\n" +
			"    e: [I; 1, 2]\n" +
			"}"},
		{"no line feed", NoLineFeedWriter(), `{a: 1, b: [1, 2], c: {}, d: ["x", "y"], e: [I; 1, 2]}`},
		{"compact", CompactWriter(), `{a:1,b:[1,2],c:{},d:["x","y"],e:[I;1,2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.w.Marshal(layoutTree())
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestWriter_NestedIndent(t *testing.T) {
	tree := nbt.NewCompound(
		nbt.E("p", nbt.NewCompound(nbt.E("q", nbt.Byte(1)))),
		nbt.E("r", nbt.CompoundList{nbt.NewCompound(nbt.E("s", nbt.Short(2)))}),
	)
	w := DefaultWriter()
	w.Indent = "  "
	got, err := w.Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := "{\n" +
		"  p: {\n" +
		"    q: 1b\n" +
		"  },\n" +
		"  r: [\n" +
		"    {\n" +
		"      s: 2s\n" +
		"    }\n" +
		"  ]\n" +
		"}"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriter_Scalars(t *testing.T) {
	tests := []struct {
		tag  nbt.Tag
		want string
	}{
		{nbt.Byte(-5), "-5b"},
		{nbt.Short(300), "300s"},
		{nbt.Int(10), "10"},
		{nbt.Long(math.MinInt64), "-9223372036854775808L"},
		{nbt.Float(3.14), "3.14f"},
		{nbt.Double(10), "10d"},
		{nbt.Double(0.1), "0.1d"},
		{nbt.Double(1e21), "1e+21d"},
		{nbt.End{}, "(End)"},
		{nbt.EndList{}, "[]"},
		{nbt.IntList{}, "[]"},
		{nbt.ByteArray{}, "[B;]"},
		{nbt.NewCompound(), "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := MarshalCompact(tt.tag)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriter_ByteArrayCompact(t *testing.T) {
	tag, err := Parse("[B;1,2,3]")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	a, ok := tag.(nbt.ByteArray)
	if !ok || len(a) != 3 {
		t.Fatalf("got %#v", tag)
	}
	got, err := MarshalCompact(tag)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got != "[B;1,2,3]" {
		t.Errorf("got %q", got)
	}
}

func TestWriter_EmptyListRoundTrip(t *testing.T) {
	tag, err := Parse("[]")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for _, w := range []Writer{DefaultWriter(), NoLineFeedWriter(), CompactWriter()} {
		got, err := w.Marshal(tag)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if got != "[]" {
			t.Errorf("got %q, want []", got)
		}
	}
}

func TestWriter_EmptyArraySpace(t *testing.T) {
	got, err := NoLineFeedWriter().Marshal(nbt.LongArray{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got != "[L; ]" {
		t.Errorf("got %q", got)
	}
}

// ============================================================
// String Quoting Tests
// ============================================================

func TestWriter_Quoting(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", `"hello"`},
		{"double inside", `say "hi"`, `'say "hi"'`},
		{"single inside", "it's", `"it's"`},
		{"both", `it's "x"`, `"it's \"x\""`},
		{"backslash", `a\b`, `"a\\b"`},
		{"controls", "a\nb\tc\x07", `"a\nb\tc\a"`},
		{"empty", "", `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCompact(nbt.String(tt.in))
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWriter_NoEscape(t *testing.T) {
	w := CompactWriter()
	w.Escape = false

	got, err := w.Marshal(nbt.String("a\nb\\c\"d'"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := "\"a\nb\\\\c\\\"d'\""
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	back, err := Parse(got)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if back != nbt.String("a\nb\\c\"d'") {
		t.Errorf("read back %q", back)
	}
}

func TestWriter_Names(t *testing.T) {
	tree := nbt.NewCompound(
		nbt.E("plain_Name-1.x+", nbt.Int(1)),
		nbt.E("with space", nbt.Int(2)),
		nbt.E("", nbt.Int(3)),
		nbt.E(`q"uote`, nbt.Int(4)),
	)
	got, err := MarshalCompact(tree)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"":3,plain_Name-1.x+:1,'q"uote':4,"with space":2}`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

// ============================================================
// Option Tests
// ============================================================

func TestWriter_Options(t *testing.T) {
	w := CompactWriter()
	w.LongSuffix = "l"
	w.IntSuffix = "i"
	w.FloatFormat = 'e'
	w.FloatPrecision = 2
	w.EndTag = "END"

	got, err := w.Marshal(nbt.NewCompound(
		nbt.E("a", nbt.Long(1)),
		nbt.E("b", nbt.Int(2)),
		nbt.E("c", nbt.Double(1234.5)),
		nbt.E("d", nbt.EndList{nbt.End{}}),
	))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := "{a:1l,b:2i,c:1.23e+03d,d:[END]}"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestWriter_EndTagError(t *testing.T) {
	w := DefaultWriter()
	w.EndTagError = true
	_, err := w.Marshal(nbt.NewCompound(nbt.E("x", nbt.End{})))
	if !errors.Is(err, nbt.ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriter_WriteFailure(t *testing.T) {
	err := DefaultWriter().Write(failWriter{}, nbt.Int(1))
	if !errors.Is(err, nbt.ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}

// ============================================================
// Round Trip Tests
// ============================================================

func roundTripTree() *nbt.Compound {
	return nbt.NewCompound(
		nbt.E("byte", nbt.Byte(-128)),
		nbt.E("short", nbt.Short(math.MaxInt16)),
		nbt.E("int", nbt.Int(math.MinInt32)),
		nbt.E("long", nbt.Long(math.MaxInt64)),
		nbt.E("float", nbt.Float(-0.15625)),
		nbt.E("double", nbt.Double(6.02214076e23)),
		nbt.E("tiny", nbt.Double(5e-324)),
		nbt.E("inf", nbt.Float(float32(math.Inf(1)))),
		nbt.E("string", nbt.String("tab\there \"quoted\" and 'single' \\ done")),
		nbt.E("", nbt.String("empty name")),
		nbt.E("with space", nbt.ByteArray{-1, 0, 1}),
		nbt.E("ints", nbt.IntArray{math.MinInt32, 0}),
		nbt.E("longs", nbt.LongArray{}),
		nbt.E("end", nbt.EndList{}),
		nbt.E("lists", nbt.ListList{nbt.IntList{1}, nbt.EndList{}, nbt.StringList{"s"}}),
		nbt.E("compounds", nbt.CompoundList{nbt.NewCompound(nbt.E("id", nbt.String("minecraft:stone"))), nbt.NewCompound()}),
		nbt.E("floats", nbt.FloatList{0.5, -1}),
		nbt.E("arrays", nbt.IntArrayList{{1}, {}}),
		nbt.E("nested", nbt.NewCompound(nbt.E("deeper", nbt.NewCompound(nbt.E("x", nbt.ShortList{1, 2}))))),
	)
}

func TestRoundTrip_AllPresets(t *testing.T) {
	presets := map[string]Writer{
		"default":      DefaultWriter(),
		"no line feed": NoLineFeedWriter(),
		"compact":      CompactWriter(),
	}
	noEscape := DefaultWriter()
	noEscape.Escape = false
	presets["no escape"] = noEscape

	for name, w := range presets {
		t.Run(name, func(t *testing.T) {
			orig := roundTripTree()
			text, err := w.Marshal(orig)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			back, err := Parse(text)
			if err != nil {
				t.Fatalf("Parse failed: %v\n%s", err, text)
			}
			if !nbt.Equal(orig, back) {
				t.Errorf("round trip mismatch:\n%s", text)
			}
		})
	}
}

func TestRoundTrip_TypedEmptyListBecomesUntyped(t *testing.T) {
	text, err := MarshalCompact(nbt.IntList{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	back, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, ok := back.(nbt.EndList); !ok {
		t.Errorf("got %T, want EndList", back)
	}
}

// ============================================================
// Config Tests
// ============================================================

func TestParseWriterConfig(t *testing.T) {
	w, err := ParseWriterConfig([]byte(`
preset = "compact"
space = true
float_format = "f"
float_precision = 1

[suffixes]
long = "l"
double = "D"
`))
	if err != nil {
		t.Fatalf("ParseWriterConfig failed: %v", err)
	}
	if w.LineFeed || !w.Space || w.LongSuffix != "l" || w.ByteSuffix != "b" {
		t.Errorf("unexpected writer %+v", w)
	}

	got, err := w.Marshal(nbt.NewCompound(nbt.E("a", nbt.Long(1)), nbt.E("b", nbt.Double(2.3))))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got != "{a: 1l, b: 2.3D}" {
		t.Errorf("got %q", got)
	}
}

func TestParseWriterConfig_Defaults(t *testing.T) {
	w, err := ParseWriterConfig(nil)
	if err != nil {
		t.Fatalf("ParseWriterConfig failed: %v", err)
	}
	if w != DefaultWriter() {
		t.Errorf("empty config should yield DefaultWriter, got %+v", w)
	}
}

func TestParseWriterConfig_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown preset", `preset = "fancy"`},
		{"unknown key", `colour = true`},
		{"unknown suffix", "[suffixes]\nbool = \"z\""},
		{"bad float format", `float_format = "x"`},
		{"bad type", `line_feed = "yes"`},
		{"syntax", `preset = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseWriterConfig([]byte(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadWriterConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snbt.toml")
	if err := os.WriteFile(path, []byte("preset = \"no-line-feed\"\nindent = \"\\t\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := LoadWriterConfig(path)
	if err != nil {
		t.Fatalf("LoadWriterConfig failed: %v", err)
	}
	if w.LineFeed || w.Indent != "\t" {
		t.Errorf("unexpected writer %+v", w)
	}

	_, err = LoadWriterConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "cannot read") {
		t.Errorf("expected read error, got %v", err)
	}
}
