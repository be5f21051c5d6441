package snbt

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// WriterConfig is the TOML form of a Writer. Preset selects the starting
// point ("default", "no-line-feed" or "compact"); every other field
// overrides the preset only when present.
//
//	preset = "compact"
//	float_format = "e"
//	float_precision = 6
//
//	[suffixes]
//	long = "l"
type WriterConfig struct {
	Preset         string   `toml:"preset"`
	Indent         *string  `toml:"indent"`
	LineFeed       *bool    `toml:"line_feed"`
	Space          *bool    `toml:"space"`
	Escape         *bool    `toml:"escape"`
	FloatFormat    *string  `toml:"float_format"`
	FloatPrecision *int     `toml:"float_precision"`
	EndTag         *string  `toml:"end_tag"`
	EndTagError    *bool    `toml:"end_tag_error"`
	Suffixes       Suffixes `toml:"suffixes"`
}

// Suffixes overrides the numeric suffixes of a preset.
type Suffixes struct {
	Byte   *string `toml:"byte"`
	Short  *string `toml:"short"`
	Int    *string `toml:"int"`
	Long   *string `toml:"long"`
	Float  *string `toml:"float"`
	Double *string `toml:"double"`
}

// LoadWriterConfig reads a TOML writer configuration from path.
func LoadWriterConfig(path string) (Writer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Writer{}, fmt.Errorf("snbt: cannot read %s: %w", path, err)
	}
	w, err := ParseWriterConfig(data)
	if err != nil {
		return Writer{}, fmt.Errorf("%w (in %s)", err, path)
	}
	return w, nil
}

// ParseWriterConfig builds a Writer from TOML. Unknown keys are rejected.
func ParseWriterConfig(data []byte) (Writer, error) {
	var c WriterConfig
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return Writer{}, fmt.Errorf("snbt: config parse error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Writer{}, fmt.Errorf("snbt: unknown config keys: %s", strings.Join(keys, ", "))
	}
	return c.Writer()
}

// Writer applies c to its preset.
func (c WriterConfig) Writer() (Writer, error) {
	var w Writer
	switch c.Preset {
	case "", "default":
		w = DefaultWriter()
	case "no-line-feed":
		w = NoLineFeedWriter()
	case "compact":
		w = CompactWriter()
	default:
		return Writer{}, fmt.Errorf("snbt: unknown preset %q", c.Preset)
	}

	set(&w.Indent, c.Indent)
	set(&w.LineFeed, c.LineFeed)
	set(&w.Space, c.Space)
	set(&w.Escape, c.Escape)
	set(&w.FloatPrecision, c.FloatPrecision)
	set(&w.EndTag, c.EndTag)
	set(&w.EndTagError, c.EndTagError)
	set(&w.ByteSuffix, c.Suffixes.Byte)
	set(&w.ShortSuffix, c.Suffixes.Short)
	set(&w.IntSuffix, c.Suffixes.Int)
	set(&w.LongSuffix, c.Suffixes.Long)
	set(&w.FloatSuffix, c.Suffixes.Float)
	set(&w.DoubleSuffix, c.Suffixes.Double)

	if c.FloatFormat != nil {
		switch f := *c.FloatFormat; f {
		case "e", "E", "f", "g", "G":
			w.FloatFormat = f[0]
		default:
			return Writer{}, fmt.Errorf("snbt: float_format must be one of e, E, f, g, G; got %q", f)
		}
	}
	return w, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
