// nbt - NBT codec CLI tool
//
// Usage:
//
//	nbt print [options] [file]           Print a binary document as SNBT
//	nbt to-nbt [options] [file]          Convert SNBT to a binary document
//	nbt swap-endian [options] [file]     Re-encode a binary document in the other byte order
//	nbt to-json [options] [file]         Convert a binary document to JSON
//	nbt from-json [options] [file]       Convert JSON to a binary document
//	nbt to-cbor [options] [file]         Convert a binary document to canonical CBOR
//	nbt hash [options] [file]            Print the SHA-256 of the canonical encoding
//	nbt region list <file>               List the chunks of a region file
//	nbt region chunk <file> <x> <z>      Print one chunk of a region file as SNBT
//	nbt version                          Print version info
//
// Gzipped binary input is detected automatically. If no file is given,
// reads from stdin.
package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/Neumenon/nbt/nbt"
	"github.com/Neumenon/nbt/region"
	"github.com/Neumenon/nbt/snbt"
)

const version = "0.3.0"

var log = commonlog.GetLogger("nbt")

// flags shared by every command.
type flags struct {
	littleEndian bool
	toLittle     bool
	gzip         bool
	compact      bool
	noLineFeed   bool
	noEscape     bool
	config       string
	name         string
	verbosity    int
	args         []string
}

func parseFlags(args []string) flags {
	var f flags
	for _, arg := range args {
		switch {
		case arg == "--le":
			f.littleEndian = true
		case arg == "--to-le":
			f.toLittle = true
		case arg == "--gzip", arg == "-z":
			f.gzip = true
		case arg == "--compact":
			f.compact = true
		case arg == "--no-line-feed":
			f.noLineFeed = true
		case arg == "--no-escape":
			f.noEscape = true
		case strings.HasPrefix(arg, "--config="):
			f.config = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "--name="):
			f.name = strings.TrimPrefix(arg, "--name=")
		case arg == "-v", arg == "--verbose":
			f.verbosity++
		case arg == "-vv":
			f.verbosity += 2
		case arg == "-" || !strings.HasPrefix(arg, "-"):
			f.args = append(f.args, arg)
		default:
			fatal("unknown option: %s", arg)
		}
	}
	return f
}

func (f flags) order() nbt.Option {
	if f.littleEndian {
		return nbt.WithByteOrder(binary.LittleEndian)
	}
	return nbt.WithByteOrder(binary.BigEndian)
}

func (f flags) writer() snbt.Writer {
	if f.config != "" {
		w, err := snbt.LoadWriterConfig(f.config)
		if err != nil {
			fatal("%v", err)
		}
		return w
	}
	w := snbt.DefaultWriter()
	switch {
	case f.compact:
		w = snbt.CompactWriter()
	case f.noLineFeed:
		w = snbt.NoLineFeedWriter()
	}
	if f.noEscape {
		w.Escape = false
	}
	return w
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	f := parseFlags(os.Args[2:])
	commonlog.Configure(f.verbosity, nil)

	switch cmd {
	case "print", "cat":
		cmdPrint(f)
	case "to-nbt":
		cmdToNBT(f)
	case "swap-endian":
		cmdSwapEndian(f)
	case "to-json":
		cmdToJSON(f)
	case "from-json":
		cmdFromJSON(f)
	case "to-cbor":
		cmdToCBOR(f)
	case "hash":
		cmdHash(f)
	case "region":
		cmdRegion(f)
	case "version", "--version":
		fmt.Printf("nbt %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `nbt - NBT codec CLI tool

Usage:
  nbt print [options] [file]           Print a binary document as SNBT
  nbt to-nbt [options] [file]          Convert SNBT to a binary document
  nbt swap-endian [options] [file]     Re-encode a binary document in the other byte order
  nbt to-json [options] [file]         Convert a binary document to JSON
  nbt from-json [options] [file]       Convert JSON to a binary document
  nbt to-cbor [options] [file]         Convert a binary document to canonical CBOR
  nbt hash [options] [file]            Print the SHA-256 of the canonical encoding
  nbt region list <file>               List the chunks of a region file
  nbt region chunk <file> <x> <z>      Print one chunk of a region file as SNBT
  nbt version                          Print version info

Options:
  --le                Binary input is little-endian (output too, for to-nbt/from-json)
  --to-le             swap-endian: convert big-endian input to little-endian
  --gzip, -z          Gzip binary output
  --compact           Compact SNBT output
  --no-line-feed      Single-line SNBT output
  --no-escape         Do not escape control characters in SNBT strings
  --config=FILE       SNBT writer settings from a TOML file
  --name=NAME         Root name for to-nbt/from-json
  -v, -vv             Log verbosity

Gzipped binary input is detected automatically.
If no file is given, reads from stdin.

Examples:
  nbt print level.dat
  echo '{name:"Steve",pos:[1.5d,2d]}' | nbt to-nbt -z > player.dat
  nbt region list r.0.0.mca
  nbt region chunk r.0.0.mca 3 7 --compact
`)
}

// readInput returns the contents of the single file argument, or stdin.
func readInput(f flags) []byte {
	var r io.Reader = os.Stdin
	if len(f.args) > 0 && f.args[0] != "-" {
		file, err := os.Open(f.args[0])
		if err != nil {
			fatal("open file: %v", err)
		}
		defer file.Close()
		r = file
	}
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	return data
}

// readDocument decodes binary input, gunzipping it first if needed.
func readDocument(f flags) nbt.NBT {
	data := readInput(f)
	var r io.Reader = bytes.NewReader(data)
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		log.Debug("input is gzipped")
		zr, err := gzip.NewReader(r)
		if err != nil {
			fatal("gzip: %v", err)
		}
		defer zr.Close()
		r = zr
	}
	doc, err := nbt.Read(bufio.NewReader(r), f.order())
	if err != nil {
		fatal("decode: %v", err)
	}
	return doc
}

// writeDocument encodes doc to stdout.
func writeDocument(f flags, doc nbt.NBT, opts ...nbt.Option) {
	out := bufio.NewWriter(os.Stdout)
	var w io.Writer = out
	var zw *gzip.Writer
	if f.gzip {
		zw = gzip.NewWriter(out)
		w = zw
	}
	if err := nbt.Write(w, doc, opts...); err != nil {
		fatal("encode: %v", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			fatal("gzip: %v", err)
		}
	}
	if err := out.Flush(); err != nil {
		fatal("write output: %v", err)
	}
}

func printSNBT(f flags, t nbt.Tag) {
	out := bufio.NewWriter(os.Stdout)
	if err := f.writer().Write(out, t); err != nil {
		fatal("format: %v", err)
	}
	out.WriteByte('\n')
	if err := out.Flush(); err != nil {
		fatal("write output: %v", err)
	}
}

// cmdPrint: binary -> SNBT
func cmdPrint(f flags) {
	doc := readDocument(f)
	if doc.Name != "" {
		log.Infof("root name: %q", doc.Name)
	}
	printSNBT(f, doc.Tag)
}

// cmdToNBT: SNBT -> binary
func cmdToNBT(f flags) {
	t, err := snbt.Unmarshal(readInput(f))
	if err != nil {
		fatal("parse: %v", err)
	}
	writeDocument(f, nbt.Named(f.name, t), f.order())
}

// cmdSwapEndian re-encodes in the opposite byte order. Input is big-endian
// unless --le is given.
func cmdSwapEndian(f flags) {
	if f.toLittle && f.littleEndian {
		fatal("--le and --to-le are mutually exclusive")
	}
	doc := readDocument(f)
	to := binary.ByteOrder(binary.LittleEndian)
	if f.littleEndian {
		to = binary.BigEndian
	}
	writeDocument(f, doc, nbt.WithByteOrder(to))
}

// cmdToJSON: binary -> JSON
func cmdToJSON(f flags) {
	doc := readDocument(f)
	data, err := nbt.ToJSON(doc.Tag)
	if err != nil {
		fatal("convert to JSON: %v", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		fatal("indent JSON: %v", err)
	}
	pretty.WriteByte('\n')
	os.Stdout.Write(pretty.Bytes())
}

// cmdFromJSON: JSON -> binary
func cmdFromJSON(f flags) {
	t, err := nbt.FromJSON(readInput(f))
	if err != nil {
		fatal("parse JSON: %v", err)
	}
	writeDocument(f, nbt.Named(f.name, t), f.order())
}

// cmdToCBOR: binary -> CBOR
func cmdToCBOR(f flags) {
	doc := readDocument(f)
	data, err := nbt.MarshalCBOR(doc.Tag)
	if err != nil {
		fatal("convert to CBOR: %v", err)
	}
	os.Stdout.Write(data)
}

func cmdHash(f flags) {
	sum, err := nbt.HashHex(readDocument(f))
	if err != nil {
		fatal("hash: %v", err)
	}
	fmt.Println(sum)
}

func cmdRegion(f flags) {
	if len(f.args) < 2 {
		fatal("region: usage: nbt region list <file> | nbt region chunk <file> <x> <z>")
	}
	sub, path := f.args[0], f.args[1]
	file, err := region.Open(path)
	if err != nil {
		fatal("%v", err)
	}
	defer file.Close()

	switch sub {
	case "list":
		cmdRegionList(file.Reader)
	case "chunk":
		if len(f.args) < 4 {
			fatal("region chunk: missing coordinates")
		}
		x, err := strconv.Atoi(f.args[2])
		if err != nil {
			fatal("region chunk: bad x: %v", err)
		}
		z, err := strconv.Atoi(f.args[3])
		if err != nil {
			fatal("region chunk: bad z: %v", err)
		}
		c, err := file.ReadChunk(x, z)
		if err != nil {
			fatal("%v", err)
		}
		log.Infof("chunk (%d, %d) timestamp %d", x, z, c.Timestamp)
		printSNBT(f, c.Data.Tag)
	default:
		fatal("region: unknown subcommand: %s", sub)
	}
}

func cmdRegionList(r *region.Reader) {
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	fmt.Fprintf(out, "%4s %4s %8s %6s %12s\n", "x", "z", "sector", "count", "timestamp")
	for z := range region.Width {
		for x := range region.Width {
			loc, err := r.Location(x, z)
			if err != nil {
				out.Flush()
				fatal("%v", err)
			}
			if loc.Empty() {
				continue
			}
			ts, err := r.Timestamp(x, z)
			if err != nil {
				out.Flush()
				fatal("%v", err)
			}
			fmt.Fprintf(out, "%4d %4d %8d %6d %12d\n", x, z, loc.Offset, loc.Count, ts)
		}
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "nbt: "+format+"\n", args...)
	os.Exit(1)
}
