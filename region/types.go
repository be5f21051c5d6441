package region

import (
	"fmt"

	"github.com/Neumenon/nbt/nbt"
)

const (
	// SectorSize is the allocation unit of a region file.
	SectorSize = 4096
	// Width is the number of chunks along each axis of a region.
	Width = 32
	// ChunkCount is the number of chunk slots in a region.
	ChunkCount = Width * Width

	headerSectors = 2
	headerSize    = headerSectors * SectorSize
	entryHeader   = 5
	maxOffset     = 1<<24 - 1
	maxCount      = 1<<8 - 1
)

// ErrChunkNotFound is returned for a chunk slot with no data. It wraps
// nbt.ErrKeyNotFound.
var ErrChunkNotFound = fmt.Errorf("region: chunk not found: %w", nbt.ErrKeyNotFound)

// Compression identifies the scheme a chunk payload is stored with.
type Compression uint8

const (
	GZip         Compression = 1
	Zlib         Compression = 2
	Uncompressed Compression = 3
	LZ4          Compression = 4
	Custom       Compression = 127
)

// externalFlag marks a chunk whose payload lives outside the region file.
const externalFlag = 0x80

func (c Compression) String() string {
	switch c {
	case GZip:
		return "gzip"
	case Zlib:
		return "zlib"
	case Uncompressed:
		return "uncompressed"
	case LZ4:
		return "lz4"
	case Custom:
		return "custom"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression maps a scheme name as printed by String back to its
// value.
func ParseCompression(s string) (Compression, error) {
	for _, c := range []Compression{GZip, Zlib, Uncompressed, LZ4, Custom} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("region: unknown compression %q", s)
}

// Location is a decoded location word.
type Location struct {
	Offset uint32 // first sector
	Count  uint8  // sectors spanned
}

// ParseLocation splits a location word.
func ParseLocation(word uint32) Location {
	return Location{Offset: word >> 8, Count: uint8(word)}
}

// Word packs l back into a location word.
func (l Location) Word() uint32 {
	return l.Offset<<8 | uint32(l.Count)
}

// Empty reports whether l marks an absent chunk.
func (l Location) Empty() bool {
	return l.Offset == 0 && l.Count == 0
}

func (l Location) validate() error {
	if l.Offset < headerSectors {
		return fmt.Errorf("region: %w: sector %d overlaps the header", nbt.ErrFormat, l.Offset)
	}
	if l.Count == 0 {
		return fmt.Errorf("region: %w: chunk at sector %d has zero size", nbt.ErrFormat, l.Offset)
	}
	return nil
}

// Chunk is one decoded chunk.
type Chunk struct {
	Timestamp uint32
	Data      nbt.NBT
}

// Region holds the chunks of one region, indexed x + 32*z. Nil slots are
// absent chunks.
type Region [ChunkCount]*Chunk

func index(x, z int) (int, error) {
	if x < 0 || x >= Width || z < 0 || z >= Width {
		return 0, fmt.Errorf("region: %w: chunk (%d, %d) outside 0..%d", nbt.ErrIndexOutOfRange, x, z, Width-1)
	}
	return x + Width*z, nil
}

// Get returns the chunk at local coordinates (x, z), or ErrChunkNotFound.
func (r *Region) Get(x, z int) (*Chunk, error) {
	i, err := index(x, z)
	if err != nil {
		return nil, err
	}
	if r[i] == nil {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrChunkNotFound, x, z)
	}
	return r[i], nil
}

// Set stores c at (x, z). A nil c clears the slot.
func (r *Region) Set(x, z int, c *Chunk) error {
	i, err := index(x, z)
	if err != nil {
		return err
	}
	r[i] = c
	return nil
}

// Len returns the number of present chunks.
func (r *Region) Len() int {
	n := 0
	for _, c := range r {
		if c != nil {
			n++
		}
	}
	return n
}
