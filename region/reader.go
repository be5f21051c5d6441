package region

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"github.com/Neumenon/nbt/nbt"
)

// Reader reads chunks from a region file. It only issues positioned reads,
// so a Reader over an *os.File does not disturb the file offset.
type Reader struct {
	r          io.ReaderAt
	decompress Decompressor
	log        commonlog.Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithDecompressor replaces DefaultDecompressor. Delegate to it for the
// schemes you do not handle.
func WithDecompressor(d Decompressor) ReaderOption {
	return func(r *Reader) {
		r.decompress = d
	}
}

// WithLogger sets the logger (default: commonlog logger "nbt.region").
func WithLogger(log commonlog.Logger) ReaderOption {
	return func(r *Reader) {
		r.log = log
	}
}

// NewReader creates a Reader over r.
func NewReader(r io.ReaderAt, opts ...ReaderOption) *Reader {
	reader := &Reader{
		r:          r,
		decompress: DefaultDecompressor,
		log:        commonlog.GetLogger("nbt.region"),
	}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// File is a Reader over an open region file.
type File struct {
	*Reader
	f *os.File
}

// Open opens the region file at path.
func Open(path string, opts ...ReaderOption) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("region: %w: %w", nbt.ErrIO, err)
	}
	return &File{Reader: NewReader(f, opts...), f: f}, nil
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}

func (r *Reader) readAt(off int64, n int, what string) ([]byte, error) {
	buf := make([]byte, n)
	k, err := r.r.ReadAt(buf, off)
	if k == n {
		return buf, nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("region: read %s at %d: %w: %w", what, off, nbt.ErrIO, err)
}

func (r *Reader) word(off int64, what string) (uint32, error) {
	b, err := r.readAt(off, 4, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Location returns the location word of chunk (x, z).
func (r *Reader) Location(x, z int) (Location, error) {
	i, err := index(x, z)
	if err != nil {
		return Location{}, err
	}
	w, err := r.word(int64(4*i), "location")
	if err != nil {
		return Location{}, err
	}
	return ParseLocation(w), nil
}

// Timestamp returns the last-modified timestamp of chunk (x, z).
func (r *Reader) Timestamp(x, z int) (uint32, error) {
	i, err := index(x, z)
	if err != nil {
		return 0, err
	}
	return r.word(int64(SectorSize+4*i), "timestamp")
}

// ReadChunk decodes chunk (x, z). An absent chunk is ErrChunkNotFound; a
// location overlapping the header or of zero size is nbt.ErrFormat.
func (r *Reader) ReadChunk(x, z int) (*Chunk, error) {
	loc, err := r.Location(x, z)
	if err != nil {
		return nil, err
	}
	if loc.Empty() {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrChunkNotFound, x, z)
	}
	if err := loc.validate(); err != nil {
		return nil, fmt.Errorf("%w (chunk %d, %d)", err, x, z)
	}
	ts, err := r.Timestamp(x, z)
	if err != nil {
		return nil, err
	}
	doc, err := r.readEntry(loc)
	if err != nil {
		return nil, fmt.Errorf("%w (chunk %d, %d)", err, x, z)
	}
	return &Chunk{Timestamp: ts, Data: doc}, nil
}

// ReadRegion decodes every chunk. Slots whose location is invalid are
// logged and left empty; a chunk that fails to decode aborts the read.
func (r *Reader) ReadRegion() (*Region, error) {
	header, err := r.readAt(0, headerSize, "header")
	if err != nil {
		return nil, err
	}
	reg := new(Region)
	for i := range ChunkCount {
		loc := ParseLocation(binary.BigEndian.Uint32(header[4*i:]))
		if loc.Empty() {
			continue
		}
		x, z := i%Width, i/Width
		if err := loc.validate(); err != nil {
			r.log.Warningf("skipping chunk (%d, %d): %s", x, z, err)
			continue
		}
		doc, err := r.readEntry(loc)
		if err != nil {
			return nil, fmt.Errorf("%w (chunk %d, %d)", err, x, z)
		}
		reg[i] = &Chunk{
			Timestamp: binary.BigEndian.Uint32(header[SectorSize+4*i:]),
			Data:      doc,
		}
	}
	r.log.Debugf("read region: %d chunks", reg.Len())
	return reg, nil
}

func (r *Reader) readEntry(loc Location) (nbt.NBT, error) {
	off := int64(loc.Offset) * SectorSize
	head, err := r.readAt(off, entryHeader, "chunk header")
	if err != nil {
		return nbt.NBT{}, err
	}
	length := binary.BigEndian.Uint32(head)
	if length == 0 || int64(length) > int64(loc.Count)*SectorSize-4 {
		return nbt.NBT{}, fmt.Errorf("region: %w: chunk length %d does not fit %d sectors", nbt.ErrFormat, length, loc.Count)
	}
	scheme := Compression(head[4])
	if scheme&externalFlag != 0 {
		return nbt.NBT{}, fmt.Errorf("region: %w: chunk stored outside the region file", nbt.ErrFormat)
	}
	payload, err := r.readAt(off+entryHeader, int(length)-1, "chunk payload")
	if err != nil {
		return nbt.NBT{}, err
	}

	dr, err := r.decompress(bytes.NewReader(payload), scheme)
	if err != nil {
		return nbt.NBT{}, err
	}
	if c, ok := dr.(io.Closer); ok {
		defer c.Close()
	}
	doc, err := nbt.Read(bufio.NewReader(dr))
	if err != nil {
		return nbt.NBT{}, err
	}
	r.log.Debugf("read chunk at sector %d: %d bytes, %s", loc.Offset, length-1, scheme)
	return doc, nil
}
