package region

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tliron/commonlog"

	"github.com/Neumenon/nbt/nbt"
)

// Writer packs a Region into a region file.
type Writer struct {
	w        io.Writer
	scheme   Compression
	compress Compressor
	log      commonlog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompression sets the scheme every chunk is stored with (default:
// Zlib).
func WithCompression(c Compression) WriterOption {
	return func(w *Writer) {
		w.scheme = c
	}
}

// WithCompressor replaces DefaultCompressor.
func WithCompressor(c Compressor) WriterOption {
	return func(w *Writer) {
		w.compress = c
	}
}

// WithWriterLogger sets the logger (default: commonlog logger
// "nbt.region").
func WithWriterLogger(log commonlog.Logger) WriterOption {
	return func(w *Writer) {
		w.log = log
	}
}

// NewWriter creates a Writer to w.
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	writer := &Writer{
		w:        w,
		scheme:   Zlib,
		compress: DefaultCompressor,
		log:      commonlog.GetLogger("nbt.region"),
	}
	for _, opt := range opts {
		opt(writer)
	}
	return writer
}

// Write packs reg into w.
func Write(w io.Writer, reg *Region, opts ...WriterOption) error {
	return NewWriter(w, opts...).WriteRegion(reg)
}

// WriteRegion lays out the present chunks of reg in slot order, each
// starting on a fresh sector, and writes the header followed by the
// sectors. A chunk needing more than 255 sectors is nbt.ErrFormat.
func (w *Writer) WriteRegion(reg *Region) error {
	header := make([]byte, headerSize)
	var body bytes.Buffer
	next := uint32(headerSectors)

	for i, c := range reg {
		if c == nil {
			continue
		}
		x, z := i%Width, i/Width
		entry, err := w.encode(c)
		if err != nil {
			return fmt.Errorf("%w (chunk %d, %d)", err, x, z)
		}
		count := (len(entry) + SectorSize - 1) / SectorSize
		if count > maxCount {
			return fmt.Errorf("region: %w: chunk (%d, %d) needs %d sectors", nbt.ErrFormat, x, z, count)
		}
		if next > maxOffset {
			return fmt.Errorf("region: %w: sector offset %d out of range", nbt.ErrFormat, next)
		}
		loc := Location{Offset: next, Count: uint8(count)}
		binary.BigEndian.PutUint32(header[4*i:], loc.Word())
		binary.BigEndian.PutUint32(header[SectorSize+4*i:], c.Timestamp)

		body.Write(entry)
		body.Write(make([]byte, count*SectorSize-len(entry)))
		next += uint32(count)
	}

	if _, err := w.w.Write(header); err != nil {
		return fmt.Errorf("region: write header: %w: %w", nbt.ErrIO, err)
	}
	if _, err := body.WriteTo(w.w); err != nil {
		return fmt.Errorf("region: write chunks: %w: %w", nbt.ErrIO, err)
	}
	w.log.Debugf("wrote region: %d chunks, %d sectors, %s", reg.Len(), next, w.scheme)
	return nil
}

// encode returns the framed entry for c: length, scheme, payload.
func (w *Writer) encode(c *Chunk) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(make([]byte, entryHeader))
	zw, err := w.compress(&buf, w.scheme)
	if err != nil {
		return nil, err
	}
	if err := nbt.Write(zw, c.Data); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("region: compress: %w: %w", nbt.ErrIO, err)
	}
	entry := buf.Bytes()
	binary.BigEndian.PutUint32(entry, uint32(len(entry)-4))
	entry[4] = byte(w.scheme)
	return entry, nil
}
