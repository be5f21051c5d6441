package region

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"

	"github.com/Neumenon/nbt/nbt"
)

// Decompressor wraps the raw payload of a chunk stored with scheme.
// If the returned reader is an io.Closer it is closed after decoding.
type Decompressor func(payload io.Reader, scheme Compression) (io.Reader, error)

// Compressor wraps w so that bytes written to the result are stored with
// scheme. The result is closed once the chunk document has been written.
type Compressor func(w io.Writer, scheme Compression) (io.WriteCloser, error)

// DefaultDecompressor handles gzip, zlib, uncompressed and LZ4 (frame
// format) payloads.
func DefaultDecompressor(payload io.Reader, scheme Compression) (io.Reader, error) {
	switch scheme {
	case GZip:
		zr, err := gzip.NewReader(payload)
		if err != nil {
			return nil, streamError("gzip", err)
		}
		return zr, nil
	case Zlib:
		zr, err := zlib.NewReader(payload)
		if err != nil {
			return nil, streamError("zlib", err)
		}
		return zr, nil
	case Uncompressed:
		return payload, nil
	case LZ4:
		return lz4.NewReader(payload), nil
	}
	return nil, unsupportedScheme(scheme)
}

// DefaultCompressor is the counterpart of DefaultDecompressor.
func DefaultCompressor(w io.Writer, scheme Compression) (io.WriteCloser, error) {
	switch scheme {
	case GZip:
		return gzip.NewWriter(w), nil
	case Zlib:
		return zlib.NewWriter(w), nil
	case Uncompressed:
		return nopCloser{w}, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	}
	return nil, unsupportedScheme(scheme)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func unsupportedScheme(scheme Compression) error {
	return fmt.Errorf("region: %w: no codec for compression scheme %d", nbt.ErrFormat, uint8(scheme))
}

// streamError classifies a failure to open a compressed stream: running
// out of bytes is ErrIO, anything else is a malformed header.
func streamError(codec string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("region: %s: %w: %w", codec, nbt.ErrIO, io.ErrUnexpectedEOF)
	}
	return fmt.Errorf("region: %s: %w: %w", codec, nbt.ErrFormat, err)
}
