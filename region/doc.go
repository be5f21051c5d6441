// Package region reads and writes region archives: files holding a 32×32
// grid of chunks, each chunk a compressed big-endian binary NBT document.
//
// # Layout
//
// A region file is a sequence of 4096-byte sectors. The first two sectors
// are the header:
//
//	sector 0: 1024 location words, big-endian u32
//	          high 24 bits = sector offset, low 8 bits = sector count
//	sector 1: 1024 timestamps, big-endian u32
//
// Entry i of either table describes the chunk at local coordinates
// (i%32, i/32). A location word of zero means the chunk is absent. A
// present chunk starts at sector offset and spans count sectors:
//
//	u32  length   big-endian, counts the scheme byte and the payload
//	u8   scheme   1 gzip, 2 zlib, 3 uncompressed, 4 LZ4, 127 custom
//	...  payload  length-1 bytes
//
// # Reading
//
//	r := region.NewReader(f)
//	chunk, err := r.ReadChunk(3, 7)
//	if errors.Is(err, region.ErrChunkNotFound) {
//	    // not generated yet
//	}
//
// Decompression is pluggable with WithDecompressor; DefaultDecompressor
// handles schemes 1 to 4. Scheme 127 needs an injected decompressor.
//
// # Writing
//
//	var reg region.Region
//	reg.Set(0, 0, &region.Chunk{Timestamp: now, Data: doc})
//	err := region.Write(f, &reg, region.WithCompression(region.Zlib))
package region
