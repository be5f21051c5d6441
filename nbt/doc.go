// Package nbt implements the NBT tagged-value tree and its binary codec.
//
// # Data Model
//
// A document is one named root (NBT) holding a Tag. Tag is a closed set of
// 13 payload types, one per TagType ordinal:
//
//	0 End        5 Float      10 *Compound
//	1 Byte       6 Double     11 IntArray
//	2 Short      7 ByteArray  12 LongArray
//	3 Int        8 String
//	4 Long       9 List
//
// A List holds elements of a single type. It is itself a closed set of
// slice types (ByteList, IntList, CompoundList, ...), so a mixed list cannot
// be represented. An empty EndList is the canonical empty list.
//
// A Compound maps unique names to tags and keeps its entries sorted by name.
// Re-encoding a decoded document therefore writes entries in name order,
// whatever the order of the source.
//
// # Binary Format
//
//	root     = type:u8 name:string payload
//	string   = len:u16 bytes
//	array    = count:i32 elements
//	list     = elemType:u8 count:i32 payloads
//	compound = (type:u8 name:string payload)* 0x00
//
// Fixed-width fields use the byte order given with WithByteOrder, big-endian
// by default. Java edition files are big-endian; Bedrock files are
// little-endian.
//
// # Access
//
// Typed accessors return errors:
//
//	pos, err := nbt.GetAs[nbt.DoubleList](player, "Pos")
//	x, err := nbt.NumAs[float64](tag)
//
// Maybe chains never fail and short-circuit on the first missing step:
//
//	y, ok := nbt.NumIf[float64](nbt.Find(root).Get("Data").Get("Player").Get("Pos").Index(1))
//
// # Dispatch
//
// Match turns a runtime TagType into a call on the one Matcher method bound
// to it. The binary decoder uses it for every payload.
//
// # Errors
//
// Every error wraps one of ErrIO, ErrFormat, ErrTypeMismatch, ErrKeyNotFound,
// ErrIndexOutOfRange, ErrNotANumber or ErrUnsupportedTag.
package nbt
