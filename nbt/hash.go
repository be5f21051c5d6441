package nbt

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Hash returns the SHA-256 of root's big-endian binary encoding. Compound
// entries are always written in name order, so equal trees hash equally
// regardless of how they were built.
func Hash(root NBT) ([32]byte, error) {
	data, err := Marshal(root, WithByteOrder(binary.BigEndian))
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// HashHex returns Hash as a lowercase hex string.
func HashHex(root NBT) (string, error) {
	h, err := Hash(root)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h[:]), nil
}
