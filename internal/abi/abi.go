// Package abi describes the wire layout shared with the guest module's linear memory.
//
// All multi-byte fields are little-endian 32-bit values. A "pair" is a
// (pointer, length) record; string directories are arrays of pairs and a
// foreign result header is a single pair.
package abi

import "encoding/binary"

const (
	// PageSize is the WebAssembly linear memory page size in bytes.
	PageSize = 65536

	// PairSize is the stride of one (pointer, length) record.
	PairSize = 8

	// HeaderSize is the size of a foreign result header.
	HeaderSize = PairSize

	// MaxPages is the largest page count a 32-bit linear memory can hold.
	MaxPages = 65536
)

// PutPair writes ptr and length into b[0:8].
// b must be at least PairSize bytes long.
func PutPair(b []byte, ptr, length uint32) {
	_ = b[PairSize-1]
	binary.LittleEndian.PutUint32(b[0:4], ptr)
	binary.LittleEndian.PutUint32(b[4:8], length)
}

// Pair reads a (pointer, length) record from b[0:8].
func Pair(b []byte) (ptr, length uint32) {
	_ = b[PairSize-1]
	return binary.LittleEndian.Uint32(b[0:4]), binary.LittleEndian.Uint32(b[4:8])
}

// DirectorySize returns the byte size of a directory holding n pairs.
func DirectorySize(n int) uint64 {
	return uint64(n) * PairSize
}

// PagesFor returns the number of whole pages needed to hold n bytes,
// rounding up.
func PagesFor(n uint64) uint64 {
	return (n + PageSize - 1) / PageSize
}

// Fits reports whether [offset, offset+size) lies inside [0, limit).
// It never overflows.
func Fits(offset, size, limit uint64) bool {
	return offset <= limit && size <= limit-offset
}
