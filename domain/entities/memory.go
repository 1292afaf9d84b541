package entities

import "fmt"

// Region is a byte range [Offset, Offset+Size) inside guest linear memory.
type Region struct {
	Offset uint32
	Size   uint32
}

// End returns the first offset past the region.
func (r Region) End() uint64 {
	return uint64(r.Offset) + uint64(r.Size)
}

// Overlaps reports whether r and o share at least one byte.
// Zero-length regions never overlap anything.
func (r Region) Overlaps(o Region) bool {
	if r.Size == 0 || o.Size == 0 {
		return false
	}
	return uint64(r.Offset) < o.End() && uint64(o.Offset) < r.End()
}

func (r Region) String() string {
	return fmt.Sprintf("[%d, %d)", r.Offset, r.End())
}

// EncodedString references UTF-8 bytes written into guest memory.
// Len is the encoded byte length, not the rune count.
type EncodedString struct {
	Ptr uint32
	Len uint32
}

// ResultHeader is the (pointer, length) record a guest writes to describe a
// variable-length result. A zero header decodes to the empty string.
type ResultHeader struct {
	DataPtr uint32
	Length  uint32
}

// Empty reports whether the header describes no data.
func (h ResultHeader) Empty() bool {
	return h.DataPtr == 0 || h.Length == 0
}
