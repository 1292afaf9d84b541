package ports

import "context"

// Memory is the host's view of a guest's linear memory.
// The wazero api.Memory type satisfies it.
type Memory interface {
	// Size returns the current size in bytes. It is always a multiple of the page size.
	Size() uint32

	// Grow appends deltaPages pages and returns the previous page count.
	// ok is false when the runtime refuses (for example a memory ceiling was reached).
	Grow(deltaPages uint32) (previousPages uint32, ok bool)

	// Read returns a view of byteCount bytes at offset, or false if out of range.
	Read(offset, byteCount uint32) ([]byte, bool)

	// Write copies v to offset, or returns false if out of range.
	Write(offset uint32, v []byte) bool
}

// Allocator hands out guest memory for encoded values.
type Allocator interface {
	// Alloc returns the offset of size writable bytes.
	Alloc(ctx context.Context, size uint32) (uint32, error)

	// Free returns a previous allocation. Freeing 0 is a no-op.
	Free(ctx context.Context, ptr, size uint32) error
}
