package testutil

import "github.com/gloss-dev/glossbridge/internal/abi"

// Memory is an in-process linear memory with a page ceiling.
// It satisfies ports.Memory.
type Memory struct {
	buf       []byte
	maxPages  uint32
	GrowCalls int
	// Refuse makes every Grow call fail when set.
	Refuse bool
}

// NewMemory returns a memory of pages pages that can grow up to maxPages.
func NewMemory(pages, maxPages uint32) *Memory {
	return &Memory{
		buf:      make([]byte, uint64(pages)*abi.PageSize),
		maxPages: maxPages,
	}
}

func (m *Memory) Size() uint32 {
	return uint32(len(m.buf))
}

func (m *Memory) Grow(deltaPages uint32) (uint32, bool) {
	prev := uint32(len(m.buf) / abi.PageSize)
	if m.Refuse || uint64(prev)+uint64(deltaPages) > uint64(m.maxPages) {
		return prev, false
	}
	m.GrowCalls++
	m.buf = append(m.buf, make([]byte, uint64(deltaPages)*abi.PageSize)...)
	return prev, true
}

func (m *Memory) Read(offset, byteCount uint32) ([]byte, bool) {
	if !abi.Fits(uint64(offset), uint64(byteCount), uint64(len(m.buf))) {
		return nil, false
	}
	return m.buf[offset : offset+byteCount], true
}

func (m *Memory) Write(offset uint32, v []byte) bool {
	if !abi.Fits(uint64(offset), uint64(len(v)), uint64(len(m.buf))) {
		return false
	}
	copy(m.buf[offset:], v)
	return true
}

// Bytes exposes the backing buffer.
func (m *Memory) Bytes() []byte {
	return m.buf
}
