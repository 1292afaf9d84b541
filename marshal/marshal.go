// Package marshal encodes host text into guest linear memory and decodes the
// guest's result conventions back into host text.
//
// Strings are written as raw UTF-8 bytes and passed as a (pointer, length)
// pair. String arrays are passed as the address of a directory: N
// consecutive little-endian (pointer, length) records, fully written before
// the foreign call that reads them. Results come back as the address of an
// 8-byte header holding (pointer, length); a zero address or a zero field
// decodes to the empty string.
//
// Encoded values are only guaranteed valid until the next reservation that
// wraps the arena. Encode the arguments of a call inside an arena.Frame when
// the call takes more than one encoded value.
package marshal

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/gloss-dev/glossbridge/arena"
	"github.com/gloss-dev/glossbridge/domain/entities"
	"github.com/gloss-dev/glossbridge/domain/errors"
	"github.com/gloss-dev/glossbridge/internal/abi"
)

// Strategy names the layout used to encode a string array.
type Strategy string

const (
	// StrategyDirect writes the directory and every payload into one region.
	StrategyDirect Strategy = "direct"
	// StrategyChunked writes the directory, then payloads in fixed-size groups.
	StrategyChunked Strategy = "chunked"
	// StrategyGuest allocates the directory and each payload with the guest allocator.
	StrategyGuest Strategy = "guest"
)

type allocation struct {
	ptr  uint32
	size uint32
}

// Marshaller encodes and decodes values in one module's memory.
// It shares the arena's single-goroutine discipline.
type Marshaller struct {
	arena  *arena.Arena
	local  *ArenaAllocator
	cfg    settings
	logger *slog.Logger

	// guest allocations still owned by the host
	pending []allocation
	last    Strategy
}

// New returns a Marshaller writing into a.
func New(a *arena.Arena, opts ...Option) *Marshaller {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Marshaller{
		arena:  a,
		local:  NewArenaAllocator(a),
		cfg:    cfg,
		logger: logger,
	}
}

// Arena returns the arena the Marshaller writes into.
func (m *Marshaller) Arena() *arena.Arena {
	return m.arena
}

// LastStrategy reports the layout used by the most recent WriteStringArray.
func (m *Marshaller) LastStrategy() Strategy {
	return m.last
}

// WriteString copies the UTF-8 bytes of s into the arena and returns their
// location. The length is the encoded byte length. The empty string is a
// zero-length reservation at the cursor and never fails.
func (m *Marshaller) WriteString(s string) (entities.EncodedString, error) {
	if uint64(len(s)) > math.MaxUint32 {
		return entities.EncodedString{}, &errors.MarshalError{
			Op: "write_string", Index: -1,
			Err: fmt.Errorf("%w: %d bytes", errors.ErrTooLarge, len(s)),
		}
	}
	r, err := m.local.reserve(uint32(len(s)))
	if err != nil {
		return entities.EncodedString{}, &errors.MarshalError{Op: "write_string", Index: -1, Err: err}
	}
	if err := m.arena.Write(r.Offset, []byte(s)); err != nil {
		m.arena.Release(r)
		return entities.EncodedString{}, &errors.MarshalError{Op: "write_string", Index: -1, Err: err}
	}
	return entities.EncodedString{Ptr: r.Offset, Len: r.Size}, nil
}

// ReadString copies length bytes at ptr out of guest memory.
func (m *Marshaller) ReadString(ptr, length uint32) (string, error) {
	if length == 0 {
		return "", nil
	}
	b, err := m.arena.Read(ptr, length)
	if err != nil {
		return "", &errors.MarshalError{Op: "read_string", Index: -1, Err: err}
	}
	return string(b), nil
}

// DecodeResult decodes the result header at addr.
func (m *Marshaller) DecodeResult(addr uint32) (string, error) {
	if addr == 0 {
		return "", nil
	}
	ptr, length, err := m.arena.Pair(addr)
	if err != nil {
		return "", &errors.MarshalError{Op: "read_result", Index: -1, Err: err}
	}
	hdr := entities.ResultHeader{DataPtr: ptr, Length: length}
	if hdr.Empty() {
		return "", nil
	}
	s, err := m.ReadString(hdr.DataPtr, hdr.Length)
	if err != nil {
		return "", &errors.MarshalError{Op: "read_result", Index: -1, Err: err}
	}
	return s, nil
}

// ReadResult decodes the result header at addr, returning the empty string
// and logging the cause when the header or its payload is out of bounds.
func (m *Marshaller) ReadResult(ctx context.Context, addr uint32) string {
	s, err := m.DecodeResult(addr)
	if err != nil {
		m.logger.ErrorContext(ctx, "marshal: dropping unreadable result",
			"addr", addr, "capacity", m.arena.Capacity(), "error", err)
		return ""
	}
	return s
}

// ReadStringArray decodes n directory entries starting at dir.
func (m *Marshaller) ReadStringArray(dir uint32, n int) ([]string, error) {
	out := make([]string, n)
	for i := range out {
		off := uint64(dir) + uint64(i)*abi.PairSize
		if off > math.MaxUint32 {
			return nil, &errors.MarshalError{Op: "read_string_array", Index: i,
				Err: &errors.BoundsError{Op: "read", Offset: off, Size: abi.PairSize, Limit: m.arena.Capacity()}}
		}
		ptr, length, err := m.arena.Pair(uint32(off))
		if err != nil {
			return nil, &errors.MarshalError{Op: "read_string_array", Index: i, Err: err}
		}
		if out[i], err = m.ReadString(ptr, length); err != nil {
			return nil, &errors.MarshalError{Op: "read_string_array", Index: i, Err: err}
		}
	}
	return out, nil
}

// Mark returns the current position in the list of guest allocations the
// host still owns. Pass it to ReleaseSince once the call that consumed them
// returns.
func (m *Marshaller) Mark() int {
	return len(m.pending)
}

// ReleaseSince frees, newest first, the guest allocations made after mark.
// Frees are best effort; the first error is returned after all are attempted.
func (m *Marshaller) ReleaseSince(ctx context.Context, mark int) error {
	if m.cfg.guest == nil || mark < 0 || mark >= len(m.pending) {
		return nil
	}
	var first error
	for i := len(m.pending) - 1; i >= mark; i-- {
		a := m.pending[i]
		if err := m.cfg.guest.Free(ctx, a.ptr, a.size); err != nil && first == nil {
			first = err
		}
	}
	m.pending = m.pending[:mark]
	return first
}
