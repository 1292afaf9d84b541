package marshal

import (
	"context"
	"fmt"
	"math"

	"github.com/gloss-dev/glossbridge/domain/errors"
	"github.com/gloss-dev/glossbridge/domain/ports"
	"github.com/gloss-dev/glossbridge/internal/abi"
)

// WriteStringArray encodes strs and returns the address of its directory.
//
// Capacity for the directory, the payload and the safety margin is requested
// up front. Payloads up to the chunk threshold share the directory's region;
// larger ones are written in groups of the configured chunk size. When a
// guest allocator is configured it is tried first; any failure there frees
// everything it allocated and the arena is used instead. A failed encode
// rolls back its reservations and returns 0.
//
// An empty array is a zero-length reservation and returns the arena cursor.
func (m *Marshaller) WriteStringArray(ctx context.Context, strs []string) (uint32, error) {
	if len(strs) == 0 {
		r, err := m.arena.Reserve(0)
		return r.Offset, err
	}

	var payload uint64
	for _, s := range strs {
		payload += uint64(len(s))
	}
	total := abi.DirectorySize(len(strs)) + payload
	strategy := StrategyDirect
	if payload > m.cfg.chunkThreshold {
		strategy = StrategyChunked
	}
	if total > math.MaxUint32 {
		return 0, &errors.MarshalError{Op: "write_string_array", Strategy: string(strategy), Index: -1,
			Err: fmt.Errorf("%w: %d bytes", errors.ErrTooLarge, total)}
	}

	if err := m.arena.Require(total + m.cfg.safetyMargin); err != nil {
		return 0, &errors.MarshalError{Op: "write_string_array", Strategy: string(strategy), Index: -1, Err: err}
	}

	if m.cfg.guest != nil {
		dir, blocks, err := m.encode(ctx, m.cfg.guest, strs, StrategyGuest, 1)
		if err == nil {
			m.pending = append(m.pending, blocks...)
			m.last = StrategyGuest
			return dir, nil
		}
		m.logger.WarnContext(ctx, "marshal: guest allocator failed, falling back to arena",
			"strings", len(strs), "bytes", total, "error", err)
	}

	group := 0
	if strategy == StrategyChunked {
		group = m.cfg.chunkSize
		m.logger.DebugContext(ctx, "marshal: chunking string array",
			"strings", len(strs), "payload", payload, "chunk_size", group)
	}
	// The directory and every payload block stay pinned until the last
	// block is reserved, so a wrap cannot land on an earlier block.
	f := m.arena.Enter()
	dir, _, err := m.encode(ctx, m.local, strs, strategy, group)
	f.Exit()
	if err != nil {
		return 0, err
	}
	m.last = strategy
	m.arena.Rotate()
	return dir, nil
}

// encode lays strs out with alloc. A group of 0 puts the directory and all
// payloads in a single block; otherwise the directory gets its own block and
// payloads follow in blocks of group strings.
func (m *Marshaller) encode(ctx context.Context, alloc ports.Allocator, strs []string, strategy Strategy, group int) (uint32, []allocation, error) {
	var blocks []allocation
	fail := func(index int, err error) (uint32, []allocation, error) {
		for i := len(blocks) - 1; i >= 0; i-- {
			if ferr := alloc.Free(ctx, blocks[i].ptr, blocks[i].size); ferr != nil {
				m.logger.WarnContext(ctx, "marshal: rollback free failed", "ptr", blocks[i].ptr, "error", ferr)
			}
		}
		return 0, nil, &errors.MarshalError{Op: "write_string_array", Strategy: string(strategy), Index: index, Err: err}
	}
	take := func(size uint32) (uint32, error) {
		ptr, err := alloc.Alloc(ctx, size)
		if err != nil {
			return 0, err
		}
		blocks = append(blocks, allocation{ptr: ptr, size: size})
		return ptr, nil
	}

	n := len(strs)
	dirSize := uint32(abi.DirectorySize(n))
	ptrs := make([]uint32, n)
	var dir uint32

	if group == 0 {
		size := dirSize
		for _, s := range strs {
			size += uint32(len(s))
		}
		base, err := take(size)
		if err != nil {
			return fail(-1, err)
		}
		dir = base
		off := base + dirSize
		for i, s := range strs {
			ptrs[i] = off
			off += uint32(len(s))
		}
	} else {
		base, err := take(dirSize)
		if err != nil {
			return fail(-1, err)
		}
		dir = base
		for start := 0; start < n; start += group {
			end := min(start+group, n)
			var size uint32
			for _, s := range strs[start:end] {
				size += uint32(len(s))
			}
			if size == 0 {
				continue
			}
			off, err := take(size)
			if err != nil {
				return fail(start, err)
			}
			for i := start; i < end; i++ {
				ptrs[i] = off
				off += uint32(len(strs[i]))
			}
		}
	}

	table := make([]byte, dirSize)
	for i, s := range strs {
		abi.PutPair(table[i*abi.PairSize:], ptrs[i], uint32(len(s)))
	}
	if err := m.arena.Write(dir, table); err != nil {
		return fail(-1, err)
	}
	for i, s := range strs {
		if err := m.arena.Write(ptrs[i], []byte(s)); err != nil {
			return fail(i, err)
		}
	}
	return dir, blocks, nil
}
