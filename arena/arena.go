// Package arena manages the host's view of a guest's linear memory.
//
// The arena is a bump allocator over a rotating "safe zone": a window of
// linear memory the host may write encoded arguments into without an
// allocator exported by the guest. Encoded inputs are consumed synchronously
// by the next foreign call, so the cursor is free to wrap back to the start of
// the safe zone once the window is exhausted. Regions reserved inside an open
// Frame stay live until the frame exits; wrapping never hands out bytes that
// overlap a live region, which keeps re-entrant callbacks from stomping on the
// arguments of the call they are nested in.
//
// An Arena is not safe for concurrent use. Re-entrancy on the same goroutine
// is expected and supported.
package arena

import (
	"fmt"
	"log/slog"

	"github.com/gloss-dev/glossbridge/domain/entities"
	"github.com/gloss-dev/glossbridge/domain/errors"
	"github.com/gloss-dev/glossbridge/domain/ports"
	"github.com/gloss-dev/glossbridge/internal/abi"
)

// Stats is a snapshot of arena bookkeeping.
type Stats struct {
	Capacity     uint64
	Pages        uint64
	Cursor       uint32
	SafeStart    uint32
	SafeEnd      uint32
	Growths      int
	Reservations int
	Wraps        int
	Rollbacks    int
	LiveRegions  int
	FrameDepth   int
}

// Arena hands out byte ranges of guest memory and grows it on demand.
type Arena struct {
	mem    ports.Memory
	cfg    settings
	logger *slog.Logger

	cursor uint32
	last   entities.Region
	frames []*Frame

	growths      int
	reservations int
	wraps        int
	rollbacks    int
}

// New creates an arena over mem. The cursor starts at the safe zone start.
func New(mem ports.Memory, opts ...Option) *Arena {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Arena{
		mem:    mem,
		cfg:    cfg,
		logger: logger,
		cursor: cfg.safeZoneStart,
	}
}

// Capacity returns the current size of linear memory in bytes.
func (a *Arena) Capacity() uint64 {
	size := uint64(a.mem.Size())
	if size == 0 {
		// A full 4 GiB memory reports 0 through the uint32 size.
		if _, ok := a.mem.Read(0, 1); ok {
			return abi.MaxPages * abi.PageSize
		}
	}
	return size
}

// SafeZone returns the window [start, end) reservations are drawn from.
// It is recomputed from the current capacity on every call; end <= start
// means the zone is empty.
func (a *Arena) SafeZone() (start, end uint32) {
	capacity := a.Capacity()
	start = a.cfg.safeZoneStart

	limit := a.fractionOf(capacity)
	if capacity > uint64(a.cfg.tailReserve) {
		limit = min(limit, capacity-uint64(a.cfg.tailReserve))
	} else {
		limit = 0
	}
	if limit <= uint64(start) {
		return start, start
	}
	return start, uint32(min(limit, uint64(^uint32(0))))
}

func (a *Arena) fractionOf(capacity uint64) uint64 {
	return uint64(float64(capacity) * a.cfg.maxFraction)
}

// Require grows linear memory so that it holds at least required bytes.
// It is a no-op when capacity already suffices. Growth is rounded up to whole
// pages and only ever appends, so existing offsets stay valid.
// A refused growth returns a *errors.CapacityError and leaves the arena unchanged.
func (a *Arena) Require(required uint64) error {
	capacity := a.Capacity()
	if required <= capacity {
		return nil
	}

	needPages := abi.PagesFor(required)
	curPages := capacity / abi.PageSize
	delta := needPages - curPages
	if needPages > abi.MaxPages {
		err := &errors.CapacityError{Required: required, Capacity: capacity, PagesAttempted: delta}
		a.logger.Error("arena: growth exceeds 32-bit address space", "required", required, "capacity", capacity)
		return err
	}

	a.logger.Debug("arena: growing memory",
		"from_bytes", capacity, "to_bytes", needPages*abi.PageSize, "pages", delta)

	prev, ok := a.mem.Grow(uint32(delta))
	if !ok {
		err := &errors.CapacityError{Required: required, Capacity: capacity, PagesAttempted: delta}
		a.logger.Error("arena: memory growth refused", "required", required, "capacity", capacity, "pages", delta)
		return err
	}
	a.growths++
	a.logger.Debug("arena: memory grown", "previous_pages", prev, "pages", uint64(prev)+delta)
	return nil
}

// EnsureCapacity reports whether memory holds at least required bytes,
// growing it if necessary. Failure is never fatal; see Require for the cause.
func (a *Arena) EnsureCapacity(required uint64) bool {
	return a.Require(required) == nil
}

// Reserve returns a region of size bytes inside the current safe zone that
// overlaps neither the most recent reservation nor any region held by an open
// frame. When the remainder of the zone is too small, the cursor wraps to the
// zone start. Zero-length requests always succeed.
//
// Requests larger than the configured fraction of capacity fail with
// errors.ErrTooLarge; the caller must grow memory first.
func (a *Arena) Reserve(size uint32) (entities.Region, error) {
	start, end := a.SafeZone()
	if a.cursor < start || a.cursor > end {
		a.cursor = start
	}

	if size == 0 {
		return entities.Region{Offset: a.cursor}, nil
	}

	capacity := a.Capacity()
	if uint64(size) > a.fractionOf(capacity) {
		return entities.Region{}, fmt.Errorf("%w: %d bytes requested, capacity %d", errors.ErrTooLarge, size, capacity)
	}

	off, ok := a.fit(a.cursor, size, end)
	if !ok {
		a.wraps++
		off, ok = a.fit(start, size, end)
	}
	if !ok {
		a.logger.Warn("arena: safe zone exhausted",
			"size", size, "safe_start", start, "safe_end", end, "live", a.liveCount())
		return entities.Region{}, fmt.Errorf("%w: %w", errors.ErrNoSpace,
			&errors.BoundsError{Op: "reserve", Offset: uint64(start), Size: uint64(size), Limit: uint64(end)})
	}

	r := entities.Region{Offset: off, Size: size}
	a.cursor = off + size
	a.last = r
	if f := a.top(); f != nil {
		f.live = append(f.live, r)
	}
	a.reservations++
	return r, nil
}

// fit finds the lowest offset >= from where size bytes fit below end without
// overlapping a live region.
func (a *Arena) fit(from, size, end uint32) (uint32, bool) {
	candidate := uint64(from)
	for {
		if candidate+uint64(size) > uint64(end) {
			return 0, false
		}
		want := entities.Region{Offset: uint32(candidate), Size: size}
		moved := false
		a.eachLive(func(l entities.Region) bool {
			if want.Overlaps(l) {
				candidate = l.End()
				moved = true
				return false
			}
			return true
		})
		if !moved {
			return uint32(candidate), true
		}
	}
}

func (a *Arena) eachLive(fn func(entities.Region) bool) {
	if a.last.Size > 0 && !fn(a.last) {
		return
	}
	for _, f := range a.frames {
		for _, r := range f.live {
			if !fn(r) {
				return
			}
		}
	}
}

func (a *Arena) liveCount() int {
	n := 0
	a.eachLive(func(entities.Region) bool {
		n++
		return true
	})
	return n
}

// Release gives back a reservation made in the current call. If r ends at
// the cursor, the cursor rolls back to r's start, so releasing a sequence of
// reservations in reverse order restores the arena exactly.
func (a *Arena) Release(r entities.Region) bool {
	if r.Size == 0 {
		return false
	}
	if f := a.top(); f != nil {
		for i := len(f.live) - 1; i >= 0; i-- {
			if f.live[i] == r {
				f.live = append(f.live[:i], f.live[i+1:]...)
				break
			}
		}
	}
	if a.last == r {
		a.last = entities.Region{}
	}
	if r.End() == uint64(a.cursor) {
		a.cursor = r.Offset
		a.rollbacks++
		return true
	}
	return false
}

// Rotate advances the cursor at least MinStride bytes past the start of the
// most recent reservation, bounded by the safe zone end, so the next call's
// arguments land on fresh bytes.
func (a *Arena) Rotate() {
	if a.last.Size == 0 {
		return
	}
	_, end := a.SafeZone()
	next := max(a.last.End(), uint64(a.last.Offset)+uint64(a.cfg.minStride))
	next = min(next, uint64(end))
	if next > uint64(a.cursor) {
		a.cursor = uint32(next)
	}
}

// Reset moves the cursor back to the start of the safe zone and forgets the
// most recent reservation. Regions held by open frames stay live.
func (a *Arena) Reset() {
	start, _ := a.SafeZone()
	a.cursor = start
	a.last = entities.Region{}
}

// Write copies data to offset after checking it lies within capacity.
// Nothing is written on failure.
func (a *Arena) Write(offset uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	capacity := a.Capacity()
	if !abi.Fits(uint64(offset), uint64(len(data)), capacity) {
		return &errors.BoundsError{Op: "write", Offset: uint64(offset), Size: uint64(len(data)), Limit: capacity}
	}
	if !a.mem.Write(offset, data) {
		return &errors.BoundsError{Op: "write", Offset: uint64(offset), Size: uint64(len(data)), Limit: capacity}
	}
	return nil
}

// Read returns a copy of size bytes at offset after checking it lies within capacity.
func (a *Arena) Read(offset, size uint32) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	capacity := a.Capacity()
	if !abi.Fits(uint64(offset), uint64(size), capacity) {
		return nil, &errors.BoundsError{Op: "read", Offset: uint64(offset), Size: uint64(size), Limit: capacity}
	}
	view, ok := a.mem.Read(offset, size)
	if !ok {
		return nil, &errors.BoundsError{Op: "read", Offset: uint64(offset), Size: uint64(size), Limit: capacity}
	}
	out := make([]byte, len(view))
	copy(out, view)
	return out, nil
}

// PutPair writes a (pointer, length) record at offset.
func (a *Arena) PutPair(offset, ptr, length uint32) error {
	var b [abi.PairSize]byte
	abi.PutPair(b[:], ptr, length)
	return a.Write(offset, b[:])
}

// Pair reads a (pointer, length) record at offset.
func (a *Arena) Pair(offset uint32) (ptr, length uint32, err error) {
	b, err := a.Read(offset, abi.PairSize)
	if err != nil {
		return 0, 0, err
	}
	ptr, length = abi.Pair(b)
	return ptr, length, nil
}

// Stats returns a snapshot of the arena's bookkeeping.
func (a *Arena) Stats() Stats {
	start, end := a.SafeZone()
	capacity := a.Capacity()
	return Stats{
		Capacity:     capacity,
		Pages:        capacity / abi.PageSize,
		Cursor:       a.cursor,
		SafeStart:    start,
		SafeEnd:      end,
		Growths:      a.growths,
		Reservations: a.reservations,
		Wraps:        a.wraps,
		Rollbacks:    a.rollbacks,
		LiveRegions:  a.liveCount(),
		FrameDepth:   len(a.frames),
	}
}
