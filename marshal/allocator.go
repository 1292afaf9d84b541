package marshal

import (
	"context"
	"errors"
	"fmt"

	"github.com/gloss-dev/glossbridge/arena"
	"github.com/gloss-dev/glossbridge/domain/entities"
	bridgeerrors "github.com/gloss-dev/glossbridge/domain/errors"
	"github.com/gloss-dev/glossbridge/domain/ports"
)

// ArenaAllocator serves allocations from the arena's safe zone, growing
// memory once when a request does not fit.
type ArenaAllocator struct {
	arena *arena.Arena
}

// NewArenaAllocator returns an allocator backed by a.
func NewArenaAllocator(a *arena.Arena) *ArenaAllocator {
	return &ArenaAllocator{arena: a}
}

func (a *ArenaAllocator) Alloc(_ context.Context, size uint32) (uint32, error) {
	r, err := a.reserve(size)
	if err != nil {
		return 0, err
	}
	return r.Offset, nil
}

func (a *ArenaAllocator) reserve(size uint32) (entities.Region, error) {
	r, err := a.arena.Reserve(size)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, bridgeerrors.ErrTooLarge) && !errors.Is(err, bridgeerrors.ErrNoSpace) {
		return entities.Region{}, err
	}
	// Growing by twice the request moves the safe zone end past the cursor
	// by more than size for any fraction above one half.
	if gerr := a.arena.Require(a.arena.Capacity() + 2*uint64(size)); gerr != nil {
		return entities.Region{}, fmt.Errorf("%w: %w", err, gerr)
	}
	return a.arena.Reserve(size)
}

// Free rolls the arena back when ptr is the most recent reservation.
// Other regions are reclaimed by rotation.
func (a *ArenaAllocator) Free(_ context.Context, ptr, size uint32) error {
	a.arena.Release(entities.Region{Offset: ptr, Size: size})
	return nil
}

// Allocator export pairs probed on the guest, in order of preference.
var guestAllocExports = [][2]string{
	{"wasmMalloc", "wasmFree"},
	{"malloc", "free"},
}

// GuestAllocator calls the module's exported allocator.
type GuestAllocator struct {
	guest      ports.Guest
	mallocName string
	freeName   string
}

// NewGuestAllocator returns an allocator over the first malloc/free export
// pair the guest provides, or false if it exports none.
func NewGuestAllocator(g ports.Guest) (*GuestAllocator, bool) {
	for _, pair := range guestAllocExports {
		if g.HasExport(pair[0]) && g.HasExport(pair[1]) {
			return &GuestAllocator{guest: g, mallocName: pair[0], freeName: pair[1]}, true
		}
	}
	return nil, false
}

func (a *GuestAllocator) Alloc(ctx context.Context, size uint32) (uint32, error) {
	res, err := a.guest.Call(ctx, a.mallocName, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("%s(%d): %w", a.mallocName, size, err)
	}
	if len(res) == 0 || uint32(res[0]) == 0 {
		return 0, fmt.Errorf("%s(%d) returned null", a.mallocName, size)
	}
	return uint32(res[0]), nil
}

func (a *GuestAllocator) Free(ctx context.Context, ptr, _ uint32) error {
	if ptr == 0 {
		return nil
	}
	if _, err := a.guest.Call(ctx, a.freeName, uint64(ptr)); err != nil {
		return fmt.Errorf("%s(%d): %w", a.freeName, ptr, err)
	}
	return nil
}

// Name returns the malloc export in use.
func (a *GuestAllocator) Name() string {
	return a.mallocName
}

var (
	_ ports.Allocator = (*ArenaAllocator)(nil)
	_ ports.Allocator = (*GuestAllocator)(nil)
)
