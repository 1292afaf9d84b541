package testutil

import "context"

// Heap is a bump allocator exported by a fake guest.
type Heap struct {
	Next   uint32
	FailAt int
	Calls  int
	Freed  []uint32
}

// InstallHeap exports mallocName and freeName on g. Allocation starts at
// base; the FailAt-th allocation returns the null pointer.
func InstallHeap(g *Guest, base uint32, failAt int, mallocName, freeName string) *Heap {
	h := &Heap{Next: base, FailAt: failAt}
	g.Export(mallocName, func(_ context.Context, _ *Guest, p []uint64) []uint64 {
		h.Calls++
		if h.Calls == h.FailAt {
			return []uint64{0}
		}
		ptr := h.Next
		h.Next += uint32(p[0])
		return []uint64{uint64(ptr)}
	})
	g.Export(freeName, func(_ context.Context, _ *Guest, p []uint64) []uint64 {
		h.Freed = append(h.Freed, uint32(p[0]))
		return nil
	})
	return h
}
