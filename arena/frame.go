package arena

import "github.com/gloss-dev/glossbridge/domain/entities"

// Frame pins the regions reserved while it is open. Open a frame before
// encoding the arguments of a foreign call and exit it once the call
// returns; a callback running inside that call opens its own nested frame.
type Frame struct {
	arena  *Arena
	live   []entities.Region
	depth  int
	exited bool
}

// Enter opens a frame on top of the current frame stack.
func (a *Arena) Enter() *Frame {
	f := &Frame{arena: a, depth: len(a.frames)}
	a.frames = append(a.frames, f)
	return f
}

// Exit closes the frame and unpins its regions. Frames opened after f and
// not yet exited are closed too. Exit is idempotent.
func (f *Frame) Exit() {
	if f.exited {
		return
	}
	a := f.arena
	for len(a.frames) > f.depth {
		top := a.frames[len(a.frames)-1]
		top.exited = true
		top.live = nil
		a.frames = a.frames[:len(a.frames)-1]
	}
}

// Regions returns the regions currently pinned by f.
func (f *Frame) Regions() []entities.Region {
	out := make([]entities.Region, len(f.live))
	copy(out, f.live)
	return out
}

// Depth returns the nesting level of f; the outermost frame is 0.
func (f *Frame) Depth() int {
	return f.depth
}

func (a *Arena) top() *Frame {
	if len(a.frames) == 0 {
		return nil
	}
	return a.frames[len(a.frames)-1]
}
