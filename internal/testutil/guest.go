package testutil

import (
	"context"
	"fmt"

	"github.com/gloss-dev/glossbridge/domain/ports"
	"github.com/gloss-dev/glossbridge/internal/abi"
)

// ExportFunc implements a guest export in Go.
type ExportFunc func(ctx context.Context, g *Guest, params []uint64) []uint64

// ImportFunc is the host callback entry point as seen from the guest.
type ImportFunc func(ctx context.Context, id, row, col uint32) uint32

// Guest is an in-process stand-in for an instantiated module.
// It satisfies ports.Guest.
type Guest struct {
	name    string
	mem     *Memory
	exports map[string]ExportFunc
	closed  bool

	// Import is called by exports that invoke the host callback.
	Import ImportFunc

	// Calls records export names in call order.
	Calls []string
}

// NewGuest returns a guest with the given memory and no exports.
func NewGuest(name string, mem *Memory) *Guest {
	return &Guest{
		name:    name,
		mem:     mem,
		exports: make(map[string]ExportFunc),
	}
}

// Export registers fn under name and returns g for chaining.
func (g *Guest) Export(name string, fn ExportFunc) *Guest {
	g.exports[name] = fn
	return g
}

func (g *Guest) Name() string {
	return g.name
}

func (g *Guest) Memory() ports.Memory {
	return g.mem
}

// Mem returns the concrete memory.
func (g *Guest) Mem() *Memory {
	return g.mem
}

func (g *Guest) HasExport(name string) bool {
	_, ok := g.exports[name]
	return ok
}

// Call runs an export. A panic inside the export is returned as an error,
// the way a runtime reports a trap.
func (g *Guest) Call(ctx context.Context, name string, params ...uint64) (results []uint64, err error) {
	if g.closed {
		return nil, fmt.Errorf("module %q closed", g.name)
	}
	fn, ok := g.exports[name]
	if !ok {
		return nil, fmt.Errorf("export %q not found", name)
	}
	g.Calls = append(g.Calls, name)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("wasm trap in %s: %v", name, r)
		}
	}()
	return fn(ctx, g, params), nil
}

func (g *Guest) Close(context.Context) error {
	g.closed = true
	return nil
}

// CallHost invokes the host callback, returning 0 when none is wired.
func (g *Guest) CallHost(ctx context.Context, id, row, col uint32) uint32 {
	if g.Import == nil {
		return 0
	}
	return g.Import(ctx, id, row, col)
}

// ReadString reads length bytes at ptr.
func (g *Guest) ReadString(ptr, length uint32) string {
	b, ok := g.mem.Read(ptr, length)
	if !ok {
		panic(fmt.Sprintf("read [%d, %d) out of bounds", ptr, uint64(ptr)+uint64(length)))
	}
	return string(b)
}

// ReadDirectory decodes n (pointer, length) pairs starting at dir.
func (g *Guest) ReadDirectory(dir uint32, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		b, ok := g.mem.Read(dir+uint32(i*abi.PairSize), abi.PairSize)
		if !ok {
			panic(fmt.Sprintf("directory entry %d out of bounds", i))
		}
		ptr, length := abi.Pair(b)
		if length == 0 {
			out = append(out, "")
			continue
		}
		out = append(out, g.ReadString(ptr, length))
	}
	return out
}

// WriteResult stores s at dataPtr and a result header describing it at
// headerPtr, returning headerPtr.
func (g *Guest) WriteResult(headerPtr, dataPtr uint32, s string) uint32 {
	if !g.mem.Write(dataPtr, []byte(s)) {
		panic("result data out of bounds")
	}
	var hdr [abi.HeaderSize]byte
	abi.PutPair(hdr[:], dataPtr, uint32(len(s)))
	if !g.mem.Write(headerPtr, hdr[:]) {
		panic("result header out of bounds")
	}
	return headerPtr
}
