package wazero

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/gloss-dev/glossbridge/domain/errors"
	"github.com/gloss-dev/glossbridge/domain/ports"
)

// Guest adapts an instantiated wazero module to ports.Guest.
// Exported function lookups are cached.
type Guest struct {
	mod     api.Module
	exports map[string]api.Function
}

// NewGuest wraps mod.
func NewGuest(mod api.Module) *Guest {
	return &Guest{mod: mod, exports: make(map[string]api.Function)}
}

func (g *Guest) Name() string {
	return g.mod.Name()
}

// Memory returns the module's exported memory, or nil if it exports none.
func (g *Guest) Memory() ports.Memory {
	mem := g.mod.Memory()
	if mem == nil {
		return nil
	}
	return mem
}

func (g *Guest) HasExport(name string) bool {
	return g.lookup(name) != nil
}

func (g *Guest) lookup(name string) api.Function {
	if fn, ok := g.exports[name]; ok {
		return fn
	}
	fn := g.mod.ExportedFunction(name)
	if fn != nil {
		g.exports[name] = fn
	}
	return fn
}

// Call invokes an exported function. A trap inside the module is returned
// as an error.
func (g *Guest) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	if g.mod.IsClosed() {
		return nil, fmt.Errorf("%s: %w", name, errors.ErrClosed)
	}
	fn := g.lookup(name)
	if fn == nil {
		return nil, fmt.Errorf("%q: %w", name, errors.ErrNoExport)
	}
	res, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", name, err)
	}
	return res, nil
}

func (g *Guest) Close(ctx context.Context) error {
	return g.mod.Close(ctx)
}

// Module returns the wrapped module.
func (g *Guest) Module() api.Module {
	return g.mod
}

var _ ports.Guest = (*Guest)(nil)
