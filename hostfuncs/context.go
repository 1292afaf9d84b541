package hostfuncs

import (
	"context"

	"github.com/gloss-dev/glossbridge/domain/entities"
)

// HostContext wraps a standard context.Context with dispatch details.
// Middleware can store call-scoped values on it without growing the
// context chain.
type HostContext interface {
	context.Context

	// CallbackID returns the id being dispatched.
	CallbackID() entities.CallbackID

	// Args returns the raw (row, col) arguments of the callback import.
	Args() (row, col int32)

	// Depth returns how many dispatches are active on this stack, counting
	// this one. It exceeds 1 only for re-entrant callbacks.
	Depth() int

	// SetValue stores a call-scoped value.
	SetValue(key, value any)

	// GetValue retrieves a value set by SetValue.
	GetValue(key any) (value any, ok bool)
}

type hostContext struct {
	context.Context
	values   map[any]any
	id       entities.CallbackID
	row, col int32
	depth    int
}

// NewHostContext creates a HostContext for one dispatch.
func NewHostContext(ctx context.Context, id entities.CallbackID, row, col int32) HostContext {
	depth := 1
	if parent, ok := HostContextFrom(ctx); ok {
		depth = parent.Depth() + 1
	}
	return &hostContext{
		Context: ctx,
		id:      id,
		row:     row,
		col:     col,
		depth:   depth,
	}
}

func (c *hostContext) CallbackID() entities.CallbackID {
	return c.id
}

func (c *hostContext) Args() (int32, int32) {
	return c.row, c.col
}

func (c *hostContext) Depth() int {
	return c.depth
}

func (c *hostContext) SetValue(key, value any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = value
}

func (c *hostContext) GetValue(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// HostContextFrom returns ctx as a HostContext when it is one.
func HostContextFrom(ctx context.Context) (HostContext, bool) {
	hc, ok := ctx.(HostContext)
	return hc, ok
}
