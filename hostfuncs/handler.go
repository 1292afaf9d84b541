package hostfuncs

import (
	"context"

	"github.com/gloss-dev/glossbridge/domain/entities"
)

// Handled is implemented by anything that owns a module handle, such as a
// style wrapper. Callbacks return one to tell the module which object to use.
type Handled interface {
	Handle() entities.Handle
}

// Handler is a registered host closure. row and col are the raw integer
// arguments of the callback import; their meaning is up to the registrant.
type Handler func(ctx context.Context, row, col int32) (Handled, error)

// HandleFunc adapts a closure that returns a bare handle.
type HandleFunc func(ctx context.Context, row, col int32) entities.Handle

// Handler returns h as a Handler.
func (h HandleFunc) Handler() Handler {
	return func(ctx context.Context, row, col int32) (Handled, error) {
		return rawHandle(h(ctx, row, col)), nil
	}
}

type rawHandle entities.Handle

func (h rawHandle) Handle() entities.Handle {
	return entities.Handle(h)
}
