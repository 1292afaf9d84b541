package hostfuncs

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"

	"github.com/gloss-dev/glossbridge/domain/entities"
	"github.com/gloss-dev/glossbridge/domain/errors"
)

// CallbackTable maps callback ids to host closures.
//
// Ids start at 1, increase monotonically and are never reused, so a stale id
// held by the module can never reach a different closure. The table only
// grows; registrations are expected once per configuration call, not per
// render. A mutex guards the map, but it is never held while a closure runs,
// so closures may register further callbacks or dispatch re-entrantly.
type CallbackTable struct {
	mu         sync.RWMutex
	handlers   map[entities.CallbackID]Handler
	last       entities.CallbackID
	middleware []Middleware
	logger     *slog.Logger
	failures   int
}

// NewCallbackTable creates an empty table.
//
// Example usage:
//
//	table := NewCallbackTable(
//	    WithMiddleware(LoggingMiddleware(logger)),
//	    WithLogger(logger),
//	)
//	id := table.Register(func(ctx context.Context, row, col int32) (Handled, error) {
//	    return headerStyle, nil
//	})
func NewCallbackTable(opts ...TableOption) *CallbackTable {
	t := &CallbackTable{
		handlers: make(map[entities.CallbackID]Handler),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// WithMiddleware adds middleware applied to every handler registered afterwards.
// Panic recovery is always applied innermost.
func WithMiddleware(mw ...Middleware) TableOption {
	return func(t *CallbackTable) {
		t.middleware = append(t.middleware, mw...)
	}
}

// WithLogger sets the logger for dispatch failures.
func WithLogger(logger *slog.Logger) TableOption {
	return func(t *CallbackTable) {
		t.logger = logger
	}
}

// Register stores h under the next unused id and returns that id.
func (t *CallbackTable) Register(h Handler) entities.CallbackID {
	wrapped := PanicRecoveryMiddleware()(h)
	for i := len(t.middleware) - 1; i >= 0; i-- {
		wrapped = t.middleware[i](wrapped)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.last++
	t.handlers[t.last] = wrapped
	return t.last
}

// Dispatch runs the closure registered under id and returns the handle of
// the object it produced.
func (t *CallbackTable) Dispatch(ctx context.Context, id entities.CallbackID, row, col int32) (handle entities.Handle, err error) {
	t.mu.RLock()
	h, ok := t.handlers[id]
	t.mu.RUnlock()
	if !ok {
		return 0, NewUnknownIDError(id)
	}

	// Middleware registered by callers can still panic.
	defer func() {
		if r := recover(); r != nil {
			handle, err = 0, NewPanicError(id, r)
		}
	}()

	result, err := h(NewHostContext(ctx, id, row, col), row, col)
	if err != nil {
		var dispatchErr *errors.DispatchError
		if stderrors.As(err, &dispatchErr) {
			return 0, err
		}
		return 0, NewCallbackError(id, err)
	}
	if result == nil {
		return 0, NewNilResultError(id)
	}
	handle = result.Handle()
	if handle.IsNull() {
		return 0, NewNullHandleError(id)
	}
	return handle, nil
}

// Invoke is the boundary form of Dispatch: it never fails, returning the
// null handle and logging the cause instead.
func (t *CallbackTable) Invoke(ctx context.Context, id, row, col uint32) uint32 {
	handle, err := t.Dispatch(ctx, entities.CallbackID(id), int32(row), int32(col))
	if err != nil {
		t.mu.Lock()
		t.failures++
		t.mu.Unlock()
		t.logger.ErrorContext(ctx, "hostfuncs: callback failed, returning null handle",
			"id", id, "row", int32(row), "col", int32(col), "error", errors.ToErrorDetail(err))
		return 0
	}
	return uint32(handle)
}

// Has reports whether id is registered.
func (t *CallbackTable) Has(id entities.CallbackID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.handlers[id]
	return ok
}

// Len returns the number of registered callbacks.
func (t *CallbackTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.handlers)
}

// Failures returns the number of Invoke calls that returned the null handle.
func (t *CallbackTable) Failures() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.failures
}
