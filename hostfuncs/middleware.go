package hostfuncs

import (
	"context"
	"log/slog"
	"time"

	"github.com/gloss-dev/glossbridge/domain/entities"
)

// Middleware wraps a Handler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps outermost).
type Middleware func(next Handler) Handler

// TableOption configures a CallbackTable.
type TableOption func(*CallbackTable)

// PanicRecoveryMiddleware converts a panicking callback into a dispatch error.
func PanicRecoveryMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, row, col int32) (h Handled, err error) {
			defer func() {
				if r := recover(); r != nil {
					h, err = nil, NewPanicError(callbackID(ctx), r)
				}
			}()
			return next(ctx, row, col)
		}
	}
}

// LoggingMiddleware logs every dispatch at debug level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, row, col int32) (Handled, error) {
			start := time.Now()
			h, err := next(ctx, row, col)
			depth := 0
			if hc, ok := HostContextFrom(ctx); ok {
				depth = hc.Depth()
			}
			logger.DebugContext(ctx, "hostfuncs: callback dispatched",
				"id", callbackID(ctx), "row", row, "col", col, "depth", depth,
				"duration", time.Since(start), "failed", err != nil)
			return h, err
		}
	}
}

func callbackID(ctx context.Context) entities.CallbackID {
	if hc, ok := HostContextFrom(ctx); ok {
		return hc.CallbackID()
	}
	return 0
}
