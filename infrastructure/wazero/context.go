package wazero

import (
	"context"

	"github.com/tetratelabs/wazero/api"
)

type contextKey struct {
	name string
}

var callerModuleKey = &contextKey{name: "caller_module"}

// WithCallerModule records the calling module instance on ctx.
func WithCallerModule(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, callerModuleKey, name)
}

// CallerModuleFromContext retrieves the name recorded by WithCallerModule.
func CallerModuleFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(callerModuleKey).(string)
	return name, ok
}

// CallerModule returns the name recorded on ctx, falling back to mod's own name.
func CallerModule(ctx context.Context, mod api.Module) string {
	if name, ok := CallerModuleFromContext(ctx); ok {
		return name
	}
	if mod == nil {
		return ""
	}
	return mod.Name()
}
