package wazero

import (
	"context"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/gloss-dev/glossbridge/hostfuncs"
)

const (
	// DefaultModuleName is the import module the callback lives in.
	DefaultModuleName = "env"

	// DefaultCallbackName is the import name of the callback entry point.
	DefaultCallbackName = "callStyleFunc"
)

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	// ModuleName is the host module name (default: "env").
	ModuleName string

	// CallbackName is the exported name of the callback entry point
	// (default: "callStyleFunc").
	CallbackName string

	// Logger receives dispatch failures. Defaults to slog.Default().
	Logger *slog.Logger

	// CustomHandlers adds further functions to the same host module.
	CustomHandlers []CustomHandler
}

// CustomHandler represents an extra host function exported alongside the callback.
type CustomHandler struct {
	// Name is the exported function name.
	Name string

	// Handler is the wazero GoModuleFunc implementation.
	Handler api.GoModuleFunc

	// ParamTypes are the WASM parameter types.
	ParamTypes []api.ValueType

	// ResultTypes are the WASM result types.
	ResultTypes []api.ValueType
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name.
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithCallbackName sets the exported name of the callback entry point.
func WithCallbackName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.CallbackName = name
	}
}

// WithLogger sets the logger used when a callback cannot be dispatched.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		c.Logger = l
	}
}

// WithCustomHandler adds a custom wazero handler.
func WithCustomHandler(h CustomHandler) AdapterOption {
	return func(c *AdapterConfig) {
		c.CustomHandlers = append(c.CustomHandlers, h)
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		ModuleName:   DefaultModuleName,
		CallbackName: DefaultCallbackName,
	}
}

// RegisterWithRuntime instantiates the host module exporting the callback
// entry point, bound to table.
//
// The callback takes (id, row, col) as i32 and returns a handle as i32. It
// never traps: an unknown id, a failing closure or a panic all return 0.
func RegisterWithRuntime(ctx context.Context, runtime wazero.Runtime, table *hostfuncs.CallbackTable, opts ...AdapterOption) error {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	builder := runtime.NewHostModuleBuilder(cfg.ModuleName)

	i32 := api.ValueTypeI32
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			handleCallback(ctx, mod, stack, table, logger)
		}), []api.ValueType{i32, i32, i32}, []api.ValueType{i32}).
		WithParameterNames("id", "row", "col").
		Export(cfg.CallbackName)

	for _, ch := range cfg.CustomHandlers {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(ch.Handler, ch.ParamTypes, ch.ResultTypes).
			Export(ch.Name)
	}

	_, err := builder.Instantiate(ctx)
	return err
}

// handleCallback dispatches one module->host call. The module is put on
// the context so closures that re-enter know which instance called them.
func handleCallback(ctx context.Context, mod api.Module, stack []uint64, table *hostfuncs.CallbackTable, logger *slog.Logger) {
	id := api.DecodeU32(stack[0])
	row := api.DecodeU32(stack[1])
	col := api.DecodeU32(stack[2])

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "wazero: callback panicked past dispatch",
				"module", CallerModule(ctx, mod), "id", id, "panic", r)
			stack[0] = 0
		}
	}()

	handle := table.Invoke(WithCallerModule(ctx, CallerModule(ctx, mod)), id, row, col)
	stack[0] = api.EncodeU32(handle)
}
