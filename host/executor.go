package host

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/gloss-dev/glossbridge/hostfuncs"
	wazeroadapter "github.com/gloss-dev/glossbridge/infrastructure/wazero"
	glog "github.com/gloss-dev/glossbridge/log"
)

// Executor owns a wazero runtime configured for styling modules.
type Executor struct {
	runtime wazero.Runtime
	table   *hostfuncs.CallbackTable
	opts    options
	logger  *slog.Logger
}

// NewExecutor creates a runtime with WASI and the callback import.
// A non-zero MemoryLimitPages caps every module's memory; growth past it is
// refused and reported as a capacity error.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := resolveLogger(o)
	if err != nil {
		return nil, err
	}
	o.logger = logger
	if o.table == nil {
		o.table = hostfuncs.NewCallbackTable(
			hostfuncs.WithLogger(logger),
			hostfuncs.WithMiddleware(hostfuncs.LoggingMiddleware(logger)),
		)
	}

	rc := wazero.NewRuntimeConfig()
	if o.cfg.MemoryLimitPages > 0 {
		rc = rc.WithMemoryLimitPages(o.cfg.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, rc)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
	}
	if err := wazeroadapter.RegisterWithRuntime(ctx, rt, o.table, wazeroadapter.WithLogger(logger)); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	return &Executor{runtime: rt, table: o.table, opts: o, logger: logger}, nil
}

// Table returns the callback table the import dispatches into.
func (e *Executor) Table() *hostfuncs.CallbackTable {
	return e.table
}

// Runtime returns the underlying wazero runtime.
func (e *Executor) Runtime() wazero.Runtime {
	return e.runtime
}

// Close releases the runtime and every module instantiated in it.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Load instantiates wasm under name, runs _initialize when exported and
// prepares the bridge state. Module stdout and stderr are logged line by line;
// stdout is also kept for Module.Output.
func (e *Executor) Load(ctx context.Context, wasm []byte, name string) (*Module, error) {
	output := hostfuncs.NewBoundedBuffer(e.opts.outputLimit)
	stdout := glog.NewGuestWriter(e.logger, name, "stdout", slog.LevelDebug)
	stderr := glog.NewGuestWriter(e.logger, name, "stderr", slog.LevelWarn)

	var stdoutW io.Writer = io.MultiWriter(output, stdout)
	if e.opts.stdout != nil {
		stdoutW = io.MultiWriter(output, stdout, e.opts.stdout)
	}
	var stderrW io.Writer = stderr
	if e.opts.stderr != nil {
		stderrW = io.MultiWriter(stderr, e.opts.stderr)
	}

	mc := wazero.NewModuleConfig().
		WithName(name).
		WithStartFunctions().
		WithStdout(stdoutW).
		WithStderr(stderrW).
		WithSysWalltime().
		WithSysNanotime().
		WithRandSource(rand.Reader)

	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}
	mod, err := e.runtime.InstantiateModule(ctx, compiled, mc)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	guest := wazeroadapter.NewGuest(mod)
	if guest.HasExport("_initialize") {
		if _, err := guest.Call(ctx, "_initialize"); err != nil {
			_ = mod.Close(ctx)
			return nil, fmt.Errorf("failed to call _initialize: %w", err)
		}
	}

	m, err := newModule(ctx, guest, e.opts)
	if err != nil {
		_ = mod.Close(ctx)
		return nil, err
	}
	m.output = output
	m.flushers = append(m.flushers, stdout.Flush, stderr.Flush)
	return m, nil
}

func resolveLogger(o options) (*slog.Logger, error) {
	if o.logger != nil {
		return o.logger, nil
	}
	level, err := glog.ParseLevel(o.cfg.EffectiveLogLevel())
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return glog.New(glog.WithLevel(level)), nil
}
