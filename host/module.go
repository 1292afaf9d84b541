package host

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gloss-dev/glossbridge/application/config"
	"github.com/gloss-dev/glossbridge/arena"
	"github.com/gloss-dev/glossbridge/domain/entities"
	"github.com/gloss-dev/glossbridge/domain/errors"
	"github.com/gloss-dev/glossbridge/domain/ports"
	"github.com/gloss-dev/glossbridge/hostfuncs"
	"github.com/gloss-dev/glossbridge/marshal"
)

const (
	// EnvDetectExport receives the host environment as a string array.
	EnvDetectExport = "DetectFromEnvVars"

	// GCExport is the optional collection hook.
	GCExport = "wasmGC"

	// TTYForceVar tells the module whether the host's stdout is a terminal.
	TTYForceVar = "TTY_FORCE"
)

type pendingCall struct {
	frame *arena.Frame
	mark  int
}

// Module is one instantiated styling module together with the arena and
// marshaller that encode values into its memory. It follows the arena's
// single-goroutine discipline; callbacks re-entering on the same goroutine
// are supported.
type Module struct {
	guest   ports.Guest
	arena   *arena.Arena
	marshal *marshal.Marshaller
	table   *hostfuncs.CallbackTable
	cfg     config.Config
	logger  *slog.Logger

	// Regions encoded since the last call, pinned until the next Call returns.
	pending *pendingCall

	// Capacity output headroom is measured from, and the capacity the last
	// successful EnsureOutput left behind.
	baseline    uint64
	ensured     uint64
	configCalls int
	collections int

	output   *hostfuncs.BoundedBuffer
	flushers []func()
	closed   bool
}

// NewModule wraps an already instantiated guest. Executor.Load uses it for
// wazero modules; tests use it with in-process guests. The callback import
// of g must dispatch into the table set with WithCallbackTable, or into
// Module.Table when none was set.
func NewModule(ctx context.Context, g ports.Guest, opts ...Option) (*Module, error) {
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
		o.table = hostfuncs.NewCallbackTable(hostfuncs.WithLogger(logger))
	}
	return newModule(ctx, g, o)
}

func newModule(ctx context.Context, g ports.Guest, o options) (*Module, error) {
	mem := g.Memory()
	if mem == nil {
		return nil, fmt.Errorf("module %q exports no memory", g.Name())
	}
	logger := o.logger.With("module", g.Name())
	cfg := o.cfg

	a := arena.New(mem,
		arena.WithSafeZoneStart(cfg.SafeZoneStart),
		arena.WithTailReserve(cfg.TailReserve),
		arena.WithMaxFraction(cfg.MaxFraction),
		arena.WithMinStride(cfg.MinStride),
		arena.WithLogger(logger),
	)

	mopts := []marshal.Option{
		marshal.WithSafetyMargin(cfg.ArraySafetyMargin),
		marshal.WithChunkThreshold(cfg.ChunkThreshold),
		marshal.WithChunkSize(cfg.ChunkSize),
		marshal.WithLogger(logger),
	}
	if cfg.UseGuestAllocator {
		if ga, ok := marshal.NewGuestAllocator(g); ok {
			logger.Debug("host: using guest allocator", "allocator", ga.Name())
			mopts = append(mopts, marshal.WithGuestAllocator(ga))
		}
	}

	m := &Module{
		guest:    g,
		arena:    a,
		marshal:  marshal.New(a, mopts...),
		table:    o.table,
		cfg:      cfg,
		logger:   logger,
		baseline: a.Capacity(),
		ensured:  a.Capacity(),
	}

	if cfg.PropagateEnv {
		if err := m.propagateEnv(ctx, o); err != nil {
			logger.WarnContext(ctx, "host: environment not propagated", "error", err)
		}
	}
	return m, nil
}

// propagateEnv passes the host environment to the module as KEY=VALUE
// entries so it can detect the color profile itself.
func (m *Module) propagateEnv(ctx context.Context, o options) error {
	if !m.guest.HasExport(EnvDetectExport) {
		m.logger.DebugContext(ctx, "host: module does not detect environment")
		return nil
	}
	env := withTTYForce(o.environ(), ttyForced(m.cfg.ForceTTY, o.isTerminal))
	dir, err := m.WriteStringArray(ctx, env)
	if err != nil {
		m.Discard()
		return err
	}
	_, err = m.Call(ctx, EnvDetectExport, uint64(dir), uint64(len(env)))
	return err
}

func ttyForced(mode string, isTerminal func() bool) bool {
	switch mode {
	case config.ForceTTYAlways:
		return true
	case config.ForceTTYNever:
		return false
	default:
		return isTerminal != nil && isTerminal()
	}
}

// withTTYForce returns environ with TTY_FORCE set, replacing any existing entry.
func withTTYForce(environ []string, tty bool) []string {
	entry := fmt.Sprintf("%s=%t", TTYForceVar, tty)
	out := make([]string, 0, len(environ)+1)
	for _, kv := range environ {
		if strings.HasPrefix(kv, TTYForceVar+"=") {
			continue
		}
		out = append(out, kv)
	}
	return append(out, entry)
}

// Name returns the module instance name.
func (m *Module) Name() string {
	return m.guest.Name()
}

// Guest returns the wrapped instance.
func (m *Module) Guest() ports.Guest {
	return m.guest
}

// Arena returns the module's arena.
func (m *Module) Arena() *arena.Arena {
	return m.arena
}

// Marshaller returns the module's marshaller.
func (m *Module) Marshaller() *marshal.Marshaller {
	return m.marshal
}

// Table returns the callback table the module's import dispatches into.
func (m *Module) Table() *hostfuncs.CallbackTable {
	return m.table
}

// Config returns the settings the module was loaded with.
func (m *Module) Config() config.Config {
	return m.cfg
}

// Logger returns the module-scoped logger.
func (m *Module) Logger() *slog.Logger {
	return m.logger
}

// Output returns what the module has written to stdout, if captured.
func (m *Module) Output() string {
	if m.output == nil {
		return ""
	}
	return m.output.String()
}

// HasExport reports whether the module exports name.
func (m *Module) HasExport(name string) bool {
	return m.guest.HasExport(name)
}

func (m *Module) openPending() {
	if m.pending == nil {
		m.pending = &pendingCall{frame: m.arena.Enter(), mark: m.marshal.Mark()}
	}
}

// WriteString encodes s for the next Call.
func (m *Module) WriteString(s string) (entities.EncodedString, error) {
	if m.closed {
		return entities.EncodedString{}, errors.ErrClosed
	}
	m.openPending()
	return m.marshal.WriteString(s)
}

// WriteStringArray encodes strs for the next Call and returns the directory
// address.
func (m *Module) WriteStringArray(ctx context.Context, strs []string) (uint32, error) {
	if m.closed {
		return 0, errors.ErrClosed
	}
	m.openPending()
	return m.marshal.WriteStringArray(ctx, strs)
}

// Discard drops arguments encoded since the last call without making one.
func (m *Module) Discard() {
	if m.pending == nil {
		return
	}
	p := m.pending
	m.pending = nil
	if err := m.marshal.ReleaseSince(context.Background(), p.mark); err != nil {
		m.logger.Warn("host: failed to free guest allocations", "error", err)
	}
	p.frame.Exit()
}

// Call invokes an export and returns its first result, or 0 when it has
// none. Arguments encoded since the previous call stay pinned until it
// returns; guest allocations made for them are freed afterwards.
func (m *Module) Call(ctx context.Context, name string, params ...uint64) (uint64, error) {
	if m.closed {
		return 0, fmt.Errorf("%s: %w", name, errors.ErrClosed)
	}
	p := m.pending
	m.pending = nil
	if p == nil {
		p = &pendingCall{frame: m.arena.Enter(), mark: m.marshal.Mark()}
	}
	defer func() {
		if err := m.marshal.ReleaseSince(ctx, p.mark); err != nil {
			m.logger.WarnContext(ctx, "host: failed to free guest allocations", "export", name, "error", err)
		}
		p.frame.Exit()
	}()

	res, err := m.guest.Call(ctx, name, params...)
	if err != nil {
		return 0, err
	}
	if len(res) == 0 {
		return 0, nil
	}
	return res[0], nil
}

// CallResult invokes an export returning a result header address and
// decodes it. Any failure degrades to the empty string and is logged.
func (m *Module) CallResult(ctx context.Context, name string, params ...uint64) string {
	addr, err := m.Call(ctx, name, params...)
	if err != nil {
		m.logger.ErrorContext(ctx, "host: call failed", "export", name, "error", err)
		return ""
	}
	return m.marshal.ReadResult(ctx, uint32(addr))
}

// CallString reads a string exposed through a pair of exports returning its
// pointer and its length. Any failure degrades to the empty string.
func (m *Module) CallString(ctx context.Context, ptrExport, lenExport string, params ...uint64) string {
	ptr, err := m.Call(ctx, ptrExport, params...)
	if err != nil {
		m.logger.ErrorContext(ctx, "host: call failed", "export", ptrExport, "error", err)
		return ""
	}
	length, err := m.Call(ctx, lenExport, params...)
	if err != nil {
		m.logger.ErrorContext(ctx, "host: call failed", "export", lenExport, "error", err)
		return ""
	}
	if ptr == 0 || length == 0 {
		return ""
	}
	s, err := m.marshal.ReadString(uint32(ptr), uint32(length))
	if err != nil {
		m.logger.ErrorContext(ctx, "host: dropping unreadable string",
			"export", ptrExport, "ptr", uint32(ptr), "len", uint32(length), "error", err)
		return ""
	}
	return s
}

// ReadResult decodes a result header address.
func (m *Module) ReadResult(ctx context.Context, addr uint32) string {
	return m.marshal.ReadResult(ctx, addr)
}

// EnsureOutput grows memory ahead of a render so the module has room for
// its output: max(RenderFactor*inputSize, RenderFloor) above the baseline.
// The baseline starts at the capacity at load and moves up to the current
// capacity whenever memory grew since the last EnsureOutput, so headroom is
// measured above whatever the module's heap has taken. Repeat renders of the
// same size do not grow memory again.
// A refused growth is logged and reported as false; the render still runs.
func (m *Module) EnsureOutput(inputSize uint64) bool {
	if c := m.arena.Capacity(); c > m.ensured {
		m.baseline = c
	}
	need := m.baseline + m.cfg.OutputEstimate(inputSize)
	if err := m.arena.Require(need); err != nil {
		m.logger.Warn("host: output headroom unavailable", "required", need, "error", err)
		return false
	}
	m.ensured = m.arena.Capacity()
	return true
}

// Touch counts one configuration call and triggers GC once GCThreshold
// calls have accumulated.
func (m *Module) Touch(ctx context.Context) {
	if m.cfg.GCThreshold <= 0 {
		return
	}
	m.configCalls++
	if m.configCalls >= m.cfg.GCThreshold {
		m.configCalls = 0
		m.GC(ctx)
	}
}

// GC asks the module to collect garbage when it exports wasmGC. Failures
// are logged and otherwise ignored.
func (m *Module) GC(ctx context.Context) {
	if m.closed || !m.guest.HasExport(GCExport) {
		return
	}
	if _, err := m.Call(ctx, GCExport); err != nil {
		m.logger.DebugContext(ctx, "host: collection failed", "error", err)
		return
	}
	m.collections++
}

// Collections returns how many wasmGC calls have succeeded.
func (m *Module) Collections() int {
	return m.collections
}

// Close flushes buffered module output and closes the instance.
// Calls on a closed Module fail with errors.ErrClosed.
func (m *Module) Close(ctx context.Context) error {
	if m.closed {
		return nil
	}
	m.Discard()
	m.closed = true
	for _, flush := range m.flushers {
		flush()
	}
	return m.guest.Close(ctx)
}
