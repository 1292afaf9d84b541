package host

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/gloss-dev/glossbridge/application/config"
	"github.com/gloss-dev/glossbridge/hostfuncs"
)

type options struct {
	cfg         config.Config
	logger      *slog.Logger
	table       *hostfuncs.CallbackTable
	stdout      io.Writer
	stderr      io.Writer
	outputLimit int
	environ     func() []string
	isTerminal  func() bool
}

func defaultOptions() options {
	return options{
		cfg:         config.Default(),
		outputLimit: hostfuncs.DefaultMaxGuestOutput,
		environ:     os.Environ,
		isTerminal:  stdoutIsTerminal,
	}
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Option defines a functional option for configuring the Executor and the
// Modules it loads.
type Option func(*options)

// WithConfig replaces the default settings.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger shared by the arena, marshaller and dispatch
// table. Without it a logger is built from the configured level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCallbackTable binds the callback import to an existing table.
func WithCallbackTable(t *hostfuncs.CallbackTable) Option {
	return func(o *options) {
		o.table = t
	}
}

// WithStdout copies the module's stdout to w in addition to the log.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithStderr copies the module's stderr to w in addition to the log.
func WithStderr(w io.Writer) Option {
	return func(o *options) {
		o.stderr = w
	}
}

// WithOutputLimit bounds how much module stdout is kept for Module.Output.
func WithOutputLimit(n int) Option {
	return func(o *options) {
		o.outputLimit = n
	}
}

// WithEnviron sets the KEY=VALUE entries propagated to the module at load.
// Defaults to os.Environ.
func WithEnviron(environ []string) Option {
	return func(o *options) {
		env := append([]string(nil), environ...)
		o.environ = func() []string { return env }
	}
}

// WithTerminalCheck overrides how the host decides whether its stdout is a
// terminal when ForceTTY is "auto".
func WithTerminalCheck(fn func() bool) Option {
	return func(o *options) {
		o.isTerminal = fn
	}
}
