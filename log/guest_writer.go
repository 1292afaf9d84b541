package log

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
)

// GuestWriter turns a module's stdout or stderr into log records, one per
// line, tagged with the module name and stream.
type GuestWriter struct {
	mu     sync.Mutex
	logger *slog.Logger
	level  slog.Level
	buf    []byte
}

// NewGuestWriter returns a writer logging at level through logger.
func NewGuestWriter(logger *slog.Logger, module, stream string, level slog.Level) *GuestWriter {
	return &GuestWriter{
		logger: logger.With("module", module, "stream", stream),
		level:  level,
	}
}

// Write logs every complete line in p and buffers the remainder.
func (w *GuestWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush logs any buffered partial line.
func (w *GuestWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.emit(w.buf)
		w.buf = nil
	}
}

func (w *GuestWriter) emit(line []byte) {
	line = bytes.TrimRight(line, "\r")
	if len(line) == 0 {
		return
	}
	w.logger.Log(context.Background(), w.level, "guest output", "line", string(line))
}
