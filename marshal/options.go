package marshal

import (
	"log/slog"

	"github.com/gloss-dev/glossbridge/domain/ports"
)

const (
	// DefaultSafetyMargin is added to every array capacity request.
	DefaultSafetyMargin = 4096

	// DefaultChunkThreshold is the largest total payload encoded directly.
	// Larger arrays switch to the chunked strategy.
	DefaultChunkThreshold = 64 * 1024

	// DefaultChunkSize is the number of strings written per chunk.
	DefaultChunkSize = 8
)

type settings struct {
	logger         *slog.Logger
	guest          ports.Allocator
	safetyMargin   uint64
	chunkThreshold uint64
	chunkSize      int
}

func defaultSettings() settings {
	return settings{
		safetyMargin:   DefaultSafetyMargin,
		chunkThreshold: DefaultChunkThreshold,
		chunkSize:      DefaultChunkSize,
	}
}

// Option configures a Marshaller.
type Option func(*settings)

// WithGuestAllocator makes string arrays try the guest's own allocator
// before falling back to the arena.
func WithGuestAllocator(a ports.Allocator) Option {
	return func(s *settings) {
		s.guest = a
	}
}

// WithSafetyMargin sets the extra bytes requested on top of an array's
// directory and payload.
func WithSafetyMargin(n uint64) Option {
	return func(s *settings) {
		s.safetyMargin = n
	}
}

// WithChunkThreshold sets the payload size above which arrays are chunked.
func WithChunkThreshold(n uint64) Option {
	return func(s *settings) {
		s.chunkThreshold = n
	}
}

// WithChunkSize sets the number of strings per chunk. Values below 1 are ignored.
func WithChunkSize(n int) Option {
	return func(s *settings) {
		if n >= 1 {
			s.chunkSize = n
		}
	}
}

// WithLogger sets the logger for degraded reads and strategy fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}
