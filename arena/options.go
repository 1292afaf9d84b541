package arena

import "log/slog"

const (
	// DefaultSafeZoneStart keeps the first KiB of linear memory out of reach.
	DefaultSafeZoneStart = 1024

	// DefaultTailReserve is left unused at the top of memory.
	DefaultTailReserve = 2048

	// DefaultMaxFraction caps the safe zone and any single reservation at 80% of capacity.
	DefaultMaxFraction = 0.8

	// DefaultMinStride is the minimum distance the cursor moves after Rotate.
	DefaultMinStride = 16 * 1024
)

type settings struct {
	logger        *slog.Logger
	safeZoneStart uint32
	tailReserve   uint32
	minStride     uint32
	maxFraction   float64
}

func defaultSettings() settings {
	return settings{
		safeZoneStart: DefaultSafeZoneStart,
		tailReserve:   DefaultTailReserve,
		minStride:     DefaultMinStride,
		maxFraction:   DefaultMaxFraction,
	}
}

// Option configures an Arena.
type Option func(*settings)

// WithSafeZoneStart sets the lowest offset the arena may hand out.
func WithSafeZoneStart(offset uint32) Option {
	return func(s *settings) {
		s.safeZoneStart = offset
	}
}

// WithTailReserve sets the number of bytes kept free below the top of memory.
func WithTailReserve(n uint32) Option {
	return func(s *settings) {
		s.tailReserve = n
	}
}

// WithMaxFraction sets the fraction of capacity usable by the safe zone and
// by any single reservation. Values outside (0, 1] are ignored.
func WithMaxFraction(f float64) Option {
	return func(s *settings) {
		if f > 0 && f <= 1 {
			s.maxFraction = f
		}
	}
}

// WithMinStride sets the minimum cursor advance applied by Rotate.
func WithMinStride(n uint32) Option {
	return func(s *settings) {
		s.minStride = n
	}
}

// WithLogger sets the logger used for growth and exhaustion diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}
