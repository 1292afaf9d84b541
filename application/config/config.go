// Package config holds the bridge's tunable settings.
//
// Settings are resolved in order: defaults, an optional YAML file, the
// environment, then programmatic overrides. The numeric thresholds are
// empirically tuned defaults, not invariants; every one can be changed.
package config

const (
	ForceTTYAuto   = "auto"
	ForceTTYAlways = "always"
	ForceTTYNever  = "never"
)

// Config is the full set of bridge settings.
type Config struct {
	// Arena.
	SafeZoneStart uint32  `yaml:"safe_zone_start" json:"safe_zone_start" validate:"gte=8" jsonschema:"description=Lowest offset the arena hands out,default=1024"`
	TailReserve   uint32  `yaml:"tail_reserve" json:"tail_reserve" jsonschema:"description=Bytes kept free below the top of memory,default=2048"`
	MaxFraction   float64 `yaml:"max_fraction" json:"max_fraction" validate:"gt=0,lte=1" jsonschema:"description=Fraction of capacity usable by the safe zone,default=0.8"`
	MinStride     uint32  `yaml:"min_stride" json:"min_stride" jsonschema:"description=Minimum cursor advance between string arrays,default=16384"`

	// Marshaller.
	ArraySafetyMargin uint64 `yaml:"array_safety_margin" json:"array_safety_margin" jsonschema:"description=Extra bytes requested for each string array,default=4096"`
	ChunkThreshold    uint64 `yaml:"chunk_threshold" json:"chunk_threshold" validate:"gte=1" jsonschema:"description=Largest payload encoded in one region,default=65536"`
	ChunkSize         int    `yaml:"chunk_size" json:"chunk_size" validate:"gte=1" jsonschema:"description=Strings per chunk above the threshold,default=8"`
	UseGuestAllocator bool   `yaml:"use_guest_allocator" json:"use_guest_allocator" jsonschema:"description=Try the module's malloc before the arena,default=true"`

	// Rendering.
	RenderFloor  uint64 `yaml:"render_floor" json:"render_floor" jsonschema:"description=Minimum output headroom ensured before a render,default=32768"`
	RenderFactor uint64 `yaml:"render_factor" json:"render_factor" validate:"gte=1" jsonschema:"description=Output headroom as a multiple of input size,default=2"`

	// Runtime.
	MemoryLimitPages uint32 `yaml:"memory_limit_pages" json:"memory_limit_pages" validate:"lte=65536" jsonschema:"description=Runtime memory ceiling in 64KiB pages; 0 keeps the runtime default"`
	GCThreshold      int    `yaml:"gc_threshold" json:"gc_threshold" validate:"gte=0" jsonschema:"description=Configuration calls between guest collections; 0 disables,default=1000"`
	PropagateEnv     bool   `yaml:"propagate_env" json:"propagate_env" jsonschema:"description=Pass the host environment to the module at load,default=true"`
	ForceTTY         string `yaml:"force_tty" json:"force_tty" validate:"oneof=auto always never" jsonschema:"enum=auto,enum=always,enum=never,default=auto"`

	// Logging.
	Debug    bool   `yaml:"debug" json:"debug" jsonschema:"description=Log memory growth and strategy switches"`
	LogLevel string `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info"`
}

// Default returns the default settings.
func Default() Config {
	return Config{
		SafeZoneStart:     1024,
		TailReserve:       2048,
		MaxFraction:       0.8,
		MinStride:         16 * 1024,
		ArraySafetyMargin: 4096,
		ChunkThreshold:    64 * 1024,
		ChunkSize:         8,
		UseGuestAllocator: true,
		RenderFloor:       32 * 1024,
		RenderFactor:      2,
		GCThreshold:       1000,
		PropagateEnv:      true,
		ForceTTY:          ForceTTYAuto,
		LogLevel:          "info",
	}
}

// EffectiveLogLevel returns "debug" when Debug is set, LogLevel otherwise.
func (c Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

// OutputEstimate returns the headroom to ensure before rendering inputSize
// bytes of input: max(RenderFactor * inputSize, RenderFloor).
func (c Config) OutputEstimate(inputSize uint64) uint64 {
	return max(c.RenderFactor*inputSize, c.RenderFloor)
}
