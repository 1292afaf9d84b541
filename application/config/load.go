package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gloss-dev/glossbridge/domain/errors"
	"github.com/gloss-dev/glossbridge/domain/ports"
	"github.com/gloss-dev/glossbridge/infrastructure/parser"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GLOSS_"

type loader struct {
	parser    ports.ConfigParser
	file      string
	data      []byte
	lookup    func(string) (string, bool)
	overrides []func(*Config)
}

// LoadOption configures Load.
type LoadOption func(*loader)

// WithFile reads YAML settings from path.
func WithFile(path string) LoadOption {
	return func(l *loader) {
		l.file = path
	}
}

// WithYAML reads YAML settings from data.
func WithYAML(data []byte) LoadOption {
	return func(l *loader) {
		l.data = data
	}
}

// WithParser replaces the YAML parser.
func WithParser(p ports.ConfigParser) LoadOption {
	return func(l *loader) {
		l.parser = p
	}
}

// WithEnviron reads overrides from a KEY=VALUE list instead of the process
// environment. A nil list disables environment overrides.
func WithEnviron(environ []string) LoadOption {
	return func(l *loader) {
		vars := make(map[string]string, len(environ))
		for _, kv := range environ {
			if k, v, ok := strings.Cut(kv, "="); ok {
				vars[k] = v
			}
		}
		l.lookup = func(k string) (string, bool) {
			v, ok := vars[k]
			return v, ok
		}
	}
}

// WithOverride applies fn after every other source.
func WithOverride(fn func(*Config)) LoadOption {
	return func(l *loader) {
		l.overrides = append(l.overrides, fn)
	}
}

// Load resolves settings from defaults, YAML, environment and overrides,
// then validates the result.
func Load(opts ...LoadOption) (Config, error) {
	l := &loader{
		parser: parser.NewYamlConfigParser(),
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}

	cfg := Default()

	if l.file != "" {
		data, err := os.ReadFile(l.file)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", l.file, err)
		}
		if err := l.parser.Parse(data, &cfg); err != nil {
			return Config{}, &errors.ConfigError{Field: l.file, Err: err}
		}
	}
	if len(l.data) > 0 {
		if err := l.parser.Parse(l.data, &cfg); err != nil {
			return Config{}, &errors.ConfigError{Err: err}
		}
	}

	if err := ApplyEnv(&cfg, l.lookup); err != nil {
		return Config{}, err
	}

	for _, fn := range l.overrides {
		fn(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type envVar struct {
	name  string
	apply func(*Config, string) error
}

var envVars = []envVar{
	{"SAFE_ZONE_START", func(c *Config, v string) error { return parseUint32(v, &c.SafeZoneStart) }},
	{"TAIL_RESERVE", func(c *Config, v string) error { return parseUint32(v, &c.TailReserve) }},
	{"MAX_FRACTION", func(c *Config, v string) error { return parseFloat(v, &c.MaxFraction) }},
	{"MIN_STRIDE", func(c *Config, v string) error { return parseUint32(v, &c.MinStride) }},
	{"ARRAY_SAFETY_MARGIN", func(c *Config, v string) error { return parseUint64(v, &c.ArraySafetyMargin) }},
	{"CHUNK_THRESHOLD", func(c *Config, v string) error { return parseUint64(v, &c.ChunkThreshold) }},
	{"CHUNK_SIZE", func(c *Config, v string) error { return parseInt(v, &c.ChunkSize) }},
	{"USE_GUEST_ALLOCATOR", func(c *Config, v string) error { return parseBool(v, &c.UseGuestAllocator) }},
	{"RENDER_FLOOR", func(c *Config, v string) error { return parseUint64(v, &c.RenderFloor) }},
	{"RENDER_FACTOR", func(c *Config, v string) error { return parseUint64(v, &c.RenderFactor) }},
	{"MEMORY_LIMIT_PAGES", func(c *Config, v string) error { return parseUint32(v, &c.MemoryLimitPages) }},
	{"GC_THRESHOLD", func(c *Config, v string) error { return parseInt(v, &c.GCThreshold) }},
	{"PROPAGATE_ENV", func(c *Config, v string) error { return parseBool(v, &c.PropagateEnv) }},
	{"FORCE_TTY", func(c *Config, v string) error { c.ForceTTY = strings.ToLower(v); return nil }},
	{"DEBUG", func(c *Config, v string) error { return parseBool(v, &c.Debug) }},
	{"LOG_LEVEL", func(c *Config, v string) error { c.LogLevel = strings.ToLower(v); return nil }},
}

// ApplyEnv applies GLOSS_* overrides found through lookup, plus the
// LIPGLOSS_DEBUG_MEMORY, LIPGLOSS_DEBUG and DEBUG switches, which turn on
// Debug. A nil lookup applies nothing.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	for _, ev := range envVars {
		v, ok := lookup(EnvPrefix + ev.name)
		if !ok || v == "" {
			continue
		}
		if err := ev.apply(cfg, v); err != nil {
			return &errors.ConfigError{Field: EnvPrefix + ev.name, Err: err}
		}
	}
	if DebugRequested(lookup) {
		cfg.Debug = true
	}
	return nil
}

// DebugRequested reports whether the environment asks for memory diagnostics.
func DebugRequested(lookup func(string) (string, bool)) bool {
	if v, _ := lookup("LIPGLOSS_DEBUG_MEMORY"); v == "true" {
		return true
	}
	if v, _ := lookup("LIPGLOSS_DEBUG"); v == "true" {
		return true
	}
	v, _ := lookup("DEBUG")
	return v == "lipgloss" || v == "*"
}

func parseUint32(s string, dst *uint32) error {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return err
	}
	*dst = uint32(n)
	return nil
}

func parseUint64(s string, dst *uint64) error {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func parseInt(s string, dst *int) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func parseFloat(s string, dst *float64) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func parseBool(s string, dst *bool) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}
