package ports

import "context"

// Guest is an instantiated module driven through numbered exports.
type Guest interface {
	// Name returns the module name, used in logs.
	Name() string

	// Memory returns the guest's exported linear memory.
	Memory() Memory

	// HasExport reports whether a function with the given name is exported.
	HasExport(name string) bool

	// Call invokes an exported function. Parameters and results use the
	// runtime's uint64 stack encoding.
	Call(ctx context.Context, name string, params ...uint64) ([]uint64, error)

	// Close releases the instance.
	Close(ctx context.Context) error
}
