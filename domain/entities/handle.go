package entities

// Handle is an opaque integer identifying guest-owned state (a style, a
// table, a tree node). It is only meaningful to the module instance that
// issued it; zero is the null handle.
type Handle uint32

// IsNull reports whether h is the null handle.
func (h Handle) IsNull() bool {
	return h == 0
}

// CallbackID identifies a host closure in the callback dispatch table.
// IDs start at 1 and are never reused.
type CallbackID uint32
