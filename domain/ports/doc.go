// Package ports defines what the bridge needs from a WebAssembly runtime
// (an instantiated guest and its linear memory) and from a configuration
// parser. Adapters live under infrastructure/; tests use the in-process
// doubles in internal/testutil.
package ports
