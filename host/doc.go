// Package host runs a styling module and owns the per-instance bridge state.
//
// An Executor wraps a wazero runtime with WASI and the callStyleFunc import
// bound to a callback table. Loading a module yields a Module, which pairs the
// instance with its arena and marshaller. Module.Call is the only way host
// code invokes an export: arguments encoded since the previous call stay
// pinned in an arena frame until that call returns, so a callback that
// re-enters the host and encodes its own arguments never overwrites them.
package host
