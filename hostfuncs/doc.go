// Package hostfuncs implements the host side of module-to-host calls: a
// table mapping small integer IDs to host closures, dispatched by the single
// callback import the module is linked against.
//
// Dispatch is synchronous and may be re-entrant: a closure runs on the stack
// of the foreign call that invoked it and is free to make foreign calls of
// its own. Nothing dispatched here panics or returns an error across the
// boundary; failures become the null handle and are logged on the host.
package hostfuncs
