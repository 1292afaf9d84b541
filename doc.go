// Package gloss drives a terminal styling engine compiled to WebAssembly.
//
// Every object (a Style, a Table, a List, a Tree, a Leaf) is a thin wrapper
// around one opaque handle into the module's memory. Configuration methods
// encode their text arguments, call the matching module export with the
// handle and return the receiver so calls chain:
//
//	r, err := gloss.Open(ctx, wasm)
//	if err != nil {
//		return err
//	}
//	defer r.Close(ctx)
//
//	out := r.NewStyle().
//		Bold(true).
//		Foreground(r.Color("#FAFAFA")).
//		Padding(1, 2).
//		Render("Hello")
//
// Nothing here returns an error. A failed encode or call is logged and the
// affected operation degrades: configuration becomes a no-op and rendering
// yields the empty string. A Renderer and everything it creates must be used
// from one goroutine.
package gloss
