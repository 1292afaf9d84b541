// Package wazero binds the bridge to the wazero runtime.
//
// It registers the single host import the module calls back through:
//
//	(import "env" "callStyleFunc" (func (param i32 i32 i32) (result i32)))
//
// and adapts an instantiated api.Module to ports.Guest so the arena and the
// marshaller can work against its exports and linear memory.
//
// # Basic Usage
//
//	table := hostfuncs.NewCallbackTable()
//	runtime := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithMemoryLimitPages(4096))
//
//	if err := wazeroadapter.RegisterWithRuntime(ctx, runtime, table); err != nil {
//	    return err
//	}
//	mod, err := runtime.Instantiate(ctx, wasmBytes)
//	if err != nil {
//	    return err
//	}
//	guest := wazeroadapter.NewGuest(mod)
//
// # Custom Handlers
//
// TinyGo and Go guests sometimes import extra functions from the same host
// module. Provide them with WithCustomHandler:
//
//	wazeroadapter.RegisterWithRuntime(ctx, runtime, table,
//	    wazeroadapter.WithCustomHandler(wazeroadapter.CustomHandler{
//	        Name:        "debugLog",
//	        Handler:     debugLogHandler,
//	        ParamTypes:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
//	        ResultTypes: []api.ValueType{},
//	    }),
//	)
package wazero
