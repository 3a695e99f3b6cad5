package jsbind

import (
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"
)

// Require returns a [require.ModuleLoader] that initialises the script
// module when loaded by a [goja.Runtime]. The integrator registers the
// loader under whatever module name they choose:
//
//	registry := require.NewRegistry()
//	registry.RegisterNativeModule("script", jsbind.Require(
//	    jsbind.WithCore(core),
//	))
//	registry.Enable(runtime)
//
// After registration, JavaScript code loads the module by name:
//
//	const script = require('script');
//
// Require itself never returns an error: the returned loader calls
// [New] when the module is loaded and panics with a Go error value if
// [New] fails (missing or invalid options). Callers that want to
// validate an option set before calling RegisterNativeModule can call
// [New] themselves.
func Require(opts ...Option) require.ModuleLoader {
	return func(runtime *goja.Runtime, module *goja.Object) {
		m, err := New(runtime, opts...)
		if err != nil {
			panic(runtime.NewGoError(err))
		}
		exports := module.Get("exports").(*goja.Object)
		m.setupExports(exports)
	}
}
