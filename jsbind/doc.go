// Package jsbind exposes a [github.com/kvcore/scriptexec/script.Core]
// to a [goja.Runtime] as a require('script') module, so JavaScript
// source executed by the runtime can issue commands through the
// command gateway (spec.md §4.4) exactly as a native script engine
// would.
//
// # Overview
//
// The embedding host drives the lifecycle (prepare/reset/interrupt/
// kill) from Go, around each invocation of JS code; require('script')
// exposes only the operations a running script itself is allowed to
// perform:
//
//	const script = require('script');
//	const reply = script.call('SET', 'key', 'value');
//	const ok = script.pcall('INCR', 'key'); // never throws
//	script.setresp(3);
//	script.set_repl(script.REPL_AOF);
//	script.status_reply('OK');
//	script.error_reply('ERR something went wrong');
//
// Host code binds the active [script.RunContext] before each
// invocation via [Module.Bind]. Because that rebinding happens once per
// script run rather than once per runtime, hosts construct the
// [Module] directly with [New] and wire its exports themselves, rather
// than going through [Require] (which is provided for simpler
// integrations that don't need post-registration access to the
// instance):
//
//	rt := goja.New()
//	mod, _ := jsbind.New(rt, jsbind.WithCore(core))
//	exports := rt.NewObject()
//	mod.SetupExports(exports)
//	_ = rt.Set("script", exports)
//
//	core.Prepare(rc, pseudo, caller, "myfunc", true)
//	mod.Bind(rc)
//	rt.RunString(`...`)
//	core.Reset(rc)
//	mod.Bind(nil)
//
// The architecture mirrors [github.com/joeycumines/goja-grpc]'s
// Module/Require/setupExports split, substituting the gRPC channel for
// a [script.Core] and dropping protobuf/streaming concerns the
// command-gateway domain has no use for.
//
// [goja.Runtime]: github.com/dop251/goja
// [github.com/joeycumines/goja-grpc]: github.com/joeycumines/goja-grpc
package jsbind
