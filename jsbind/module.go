package jsbind

import (
	"github.com/dop251/goja"
	"github.com/kvcore/scriptexec/internal/collab"
	"github.com/kvcore/scriptexec/script"
)

// Module provides script-gateway support for a [goja.Runtime]. Each
// Module instance is bound to a single runtime and dispatches through
// a single [script.Core].
type Module struct {
	runtime *goja.Runtime
	core    *script.Core
	active  *script.RunContext
}

// New creates a new [Module] bound to the given [goja.Runtime].
//
// New panics if runtime is nil, as this is a programming error. It
// returns an error if option validation fails or if required options
// are missing.
func New(runtime *goja.Runtime, opts ...Option) (*Module, error) {
	if runtime == nil {
		panic("jsbind: runtime must not be nil")
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Module{runtime: runtime, core: cfg.core}, nil
}

// Runtime returns the [goja.Runtime] this module is bound to.
func (m *Module) Runtime() *goja.Runtime { return m.runtime }

// Bind installs rc as the run context subsequent JS calls into this
// module dispatch against. The embedding host calls Bind once per
// invocation, after [script.Core.Prepare] and before handing control to
// the runtime, and typically again with nil after [script.Core.Reset].
func (m *Module) Bind(rc *script.RunContext) { m.active = rc }

// SetupExports wires the module's JS API onto the given exports
// object. Equivalent to the setup [Require] performs, exposed directly
// for callers that build their own require.Registry wiring.
func (m *Module) SetupExports(exports *goja.Object) {
	m.setupExports(exports)
}

func (m *Module) setupExports(exports *goja.Object) {
	_ = exports.Set("call", m.runtime.ToValue(m.jsCall))
	_ = exports.Set("pcall", m.runtime.ToValue(m.jsPCall))
	_ = exports.Set("setresp", m.runtime.ToValue(m.jsSetResp))
	_ = exports.Set("set_repl", m.runtime.ToValue(m.jsSetRepl))
	_ = exports.Set("status_reply", m.runtime.ToValue(m.jsStatusReply))
	_ = exports.Set("error_reply", m.runtime.ToValue(m.jsErrorReply))
	_ = exports.Set("readonly", m.runtime.ToValue(m.jsReadOnly))
	_ = exports.Set("REPL_NONE", int(0))
	_ = exports.Set("REPL_AOF", int(script.ReplLog))
	_ = exports.Set("REPL_SLAVE", int(script.ReplReplicas))
	_ = exports.Set("REPL_REPLICA", int(script.ReplReplicas))
	_ = exports.Set("REPL_ALL", int(script.ReplBoth))
}

func (m *Module) argv(call goja.FunctionCall) []string {
	argv := make([]string, len(call.Arguments))
	for i, a := range call.Arguments {
		argv[i] = a.String()
	}
	return argv
}

// jsCall implements call(...) -> reply, raising a JS exception on
// error, mirroring a script engine's "redis.call" raise-on-error
// contract.
func (m *Module) jsCall(call goja.FunctionCall) goja.Value {
	if m.active == nil {
		panic(m.runtime.NewGoError(script.ErrNotRunning))
	}
	reply, err := m.core.CallCommand(m.active, m.argv(call))
	if err != nil {
		panic(m.runtime.NewGoError(err))
	}
	return m.runtime.ToValue(reply)
}

// jsPCall implements pcall(...) -> reply | {err: message}, mirroring a
// script engine's "redis.pcall" catch-on-error contract: errors never
// raise, they are returned as a table with an "err" field.
func (m *Module) jsPCall(call goja.FunctionCall) goja.Value {
	if m.active == nil {
		return m.errTable(script.ErrNotRunning.Error())
	}
	reply, err := m.core.CallCommand(m.active, m.argv(call))
	if err != nil {
		return m.errTable(err.Error())
	}
	return m.runtime.ToValue(reply)
}

func (m *Module) jsSetResp(call goja.FunctionCall) goja.Value {
	if m.active == nil {
		panic(m.runtime.NewGoError(script.ErrNotRunning))
	}
	v := int(call.Argument(0).ToInteger())
	if err := m.active.SetProtocolVersion(v); err != nil {
		panic(m.runtime.NewGoError(err))
	}
	return goja.Undefined()
}

func (m *Module) jsSetRepl(call goja.FunctionCall) goja.Value {
	if m.active == nil {
		panic(m.runtime.NewGoError(script.ErrNotRunning))
	}
	raw := call.Argument(0).ToInteger()
	if raw < 0 || raw > int64(script.ReplBoth) {
		panic(m.runtime.NewGoError(script.ErrBadReplicationFlags))
	}
	mask := collab.PropagationFlags(raw)
	if err := m.active.SetReplication(mask); err != nil {
		panic(m.runtime.NewGoError(err))
	}
	return goja.Undefined()
}

// jsReadOnly implements readonly() -> bool, letting a script branch on
// its own declared read-only mode.
func (m *Module) jsReadOnly(call goja.FunctionCall) goja.Value {
	if m.active == nil {
		panic(m.runtime.NewGoError(script.ErrNotRunning))
	}
	return m.runtime.ToValue(m.active.ReadOnly())
}

func (m *Module) jsStatusReply(call goja.FunctionCall) goja.Value {
	obj := m.runtime.NewObject()
	_ = obj.Set("ok", call.Argument(0).String())
	return obj
}

func (m *Module) jsErrorReply(call goja.FunctionCall) goja.Value {
	return m.errTable(call.Argument(0).String())
}

func (m *Module) errTable(message string) *goja.Object {
	obj := m.runtime.NewObject()
	_ = obj.Set("err", message)
	return obj
}
