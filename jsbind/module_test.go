package jsbind

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/kvcore/scriptexec/internal/collab"
	"github.com/kvcore/scriptexec/internal/collabtest"
	"github.com/kvcore/scriptexec/internal/pseudoclient"
	"github.com/kvcore/scriptexec/script"
	"github.com/stretchr/testify/require"
)

func newTestModule(t *testing.T) (*goja.Runtime, *Module, *script.Core, *script.RunContext, *collabtest.Replication) {
	t.Helper()
	table := collabtest.NewTable(
		collabtest.Command("SET", 3, collab.FlagWrite, "k"),
		collabtest.Command("GET", 2, 0, "k"),
	)
	repl := &collabtest.Replication{}
	core, err := script.New(
		script.WithCommandTable(table),
		script.WithAuthorizer(&collabtest.Authorizer{}),
		script.WithReplicationFrontend(repl),
		script.WithEventPump(&collabtest.EventPump{}),
		script.WithClientProtector(&collabtest.Protector{}),
	)
	require.NoError(t, err)

	rt := goja.New()
	mod, err := New(rt, WithCore(core))
	require.NoError(t, err)
	exports := rt.NewObject()
	mod.SetupExports(exports)
	require.NoError(t, rt.Set("script", exports))

	rc := script.NewRunContext()
	pseudo := pseudoclient.New()
	require.NoError(t, core.Prepare(rc, pseudo, &collabtest.Caller{}, "jstest", true))
	mod.Bind(rc)

	return rt, mod, core, rc, repl
}

func TestJSCall_DispatchesWrite(t *testing.T) {
	rt, mod, core, rc, repl := newTestModule(t)
	defer core.Reset(rc)
	defer mod.Bind(nil)

	_, err := rt.RunString(`script.call('SET', 'a', '1')`)
	require.NoError(t, err)

	require.Len(t, repl.Dispatches, 1)
	require.Equal(t, []string{"SET", "a", "1"}, repl.Dispatches[0].Argv)
}

func TestJSCall_RaisesOnError(t *testing.T) {
	rt, mod, core, rc, _ := newTestModule(t)
	defer core.Reset(rc)
	defer mod.Bind(nil)

	_, err := rt.RunString(`script.call('NOSUCHCMD')`)
	require.Error(t, err)
}

func TestJSPCall_NeverThrows(t *testing.T) {
	rt, mod, core, rc, _ := newTestModule(t)
	defer core.Reset(rc)
	defer mod.Bind(nil)

	v, err := rt.RunString(`
		var r = script.pcall('NOSUCHCMD');
		r.err;
	`)
	require.NoError(t, err)
	require.Contains(t, v.String(), "unknown command")
}

func TestJSSetResp(t *testing.T) {
	rt, mod, core, rc, _ := newTestModule(t)
	defer core.Reset(rc)
	defer mod.Bind(nil)

	_, err := rt.RunString(`script.setresp(3)`)
	require.NoError(t, err)
	require.Equal(t, 3, rc.Pseudo().ProtocolVersion())
}

func TestJSSetRepl(t *testing.T) {
	rt, mod, core, rc, _ := newTestModule(t)
	defer core.Reset(rc)
	defer mod.Bind(nil)

	_, err := rt.RunString(`script.set_repl(script.REPL_AOF)`)
	require.NoError(t, err)
	require.Equal(t, script.ReplLog, rc.ReplFlags())
}

func TestJSSetRepl_RejectsOutOfRangeMask(t *testing.T) {
	rt, mod, core, rc, _ := newTestModule(t)
	defer core.Reset(rc)
	defer mod.Bind(nil)

	_, err := rt.RunString(`script.set_repl(99)`)
	require.Error(t, err)
	require.Equal(t, script.ReplBoth, rc.ReplFlags(), "rejected mask must not mutate replFlags")
}

func TestJSReadOnly(t *testing.T) {
	rt, mod, core, rc, _ := newTestModule(t)
	defer core.Reset(rc)
	defer mod.Bind(nil)

	v, err := rt.RunString(`script.readonly()`)
	require.NoError(t, err)
	require.False(t, v.ToBoolean())

	rc.SetReadOnly(true)
	v, err = rt.RunString(`script.readonly()`)
	require.NoError(t, err)
	require.True(t, v.ToBoolean())
}

func TestJSStatusAndErrorReply(t *testing.T) {
	rt, mod, core, rc, _ := newTestModule(t)
	defer core.Reset(rc)
	defer mod.Bind(nil)

	v, err := rt.RunString(`script.status_reply('OK').ok`)
	require.NoError(t, err)
	require.Equal(t, "OK", v.String())

	v, err = rt.RunString(`script.error_reply('ERR boom').err`)
	require.NoError(t, err)
	require.Equal(t, "ERR boom", v.String())
}
