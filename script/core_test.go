package script

import (
	"testing"
	"time"

	"github.com/kvcore/scriptexec/internal/collab"
	"github.com/kvcore/scriptexec/internal/collabtest"
	"github.com/kvcore/scriptexec/internal/pseudoclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCore(t *testing.T, extra ...Option) (*Core, *collabtest.Replication, *collabtest.Table) {
	t.Helper()
	table := collabtest.NewTable(
		collabtest.Command("GET", 2, 0, "k"),
		collabtest.Command("SET", 3, collab.FlagWrite|collab.FlagDenyOOM, "k"),
		collabtest.Command("INCR", 2, collab.FlagWrite, "k"),
		collabtest.Command("DEBUG", -2, collab.FlagNoScript),
	)
	repl := &collabtest.Replication{}
	opts := append([]Option{
		WithCommandTable(table),
		WithAuthorizer(&collabtest.Authorizer{}),
		WithReplicationFrontend(repl),
		WithEventPump(&collabtest.EventPump{}),
		WithClientProtector(&collabtest.Protector{}),
		WithTimeoutThreshold(time.Hour),
	}, extra...)
	c, err := New(opts...)
	require.NoError(t, err)
	return c, repl, table
}

func prepareRun(t *testing.T, c *Core, caller *collabtest.Caller) *RunContext {
	t.Helper()
	rc := NewRunContext()
	pseudo := pseudoclient.New()
	require.NoError(t, c.Prepare(rc, pseudo, caller, "myscript", true))
	return rc
}

func TestPrepareReset_SingletonInvariant(t *testing.T) {
	c, _, _ := newTestCore(t)
	caller := &collabtest.Caller{}
	rc := prepareRun(t, c, caller)

	assert.True(t, c.IsRunning())
	assert.Equal(t, "myscript", c.CurrentFunctionName())

	err := c.Prepare(NewRunContext(), pseudoclient.New(), caller, "other", true)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	c.Reset(rc)
	assert.False(t, c.IsRunning())
	assert.Equal(t, "", c.CurrentFunctionName())
}

func TestReadOnlyScript_NoBracket(t *testing.T) {
	c, repl, _ := newTestCore(t)
	rc := prepareRun(t, c, &collabtest.Caller{})

	_, err := c.CallCommand(rc, []string{"GET", "x"})
	require.NoError(t, err)
	_, err = c.CallCommand(rc, []string{"GET", "y"})
	require.NoError(t, err)

	assert.False(t, rc.WriteDirty())
	c.Reset(rc)
	assert.Equal(t, []string{"dispatch:GET", "dispatch:GET"}, repl.Events)
}

func TestWriteScript_PairedBracket(t *testing.T) {
	c, repl, _ := newTestCore(t)
	rc := prepareRun(t, c, &collabtest.Caller{})

	_, err := c.CallCommand(rc, []string{"SET", "a", "1"})
	require.NoError(t, err)
	_, err = c.CallCommand(rc, []string{"INCR", "b"})
	require.NoError(t, err)

	assert.True(t, rc.WriteDirty())
	assert.True(t, rc.flags.has(FlagMultiEmitted))

	c.Reset(rc)
	assert.Equal(t, []string{"begin", "dispatch:SET", "dispatch:INCR", "commit"}, repl.Events)
}

func TestTimeoutThenKill(t *testing.T) {
	pump := &collabtest.EventPump{Kills: []bool{false, true}}
	c, _, _ := newTestCore(t, WithTimeoutThreshold(time.Millisecond), WithEventPump(pump))
	rc := prepareRun(t, c, &collabtest.Caller{})

	time.Sleep(2 * time.Millisecond)

	action, err := c.Interrupt(rc)
	require.NoError(t, err)
	assert.Equal(t, Continue, action)
	assert.True(t, rc.TimedOut())

	action, err = c.Interrupt(rc)
	require.NoError(t, err)
	assert.Equal(t, Kill, action)
	assert.True(t, rc.Killed())

	c.Reset(rc)
	assert.False(t, rc.TimedOut())
}

func TestUnkillablePostWrite(t *testing.T) {
	c, _, _ := newTestCore(t)
	rc := prepareRun(t, c, &collabtest.Caller{})

	_, err := c.CallCommand(rc, []string{"SET", "k", "1"})
	require.NoError(t, err)

	err = c.Kill(true)
	assert.True(t, IsUnkillable(err))

	action, ierr := c.Interrupt(rc)
	require.NoError(t, ierr)
	assert.Equal(t, Continue, action)

	c.Reset(rc)
}

func TestKill_NotBusy(t *testing.T) {
	c, _, _ := newTestCore(t)
	err := c.Kill(true)
	assert.True(t, IsNotBusy(err))
}

func TestKill_WrongMode(t *testing.T) {
	c, _, _ := newTestCore(t)
	rc := prepareRun(t, c, &collabtest.Caller{}) // isEval=true
	err := c.Kill(false)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, TagWrongKillMode, e.Tag)
	c.Reset(rc)
}

func TestOOMAfterLatch(t *testing.T) {
	latched := true
	c, _, _ := newTestCore(t, WithOOMPolicy(
		func() bool { return true },
		func() bool { return latched },
	))
	rc := prepareRun(t, c, &collabtest.Caller{})

	_, err := c.CallCommand(rc, []string{"SET", "a", "1"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, TagOOM, e.Tag)
	assert.False(t, rc.WriteDirty())

	c.Reset(rc)

	rc = prepareRun(t, c, &collabtest.Caller{})
	latched = false
	_, err = c.CallCommand(rc, []string{"SET", "a", "1"})
	require.NoError(t, err)
	assert.True(t, rc.WriteDirty())

	latched = true
	_, err = c.CallCommand(rc, []string{"SET", "a", "2"})
	require.NoError(t, err, "write-dirty scripts must be allowed to complete under OOM")

	c.Reset(rc)
}

func TestClusterNonLocalKey(t *testing.T) {
	cluster := &collabtest.Cluster{Result: collab.LocateResult{Reason: collab.LocateNonLocalKey}}
	c, repl, _ := newTestCore(t, WithClusterResolver(cluster), WithClusterEnabled(true))
	rc := prepareRun(t, c, &collabtest.Caller{})

	_, err := c.CallCommand(rc, []string{"GET", "x"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, TagNonLocalKey, e.Tag)
	assert.Empty(t, repl.Dispatches)

	c.Reset(rc)
}

func TestGateway_UnknownCommand(t *testing.T) {
	c, _, _ := newTestCore(t)
	rc := prepareRun(t, c, &collabtest.Caller{})
	_, err := c.CallCommand(rc, []string{"NOPE"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, TagUnknownCommand, e.Tag)
	c.Reset(rc)
}

func TestGateway_WrongArity(t *testing.T) {
	c, _, _ := newTestCore(t)
	rc := prepareRun(t, c, &collabtest.Caller{})
	_, err := c.CallCommand(rc, []string{"GET"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, TagWrongArgs, e.Tag)
	c.Reset(rc)
}

func TestGateway_NoScript(t *testing.T) {
	c, _, _ := newTestCore(t)
	rc := prepareRun(t, c, &collabtest.Caller{})
	_, err := c.CallCommand(rc, []string{"DEBUG", "sleep", "1"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, TagNoScript, e.Tag)
	c.Reset(rc)
}

func TestGateway_Denied(t *testing.T) {
	auth := &collabtest.Authorizer{Deny: collab.Decision{Kind: collab.DenialKey, Reason: "no access to k"}}
	c, _, _ := newTestCore(t, WithAuthorizer(auth))
	rc := prepareRun(t, c, &collabtest.Caller{})
	_, err := c.CallCommand(rc, []string{"GET", "x"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, TagDeniedKey, e.Tag)
	assert.Len(t, auth.Audits, 1)
	c.Reset(rc)
}

func TestGateway_ReadOnlyScriptRefusesWrite(t *testing.T) {
	c, _, _ := newTestCore(t)
	rc := prepareRun(t, c, &collabtest.Caller{})
	rc.SetReadOnly(true)
	_, err := c.CallCommand(rc, []string{"SET", "a", "1"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, TagReadOnlyScript, e.Tag)
	c.Reset(rc)
}

func TestGateway_ReadOnlyReplicaRefusesWrite(t *testing.T) {
	c, _, _ := newTestCore(t, WithReplicaState(
		func() bool { return true },
		func() bool { return true },
	))
	rc := prepareRun(t, c, &collabtest.Caller{})
	_, err := c.CallCommand(rc, []string{"SET", "a", "1"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, TagReadOnlyServer, e.Tag)
	c.Reset(rc)
}

func TestGateway_UpstreamMasterBypassesReadOnlyReplica(t *testing.T) {
	c, _, _ := newTestCore(t, WithReplicaState(
		func() bool { return true },
		func() bool { return true },
	))
	rc := prepareRun(t, c, &collabtest.Caller{UpstreamMaster: true})
	_, err := c.CallCommand(rc, []string{"SET", "a", "1"})
	require.NoError(t, err)
	c.Reset(rc)
}

func TestSetProtocolVersion(t *testing.T) {
	c, _, _ := newTestCore(t)
	rc := prepareRun(t, c, &collabtest.Caller{})
	require.NoError(t, rc.SetProtocolVersion(3))
	assert.Equal(t, 3, rc.Pseudo().ProtocolVersion())
	assert.Error(t, rc.SetProtocolVersion(7))
	c.Reset(rc)
}

func TestSetReplication(t *testing.T) {
	c, repl, _ := newTestCore(t)
	rc := prepareRun(t, c, &collabtest.Caller{})
	require.NoError(t, rc.SetReplication(ReplLog))
	_, err := c.CallCommand(rc, []string{"SET", "a", "1"})
	require.NoError(t, err)
	assert.Equal(t, ReplLog, repl.Dispatches[0].Flags)
	c.Reset(rc)
}

func TestSetReplication_RejectsOutOfRangeMask(t *testing.T) {
	c, _, _ := newTestCore(t)
	rc := prepareRun(t, c, &collabtest.Caller{})
	err := rc.SetReplication(ReplBoth + 1)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, TagMisconfigured, e.Tag)
	assert.Equal(t, ReplBoth, rc.replFlags, "rejected mask must not mutate replFlags")
	c.Reset(rc)
}

func TestReset_RejectsStaleRunContext(t *testing.T) {
	c, _, _ := newTestCore(t)
	rc := prepareRun(t, c, &collabtest.Caller{})
	c.Reset(rc)
	err := c.Reset(rc)
	assert.ErrorIs(t, err, ErrAlreadyReplying)
}

func TestScriptIndicator_NotifiedAcrossRun(t *testing.T) {
	indicator := &collabtest.ScriptIndicator{}
	c, _, _ := newTestCore(t, WithScriptIndicator(indicator))
	rc := prepareRun(t, c, &collabtest.Caller{})
	assert.Equal(t, 1, indicator.Entered)
	assert.Equal(t, 0, indicator.Exited)
	require.NoError(t, c.Reset(rc))
	assert.Equal(t, 1, indicator.Entered)
	assert.Equal(t, 1, indicator.Exited)
}
