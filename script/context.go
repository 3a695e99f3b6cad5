package script

import (
	"time"

	"github.com/kvcore/scriptexec/internal/pseudoclient"
)

// RunContext represents exactly one in-flight script invocation
// (spec.md §3.1). At most one RunContext is active process-wide
// (spec.md §3.2); instances are created by the embedding engine host
// and handed to [Core.Prepare].
type RunContext struct {
	pseudo   *pseudoclient.Client
	caller   pseudoclient.Caller
	funcName string

	startTime    time.Time
	snapshotTime time.Time

	flags     RunFlags
	replFlags ReplFlags

	callerProtected bool
}

// NewRunContext allocates an empty run context. Callers pass it to
// [Core.Prepare] before use.
func NewRunContext() *RunContext {
	return &RunContext{}
}

// Pseudo returns the pseudo-client through which script-issued commands
// are dispatched.
func (rc *RunContext) Pseudo() *pseudoclient.Client { return rc.pseudo }

// Caller returns the external client that issued the script-invoking
// command.
func (rc *RunContext) Caller() pseudoclient.Caller { return rc.caller }

// FuncName returns the opaque function-name label used for logging.
func (rc *RunContext) FuncName() string { return rc.funcName }

// EvalMode reports whether this run is an ad-hoc script (EVAL-like) as
// opposed to a named stored function.
func (rc *RunContext) EvalMode() bool { return rc.flags.has(FlagEvalMode) }

// WriteDirty reports whether a write command has been dispatched during
// this run.
func (rc *RunContext) WriteDirty() bool { return rc.flags.has(FlagWriteDirty) }

// MultiEmitted reports whether the atomicity open-bracket has been
// propagated for this run.
func (rc *RunContext) MultiEmitted() bool { return rc.flags.has(FlagMultiEmitted) }

// TimedOut reports whether this run has crossed the configured time
// threshold and is running in reentrant, event-pumped mode.
func (rc *RunContext) TimedOut() bool { return rc.flags.has(FlagTimedOut) }

// Killed reports whether an administrative kill has been requested for
// this run. It is observed cooperatively at the next interrupt tick.
func (rc *RunContext) Killed() bool { return rc.flags.has(FlagKilled) }

// ReadOnly reports whether the script declared itself read-only via
// [RunContext.SetReadOnly].
func (rc *RunContext) ReadOnly() bool { return rc.flags.has(FlagReadOnly) }

// SetReadOnly applies the script's self-declared read-only contract.
// Unlike SetProtocolVersion/SetReplication this is not described as a
// spec.md §4.5 operation with its own name, but the flag it sets
// (FlagReadOnly, spec.md §3.1) has no other setter; engine hosts call
// this once, before dispatching any command, based on how the script
// was invoked (e.g. EVAL_RO / FCALL_RO).
func (rc *RunContext) SetReadOnly(v bool) {
	if v {
		rc.flags |= FlagReadOnly
	} else {
		rc.flags &^= FlagReadOnly
	}
}

// ReplFlags returns the current replication destination mask.
func (rc *RunContext) ReplFlags() ReplFlags { return rc.replFlags }

// SnapshotTime returns the wall-clock time captured at prepare, exposed
// to the script so repeated reads during a single invocation observe a
// consistent "now" (spec.md §3.1). Per spec.md §9's open question, the
// precondition is "running", matching RunDuration.
func (rc *RunContext) SnapshotTime() time.Time { return rc.snapshotTime }

// RunDuration returns elapsed wall-clock time since prepare, based on
// the monotonic start-time reading.
func (rc *RunContext) RunDuration() time.Duration { return time.Since(rc.startTime) }

// CallerProtected reports whether the caller's lifetime is currently
// pinned by the timed-out entry sequence (spec.md §4.2). This is an
// observability accessor added by SPEC_FULL.md over the original, which
// only tracked this as an internal reference count.
func (rc *RunContext) CallerProtected() bool { return rc.callerProtected }
