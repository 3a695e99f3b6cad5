package script

import (
	"time"

	"github.com/kvcore/scriptexec/internal/pseudoclient"
)

// Prepare installs rc as the sole process-wide running script (spec.md
// §3.2, §4.1). It fails if a script is already running; callers must
// not invoke it speculatively from inside another run.
func (c *Core) Prepare(rc *RunContext, pseudo *pseudoclient.Client, caller pseudoclient.Caller, funcName string, isEval bool) error {
	if c.active != nil {
		return ErrAlreadyRunning
	}
	if rc == nil || pseudo == nil || caller == nil {
		return ErrMisconfigured
	}

	pseudo.ResetForPrepare(caller)

	rc.pseudo = pseudo
	rc.caller = caller
	rc.funcName = funcName
	rc.startTime = time.Now()
	rc.snapshotTime = rc.startTime
	rc.flags = 0
	if isEval {
		rc.flags |= FlagEvalMode
	}
	rc.replFlags = ReplBoth
	rc.callerProtected = false

	c.active = rc
	if c.indicator != nil {
		c.indicator.ScriptEntered()
	}
	return nil
}

// Reset tears down the singleton slot at the end of a run (spec.md
// §4.1). It unwinds any still-open timed-out state and any still-open
// atomicity bracket before releasing the slot, so a script that was
// killed mid-timeout or mid-multi leaves no dangling side effects.
//
// Reset returns ErrAlreadyReplying if rc is not the currently active
// run context: either no script is running, or rc is a stale handle
// from a previous run that has already been reset.
func (c *Core) Reset(rc *RunContext) error {
	if c.active != rc {
		return ErrAlreadyReplying
	}

	if rc.pseudo != nil {
		rc.pseudo.ResetForReset()
	}

	if rc.flags.has(FlagTimedOut) {
		c.exitTimedOut(rc)
	}

	c.closeAtomicityBracket(rc)

	if c.indicator != nil {
		c.indicator.ScriptExited()
	}
	c.active = nil
	return nil
}

// IsRunning reports whether a script is currently occupying the
// process-wide singleton slot.
func (c *Core) IsRunning() bool { return c.active != nil }

// CurrentFunctionName returns the running script's opaque label, or
// the empty string if no script is running.
func (c *Core) CurrentFunctionName() string {
	if c.active == nil {
		return ""
	}
	return c.active.funcName
}

// IsTimedOut reports whether the running script has crossed the
// configured time threshold and is running in reentrant, event-pumped
// mode. It returns false if no script is running.
func (c *Core) IsTimedOut() bool {
	if c.active == nil {
		return false
	}
	return c.active.TimedOut()
}

// IsEval reports whether the running script is an ad-hoc EVAL rather
// than a named stored function. It returns false if no script is
// running.
func (c *Core) IsEval() bool {
	if c.active == nil {
		return false
	}
	return c.active.EvalMode()
}

// SnapshotTime returns the running script's captured wall-clock start
// time. Pre: a script is running.
func (c *Core) SnapshotTime() (time.Time, error) {
	if c.active == nil {
		return time.Time{}, ErrNotRunning
	}
	return c.active.SnapshotTime(), nil
}

// RunDuration returns elapsed time since the running script started.
// Pre: a script is running.
func (c *Core) RunDuration() (time.Duration, error) {
	if c.active == nil {
		return 0, ErrNotRunning
	}
	return c.active.RunDuration(), nil
}
