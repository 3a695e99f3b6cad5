package script

// Action is the outcome of [Core.Interrupt], per spec.md §4.2.
type Action int

const (
	// Continue means the script should keep running.
	Continue Action = iota
	// Kill means the script should unwind (cooperatively) as soon as
	// possible; a kill was observed.
	Kill
)

// Interrupt is the timeout supervisor's public operation (spec.md
// §4.2). The engine calls it at a bounded cadence from within script
// execution.
func (c *Core) Interrupt(rc *RunContext) (Action, error) {
	if c.active != rc {
		return Continue, ErrNotRunning
	}

	if rc.flags.has(FlagTimedOut) {
		killed := c.pump.PumpOnce()
		if killed {
			rc.flags |= FlagKilled
		}
		return c.timedOutResult(rc), nil
	}

	if rc.RunDuration() < c.timeoutThreshold {
		return Continue, nil
	}

	c.logSlowScript(rc)
	c.enterTimedOut(rc)

	killed := c.pump.PumpOnce()
	if killed {
		rc.flags |= FlagKilled
	}
	return c.timedOutResult(rc), nil
}

func (c *Core) timedOutResult(rc *RunContext) Action {
	if rc.flags.has(FlagKilled) {
		return Kill
	}
	return Continue
}

// enterTimedOut applies spec.md §4.2 "Timed-out entry": requires
// TIMEDOUT currently clear; sets it; notifies the blocking-operation
// counter; protects the caller.
func (c *Core) enterTimedOut(rc *RunContext) {
	rc.flags |= FlagTimedOut
	if c.blocking != nil {
		c.blocking.BlockingStarted()
	}
	c.protector.Protect(rc.caller)
	rc.callerProtected = true
}

// exitTimedOut applies spec.md §4.2 "Timed-out exit": requires
// TIMEDOUT set; clears it; notifies the blocking-operation counter
// that the operation ended; re-queues an active upstream master link
// if this server is a replica; unprotects the caller.
func (c *Core) exitTimedOut(rc *RunContext) {
	rc.flags &^= FlagTimedOut
	if c.blocking != nil {
		c.blocking.BlockingEnded()
	}
	if c.isReplica() && c.master != nil && c.master.HasMasterLink() {
		c.master.RequeueMasterLink()
	}
	c.protector.Unprotect(rc.caller)
	rc.callerProtected = false
}

func (c *Core) logSlowScript(rc *RunContext) {
	allowed := true
	if c.slowScript != nil {
		_, allowed = c.slowScript.Allow(rc.funcName)
	}
	if !allowed {
		return
	}
	c.logger.Warn().
		Str("func", rc.funcName).
		Dur("elapsed", rc.RunDuration()).
		Bool("eval", rc.EvalMode()).
		Msg("slow script detected")
}
