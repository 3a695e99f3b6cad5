package script

// Kill implements the administrative kill operation (spec.md §4.3).
// isEval distinguishes a "SCRIPT KILL" (isEval=true, targets an ad-hoc
// EVAL) from a "FUNCTION KILL" (isEval=false, targets a named stored
// function); killing the wrong kind of run is a distinct, reportable
// error rather than a silent no-op.
func (c *Core) Kill(isEval bool) error {
	rc := c.active
	if rc == nil {
		return ErrNotBusy
	}
	if rc.caller != nil && rc.caller.IsUpstreamMaster() {
		return ErrUnkillable
	}
	if rc.WriteDirty() {
		return ErrUnkillable
	}
	if isEval && !rc.EvalMode() {
		return ErrWrongKillMode
	}
	if !isEval && rc.EvalMode() {
		return ErrWrongKillMode
	}
	rc.flags |= FlagKilled
	c.logger.Info().Str("func", rc.funcName).Bool("eval", isEval).Msg("script killed")
	return nil
}
