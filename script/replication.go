package script

// maybeOpenAtomicityBracket implements spec.md §4.6 "Emit open-bracket":
// fires when all of MULTI_EMITTED is currently false, the caller is not
// already inside a user-initiated transaction, WRITE_DIRTY is set, and
// at least one replication destination is enabled. It is idempotent: a
// script that issues several writes only opens the bracket once.
func (c *Core) maybeOpenAtomicityBracket(rc *RunContext) {
	if rc.flags.has(FlagMultiEmitted) {
		return
	}
	if rc.pseudo != nil && rc.pseudo.InTransaction() {
		return
	}
	if !rc.WriteDirty() {
		return
	}
	if !rc.replFlags.Any() {
		return
	}

	db := 0
	if rc.pseudo != nil {
		db = rc.pseudo.DB()
	}
	c.repl.PropagateBeginTx(db)
	rc.flags |= FlagMultiEmitted
	if rc.pseudo != nil {
		rc.pseudo.SetInTransaction(true)
	}
}

// closeAtomicityBracket implements spec.md §4.6 "Emit close-bracket",
// called from [Core.Reset]: if MULTI_EMITTED, suppresses the
// dispatcher's own automatic propagation of the script-invoking command
// (the bracket is the propagation) and propagates a commit-transaction
// marker on the caller's database. A script that never wrote anything
// never opened a bracket, so this is a no-op for read-only runs
// (spec.md §8 "No-write ⇒ no bracket").
func (c *Core) closeAtomicityBracket(rc *RunContext) {
	if !rc.flags.has(FlagMultiEmitted) {
		return
	}
	db := 0
	if rc.pseudo != nil {
		db = rc.pseudo.DB()
	}
	c.repl.SuppressAutoPropagate()
	c.repl.PropagateCommitTx(db)
	rc.flags &^= FlagMultiEmitted
}
