package collab

// WriteBlockReason classifies why the persistence layer currently
// refuses writes, per spec.md §4.4 step 7 and §6
// (write_blocked_reason() -> {NONE | SNAPSHOT_FAILED | LOG_FAILED}).
type WriteBlockReason int

const (
	// WriteBlockNone means persistence is healthy; writes may proceed.
	WriteBlockNone WriteBlockReason = iota
	// WriteBlockSnapshotFailed means a background snapshot (point in
	// time dump) write failed and writes are paused until resolved.
	WriteBlockSnapshotFailed
	// WriteBlockLogFailed means an append-only-log write failed.
	WriteBlockLogFailed
)

// PersistenceWatchdog reports whether the persistence layer is
// currently blocking writes.
type PersistenceWatchdog interface {
	WriteBlockedReason() WriteBlockReason
}
