package collab

// BlockingOpsCounter is the server's long-running-operation watchdog
// suppressor, per spec.md §4.2 and §6 (blocking_started() /
// blocking_ended()). The timed-out entry/exit sequence notifies it so
// unrelated watchdogs (e.g. a "client idle too long" reaper) don't fire
// while a script is legitimately still running.
type BlockingOpsCounter interface {
	BlockingStarted()
	BlockingEnded()
}
