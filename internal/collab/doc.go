// Package collab defines the contracts the scripting execution core
// consumes from its surrounding server, without implementing any of
// them. Every type here corresponds to an "Out of scope" collaborator
// named in SPEC_FULL.md / spec.md §6: the command table, the
// authorization engine, the cluster resolver, the persistence watchdog,
// the replication front-end, the event loop, the blocking-operations
// counter, and client lifetime protection.
//
// Production servers wire concrete implementations of these interfaces
// in; github.com/kvcore/scriptexec/internal/collabtest provides small
// in-memory fakes of all of them, used to exercise
// github.com/kvcore/scriptexec/script and github.com/kvcore/scriptexec/jsbind
// without a real server attached.
package collab
