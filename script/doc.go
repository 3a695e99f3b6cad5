// Package script implements the embedded scripting execution core:
// the lifecycle manager, timeout supervisor, administrative kill,
// command gateway, script-settable policy, and replication wrapper
// described in spec.md §3-4.
//
// A [Core] is built once per process with [New] and holds the
// process-wide singleton "currently running script" slot (spec.md
// §3.2). Each invocation gets its own [RunContext], installed by
// [Core.Prepare] and released by [Core.Reset]; at most one may be
// installed at a time.
package script
