// Package scriptexec implements the embedded scripting execution core of a
// single-threaded in-memory key/value server: the glue between a scripting
// engine and the server's command dispatcher.
//
// The core itself lives in [github.com/kvcore/scriptexec/script]. It sets up
// an internal pseudo-client (github.com/kvcore/scriptexec/internal/pseudoclient)
// through which a running script issues commands, enforces the same safety
// checks an external client would be subject to (authorization, cluster
// locality, out-of-memory refusal, read-only-replica rules, the script's own
// read-only/write contract), brackets script-generated writes with atomicity
// markers for replication and the append-only log, detects runaway scripts
// via a cooperative timeout supervisor, and permits cooperative cancellation
// via an administrative kill.
//
// [github.com/kvcore/scriptexec/jsbind] binds the core onto a
// [github.com/dop251/goja] runtime, exposing it to JavaScript as
// require('script'), the way a real engine host would.
//
// The command table, authorization engine, cluster resolver, persistence
// watchdog, replication transport, and event loop are all external
// collaborators, consumed here only as interfaces
// (github.com/kvcore/scriptexec/internal/collab). This module does not
// implement the scripting language interpreter, the command table, or the
// network protocol; see SPEC_FULL.md for the full boundary.
package scriptexec
