package collab

// PropagationFlags selects which downstream destinations receive a
// command's effects, per spec.md §3.1 and the GLOSSARY entry
// "Propagation flags".
type PropagationFlags uint8

const (
	// PropagateLog sends the command to the append-only log.
	PropagateLog PropagationFlags = 1 << iota
	// PropagateReplicas sends the command to connected replicas.
	PropagateReplicas
	// PropagateBoth is both destinations, the default at prepare
	// (spec.md §4.1: "initializes replication flags to both-destinations").
	PropagateBoth = PropagateLog | PropagateReplicas
)

func (f PropagationFlags) Has(flag PropagationFlags) bool { return f&flag != 0 }

// Any reports whether at least one destination is enabled, the
// condition spec.md §4.6 calls "at least one of the two replication
// destinations is enabled".
func (f PropagationFlags) Any() bool { return f != 0 }

// ReplicationFrontend is the replication/append-only-log transport,
// per spec.md §6 ("propagate_begin_tx(db), propagate_commit_tx(db),
// per-command dispatch propagation flags").
type ReplicationFrontend interface {
	// PropagateBeginTx emits the atomicity open-bracket marker on db.
	PropagateBeginTx(db int)
	// PropagateCommitTx emits the atomicity close-bracket marker on db.
	PropagateCommitTx(db int)
	// Dispatch invokes the command with the derived propagation flags,
	// per spec.md §4.4 step 12 ("always-on statistics and slow-log
	// flags" are the server's concern, not this core's; callers that
	// need them should fold them into flags before calling Dispatch).
	Dispatch(argv []string, flags PropagationFlags) (Reply, error)
	// SuppressAutoPropagate suppresses the dispatcher's own automatic
	// propagation of the current (script-invoking) command, per
	// spec.md §4.6 ("after first suppressing the dispatcher's own
	// automatic propagation of the current command").
	SuppressAutoPropagate()
}

// Reply is an opaque command result, passed through unexamined by the
// scripting core. The concrete shape (RESP value, etc.) belongs to the
// command dispatcher/protocol layer.
type Reply any
