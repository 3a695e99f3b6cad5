package script

import "github.com/kvcore/scriptexec/internal/collab"

// RunFlags are the independent per-run bits described in spec.md §3.1.
// The spec deliberately treats these as independent bits rather than a
// single lifecycle enum, because administrative operations (kill,
// set_replication) mutate them independently of the run's own
// progress (see spec.md §9, "Flags as independent bits vs. a state
// machine").
type RunFlags uint8

const (
	// FlagEvalMode distinguishes ad-hoc scripts (EVAL) from named
	// stored functions (FCALL); it gates which kill variant applies.
	FlagEvalMode RunFlags = 1 << iota
	// FlagWriteDirty is set the first time a write command is
	// dispatched. It gates kill eligibility and bracket emission.
	FlagWriteDirty
	// FlagMultiEmitted is set once the atomicity open-bracket has been
	// propagated; requires a matching close-bracket at reset.
	FlagMultiEmitted
	// FlagTimedOut: the script exceeded its time limit and is running
	// in reentrant, event-pumped mode.
	FlagTimedOut
	// FlagKilled: an administrator requested termination; observed
	// cooperatively at the next interrupt tick.
	FlagKilled
	// FlagReadOnly: the script declared itself read-only; write
	// commands are refused.
	FlagReadOnly
)

func (f RunFlags) has(flag RunFlags) bool { return f&flag != 0 }

// ReplFlags is the subset of {PROPAGATE_LOG, PROPAGATE_REPLICAS} a
// script controls via SetReplication, per spec.md §3.1 and §4.5. It is
// the same bitmask [collab.ReplicationFrontend] consumes.
type ReplFlags = collab.PropagationFlags

const (
	ReplLog      = collab.PropagateLog
	ReplReplicas = collab.PropagateReplicas
	ReplBoth     = collab.PropagateBoth
)
