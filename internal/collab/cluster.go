package collab

// LocateReason classifies why the cluster resolver refused a command,
// per spec.md §4.4 step 10 and §6.
type LocateReason int

const (
	// LocateOK means every key the command touches maps to this node.
	LocateOK LocateReason = iota
	// LocateClusterDownReadOnly means the cluster is down and the
	// command would write while the cluster is in a read-only-on-down
	// state.
	LocateClusterDownReadOnly
	// LocateClusterDown means the cluster is down.
	LocateClusterDown
	// LocateNonLocalKey means at least one key maps to a different
	// node.
	LocateNonLocalKey
)

// LocateResult is the cluster resolver's verdict for one command
// invocation.
type LocateResult struct {
	Reason LocateReason
	// Node, when Reason is LocateNonLocalKey, may name the owning node
	// for diagnostics; optional.
	Node string
}

// Local reports whether the command's keys are all served by this node.
func (r LocateResult) Local() bool { return r.Reason == LocateOK }

// ClusterResolver answers, for a single command invocation, whether its
// keys are all owned by this node, per spec.md §4.4 step 10. readOnly
// and asking mirror the caller's own READONLY/ASKING flags, which must
// be propagated onto the pseudo-client before the resolver is asked
// (spec.md: "propagate the caller's READONLY/ASKING flags into the
// pseudo-client and ask the cluster resolver").
type ClusterResolver interface {
	Locate(argv []string, keys []string, readOnly, asking bool) LocateResult
}
