// Package pseudoclient provides the synthetic client object through
// which script-issued commands enter the dispatcher (spec.md §3.1,
// "Pseudo-client"), and the Caller contract the originating external
// client must satisfy.
//
// The design follows spec.md's design notes ("Pseudo-client as
// capability bundle"): rather than reusing the embedding server's full
// client type, [Client] is a dedicated, narrow struct that borrows the
// caller's identity and database — the in-process analogue of how
// github.com/joeycumines/go-inprocgrpc's Channel builds a synthetic
// server context per call (makeServerContext) instead of handing the
// server handler the client's own context verbatim.
package pseudoclient

// Caller is the originating external client that issued the
// script-invoking command (spec.md §3.1 "caller"). It is used for
// authorization, database selection, propagation target, and the
// special-identity checks in spec.md §4.4 steps 7, 8, and 10 and §4.3.
type Caller interface {
	// DB returns the caller's currently selected database index.
	DB() int
	// User returns the caller's authenticated username/identity.
	User() string
	// InTransaction reports whether the caller itself is inside a
	// user-initiated MULTI/EXEC transaction.
	InTransaction() bool
	// IsUpstreamMaster reports whether this client is this server's
	// upstream master link (a replica receiving replicated commands).
	IsUpstreamMaster() bool
	// IsAOFLoader reports whether this client is the internal pseudo
	// client replaying the append-only log at startup.
	IsAOFLoader() bool
	// ReadOnlyFlag and AskingFlag mirror the client's own cluster
	// redirection flags, propagated onto the pseudo-client before a
	// cluster locality check (spec.md §4.4 step 10).
	ReadOnlyFlag() bool
	AskingFlag() bool
}
