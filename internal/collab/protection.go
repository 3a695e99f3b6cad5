package collab

// ClientProtector pins a client's lifetime so its Go value survives
// even if its underlying network connection closes while a script still
// holds a reference to it (spec.md §4.2 "Timed-out entry", design notes
// "Caller lifetime across timed-out mode"). Protect/Unprotect calls are
// always balanced: one Protect per timed-out entry, one Unprotect per
// timed-out exit.
type ClientProtector interface {
	Protect(client any)
	Unprotect(client any)
}

// MasterLinkRequeuer re-queues the replication link to the upstream
// master for the event loop, per spec.md §4.2 "Timed-out exit": "if
// this server is a replica with an active upstream master client,
// re-queues that master client for the event loop so replication
// processing resumes". HasMasterLink reports whether there currently
// is an upstream master link to requeue.
type MasterLinkRequeuer interface {
	HasMasterLink() bool
	RequeueMasterLink()
}
