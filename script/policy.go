package script

// SetProtocolVersion applies the script-settable RESP protocol
// override (spec.md §4.5): a running script may ask for replies in a
// specific protocol version, independent of the caller's own
// negotiated version. It delegates validation to the pseudo-client.
func (rc *RunContext) SetProtocolVersion(v int) error {
	if rc.pseudo == nil {
		return ErrNotRunning
	}
	return rc.pseudo.SetProtocolVersion(v)
}

// SetReplication applies the script-settable replication-destination
// override (spec.md §4.5): a running script may redirect its
// propagated effects to the log only, to replicas only, both, or
// neither, overriding the default of both set at [Core.Prepare]. flags
// must be a subset of {ReplLog, ReplReplicas}; any other bit set
// returns ErrBadReplicationFlags and leaves the current flags
// unchanged.
func (rc *RunContext) SetReplication(flags ReplFlags) error {
	if flags&^ReplBoth != 0 {
		return ErrBadReplicationFlags
	}
	rc.replFlags = flags
	return nil
}
