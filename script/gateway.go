package script

import (
	"github.com/kvcore/scriptexec/internal/collab"
)

// CommandFilterHook rewrites argv before lookup (spec.md §4.4 step 2).
// Returning the input unchanged is a valid no-op implementation.
type CommandFilterHook func(argv []string) []string

// CallCommand is the command gateway's entry point (spec.md §4.4): it
// applies the validator pipeline in strict order, short-circuiting with
// an error and no dispatch at the first failing stage.
func (c *Core) CallCommand(rc *RunContext, argv []string) (collab.Reply, error) {
	if c.active != rc {
		return nil, ErrNotRunning
	}
	pseudo := rc.pseudo

	// Step 1: argument binding.
	pseudo.BindArgv(argv)

	// Step 2: filter hooks.
	if c.filterHook != nil {
		argv = c.filterHook(argv)
		pseudo.BindArgv(argv)
	}
	argv = pseudo.Argv()
	if len(argv) == 0 {
		return nil, newErr(TagUnknownCommand, 0, "empty command")
	}

	// Step 3: lookup.
	spec, ok := c.commands.Lookup(argv[0])
	if !ok {
		return nil, newErr(TagUnknownCommand, 0, "unknown command %q", argv[0])
	}
	pseudo.SetCurrentCommand(&spec)

	// Step 4: arity check.
	if !spec.Arity.Satisfied(len(argv)) {
		return nil, newErr(TagWrongArgs, 0, "wrong number of arguments for %q", spec.Name)
	}

	// Step 5: script-forbidden check.
	if spec.Flags.Has(collab.FlagNoScript) && !c.scriptDenyOff {
		return nil, newErr(TagNoScript, 0, "this Redis command is not allowed from script: %s", spec.Name)
	}

	// Step 6: authorization.
	decision := c.auth.CheckAllPermissions(pseudo.User(), argv, spec)
	if !decision.Allowed() {
		c.auth.Audit(pseudo.User(), argv, decision)
		return nil, authDenialError(decision)
	}

	// Step 7: write-allowed check.
	if spec.Flags.Has(collab.FlagWrite) {
		if rc.ReadOnly() {
			return nil, newErr(TagReadOnlyScript, 0, "Write commands are not allowed from read-only scripts")
		}
		if c.isReplica() && c.replicaReadOnly() && !rc.caller.IsAOFLoader() && !rc.caller.IsUpstreamMaster() {
			return nil, newErr(TagReadOnlyServer, 0, "You can't write against a read only replica")
		}
		if c.persist != nil {
			switch c.persist.WriteBlockedReason() {
			case collab.WriteBlockSnapshotFailed:
				return nil, newErr(TagMisconfigured, 0, "Redis is configured to save RDB snapshots, but it is currently unable to persist to disk")
			case collab.WriteBlockLogFailed:
				return nil, newErr(TagMisconfigured, 0, "Errors writing to the append-only file")
			}
		}
	}

	// Step 8: OOM check.
	if spec.Flags.Has(collab.FlagDenyOOM) &&
		c.maxMemorySet() &&
		!rc.caller.IsAOFLoader() &&
		!c.isReplica() &&
		!rc.WriteDirty() &&
		c.oomLatched() {
		return nil, newErr(TagOOM, 0, "command not allowed when used memory > 'maxmemory'")
	}

	// Step 9: write bookkeeping.
	if spec.Flags.Has(collab.FlagWrite) {
		rc.flags |= FlagWriteDirty
	}

	// Step 10: cluster locality check.
	if c.clusterEnabled && !rc.caller.IsAOFLoader() && !rc.caller.IsUpstreamMaster() {
		pseudo.SetClusterRedirectFlags(rc.caller.ReadOnlyFlag(), rc.caller.AskingFlag())
		if c.cluster != nil {
			keys := spec.Keys
			var k []string
			if keys != nil {
				k = keys(argv)
			}
			result := c.cluster.Locate(argv, k, pseudo.ReadOnlyFlag(), pseudo.AskingFlag())
			if !result.Local() {
				switch result.Reason {
				case collab.LocateClusterDownReadOnly:
					return nil, newErr(TagClusterDown, 0, "The cluster is down and writes are disabled in read-only cluster state")
				case collab.LocateClusterDown:
					return nil, newErr(TagClusterDown, 0, "Hash slot not served")
				default:
					return nil, newErr(TagNonLocalKey, 0, "MOVED key is not local to this node")
				}
			}
		}
	}

	// Step 11: atomicity bracket.
	c.maybeOpenAtomicityBracket(rc)

	// Step 12: dispatch.
	reply, err := c.repl.Dispatch(argv, rc.replFlags)

	// Step 13: post-assertion.
	if pseudo.Blocked() {
		pseudo.SetBlocked(false)
		if err == nil {
			err = newErr(TagMisconfigured, 0, "command %q attempted to block inside a script", spec.Name)
		}
	}

	return reply, err
}

func authDenialError(d collab.Decision) error {
	switch d.Kind {
	case collab.DenialCommand:
		return newErr(TagDeniedCommand, 0, "%s", d.Reason)
	case collab.DenialKey:
		return newErr(TagDeniedKey, 0, "%s", d.Reason)
	case collab.DenialChannel:
		return newErr(TagDeniedChannel, 0, "%s", d.Reason)
	default:
		return newErr(TagDenied, 0, "%s", d.Reason)
	}
}
