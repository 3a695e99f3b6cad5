package script

import (
	"errors"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/kvcore/scriptexec/internal/collab"
	"github.com/rs/zerolog"
)

// Core is the embedded scripting execution core: the lifecycle
// manager, timeout supervisor, command gateway, and replication
// wrapper described in spec.md §4, sharing the process-wide singleton
// slot described in spec.md §3.2. The zero value is not usable; build
// one with [New].
type Core struct {
	commands  collab.CommandTable
	auth      collab.Authorizer
	cluster   collab.ClusterResolver
	persist   collab.PersistenceWatchdog
	repl      collab.ReplicationFrontend
	pump      collab.EventPump
	blocking  collab.BlockingOpsCounter
	protector collab.ClientProtector
	master    collab.MasterLinkRequeuer
	indicator collab.ScriptIndicator

	timeoutThreshold time.Duration
	clusterEnabled   bool
	scriptDenyOff    bool
	isReplica        func() bool
	replicaReadOnly  func() bool
	maxMemorySet     func() bool
	oomLatched       func() bool

	logger     zerolog.Logger
	slowScript *catrate.Limiter

	filterHook CommandFilterHook

	active *RunContext
}

// Option configures a [Core] at construction time.
type Option interface {
	apply(*Core) error
}

type optionFunc struct{ fn func(*Core) error }

func (o optionFunc) apply(c *Core) error { return o.fn(c) }

// WithCommandTable supplies the command table collaborator (required).
func WithCommandTable(t collab.CommandTable) Option {
	return optionFunc{func(c *Core) error {
		if t == nil {
			return errors.New("script: command table must not be nil")
		}
		c.commands = t
		return nil
	}}
}

// WithAuthorizer supplies the authorization engine collaborator (required).
func WithAuthorizer(a collab.Authorizer) Option {
	return optionFunc{func(c *Core) error {
		if a == nil {
			return errors.New("script: authorizer must not be nil")
		}
		c.auth = a
		return nil
	}}
}

// WithClusterResolver supplies the cluster resolver collaborator.
// Optional: if omitted, the cluster locality check is always skipped,
// equivalent to clustering being disabled.
func WithClusterResolver(r collab.ClusterResolver) Option {
	return optionFunc{func(c *Core) error { c.cluster = r; return nil }}
}

// WithPersistenceWatchdog supplies the persistence watchdog collaborator.
// Optional: if omitted, writes are never blocked by persistence state.
func WithPersistenceWatchdog(p collab.PersistenceWatchdog) Option {
	return optionFunc{func(c *Core) error { c.persist = p; return nil }}
}

// WithReplicationFrontend supplies the replication/AOF transport
// (required).
func WithReplicationFrontend(r collab.ReplicationFrontend) Option {
	return optionFunc{func(c *Core) error {
		if r == nil {
			return errors.New("script: replication front-end must not be nil")
		}
		c.repl = r
		return nil
	}}
}

// WithEventPump supplies the event loop's bounded, non-blocking drain
// (required; the timeout supervisor cannot service the loop without
// it).
func WithEventPump(p collab.EventPump) Option {
	return optionFunc{func(c *Core) error {
		if p == nil {
			return errors.New("script: event pump must not be nil")
		}
		c.pump = p
		return nil
	}}
}

// WithBlockingOpsCounter supplies the blocking-operations watchdog
// suppressor. Optional: if omitted, timed-out entry/exit is a no-op
// toward this collaborator.
func WithBlockingOpsCounter(b collab.BlockingOpsCounter) Option {
	return optionFunc{func(c *Core) error { c.blocking = b; return nil }}
}

// WithClientProtector supplies the caller lifetime-pinning collaborator
// (required: without it, a caller whose connection drops mid-timeout
// could be freed out from under the running script).
func WithClientProtector(p collab.ClientProtector) Option {
	return optionFunc{func(c *Core) error {
		if p == nil {
			return errors.New("script: client protector must not be nil")
		}
		c.protector = p
		return nil
	}}
}

// WithMasterLinkRequeuer supplies the replica-upstream-master requeue
// collaborator used by timed-out exit. Optional: if omitted, timed-out
// exit never requeues a master link.
func WithMasterLinkRequeuer(m collab.MasterLinkRequeuer) Option {
	return optionFunc{func(c *Core) error { c.master = m; return nil }}
}

// WithScriptIndicator supplies the process-wide "in script" indicator
// consumed by subsystems unrelated to this core (spec.md §4.1).
// Optional: if omitted, Prepare/Reset still manage this core's own
// singleton slot, they just have nothing external to notify.
func WithScriptIndicator(i collab.ScriptIndicator) Option {
	return optionFunc{func(c *Core) error { c.indicator = i; return nil }}
}

// WithTimeoutThreshold sets the slow-script threshold the timeout
// supervisor checks elapsed time against (spec.md §4.2 step 2).
func WithTimeoutThreshold(d time.Duration) Option {
	return optionFunc{func(c *Core) error {
		if d <= 0 {
			return errors.New("script: timeout threshold must be positive")
		}
		c.timeoutThreshold = d
		return nil
	}}
}

// WithClusterEnabled sets whether cluster mode is enabled; when false
// the cluster locality check (spec.md §4.4 step 10) is always skipped.
func WithClusterEnabled(enabled bool) Option {
	return optionFunc{func(c *Core) error { c.clusterEnabled = enabled; return nil }}
}

// WithScriptDenyDisabled disables the script-forbidden-command check
// (spec.md §4.4 step 5: "script-deny is not administratively
// disabled"). Used by administration commands that relax NOSCRIPT
// enforcement.
func WithScriptDenyDisabled(disabled bool) Option {
	return optionFunc{func(c *Core) error { c.scriptDenyOff = disabled; return nil }}
}

// WithReplicaState supplies live callbacks reporting whether this
// server is currently a read-only replica, per spec.md §4.4 step 7 and
// §4.4 step 8. Both default to always-false (primary, not
// read-only-replica) if omitted.
func WithReplicaState(isReplica, readOnlyReplica func() bool) Option {
	return optionFunc{func(c *Core) error {
		if isReplica != nil {
			c.isReplica = isReplica
		}
		if readOnlyReplica != nil {
			c.replicaReadOnly = readOnlyReplica
		}
		return nil
	}}
}

// WithOOMPolicy supplies live callbacks reporting whether a memory cap
// is configured and whether the OOM latch is currently tripped, per
// spec.md §4.4 step 8 and §9's open question on latch refresh timing:
// oomLatched is consulted fresh at every OOM check, not only at
// prepare, so "stickier" latch semantics are the caller's choice to
// implement inside the callback.
func WithOOMPolicy(maxMemorySet, oomLatched func() bool) Option {
	return optionFunc{func(c *Core) error {
		if maxMemorySet != nil {
			c.maxMemorySet = maxMemorySet
		}
		if oomLatched != nil {
			c.oomLatched = oomLatched
		}
		return nil
	}}
}

// WithLogger supplies the zerolog logger used for operational logging
// (e.g. "slow script detected"). Defaults to a disabled logger.
func WithLogger(l zerolog.Logger) Option {
	return optionFunc{func(c *Core) error { c.logger = l; return nil }}
}

// WithSlowScriptRateLimit rate-limits the "slow script detected"
// warning emitted by the timeout supervisor (spec.md §4.2 step 3), at
// most n occurrences per window, per function name. Defaults to
// unlimited if never set.
func WithSlowScriptRateLimit(n int, window time.Duration) Option {
	return optionFunc{func(c *Core) error {
		if n <= 0 || window <= 0 {
			return errors.New("script: slow-script rate limit must have positive n and window")
		}
		c.slowScript = catrate.NewLimiter(map[time.Duration]int{window: n})
		return nil
	}}
}

// WithCommandFilterHook installs the optional argv-rewriting hook
// invoked at spec.md §4.4 step 2. Omit for no rewriting.
func WithCommandFilterHook(h CommandFilterHook) Option {
	return optionFunc{func(c *Core) error { c.filterHook = h; return nil }}
}

// New builds a [Core] from the given options. It returns an error if a
// required collaborator is missing.
func New(opts ...Option) (*Core, error) {
	c := &Core{
		timeoutThreshold: 5 * time.Second,
		isReplica:        func() bool { return false },
		replicaReadOnly:  func() bool { return false },
		maxMemorySet:     func() bool { return false },
		oomLatched:       func() bool { return false },
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o.apply(c); err != nil {
			return nil, err
		}
	}
	if c.commands == nil {
		return nil, errors.New("script: command table is required")
	}
	if c.auth == nil {
		return nil, errors.New("script: authorizer is required")
	}
	if c.repl == nil {
		return nil, errors.New("script: replication front-end is required")
	}
	if c.pump == nil {
		return nil, errors.New("script: event pump is required")
	}
	if c.protector == nil {
		return nil, errors.New("script: client protector is required")
	}
	return c, nil
}
