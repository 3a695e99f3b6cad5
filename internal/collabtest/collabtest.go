// Package collabtest provides small in-memory fakes of the interfaces in
// internal/collab, for use by github.com/kvcore/scriptexec/script and
// github.com/kvcore/scriptexec/jsbind tests. It is not test-only (no
// _test.go suffix) so it can be imported across package boundaries,
// matching the teacher's testhelper_test.go convention but made
// importable from sibling packages' tests.
package collabtest

import (
	"github.com/kvcore/scriptexec/internal/collab"
)

// Command is a convenience constructor for a command spec with the
// given arity and flags; its Keys function returns keys regardless of
// argv.
func Command(name string, arity collab.Arity, flags collab.CommandFlags, keys ...string) collab.CommandSpec {
	return collab.CommandSpec{
		Name:  name,
		Arity: arity,
		Flags: flags,
		Keys: func(argv []string) []string {
			if len(keys) == 0 {
				return nil
			}
			out := make([]string, len(keys))
			copy(out, keys)
			return out
		},
	}
}

// Table is a [collab.CommandTable] fake built from a literal set of
// specs, mirroring a small slice of a real command table.
type Table struct {
	collab.MapCommandTable
}

// NewTable builds a Table from the given specs, keyed by spec.Name.
func NewTable(specs ...collab.CommandSpec) *Table {
	m := make(collab.MapCommandTable, len(specs))
	for _, s := range specs {
		m[s.Name] = s
	}
	return &Table{MapCommandTable: m}
}

// Authorizer is an always-permissive [collab.Authorizer] fake, unless
// Deny is set, in which case every check returns Deny.
type Authorizer struct {
	Deny   collab.Decision
	Audits []AuditEntry
}

// AuditEntry records one call to Audit, for assertions.
type AuditEntry struct {
	User     string
	Argv     []string
	Decision collab.Decision
}

func (a *Authorizer) CheckAllPermissions(user string, argv []string, spec collab.CommandSpec) collab.Decision {
	if a.Deny.Kind != collab.DenialNone {
		return a.Deny
	}
	return collab.Decision{Kind: collab.DenialNone}
}

func (a *Authorizer) Audit(user string, argv []string, decision collab.Decision) {
	a.Audits = append(a.Audits, AuditEntry{User: user, Argv: argv, Decision: decision})
}

// Cluster is a [collab.ClusterResolver] fake returning a fixed result.
type Cluster struct {
	Result  collab.LocateResult
	Enabled bool
}

func (c *Cluster) Locate(argv []string, keys []string, readOnly, asking bool) collab.LocateResult {
	return c.Result
}

// Persistence is a [collab.PersistenceWatchdog] fake.
type Persistence struct {
	Reason collab.WriteBlockReason
}

func (p *Persistence) WriteBlockedReason() collab.WriteBlockReason { return p.Reason }

// Replication is a [collab.ReplicationFrontend] fake recording every
// propagation and dispatch call, in order, for assertions against the
// ordering laws in spec.md §8.
type Replication struct {
	Events     []string
	Dispatches []DispatchCall
	// DispatchFunc, if set, is invoked for Dispatch in place of the
	// default no-op success reply.
	DispatchFunc func(argv []string, flags collab.PropagationFlags) (collab.Reply, error)
	suppressed   bool
}

// DispatchCall records one Dispatch invocation.
type DispatchCall struct {
	Argv  []string
	Flags collab.PropagationFlags
}

func (r *Replication) PropagateBeginTx(db int)  { r.Events = append(r.Events, "begin") }
func (r *Replication) PropagateCommitTx(db int) { r.Events = append(r.Events, "commit") }

func (r *Replication) Dispatch(argv []string, flags collab.PropagationFlags) (collab.Reply, error) {
	r.Dispatches = append(r.Dispatches, DispatchCall{Argv: append([]string(nil), argv...), Flags: flags})
	r.Events = append(r.Events, "dispatch:"+argv[0])
	if r.DispatchFunc != nil {
		return r.DispatchFunc(argv, flags)
	}
	return "OK", nil
}

func (r *Replication) SuppressAutoPropagate() { r.suppressed = true }

// Suppressed reports whether SuppressAutoPropagate was called.
func (r *Replication) Suppressed() bool { return r.suppressed }

// EventPump is a scripted [collab.EventPump] fake: each call to
// PumpOnce pops the next value from Kills (or false, once exhausted).
type EventPump struct {
	Kills []bool
	Calls int
}

func (p *EventPump) PumpOnce() bool {
	defer func() { p.Calls++ }()
	if p.Calls < len(p.Kills) {
		return p.Kills[p.Calls]
	}
	return false
}

// BlockingOps is a [collab.BlockingOpsCounter] fake counting calls.
type BlockingOps struct {
	Started, Ended int
}

func (b *BlockingOps) BlockingStarted() { b.Started++ }
func (b *BlockingOps) BlockingEnded()   { b.Ended++ }

// Protector is a [collab.ClientProtector] fake counting balance of
// Protect/Unprotect calls per client.
type Protector struct {
	Protected map[any]int
}

func (p *Protector) Protect(client any) {
	if p.Protected == nil {
		p.Protected = make(map[any]int)
	}
	p.Protected[client]++
}

func (p *Protector) Unprotect(client any) {
	if p.Protected == nil {
		return
	}
	p.Protected[client]--
}

// IsProtected reports whether client currently has a positive protect
// balance.
func (p *Protector) IsProtected(client any) bool {
	return p.Protected != nil && p.Protected[client] > 0
}

// ScriptIndicator is a [collab.ScriptIndicator] fake counting calls.
type ScriptIndicator struct {
	Entered, Exited int
}

func (s *ScriptIndicator) ScriptEntered() { s.Entered++ }
func (s *ScriptIndicator) ScriptExited()  { s.Exited++ }

// MasterLink is a [collab.MasterLinkRequeuer] fake.
type MasterLink struct {
	Present  bool
	Requeued int
}

func (m *MasterLink) HasMasterLink() bool { return m.Present }
func (m *MasterLink) RequeueMasterLink()  { m.Requeued++ }

// Caller is a pseudoclient.Caller fake (kept here, rather than in
// internal/pseudoclient, so a single import gives tests every fake
// collaborator they need).
type Caller struct {
	DBNum          int
	Username       string
	InTx           bool
	UpstreamMaster bool
	AOFLoader      bool
	ReadOnly       bool
	Asking         bool
}

func (c *Caller) DB() int                { return c.DBNum }
func (c *Caller) User() string           { return c.Username }
func (c *Caller) InTransaction() bool    { return c.InTx }
func (c *Caller) IsUpstreamMaster() bool { return c.UpstreamMaster }
func (c *Caller) IsAOFLoader() bool      { return c.AOFLoader }
func (c *Caller) ReadOnlyFlag() bool     { return c.ReadOnly }
func (c *Caller) AskingFlag() bool       { return c.Asking }
