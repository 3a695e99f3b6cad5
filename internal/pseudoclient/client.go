package pseudoclient

import (
	"fmt"

	"github.com/kvcore/scriptexec/internal/collab"
)

// DefaultProtocolVersion is the protocol version a pseudo-client is
// reset to at prepare (spec.md §4.1: "resets the pseudo-client's
// protocol version to the default (2)").
const DefaultProtocolVersion = 2

// Client is the pseudo-client: a per-invocation, per-call capability
// bundle carrying argv/argc, selected database, protocol version,
// current-command pointer, and transient flags (MULTI, READONLY,
// ASKING), per spec.md §3.1 and the "Pseudo-client as capability
// bundle" design note.
type Client struct {
	db       int
	proto    int
	user     string
	argv     []string
	current  *collab.CommandSpec
	inMulti  bool
	readOnly bool
	asking   bool
	blocked  bool
}

// New creates a pseudo-client with the default protocol version and no
// database selected; callers should immediately apply [Client.ResetForPrepare].
func New() *Client {
	return &Client{proto: DefaultProtocolVersion}
}

// ResetForPrepare applies the prepare-time effects spec.md §4.1
// describes: "copies caller's current database into the pseudo-client;
// resets the pseudo-client's protocol version to the default (2);
// propagates caller's 'in transaction' flag into the pseudo-client".
func (c *Client) ResetForPrepare(caller Caller) {
	c.db = caller.DB()
	c.proto = DefaultProtocolVersion
	c.user = caller.User()
	c.inMulti = caller.InTransaction()
	c.argv = nil
	c.current = nil
	c.readOnly = false
	c.asking = false
	c.blocked = false
}

// ResetForReset clears the in-transaction flag at reset (spec.md §4.1
// "reset": "clears the pseudo-client's 'in transaction' flag").
func (c *Client) ResetForReset() {
	c.inMulti = false
}

// DB returns the pseudo-client's selected database index.
func (c *Client) DB() int { return c.db }

// ProtocolVersion returns the pseudo-client's current protocol version.
func (c *Client) ProtocolVersion() int { return c.proto }

// SetProtocolVersion applies spec.md §4.5: v must be 2 or 3.
func (c *Client) SetProtocolVersion(v int) error {
	if v != 2 && v != 3 {
		return fmt.Errorf("pseudoclient: protocol version must be 2 or 3, got %d", v)
	}
	c.proto = v
	return nil
}

// User returns the identity authorization is evaluated under.
func (c *Client) User() string { return c.user }

// BindArgv installs argv/argc onto the pseudo-client (spec.md §4.4
// step 1: "Install argv/argc onto the pseudo-client").
func (c *Client) BindArgv(argv []string) { c.argv = argv }

// Argv returns the currently bound argument vector.
func (c *Client) Argv() []string { return c.argv }

// SetCurrentCommand records the resolved command table entry (spec.md
// §4.4 step 3: "Present -> record on the pseudo-client").
func (c *Client) SetCurrentCommand(spec *collab.CommandSpec) { c.current = spec }

// CurrentCommand returns the currently bound command spec, or nil.
func (c *Client) CurrentCommand() *collab.CommandSpec { return c.current }

// InTransaction reports whether the pseudo-client is marked as being
// inside a transaction — either because the caller was, or because the
// replication wrapper opened the atomicity bracket (spec.md §4.6: "mark
// the pseudo-client as being in a transaction so nested dispatch does
// not re-open").
func (c *Client) InTransaction() bool { return c.inMulti }

// SetInTransaction sets the in-transaction flag.
func (c *Client) SetInTransaction(v bool) { c.inMulti = v }

// SetClusterRedirectFlags propagates the caller's READONLY/ASKING flags
// onto the pseudo-client, per spec.md §4.4 step 10.
func (c *Client) SetClusterRedirectFlags(readOnly, asking bool) {
	c.readOnly = readOnly
	c.asking = asking
}

// ReadOnlyFlag and AskingFlag return the pseudo-client's cluster
// redirection flags.
func (c *Client) ReadOnlyFlag() bool { return c.readOnly }
func (c *Client) AskingFlag() bool   { return c.asking }

// SetBlocked marks the pseudo-client as having entered a blocking wait.
// Real command implementations never call this through the scripting
// gateway (spec.md §4.4 step 13 forbids it); it exists so the gateway's
// post-dispatch assertion has something concrete to check, and so a
// buggy or blocking-unaware command implementation can be caught in
// tests.
func (c *Client) SetBlocked(v bool) { c.blocked = v }

// Blocked reports whether the pseudo-client is currently marked as
// blocked.
func (c *Client) Blocked() bool { return c.blocked }
