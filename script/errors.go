package script

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
)

// Tag is the leading tag word of a script-visible error, per spec.md §6
// ("Script-visible errors are short human-readable strings with a
// leading tag word") and the taxonomy in §7.
type Tag string

const (
	TagUnknownCommand Tag = "ERR"
	TagWrongArgs      Tag = "ERR"
	TagNoScript       Tag = "NOSCRIPT"
	TagDeniedCommand  Tag = "NOPERM"
	TagDeniedKey      Tag = "NOPERM"
	TagDeniedChannel  Tag = "NOPERM"
	TagDenied         Tag = "NOPERM"
	TagReadOnlyScript Tag = "ERR"
	TagReadOnlyServer Tag = "READONLY"
	TagOOM            Tag = "OOM"
	TagClusterDown    Tag = "CLUSTERDOWN"
	TagNonLocalKey    Tag = "ERR"
	TagNotBusy        Tag = "NOTBUSY"
	TagUnkillable     Tag = "UNKILLABLE"
	TagWrongKillMode  Tag = "ERR"
	TagMisconfigured  Tag = "MISCONF"
	TagNotRunning     Tag = "ERR"
)

// Error is a tagged, script-visible error. All command-gateway errors
// are local to the script (spec.md §7 "Policy"): no Error here ever
// tears down the caller's session.
type Error struct {
	Tag     Tag
	Message string
	Cause   error
	// Code is a best-effort mapping onto gRPC status codes, purely a
	// convenience for embedding servers that already speak gRPC codes
	// elsewhere (admin APIs, metrics); the authoritative shape remains
	// Tag+Message. See SPEC_FULL.md Domain stack. Only the exported
	// sentinel errors below set it; errors built by the command gateway
	// leave it at its zero value (codes.OK).
	Code codes.Code
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Tag)
	}
	return fmt.Sprintf("%s %s", e.Tag, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(tag Tag, code codes.Code, format string, args ...any) *Error {
	return &Error{Tag: tag, Message: fmt.Sprintf(format, args...), Code: code}
}

// Sentinel errors for errors.Is comparisons against the taxonomy in
// spec.md §7. Each wraps a representative message; callers should match
// on Tag (via errors.As) for anything beyond presence, since the
// message text varies by call site.
var (
	ErrNotRunning          = &Error{Tag: TagNotRunning, Message: "no script is currently running", Code: codes.FailedPrecondition}
	ErrNotBusy             = &Error{Tag: TagNotBusy, Message: "No scripts in execution right now.", Code: codes.FailedPrecondition}
	ErrUnkillable          = &Error{Tag: TagUnkillable, Message: "Sorry the script already executed write commands against the dataset. You can either wait the script termination or kill the server in a hard way using the SHUTDOWN NOSAVE command.", Code: codes.FailedPrecondition}
	ErrWrongKillMode       = &Error{Tag: TagWrongKillMode, Message: "The busy script was not called by the Lua/function interpreter you are trying to kill it from.", Code: codes.FailedPrecondition}
	ErrAlreadyRunning      = errors.New("script: prepare called while a run context is already active")
	ErrAlreadyReplying     = errors.New("script: reset called on a run context that is not the active one")
	ErrMisconfigured       = &Error{Tag: TagMisconfigured, Message: "prepare called with a nil run context, pseudo-client, or caller", Code: codes.InvalidArgument}
	ErrBadReplicationFlags = &Error{Tag: TagMisconfigured, Message: "replication flags must be a subset of {PROPAGATE_LOG, PROPAGATE_REPLICAS}", Code: codes.InvalidArgument}
)

// IsUnkillable reports whether err is (or wraps) the UNKILLABLE error.
func IsUnkillable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Tag == TagUnkillable
}

// IsNotBusy reports whether err is (or wraps) the NOTBUSY error.
func IsNotBusy(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Tag == TagNotBusy
}
