package collab

// CommandFlags is the set of per-command flags the command table
// exposes, per spec.md §6 ("Command table. Provides per-command: ...
// flag set (WRITE, NOSCRIPT, DENYOOM, ...)").
type CommandFlags uint8

const (
	// FlagWrite marks a command as mutating the keyspace.
	FlagWrite CommandFlags = 1 << iota
	// FlagNoScript marks a command as forbidden from scripts entirely.
	FlagNoScript
	// FlagDenyOOM marks a command as "memory-enlarging": refused under
	// OOM pressure unless the run has already gone write-dirty.
	FlagDenyOOM
)

func (f CommandFlags) Has(flag CommandFlags) bool { return f&flag != 0 }

// Arity describes a command's expected argument count, per spec.md §4.4
// step 4: positive means exactly that many arguments (including the
// command name itself); negative means "at least |arity|".
type Arity int

// Satisfied reports whether argc (including the command name) satisfies
// this arity.
func (a Arity) Satisfied(argc int) bool {
	if a >= 0 {
		return argc == int(a)
	}
	return argc >= int(-a)
}

// AuthCategory groups commands for the authorization engine's ACL
// category matching (e.g. "read", "write", "admin", "dangerous").
type AuthCategory string

// CommandSpec is the command table's entry for a single command name.
type CommandSpec struct {
	Name     string
	Arity    Arity
	Flags    CommandFlags
	Category AuthCategory
	// Keys returns the key names the command touches, given its full
	// argv (argv[0] is the command name). Used by the cluster locality
	// check (spec.md §4.4 step 10). May return nil for commands with no
	// keys.
	Keys func(argv []string) []string
}

// CommandTable resolves command names to their table entry. Lookup
// failure (spec.md §4.4 step 3) is signalled by ok=false.
type CommandTable interface {
	Lookup(name string) (spec CommandSpec, ok bool)
}

// MapCommandTable is the simplest possible [CommandTable]: a name-keyed
// map, case-sensitivity and normalization left to the caller (real
// command tables normalize to lower-case; this type does not, so the
// constructor accepts already-normalized names).
type MapCommandTable map[string]CommandSpec

func (t MapCommandTable) Lookup(name string) (CommandSpec, bool) {
	spec, ok := t[name]
	return spec, ok
}
