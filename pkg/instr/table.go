package instr

import (
	"fmt"
	"sort"
	"sync"
)

// OpTable maps operation names to structural roles for one instruction-set
// version. Tables are immutable after registration; selecting a table at
// builder construction time makes instruction-set changes a data update.
type OpTable struct {
	version string

	decision     map[string]bool
	condBranch   map[string]bool
	uncondBranch map[string]bool
	exit         map[string]bool
}

// Version returns the instruction-set version this table describes.
func (t *OpTable) Version() string { return t.version }

// IsDecision reports whether op is a comparison-class operation.
func (t *OpTable) IsDecision(op string) bool { return t.decision[op] }

// IsBranch reports whether op transfers control to a non-sequential offset,
// conditionally or unconditionally.
func (t *OpTable) IsBranch(op string) bool { return t.condBranch[op] || t.uncondBranch[op] }

// IsConditionalBranch reports whether op is a branch with a fall-through
// successor in addition to its jump target.
func (t *OpTable) IsConditionalBranch(op string) bool { return t.condBranch[op] }

// IsExit reports whether op terminates the callable's execution.
func (t *OpTable) IsExit(op string) bool { return t.exit[op] }

func toSet(ops []string) map[string]bool {
	m := make(map[string]bool, len(ops))
	for _, op := range ops {
		m[op] = true
	}
	return m
}

// NewOpTable builds a table from role membership lists.
func NewOpTable(version string, decision, condBranch, uncondBranch, exit []string) *OpTable {
	return &OpTable{
		version:      version,
		decision:     toSet(decision),
		condBranch:   toSet(condBranch),
		uncondBranch: toSet(uncondBranch),
		exit:         toSet(exit),
	}
}

var (
	tableMu  sync.RWMutex
	tables   = map[string]*OpTable{}
	aliases  = map[string]string{}
	defaultV = "cpython-3.7"
)

// Register adds a table to the registry under its version string.
func Register(t *OpTable) {
	tableMu.Lock()
	defer tableMu.Unlock()
	tables[t.version] = t
}

// RegisterAlias maps an alternate version string to an existing table.
func RegisterAlias(alias, version string) {
	tableMu.Lock()
	defer tableMu.Unlock()
	aliases[alias] = version
}

// Lookup returns the table registered for the given version (or alias).
func Lookup(version string) (*OpTable, error) {
	tableMu.RLock()
	defer tableMu.RUnlock()
	if v, ok := aliases[version]; ok {
		version = v
	}
	t, ok := tables[version]
	if !ok {
		return nil, fmt.Errorf("unknown instruction set %q", version)
	}
	return t, nil
}

// Default returns the table for the default instruction-set version.
func Default() *OpTable {
	t, err := Lookup(defaultV)
	if err != nil {
		panic(err) // built-in table missing would be a programming error
	}
	return t
}

// Versions lists all registered version strings, sorted.
func Versions() []string {
	tableMu.RLock()
	defer tableMu.RUnlock()
	vs := make([]string, 0, len(tables))
	for v := range tables {
		vs = append(vs, v)
	}
	sort.Strings(vs)
	return vs
}

func init() {
	// CPython 3.7/3.8 wordcode. Decision ops are the compare-class opcodes,
	// branch ops split by whether execution can fall through, exit ops are
	// the return/raise terminators.
	Register(NewOpTable("cpython-3.7",
		[]string{"COMPARE_OP"},
		[]string{
			"POP_JUMP_IF_TRUE",
			"POP_JUMP_IF_FALSE",
			"JUMP_IF_TRUE_OR_POP",
			"JUMP_IF_FALSE_OR_POP",
			"FOR_ITER",
			"SETUP_FINALLY",
			"SETUP_WITH",
		},
		[]string{
			"JUMP_FORWARD",
			"JUMP_ABSOLUTE",
			"CONTINUE_LOOP",
		},
		[]string{
			"RETURN_VALUE",
			"RAISE_VARARGS",
		},
	))
	RegisterAlias("cpython-3.8", "cpython-3.7")
}
