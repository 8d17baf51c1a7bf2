// Package bytegraph builds the control-flow graph of a single callable from
// its decoded bytecode instruction sequence. Nodes are instructions keyed by
// offset; edges are fall-through and jump transitions, plus synthetic
// connectivity edges from every exit point back to the entry point so the
// finished graph is strongly connected.
package bytegraph

import (
	"github.com/l3aro/go-ccm/pkg/digraph"
	"github.com/l3aro/go-ccm/pkg/instr"
)

// Graph is the bytecode control-flow graph of one callable. Immutable after
// Build; all accessors are safe for concurrent readers.
type Graph struct {
	full *digraph.Graph // flow edges + exit->entry connectivity edges
	flow *digraph.Graph // flow edges only (pre-repair subgraph)

	instrs  map[int]instr.Instruction
	offsets []int // decode order

	entry int
	exits []int

	numDecision int
	numBranch   int
	numExit     int

	version string
}

// NodeCount returns the number of instructions in the graph.
func (g *Graph) NodeCount() int { return g.full.NodeCount() }

// EdgeCount returns the number of edges, connectivity edges included.
func (g *Graph) EdgeCount() int { return g.full.EdgeCount() }

// ComponentCount returns the number of strongly connected components of the
// repaired graph. Always 1 for a well-formed single callable.
func (g *Graph) ComponentCount() int { return g.full.CountStronglyConnectedComponents() }

// DecisionPoints returns the number of comparison instructions.
func (g *Graph) DecisionPoints() int { return g.numDecision }

// BranchPoints returns the number of branching instructions.
func (g *Graph) BranchPoints() int { return g.numBranch }

// ExitPoints returns the number of terminating instructions.
func (g *Graph) ExitPoints() int { return g.numExit }

// ExitPointsPerComponent returns the exit-point count of each strongly
// connected component, in component order.
func (g *Graph) ExitPointsPerComponent() []int {
	sccs := g.full.StronglyConnectedComponents()
	counts := make([]int, len(sccs))
	for i, scc := range sccs {
		for _, offset := range scc {
			if g.instrs[offset].IsExitPoint {
				counts[i]++
			}
		}
	}
	return counts
}

// EntryOffset returns the offset of the unique entry point.
func (g *Graph) EntryOffset() int { return g.entry }

// ExitOffsets returns the offsets of all exit points, in decode order.
func (g *Graph) ExitOffsets() []int {
	out := make([]int, len(g.exits))
	copy(out, g.exits)
	return out
}

// Instruction returns the classified instruction at the given offset.
func (g *Graph) Instruction(offset int) (instr.Instruction, bool) {
	in, ok := g.instrs[offset]
	return in, ok
}

// Instructions returns all instructions in decode order.
func (g *Graph) Instructions() []instr.Instruction {
	out := make([]instr.Instruction, len(g.offsets))
	for i, offset := range g.offsets {
		out[i] = g.instrs[offset]
	}
	return out
}

// Offsets returns instruction offsets in decode order.
func (g *Graph) Offsets() []int {
	out := make([]int, len(g.offsets))
	copy(out, g.offsets)
	return out
}

// Successors returns the out-neighbors of offset in the repaired graph.
func (g *Graph) Successors(offset int) []int { return g.full.Successors(offset) }

// Edges calls fn for every edge of the repaired graph in deterministic order.
func (g *Graph) Edges(fn func(u, v int)) { g.full.Edges(fn) }

// Flow returns the flow-edge-only subgraph (no connectivity edges), the
// input to basis path enumeration. Callers must not modify it.
func (g *Graph) Flow() *digraph.Graph { return g.flow }

// InstructionSet returns the version of the opcode table the graph was
// classified with.
func (g *Graph) InstructionSet() string { return g.version }
