package bytegraph

import (
	"errors"
	"fmt"

	"github.com/l3aro/go-ccm/pkg/digraph"
	"github.com/l3aro/go-ccm/pkg/instr"
)

// ErrEmptySequence is returned when a callable has no decoded instructions.
var ErrEmptySequence = errors.New("empty instruction sequence")

// MalformedJumpTargetError indicates a branch whose target offset does not
// correspond to any instruction in the sequence. This is a disassembler
// defect, not user-correctable, and is never recovered from.
type MalformedJumpTargetError struct {
	Offset int
	OpName string
	Target int
}

func (e *MalformedJumpTargetError) Error() string {
	return fmt.Sprintf("instruction %s at offset %d jumps to offset %d, which is not in the sequence", e.OpName, e.Offset, e.Target)
}

// Builder constructs bytecode graphs using a fixed opcode classification
// table. A Builder is stateless and safe for concurrent use.
type Builder struct {
	table *instr.OpTable
}

// NewBuilder creates a Builder for the given opcode table. A nil table
// selects the default instruction set.
func NewBuilder(table *instr.OpTable) *Builder {
	if table == nil {
		table = instr.Default()
	}
	return &Builder{table: table}
}

// Build constructs the control-flow graph for one callable from its ordered
// instruction sequence. The returned graph is strongly connected: every
// exit point gets a synthetic edge back to the entry point.
func (b *Builder) Build(raws []instr.Raw) (*Graph, error) {
	if len(raws) == 0 {
		return nil, ErrEmptySequence
	}

	// Pass 1: offsets present in the sequence, all jump targets, entry offset.
	known := make(map[int]bool, len(raws))
	jumpTargets := make(map[int]bool)
	entry := raws[0].Offset
	for _, raw := range raws {
		known[raw.Offset] = true
		if raw.Offset < entry {
			entry = raw.Offset
		}
		if raw.JumpTarget != nil {
			jumpTargets[*raw.JumpTarget] = true
		}
	}

	g := &Graph{
		full:    digraph.New(),
		flow:    digraph.New(),
		instrs:  make(map[int]instr.Instruction, len(raws)),
		offsets: make([]int, 0, len(raws)),
		entry:   entry,
		version: b.table.Version(),
	}

	// Pass 2: classify and place nodes.
	for _, raw := range raws {
		in := instr.Classify(raw, entry, jumpTargets, b.table)
		g.instrs[in.Offset] = in
		g.offsets = append(g.offsets, in.Offset)
		g.full.AddNode(in.Offset)
		g.flow.AddNode(in.Offset)

		if in.IsDecisionPoint {
			g.numDecision++
		}
		if in.IsBranchPoint {
			g.numBranch++
		}
		if in.IsExitPoint {
			g.numExit++
			g.exits = append(g.exits, in.Offset)
		}
	}

	// Pass 3: flow edges. Fall-through to the next instruction in decode
	// order, except after exit points and unconditional jumps; branches get
	// an edge to their jump target.
	for i, offset := range g.offsets {
		in := g.instrs[offset]

		if in.IsBranchPoint {
			if in.JumpTarget == nil || !known[*in.JumpTarget] {
				target := -1
				if in.JumpTarget != nil {
					target = *in.JumpTarget
				}
				return nil, &MalformedJumpTargetError{Offset: in.Offset, OpName: in.OpName, Target: target}
			}
			g.addFlowEdge(in.Offset, *in.JumpTarget)
		}

		if i+1 == len(g.offsets) {
			continue
		}
		if in.IsExitPoint {
			continue
		}
		if in.IsBranchPoint && !b.table.IsConditionalBranch(in.OpName) {
			continue
		}
		g.addFlowEdge(in.Offset, g.offsets[i+1])
	}

	// Pass 4: connectivity repair, exit -> entry.
	for _, exit := range g.exits {
		g.full.AddEdge(exit, entry)
	}

	return g, nil
}

func (g *Graph) addFlowEdge(u, v int) {
	g.flow.AddEdge(u, v)
	g.full.AddEdge(u, v)
}
