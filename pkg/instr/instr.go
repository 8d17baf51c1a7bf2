// Package instr defines the decoded bytecode instruction model and the
// classification of instructions into structural roles (entry, decision,
// branch, exit, jump target). Instructions arrive as Raw records from an
// external disassembler; classification produces Instruction values that
// the graph builders consume.
package instr

import "fmt"

// Raw is one decoded instruction as produced by the external disassembler.
// Offsets are unique and strictly increasing in decode order. JumpTarget is
// the resolved target offset for branch instructions, nil otherwise.
// IsJumpTargetHint may be set by the disassembler but is recomputed from the
// full sequence rather than trusted.
type Raw struct {
	Offset           int    `json:"offset" msgpack:"o"`
	Line             int    `json:"line" msgpack:"l"`
	OpName           string `json:"op" msgpack:"op"`
	Operand          *int   `json:"operand,omitempty" msgpack:"a,omitempty"`
	OperandRepr      string `json:"operand_repr,omitempty" msgpack:"ar,omitempty"`
	JumpTarget       *int   `json:"jump_target,omitempty" msgpack:"jt,omitempty"`
	IsJumpTargetHint bool   `json:"is_jump_target,omitempty" msgpack:"jth,omitempty"`
}

// Instruction is a Raw record with its structural role flags resolved
// against an OpTable and the full instruction sequence.
type Instruction struct {
	Offset      int    `json:"offset"`
	Line        int    `json:"line"`
	OpName      string `json:"op"`
	Operand     *int   `json:"operand,omitempty"`
	OperandRepr string `json:"operand_repr,omitempty"`
	JumpTarget  *int   `json:"jump_target,omitempty"`

	IsEntryPoint    bool `json:"is_entry_point"`
	IsDecisionPoint bool `json:"is_decision_point"`
	IsBranchPoint   bool `json:"is_branch_point"`
	IsExitPoint     bool `json:"is_exit_point"`
	IsJumpTarget    bool `json:"is_jump_target"`
}

// String renders the instruction in a disassembly-listing style, with
// markers for jump targets (>>) and the role flags that matter for graphs.
func (in Instruction) String() string {
	marker := "  "
	if in.IsJumpTarget {
		marker = ">>"
	}
	s := fmt.Sprintf("%4d %s %4d %-20s", in.Line, marker, in.Offset, in.OpName)
	if in.Operand != nil {
		s += fmt.Sprintf(" %5d", *in.Operand)
		if in.OperandRepr != "" {
			s += " (" + in.OperandRepr + ")"
		}
	}
	return s
}

// Classify resolves the structural role flags for one raw instruction.
// entryOffset is the minimum offset in the callable's sequence; jumpTargets
// is the set of all resolved jump target offsets collected in a full pass
// over the sequence. Pure function of the table and the sequence-wide sets.
func Classify(raw Raw, entryOffset int, jumpTargets map[int]bool, table *OpTable) Instruction {
	return Instruction{
		Offset:      raw.Offset,
		Line:        raw.Line,
		OpName:      raw.OpName,
		Operand:     raw.Operand,
		OperandRepr: raw.OperandRepr,
		JumpTarget:  raw.JumpTarget,

		IsEntryPoint:    raw.Offset == entryOffset,
		IsDecisionPoint: table.IsDecision(raw.OpName),
		IsBranchPoint:   table.IsBranch(raw.OpName),
		IsExitPoint:     table.IsExit(raw.OpName),
		IsJumpTarget:    jumpTargets[raw.Offset],
	}
}
