package linegraph

import (
	"testing"

	"github.com/l3aro/go-ccm/pkg/bytegraph"
	"github.com/l3aro/go-ccm/pkg/complexity"
	"github.com/l3aro/go-ccm/pkg/instr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func build(t *testing.T, raws []instr.Raw) *bytegraph.Graph {
	t.Helper()
	g, err := bytegraph.NewBuilder(nil).Build(raws)
	require.NoError(t, err)
	return g
}

// signRaws mirrors the three-branch example used in the bytegraph tests.
func signRaws() []instr.Raw {
	return []instr.Raw{
		{Offset: 0, Line: 2, OpName: "LOAD_FAST", Operand: intp(0), OperandRepr: "x"},
		{Offset: 2, Line: 2, OpName: "LOAD_CONST", Operand: intp(1), OperandRepr: "0"},
		{Offset: 4, Line: 2, OpName: "COMPARE_OP", Operand: intp(0), OperandRepr: "<"},
		{Offset: 6, Line: 2, OpName: "POP_JUMP_IF_FALSE", Operand: intp(12), JumpTarget: intp(12)},
		{Offset: 8, Line: 3, OpName: "LOAD_CONST", Operand: intp(2), OperandRepr: "-1"},
		{Offset: 10, Line: 3, OpName: "RETURN_VALUE"},
		{Offset: 12, Line: 4, OpName: "LOAD_FAST", Operand: intp(0), OperandRepr: "x", IsJumpTargetHint: true},
		{Offset: 14, Line: 4, OpName: "LOAD_CONST", Operand: intp(1), OperandRepr: "0"},
		{Offset: 16, Line: 4, OpName: "COMPARE_OP", Operand: intp(4), OperandRepr: ">"},
		{Offset: 18, Line: 4, OpName: "POP_JUMP_IF_FALSE", Operand: intp(24), JumpTarget: intp(24)},
		{Offset: 20, Line: 5, OpName: "LOAD_CONST", Operand: intp(3), OperandRepr: "1"},
		{Offset: 22, Line: 5, OpName: "RETURN_VALUE"},
		{Offset: 24, Line: 6, OpName: "LOAD_CONST", Operand: intp(1), OperandRepr: "0", IsJumpTargetHint: true},
		{Offset: 26, Line: 6, OpName: "RETURN_VALUE"},
	}
}

// nonzeroRaws is a compound condition folded into a single branch target:
//
//	def nonzero(x):
//	    if x < 0 or x > 0:
//	        return True
//	    return False
func nonzeroRaws() []instr.Raw {
	return []instr.Raw{
		{Offset: 0, Line: 2, OpName: "LOAD_FAST", Operand: intp(0), OperandRepr: "x"},
		{Offset: 2, Line: 2, OpName: "LOAD_CONST", Operand: intp(1), OperandRepr: "0"},
		{Offset: 4, Line: 2, OpName: "COMPARE_OP", Operand: intp(0), OperandRepr: "<"},
		{Offset: 6, Line: 2, OpName: "POP_JUMP_IF_TRUE", Operand: intp(16), JumpTarget: intp(16)},
		{Offset: 8, Line: 2, OpName: "LOAD_FAST", Operand: intp(0), OperandRepr: "x"},
		{Offset: 10, Line: 2, OpName: "LOAD_CONST", Operand: intp(1), OperandRepr: "0"},
		{Offset: 12, Line: 2, OpName: "COMPARE_OP", Operand: intp(4), OperandRepr: ">"},
		{Offset: 14, Line: 2, OpName: "POP_JUMP_IF_FALSE", Operand: intp(20), JumpTarget: intp(20)},
		{Offset: 16, Line: 3, OpName: "LOAD_CONST", Operand: intp(2), OperandRepr: "True", IsJumpTargetHint: true},
		{Offset: 18, Line: 3, OpName: "RETURN_VALUE"},
		{Offset: 20, Line: 4, OpName: "LOAD_CONST", Operand: intp(3), OperandRepr: "False", IsJumpTargetHint: true},
		{Offset: 22, Line: 4, OpName: "RETURN_VALUE"},
	}
}

// oneLinerRaws is a single-statement callable: def greet(): return "hi"
func oneLinerRaws() []instr.Raw {
	return []instr.Raw{
		{Offset: 0, Line: 1, OpName: "LOAD_CONST", Operand: intp(1), OperandRepr: "'hi'"},
		{Offset: 2, Line: 1, OpName: "RETURN_VALUE"},
	}
}

func TestQuotientSign(t *testing.T) {
	q := FromBytecode(build(t, signRaws()))

	assert.Equal(t, []int{2, 3, 4, 5, 6}, q.Lines())
	assert.Equal(t, 7, q.EdgeCount())
	assert.Equal(t, 1, q.ComponentCount())
	assert.Equal(t, 2, q.DecisionPoints())
	assert.Equal(t, 3, q.ExitPoints())
	assert.Equal(t, []int{3}, q.ExitPointsPerComponent())

	// Branch outcomes and connectivity edges survive the quotient.
	assert.Equal(t, []int{3, 4}, q.Successors(2))
	assert.Equal(t, []int{2}, q.Successors(3))
	assert.Equal(t, []int{5, 6}, q.Successors(4))
}

func TestQuotientMcCabeMatchesForSimpleDecisions(t *testing.T) {
	bg := build(t, signRaws())
	q := FromBytecode(bg)

	br, err := complexity.Evaluate(bg)
	require.NoError(t, err)
	qr, err := complexity.Evaluate(q)
	require.NoError(t, err)

	assert.Equal(t, 4, br.McCabe)
	assert.Equal(t, br.McCabe, qr.McCabe)
}

func TestQuotientCompoundConditionDiverges(t *testing.T) {
	// Two comparisons feeding one decision line: the bytecode graph sees
	// both branches, the line graph collapses them.
	bg := build(t, nonzeroRaws())
	q := FromBytecode(bg)

	br, err := complexity.Evaluate(bg)
	require.NoError(t, err)
	qr, err := complexity.Evaluate(q)
	require.NoError(t, err)

	assert.Equal(t, 4, br.McCabe)
	assert.Equal(t, 3, qr.McCabe)
	assert.GreaterOrEqual(t, br.McCabe, qr.McCabe)
}

func TestQuotientSingleLineSelfLoop(t *testing.T) {
	q := FromBytecode(build(t, oneLinerRaws()))

	assert.Equal(t, 1, q.NodeCount())
	assert.Equal(t, 1, q.EdgeCount())
	assert.Equal(t, []int{1}, q.Successors(1))
	assert.Equal(t, 1, q.ComponentCount())

	r, err := complexity.Evaluate(q)
	require.NoError(t, err)
	assert.Equal(t, 2, r.McCabe)
}

func TestQuotientStraightLine(t *testing.T) {
	raws := []instr.Raw{
		{Offset: 0, Line: 2, OpName: "LOAD_CONST", Operand: intp(1), OperandRepr: "'hi'"},
		{Offset: 2, Line: 2, OpName: "STORE_FAST", Operand: intp(0), OperandRepr: "msg"},
		{Offset: 4, Line: 3, OpName: "LOAD_FAST", Operand: intp(0), OperandRepr: "msg"},
		{Offset: 6, Line: 3, OpName: "RETURN_VALUE"},
	}
	bg := build(t, raws)
	q := FromBytecode(bg)

	br, err := complexity.Evaluate(bg)
	require.NoError(t, err)
	qr, err := complexity.Evaluate(q)
	require.NoError(t, err)

	assert.Equal(t, 2, br.McCabe)
	assert.Equal(t, 2, qr.McCabe)
}

func TestInstructionBackReferences(t *testing.T) {
	q := FromBytecode(build(t, signRaws()))

	line2 := q.InstructionsForLine(2)
	require.Len(t, line2, 4)
	assert.Equal(t, "LOAD_FAST", line2[0].OpName)
	assert.True(t, line2[0].IsEntryPoint)
}
