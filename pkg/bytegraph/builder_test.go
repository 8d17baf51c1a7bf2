package bytegraph

import (
	"testing"

	"github.com/l3aro/go-ccm/pkg/instr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

// signRaws is the decoded sequence of a sign-like function:
//
//	def sign(x):
//	    if x < 0:
//	        return -1
//	    if x > 0:
//	        return 1
//	    return 0
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

// straightRaws is a single-return, no-branch callable spanning two lines.
func straightRaws() []instr.Raw {
	return []instr.Raw{
		{Offset: 0, Line: 2, OpName: "LOAD_CONST", Operand: intp(1), OperandRepr: "'hi'"},
		{Offset: 2, Line: 2, OpName: "STORE_FAST", Operand: intp(0), OperandRepr: "msg"},
		{Offset: 4, Line: 3, OpName: "LOAD_FAST", Operand: intp(0), OperandRepr: "msg"},
		{Offset: 6, Line: 3, OpName: "RETURN_VALUE"},
	}
}

func TestBuildEmptySequence(t *testing.T) {
	_, err := NewBuilder(nil).Build(nil)
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestBuildMalformedJumpTarget(t *testing.T) {
	raws := []instr.Raw{
		{Offset: 0, Line: 1, OpName: "LOAD_FAST"},
		{Offset: 2, Line: 1, OpName: "POP_JUMP_IF_FALSE", JumpTarget: intp(40)},
		{Offset: 4, Line: 1, OpName: "RETURN_VALUE"},
	}
	_, err := NewBuilder(nil).Build(raws)

	var mje *MalformedJumpTargetError
	require.ErrorAs(t, err, &mje)
	assert.Equal(t, 2, mje.Offset)
	assert.Equal(t, 40, mje.Target)
}

func TestBuildBranchWithoutTarget(t *testing.T) {
	raws := []instr.Raw{
		{Offset: 0, Line: 1, OpName: "JUMP_FORWARD"},
		{Offset: 2, Line: 1, OpName: "RETURN_VALUE"},
	}
	_, err := NewBuilder(nil).Build(raws)

	var mje *MalformedJumpTargetError
	require.ErrorAs(t, err, &mje)
	assert.Equal(t, -1, mje.Target)
}

func TestBuildStraightLine(t *testing.T) {
	g, err := NewBuilder(nil).Build(straightRaws())
	require.NoError(t, err)

	assert.Equal(t, 4, g.NodeCount())
	// Three fall-through edges plus one connectivity edge.
	assert.Equal(t, 4, g.EdgeCount())
	assert.Equal(t, 1, g.ComponentCount())
	assert.Equal(t, 0, g.DecisionPoints())
	assert.Equal(t, 1, g.ExitPoints())
	assert.Equal(t, 0, g.EntryOffset())
	assert.Equal(t, []int{6}, g.ExitOffsets())
	assert.True(t, g.Flow().HasEdge(0, 2))
	assert.False(t, g.Flow().HasEdge(6, 0), "connectivity edge must not be in the flow subgraph")
}

func TestBuildSign(t *testing.T) {
	g, err := NewBuilder(nil).Build(signRaws())
	require.NoError(t, err)

	assert.Equal(t, 14, g.NodeCount())
	// 11 fall-through + 2 jump + 3 connectivity edges.
	assert.Equal(t, 16, g.EdgeCount())
	assert.Equal(t, 1, g.ComponentCount())
	assert.Equal(t, 2, g.DecisionPoints())
	assert.Equal(t, 2, g.BranchPoints())
	assert.Equal(t, 3, g.ExitPoints())
	assert.Equal(t, []int{3}, g.ExitPointsPerComponent())

	// Conditional jumps contribute both outcomes.
	assert.True(t, g.Flow().HasEdge(6, 12))
	assert.True(t, g.Flow().HasEdge(6, 8))

	// Exit points have no fall-through successor.
	assert.False(t, g.Flow().HasEdge(10, 12))
	assert.False(t, g.Flow().HasEdge(22, 24))

	// Connectivity repair from every exit back to the entry.
	for _, exit := range []int{10, 22, 26} {
		assert.Contains(t, g.Successors(exit), 0)
	}
}

func TestBuildUnconditionalJumpSuppressesFallThrough(t *testing.T) {
	// while-True style back edge: the JUMP_ABSOLUTE only flows to its target.
	raws := []instr.Raw{
		{Offset: 0, Line: 2, OpName: "LOAD_FAST", Operand: intp(0), OperandRepr: "x"},
		{Offset: 2, Line: 2, OpName: "POP_JUMP_IF_FALSE", Operand: intp(8), JumpTarget: intp(8)},
		{Offset: 4, Line: 3, OpName: "LOAD_FAST", Operand: intp(0), OperandRepr: "x"},
		{Offset: 6, Line: 3, OpName: "JUMP_ABSOLUTE", Operand: intp(0), JumpTarget: intp(0)},
		{Offset: 8, Line: 4, OpName: "LOAD_CONST", Operand: intp(0), OperandRepr: "None", IsJumpTargetHint: true},
		{Offset: 10, Line: 4, OpName: "RETURN_VALUE"},
	}
	g, err := NewBuilder(nil).Build(raws)
	require.NoError(t, err)

	assert.True(t, g.Flow().HasEdge(6, 0))
	assert.False(t, g.Flow().HasEdge(6, 8))
	assert.Equal(t, 1, g.ComponentCount())
}

func TestBuildEntryAndExitInvariants(t *testing.T) {
	for name, raws := range map[string][]instr.Raw{
		"sign":     signRaws(),
		"straight": straightRaws(),
	} {
		g, err := NewBuilder(nil).Build(raws)
		require.NoError(t, err, name)

		entries := 0
		for _, in := range g.Instructions() {
			if in.IsEntryPoint {
				entries++
			}
		}
		assert.Equal(t, 1, entries, "%s: exactly one entry point", name)
		assert.GreaterOrEqual(t, g.ExitPoints(), 1, "%s: at least one exit point", name)
	}
}

func TestBuildDeterministic(t *testing.T) {
	a, err := NewBuilder(nil).Build(signRaws())
	require.NoError(t, err)
	b, err := NewBuilder(nil).Build(signRaws())
	require.NoError(t, err)

	assert.Equal(t, a.NodeCount(), b.NodeCount())
	assert.Equal(t, a.EdgeCount(), b.EdgeCount())

	var ea, eb [][2]int
	a.Edges(func(u, v int) { ea = append(ea, [2]int{u, v}) })
	b.Edges(func(u, v int) { eb = append(eb, [2]int{u, v}) })
	assert.Equal(t, ea, eb)
}

func TestBuildRecordsInstructionSet(t *testing.T) {
	g, err := NewBuilder(instr.Default()).Build(straightRaws())
	require.NoError(t, err)
	assert.Equal(t, "cpython-3.7", g.InstructionSet())
}
