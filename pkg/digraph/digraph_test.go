package digraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdgeDeduplicates(t *testing.T) {
	g := New()
	assert.True(t, g.AddEdge(1, 2))
	assert.False(t, g.AddEdge(1, 2))
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 2, g.NodeCount())
}

func TestSelfLoop(t *testing.T) {
	g := New()
	g.AddEdge(7, 7)
	assert.True(t, g.HasEdge(7, 7))
	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 1, g.CountStronglyConnectedComponents())
}

func TestSuccessorsAndPredecessorsSorted(t *testing.T) {
	g := New()
	g.AddEdge(0, 4)
	g.AddEdge(0, 2)
	g.AddEdge(6, 2)
	assert.Equal(t, []int{2, 4}, g.Successors(0))
	assert.Equal(t, []int{0, 6}, g.Predecessors(2))
	assert.Equal(t, []int{0, 2, 4, 6}, g.Nodes())
}

func TestEdgesDeterministicOrder(t *testing.T) {
	g := New()
	g.AddEdge(2, 0)
	g.AddEdge(0, 2)
	g.AddEdge(0, 1)

	var got [][2]int
	g.Edges(func(u, v int) { got = append(got, [2]int{u, v}) })
	assert.Equal(t, [][2]int{{0, 1}, {0, 2}, {2, 0}}, got)
}

func TestSCCLinearChain(t *testing.T) {
	g := New()
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	assert.Equal(t, 3, g.CountStronglyConnectedComponents())
}

func TestSCCCycle(t *testing.T) {
	g := New()
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 0)
	sccs := g.StronglyConnectedComponents()
	require.Len(t, sccs, 1)
	assert.Equal(t, []int{0, 1, 2}, sccs[0])
}

func TestSCCMixed(t *testing.T) {
	// Two cycles joined by a one-way bridge, plus an isolated node.
	g := New()
	g.AddEdge(0, 1)
	g.AddEdge(1, 0)
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 2)
	g.AddNode(9)

	sccs := g.StronglyConnectedComponents()
	require.Len(t, sccs, 3)
	assert.Equal(t, []int{0, 1}, sccs[0])
	assert.Equal(t, []int{2, 3}, sccs[1])
	assert.Equal(t, []int{9}, sccs[2])
}

func TestSCCDeepChainIterative(t *testing.T) {
	// A long cycle would overflow a recursive implementation's stack in
	// pathological cases; the iterative version must handle it.
	g := New()
	const n = 20000
	for i := 0; i < n; i++ {
		g.AddEdge(i, (i+1)%n)
	}
	assert.Equal(t, 1, g.CountStronglyConnectedComponents())
}

func TestClone(t *testing.T) {
	g := New()
	g.AddEdge(0, 1)
	g.AddEdge(1, 0)

	c := g.Clone()
	c.AddEdge(1, 2)

	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, 3, c.EdgeCount())
	assert.False(t, g.HasNode(2))
}
