// Package linegraph builds the source-line quotient of a bytecode graph:
// instruction nodes are merged by source line, and an edge joins two lines
// whenever some bytecode edge crosses between them. Intra-line edges are
// dropped; they shrink edge and node counts by the same amount and leave
// the measures unchanged.
package linegraph

import (
	"github.com/l3aro/go-ccm/pkg/bytegraph"
	"github.com/l3aro/go-ccm/pkg/digraph"
	"github.com/l3aro/go-ccm/pkg/instr"
)

// Graph is the source-line quotient graph. Nodes are line numbers; the
// instruction slices are non-owning back references into the bytecode
// graph, kept for decision- and exit-point counting.
type Graph struct {
	g     *digraph.Graph
	lines map[int][]instr.Instruction

	numDecision int
	numExit     int
}

// FromBytecode builds the quotient graph of bg. Parallel induced edges are
// deduplicated (simple-graph semantics). A single-line callable gets a
// self-loop so the graph stays strongly connected and the measures remain
// well-defined.
func FromBytecode(bg *bytegraph.Graph) *Graph {
	q := &Graph{
		g:     digraph.New(),
		lines: make(map[int][]instr.Instruction),
	}

	lineOf := make(map[int]int, bg.NodeCount())
	for _, in := range bg.Instructions() {
		lineOf[in.Offset] = in.Line
		q.lines[in.Line] = append(q.lines[in.Line], in)
		q.g.AddNode(in.Line)
		if in.IsDecisionPoint {
			q.numDecision++
		}
		if in.IsExitPoint {
			q.numExit++
		}
	}

	bg.Edges(func(u, v int) {
		lu, lv := lineOf[u], lineOf[v]
		if lu != lv {
			q.g.AddEdge(lu, lv)
		}
	})

	// Single-line bodies would otherwise quotient to one node and zero
	// edges, leaving the component-based measures degenerate.
	if q.g.NodeCount() == 1 {
		line := q.g.Nodes()[0]
		q.g.AddEdge(line, line)
	}

	return q
}

// NodeCount returns the number of distinct source lines.
func (q *Graph) NodeCount() int { return q.g.NodeCount() }

// EdgeCount returns the number of distinct inter-line edges.
func (q *Graph) EdgeCount() int { return q.g.EdgeCount() }

// ComponentCount returns the number of strongly connected components.
func (q *Graph) ComponentCount() int { return q.g.CountStronglyConnectedComponents() }

// DecisionPoints returns the number of comparison instructions across all lines.
func (q *Graph) DecisionPoints() int { return q.numDecision }

// ExitPoints returns the number of terminating instructions across all lines.
func (q *Graph) ExitPoints() int { return q.numExit }

// ExitPointsPerComponent returns the exit-point count of each strongly
// connected component, in component order.
func (q *Graph) ExitPointsPerComponent() []int {
	sccs := q.g.StronglyConnectedComponents()
	counts := make([]int, len(sccs))
	for i, scc := range sccs {
		for _, line := range scc {
			for _, in := range q.lines[line] {
				if in.IsExitPoint {
					counts[i]++
				}
			}
		}
	}
	return counts
}

// Lines returns the line numbers in ascending order.
func (q *Graph) Lines() []int { return q.g.Nodes() }

// InstructionsForLine returns the instructions that the given line produced,
// in decode order.
func (q *Graph) InstructionsForLine(line int) []instr.Instruction { return q.lines[line] }

// Successors returns the out-neighbor lines of the given line.
func (q *Graph) Successors(line int) []int { return q.g.Successors(line) }

// Edges calls fn for every inter-line edge in deterministic order.
func (q *Graph) Edges(fn func(u, v int)) { q.g.Edges(fn) }
