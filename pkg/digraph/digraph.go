// Package digraph provides a small directed simple graph over integer keys.
// It exposes exactly the queries the complexity measures need: node and edge
// counts, successor/predecessor sets, and strongly connected components.
// Nodes are offsets in bytecode graphs and line numbers in source graphs.
package digraph

import "sort"

// Graph is a directed simple graph (parallel edges are deduplicated,
// self-loops are allowed). The zero value is not usable; call New.
type Graph struct {
	succ map[int]map[int]bool
	pred map[int]map[int]bool

	edgeCount int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		succ: make(map[int]map[int]bool),
		pred: make(map[int]map[int]bool),
	}
}

// AddNode ensures n exists in the graph.
func (g *Graph) AddNode(n int) {
	if g.succ[n] == nil {
		g.succ[n] = make(map[int]bool)
		g.pred[n] = make(map[int]bool)
	}
}

// AddEdge adds the directed edge u->v, creating the endpoints if needed.
// Returns false if the edge was already present.
func (g *Graph) AddEdge(u, v int) bool {
	g.AddNode(u)
	g.AddNode(v)
	if g.succ[u][v] {
		return false
	}
	g.succ[u][v] = true
	g.pred[v][u] = true
	g.edgeCount++
	return true
}

// HasNode reports whether n is in the graph.
func (g *Graph) HasNode(n int) bool {
	_, ok := g.succ[n]
	return ok
}

// HasEdge reports whether the edge u->v is present.
func (g *Graph) HasEdge(u, v int) bool {
	return g.succ[u][v]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.succ) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return g.edgeCount }

// Nodes returns all nodes in ascending order.
func (g *Graph) Nodes() []int {
	nodes := make([]int, 0, len(g.succ))
	for n := range g.succ {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)
	return nodes
}

// Successors returns the out-neighbors of n in ascending order.
func (g *Graph) Successors(n int) []int {
	return sortedKeys(g.succ[n])
}

// Predecessors returns the in-neighbors of n in ascending order.
func (g *Graph) Predecessors(n int) []int {
	return sortedKeys(g.pred[n])
}

// OutDegree returns the number of edges leaving n.
func (g *Graph) OutDegree(n int) int { return len(g.succ[n]) }

// InDegree returns the number of edges entering n.
func (g *Graph) InDegree(n int) int { return len(g.pred[n]) }

// Edges calls fn for every edge. Iteration order is deterministic
// (ascending by source, then target).
func (g *Graph) Edges(fn func(u, v int)) {
	for _, u := range g.Nodes() {
		for _, v := range g.Successors(u) {
			fn(u, v)
		}
	}
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	for n := range g.succ {
		c.AddNode(n)
	}
	g.Edges(func(u, v int) { c.AddEdge(u, v) })
	return c
}

func sortedKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
