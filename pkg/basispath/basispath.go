// Package basispath enumerates linearly independent execution paths of a
// callable: simple paths from the entry point to an exit point over the
// flow-edge subgraph, before connectivity repair. Path contents are not
// uniquely determined by the graph (multiple valid bases exist); the count
// is the structural invariant callers should rely on.
package basispath

import "github.com/l3aro/go-ccm/pkg/bytegraph"

// Path is one entry-to-exit execution path, as instruction offsets in
// execution order.
type Path []int

// Enumerator yields paths lazily via Next. It is single-use: once exhausted
// it stays exhausted. Not safe for concurrent use.
type Enumerator struct {
	g      *bytegraph.Graph
	stack  []dfsFrame
	path   []int
	onPath map[int]bool
	done   bool
}

type dfsFrame struct {
	offset int
	succs  []int
	pos    int
}

// NewEnumerator creates an enumerator rooted at the graph's entry point.
func NewEnumerator(g *bytegraph.Graph) *Enumerator {
	e := &Enumerator{g: g, onPath: make(map[int]bool)}
	e.push(g.EntryOffset())
	return e
}

func (e *Enumerator) push(offset int) {
	e.stack = append(e.stack, dfsFrame{offset: offset, succs: e.g.Flow().Successors(offset)})
	e.path = append(e.path, offset)
	e.onPath[offset] = true
}

func (e *Enumerator) pop() {
	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	e.path = e.path[:len(e.path)-1]
	delete(e.onPath, top.offset)
}

// Next returns the next path, or (nil, false) when the enumeration is
// exhausted. Paths are simple: loop bodies are traversed at most once,
// which keeps the enumeration finite for cyclic flow graphs.
func (e *Enumerator) Next() (Path, bool) {
	if e.done {
		return nil, false
	}

	for len(e.stack) > 0 {
		f := &e.stack[len(e.stack)-1]

		// Emit when first arriving at an exit point.
		if f.pos == 0 {
			if in, ok := e.g.Instruction(f.offset); ok && in.IsExitPoint {
				out := make(Path, len(e.path))
				copy(out, e.path)
				f.pos = len(f.succs) // exits have no flow successors anyway
				e.pop()
				return out, true
			}
		}

		if f.pos < len(f.succs) {
			next := f.succs[f.pos]
			f.pos++
			if e.onPath[next] {
				continue
			}
			e.push(next)
			continue
		}

		e.pop()
	}

	e.done = true
	return nil, false
}

// Collect drains the enumerator into a slice.
func (e *Enumerator) Collect() []Path {
	var paths []Path
	for {
		p, ok := e.Next()
		if !ok {
			return paths
		}
		paths = append(paths, p)
	}
}

// Count returns the number of basis paths of the graph.
func Count(g *bytegraph.Graph) int {
	e := NewEnumerator(g)
	n := 0
	for {
		if _, ok := e.Next(); !ok {
			return n
		}
		n++
	}
}
