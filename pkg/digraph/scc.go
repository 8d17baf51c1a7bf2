package digraph

// tarjanState tracks the per-node bookkeeping for Tarjan's algorithm.
type tarjanState struct {
	index   map[int]int
	lowlink map[int]int
	onStack map[int]bool
	stack   []int
	next    int
	sccs    [][]int
}

// StronglyConnectedComponents returns the strongly connected components of
// the graph. Each component is sorted ascending; components are ordered by
// their smallest member. Iterative Tarjan, linear in nodes plus edges.
func (g *Graph) StronglyConnectedComponents() [][]int {
	st := &tarjanState{
		index:   make(map[int]int, len(g.succ)),
		lowlink: make(map[int]int, len(g.succ)),
		onStack: make(map[int]bool, len(g.succ)),
	}

	for _, n := range g.Nodes() {
		if _, seen := st.index[n]; !seen {
			g.strongConnect(n, st)
		}
	}

	sortComponents(st.sccs)
	return st.sccs
}

// CountStronglyConnectedComponents returns the number of SCCs.
func (g *Graph) CountStronglyConnectedComponents() int {
	return len(g.StronglyConnectedComponents())
}

// frame is one entry of the explicit DFS stack.
type frame struct {
	node  int
	succs []int
	pos   int
}

func (g *Graph) strongConnect(root int, st *tarjanState) {
	frames := []frame{{node: root, succs: g.Successors(root)}}
	st.index[root] = st.next
	st.lowlink[root] = st.next
	st.next++
	st.stack = append(st.stack, root)
	st.onStack[root] = true

	for len(frames) > 0 {
		f := &frames[len(frames)-1]

		if f.pos < len(f.succs) {
			w := f.succs[f.pos]
			f.pos++
			if _, seen := st.index[w]; !seen {
				st.index[w] = st.next
				st.lowlink[w] = st.next
				st.next++
				st.stack = append(st.stack, w)
				st.onStack[w] = true
				frames = append(frames, frame{node: w, succs: g.Successors(w)})
			} else if st.onStack[w] && st.index[w] < st.lowlink[f.node] {
				st.lowlink[f.node] = st.index[w]
			}
			continue
		}

		// All successors explored: pop a component if this is its root.
		v := f.node
		if st.lowlink[v] == st.index[v] {
			var scc []int
			for {
				top := st.stack[len(st.stack)-1]
				st.stack = st.stack[:len(st.stack)-1]
				st.onStack[top] = false
				scc = append(scc, top)
				if top == v {
					break
				}
			}
			st.sccs = append(st.sccs, scc)
		}

		frames = frames[:len(frames)-1]
		if len(frames) > 0 {
			parent := &frames[len(frames)-1]
			if st.lowlink[v] < st.lowlink[parent.node] {
				st.lowlink[parent.node] = st.lowlink[v]
			}
		}
	}
}

func sortComponents(sccs [][]int) {
	for _, scc := range sccs {
		for i := 1; i < len(scc); i++ {
			for j := i; j > 0 && scc[j-1] > scc[j]; j-- {
				scc[j-1], scc[j] = scc[j], scc[j-1]
			}
		}
	}
	// Order components by smallest member.
	for i := 1; i < len(sccs); i++ {
		for j := i; j > 0 && sccs[j-1][0] > sccs[j][0]; j-- {
			sccs[j-1], sccs[j] = sccs[j], sccs[j-1]
		}
	}
}
