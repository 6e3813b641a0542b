package linklength

// adjacency is a compressed sparse row view of the directed link graph.
type adjacency struct {
	row []int
	col []int
}

func buildAdjacency[L any](n int, links []L, la LinkAccessor[L]) adjacency {
	row := make([]int, n+1)
	for _, l := range links {
		row[la.SourceIndex(l)+1]++
	}
	for i := 0; i < n; i++ {
		row[i+1] += row[i]
	}
	col := make([]int, len(links))
	cur := make([]int, n)
	copy(cur, row)
	for _, l := range links {
		u := la.SourceIndex(l)
		col[cur[u]] = la.TargetIndex(l)
		cur[u]++
	}
	return adjacency{row: row, col: col}
}

// StronglyConnectedComponents returns the strongly connected components of
// the directed graph over n nodes, in Tarjan's reverse topological order.
// Each component lists node indices in the order they were popped.
func StronglyConnectedComponents[L any](n int, links []L, la LinkAccessor[L]) [][]int {
	adj := buildAdjacency(n, links, la)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var (
		next       int
		stack      []int
		components [][]int
	)
	var connect func(v int)
	connect = func(v int) {
		index[v], low[v] = next, next
		next++
		stack = append(stack, v)
		onStack[v] = true
		for _, w := range adj.col[adj.row[v]:adj.row[v+1]] {
			switch {
			case index[w] < 0:
				connect(w)
				low[v] = min(low[v], low[w])
			case onStack[w]:
				low[v] = min(low[v], index[w])
			}
		}
		if low[v] != index[v] {
			return
		}
		var component []int
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		components = append(components, component)
	}
	for v := 0; v < n; v++ {
		if index[v] < 0 {
			connect(v)
		}
	}
	return components
}

// Constraint is a separation between node indices produced for flow layout.
type Constraint struct {
	Axis        string
	Left, Right int
	Gap         float64
}

// GenerateDirectedEdgeConstraints returns source + gap <= target on axis for
// every link whose endpoints lie in different strongly connected components.
func GenerateDirectedEdgeConstraints[L any](n int, links []L, axis string, la LinkSepAccessor[L]) []Constraint {
	component := make([]int, n)
	for i, c := range StronglyConnectedComponents(n, links, la) {
		for _, v := range c {
			component[v] = i
		}
	}
	var cs []Constraint
	for _, l := range links {
		u, v := la.SourceIndex(l), la.TargetIndex(l)
		if component[u] == component[v] {
			continue
		}
		cs = append(cs, Constraint{Axis: axis, Left: u, Right: v, Gap: la.MinSeparation(l)})
	}
	return cs
}
