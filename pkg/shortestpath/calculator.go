package shortestpath

import "math"

// Link is an undirected weighted edge between two node indices.
type Link struct {
	Source, Target int
	Length         float64
}

type neighbour struct {
	id       int
	distance float64
}

type node struct {
	id         int
	neighbours []neighbour
	d          float64
	prev       *node
	q          *HeapNode[*node]
}

// queueEntry orders the heap used by the bend-cost search.
type queueEntry struct {
	node *node
	prev *queueEntry
	d    float64
}

// Calculator computes shortest paths over a fixed link set.
type Calculator struct {
	n     int
	nodes []*node
}

// NewCalculator builds the adjacency for n nodes. Links referring to nodes
// outside [0, n) are ignored.
func NewCalculator(n int, links []Link) *Calculator {
	c := &Calculator{n: n, nodes: make([]*node, n)}
	for i := range c.nodes {
		c.nodes[i] = &node{id: i}
	}
	for _, l := range links {
		if l.Source < 0 || l.Source >= n || l.Target < 0 || l.Target >= n {
			continue
		}
		u, v := c.nodes[l.Source], c.nodes[l.Target]
		u.neighbours = append(u.neighbours, neighbour{id: v.id, distance: l.Length})
		v.neighbours = append(v.neighbours, neighbour{id: u.id, distance: l.Length})
	}
	return c
}

// New builds a calculator from arbitrary link values using accessor funcs.
func New[L any](n int, links []L, source, target func(L) int, length func(L) float64) *Calculator {
	ls := make([]Link, len(links))
	for i, l := range links {
		ls[i] = Link{Source: source(l), Target: target(l), Length: length(l)}
	}
	return NewCalculator(n, ls)
}

// Len returns the node count.
func (c *Calculator) Len() int { return c.n }

// DistanceMatrix returns the all-pairs distance matrix. Unreachable pairs
// hold +Inf and the diagonal is zero.
func (c *Calculator) DistanceMatrix() [][]float64 {
	D := make([][]float64, c.n)
	for i := range D {
		D[i] = c.dijkstraNeighbours(i, -1)
	}
	return D
}

// DistancesFromNode returns single-source distances from start.
func (c *Calculator) DistancesFromNode(start int) []float64 {
	return c.dijkstraNeighbours(start, -1)
}

// PathFromNodeToNode returns the node indices of a shortest path from start
// to end inclusive, or nil when end is unreachable.
func (c *Calculator) PathFromNodeToNode(start, end int) []int {
	if start < 0 || start >= c.n || end < 0 || end >= c.n {
		return nil
	}
	c.dijkstraNeighbours(start, end)
	target := c.nodes[end]
	if math.IsInf(target.d, 1) {
		return nil
	}
	var path []int
	for u := target; u != nil; u = u.prev {
		path = append(path, u.id)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// dijkstraNeighbours runs Dijkstra from start, stopping early when dest is
// popped. Pass dest < 0 for a full search.
func (c *Calculator) dijkstraNeighbours(start, dest int) []float64 {
	q := NewPairingHeap(func(a, b *node) bool { return a.d < b.d })
	d := make([]float64, c.n)
	for i, u := range c.nodes {
		u.d = math.Inf(1)
		if i == start {
			u.d = 0
		}
		u.prev = nil
		u.q = q.Push(u)
	}
	for !q.Empty() {
		u, _ := q.Pop()
		d[u.id] = u.d
		if u.id == dest {
			break
		}
		if math.IsInf(u.d, 1) {
			continue
		}
		for _, nb := range u.neighbours {
			v := c.nodes[nb.id]
			if t := u.d + nb.distance; t < v.d {
				v.d = t
				v.prev = u
				q.DecreaseKey(v.q, v)
			}
		}
	}
	return d
}

// PathFromNodeToNodeWithPrevCost finds the cheapest path from start to end
// where each step from u to v arriving from prev costs the link length plus
// prevCost(prev, u, v). The returned path lists start..end inclusive; it is
// nil when end is unreachable.
func (c *Calculator) PathFromNodeToNodeWithPrevCost(start, end int, prevCost func(prev, u, v int) float64) []int {
	if start < 0 || start >= c.n || end < 0 || end >= c.n {
		return nil
	}
	q := NewPairingHeap(func(a, b *queueEntry) bool { return a.d < b.d })
	q.Push(&queueEntry{node: c.nodes[start], d: 0})

	// visited records the cheapest traversal cost of each directed link, so a
	// link is not re-explored from a costlier route.
	type arc struct{ from, to int }
	visited := make(map[arc]float64)
	for !q.Empty() {
		qu, _ := q.Pop()
		u := qu.node
		if u.id == end {
			var path []int
			for e := qu; e != nil; e = e.prev {
				path = append(path, e.node.id)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}
		for _, nb := range u.neighbours {
			v := c.nodes[nb.id]
			if qu.prev != nil && qu.prev.node.id == v.id {
				continue
			}
			key := arc{from: u.id, to: v.id}
			if best, ok := visited[key]; ok && best <= qu.d {
				continue
			}
			cc := 0.0
			if qu.prev != nil {
				cc = prevCost(qu.prev.node.id, u.id, v.id)
			}
			t := qu.d + nb.distance + cc
			visited[key] = t
			q.Push(&queueEntry{node: v, prev: qu, d: t})
		}
	}
	return nil
}
