package shortestpath

import (
	"math"
	"math/rand"
	"slices"
	"testing"
)

func TestDistanceMatrixChain(t *testing.T) {
	c := NewCalculator(3, []Link{
		{Source: 0, Target: 1, Length: 10},
		{Source: 1, Target: 2, Length: 10},
	})
	D := c.DistanceMatrix()

	want := [][]float64{
		{0, 10, 20},
		{10, 0, 10},
		{20, 10, 0},
	}
	for i := range want {
		for j := range want[i] {
			if D[i][j] != want[i][j] {
				t.Errorf("D[%d][%d] = %v, want %v", i, j, D[i][j], want[i][j])
			}
		}
	}
}

func TestNewWithAccessors(t *testing.T) {
	type edge struct {
		from, to int
		w        float64
	}
	edges := []edge{{0, 1, 2}, {1, 2, 3}}
	c := New(3, edges,
		func(e edge) int { return e.from },
		func(e edge) int { return e.to },
		func(e edge) float64 { return e.w })
	if d := c.DistancesFromNode(0); d[2] != 5 {
		t.Errorf("distance(0, 2) = %v, want 5", d[2])
	}
}

func TestDistanceMatrixDisconnected(t *testing.T) {
	c := NewCalculator(3, []Link{{Source: 0, Target: 1, Length: 1}})
	D := c.DistanceMatrix()

	if !math.IsInf(D[0][2], 1) || !math.IsInf(D[2][1], 1) {
		t.Errorf("unreachable pairs should be +Inf, got %v and %v", D[0][2], D[2][1])
	}
	if D[2][2] != 0 {
		t.Errorf("diagonal = %v, want 0", D[2][2])
	}
}

func TestDistanceMatrixSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	n := 20
	var links []Link
	for i := 0; i < 40; i++ {
		links = append(links, Link{Source: rng.Intn(n), Target: rng.Intn(n), Length: 1 + rng.Float64()*9})
	}
	D := NewCalculator(n, links).DistanceMatrix()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if math.Abs(D[i][j]-D[j][i]) > 1e-9 && !(math.IsInf(D[i][j], 1) && math.IsInf(D[j][i], 1)) {
				t.Fatalf("D[%d][%d] = %v but D[%d][%d] = %v", i, j, D[i][j], j, i, D[j][i])
			}
		}
	}
}

func TestPathFromNodeToNode(t *testing.T) {
	// 0-1-2-3 with a costly shortcut 0-3
	c := NewCalculator(5, []Link{
		{Source: 0, Target: 1, Length: 1},
		{Source: 1, Target: 2, Length: 1},
		{Source: 2, Target: 3, Length: 1},
		{Source: 0, Target: 3, Length: 5},
	})

	tests := []struct {
		name       string
		start, end int
		want       []int
	}{
		{"chain", 0, 3, []int{0, 1, 2, 3}},
		{"reverse", 3, 0, []int{3, 2, 1, 0}},
		{"self", 2, 2, []int{2}},
		{"unreachable", 0, 4, nil},
		{"out of range", 0, 9, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.PathFromNodeToNode(tt.start, tt.end); !slices.Equal(got, tt.want) {
				t.Errorf("path = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPathWithPrevCostAvoidsTurns(t *testing.T) {
	// 3x2 grid:
	//   0 1 2
	//   3 4 5
	// Every turn costs 10, so the cheapest route from 0 to 5 is one of the
	// single-bend paths 0-1-2-5 or 0-3-4-5.
	links := []Link{
		{Source: 0, Target: 1, Length: 1},
		{Source: 1, Target: 2, Length: 1},
		{Source: 3, Target: 4, Length: 1},
		{Source: 4, Target: 5, Length: 1},
		{Source: 0, Target: 3, Length: 1},
		{Source: 1, Target: 4, Length: 1},
		{Source: 2, Target: 5, Length: 1},
	}
	c := NewCalculator(6, links)
	row := func(i int) int { return i / 3 }
	bend := func(prev, u, v int) float64 {
		horizontal := func(a, b int) bool { return row(a) == row(b) }
		if horizontal(prev, u) != horizontal(u, v) {
			return 10
		}
		return 0
	}

	path := c.PathFromNodeToNodeWithPrevCost(0, 5, bend)
	if len(path) != 4 || path[0] != 0 || path[3] != 5 {
		t.Fatalf("path = %v, want 4 nodes from 0 to 5", path)
	}
	bends := 0
	for i := 1; i+1 < len(path); i++ {
		if bend(path[i-1], path[i], path[i+1]) > 0 {
			bends++
		}
	}
	if bends != 1 {
		t.Errorf("path %v has %d bends, want 1", path, bends)
	}
}

func TestPathWithPrevCostUnreachable(t *testing.T) {
	c := NewCalculator(3, []Link{{Source: 0, Target: 1, Length: 1}})
	if p := c.PathFromNodeToNodeWithPrevCost(0, 2, func(int, int, int) float64 { return 0 }); p != nil {
		t.Errorf("path = %v, want nil", p)
	}
}

func TestPairingHeapSorts(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	h := NewPairingHeap(func(a, b int) bool { return a < b })
	var want []int
	for i := 0; i < 500; i++ {
		v := rng.Intn(1000)
		h.Push(v)
		want = append(want, v)
	}
	if !h.IsHeap() {
		t.Fatal("heap order violated after pushes")
	}
	slices.Sort(want)

	for i, w := range want {
		if top, _ := h.Top(); top != w {
			t.Fatalf("Top() at %d = %d, want %d", i, top, w)
		}
		got, ok := h.Pop()
		if !ok || got != w {
			t.Fatalf("pop %d = %d, want %d", i, got, w)
		}
		if i%50 == 0 && !h.IsHeap() {
			t.Fatalf("heap order violated after %d pops", i+1)
		}
	}
	if !h.Empty() || h.Len() != 0 {
		t.Error("heap should be empty")
	}
	if _, ok := h.Pop(); ok {
		t.Error("Pop on empty heap should report !ok")
	}
}

func TestPairingHeapDecreaseKey(t *testing.T) {
	type item struct {
		key    int
		popped bool
	}
	rng := rand.New(rand.NewSource(13))
	h := NewPairingHeap(func(a, b *item) bool { return a.key < b.key })
	handles := make([]*HeapNode[*item], 200)
	for i := range handles {
		handles[i] = h.Push(&item{key: 1000 + rng.Intn(1000)})
	}
	// pop a few first so decrease-key also hits nodes deep in the tree
	for i := 0; i < 20; i++ {
		it, _ := h.Pop()
		it.popped = true
	}
	for _, n := range handles {
		if n.Value.popped || rng.Intn(2) == 0 {
			continue
		}
		h.DecreaseKey(n, &item{key: n.Value.key - rng.Intn(900)})
	}
	if err := h.Check(); err != nil {
		t.Fatal(err)
	}
	if h.Len() != 180 {
		t.Fatalf("Len() = %d, want 180", h.Len())
	}

	prev := math.MinInt
	for !h.Empty() {
		it, _ := h.Pop()
		if it.key < prev {
			t.Fatalf("popped %d after %d", it.key, prev)
		}
		prev = it.key
	}
}
