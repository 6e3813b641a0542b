package descent

import (
	"math"
	"testing"
)

func distance(x [][]float64, u, v int) float64 {
	s := 0.0
	for i := range x {
		d := x[i][u] - x[i][v]
		s += d * d
	}
	return math.Sqrt(s)
}

func TestRunTwoPointsReachIdealLength(t *testing.T) {
	tests := []struct {
		name  string
		x     [][]float64
		ideal float64
	}{
		{"too close", [][]float64{{0, 1}, {0, 0}}, 10},
		{"too far", [][]float64{{0, 30}, {0, 5}}, 10},
		{"diagonal", [][]float64{{0, 6}, {0, 8}}, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			D := [][]float64{{0, tt.ideal}, {tt.ideal, 0}}
			d := New(tt.x, D, nil)
			stress := d.Run(200)

			if got := distance(d.X, 0, 1); math.Abs(got-tt.ideal) > 1e-3 {
				t.Errorf("distance = %v, want %v", got, tt.ideal)
			}
			if stress > 1e-6 {
				t.Errorf("stress = %v, want ~0", stress)
			}
		})
	}
}

func TestRunChainStraightens(t *testing.T) {
	x := [][]float64{{0, 8, 15}, {0, 1, -1}}
	D := [][]float64{
		{0, 10, 20},
		{10, 0, 10},
		{20, 10, 0},
	}
	d := New(x, D, nil)
	d.Run(500)

	if got := distance(d.X, 0, 2); math.Abs(got-20) > 0.5 {
		t.Errorf("distance(A, C) = %v, want ~20", got)
	}
}

func TestComputeStress(t *testing.T) {
	x := [][]float64{{0, 5}, {0, 0}}
	D := [][]float64{{0, 10}, {10, 0}}
	if got := New(x, D, nil).ComputeStress(); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("stress = %v, want 0.25", got)
	}
}

func TestZeroIdealDistancesStayFinite(t *testing.T) {
	x := [][]float64{{0, 1, 4}, {0, 0, 3}}
	D := [][]float64{{0, 0, 10}, {0, 0, 10}, {10, 10, 0}}
	d := New(x, D, nil)
	stress := d.Run(200)
	if math.IsNaN(stress) || math.IsInf(stress, 0) {
		t.Fatalf("stress = %v", stress)
	}
	for u := 0; u < 3; u++ {
		if math.IsNaN(d.X[0][u]) || math.IsNaN(d.X[1][u]) {
			t.Fatalf("node %d at (%v, %v)", u, d.X[0][u], d.X[1][u])
		}
	}
	for _, u := range []int{0, 1} {
		if got := distance(d.X, u, 2); math.Abs(got-10) > 0.1 {
			t.Errorf("distance(%d, 2) = %v, want 10", u, got)
		}
	}
}

func TestLockedNodeStaysOnTarget(t *testing.T) {
	x := [][]float64{{0, 1, 2}, {0, 0, 1}}
	D := [][]float64{
		{0, 10, 10},
		{10, 0, 10},
		{10, 10, 0},
	}
	d := New(x, D, nil)
	d.Locks.Add(0, []float64{5, 5})

	for step := 0; step < 20; step++ {
		d.RungeKutta()
		if d.X[0][0] != 5 || d.X[1][0] != 5 {
			t.Fatalf("step %d: locked node at (%v, %v), want (5, 5)", step, d.X[0][0], d.X[1][0])
		}
	}
	d.Locks.Remove(0)
	if !d.Locks.IsEmpty() {
		t.Error("locks should be empty after Remove")
	}
}

func TestLocksOrderAndReplace(t *testing.T) {
	l := NewLocks()
	l.Add(3, []float64{1, 1})
	l.Add(1, []float64{2, 2})
	l.Add(3, []float64{4, 4})

	var ids []int
	l.Apply(func(id int, p []float64) { ids = append(ids, id) })
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("Apply order = %v, want [1 3]", ids)
	}
	if p, _ := l.Get(3); p[0] != 4 {
		t.Errorf("lock 3 = %v, want replaced target", p)
	}
	l.Clear()
	if l.Len() != 0 {
		t.Error("Clear should release every lock")
	}
}

func TestCoincidentPointsAreNudged(t *testing.T) {
	x := [][]float64{{0, 0}, {0, 0}}
	D := [][]float64{{0, 10}, {10, 0}}
	d := New(x, D, nil)
	d.ComputeDerivatives(d.X)

	if got := distance(d.X, 0, 1); math.Abs(got-10) > 1e-9 {
		t.Errorf("nudged distance = %v, want minD = 10", got)
	}
	for i := range d.g {
		for _, v := range d.g[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite gradient %v", d.g)
			}
		}
	}
}

func TestNudgeIsDeterministic(t *testing.T) {
	run := func() [][]float64 {
		x := [][]float64{{0, 0, 0}, {0, 0, 0}}
		D := [][]float64{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}}
		d := New(x, D, nil)
		d.ComputeDerivatives(d.X)
		return d.X
	}
	a, b := run(), run()
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("x[%d][%d] differs between runs: %v vs %v", i, j, a[i][j], b[i][j])
			}
		}
	}
}

func TestSkippedPairs(t *testing.T) {
	tests := []struct {
		name     string
		x        [][]float64
		ideal    float64
		weight   float64
		wantZero bool
	}{
		{"infinite ideal", [][]float64{{0, 3}, {0, 0}}, math.Inf(1), 1, true},
		{"zero ideal", [][]float64{{0, 3}, {0, 0}}, 0, 1, true},
		{"repulsive pair far apart", [][]float64{{0, 20}, {0, 0}}, 10, 2, true},
		{"repulsive pair too close", [][]float64{{0, 5}, {0, 0}}, 10, 2, false},
		{"attractive pair", [][]float64{{0, 20}, {0, 0}}, 10, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			D := [][]float64{{0, tt.ideal}, {tt.ideal, 0}}
			G := [][]float64{{0, tt.weight}, {tt.weight, 0}}
			d := New(tt.x, D, G)
			d.ComputeDerivatives(d.X)

			zero := d.g[0][0] == 0 && d.g[0][1] == 0
			if zero != tt.wantZero {
				t.Errorf("gradient = %v, wantZero %v", d.g[0], tt.wantZero)
			}
			if tt.wantZero && d.ComputeStepSize(d.g) != 0 {
				t.Error("step size should be 0 without curvature")
			}
		})
	}
}

func TestProjectionCalledPerStage(t *testing.T) {
	x := [][]float64{{0, 1, 2}, {0, 2, 1}}
	D := [][]float64{
		{0, 10, 10},
		{10, 0, 10},
		{10, 10, 0},
	}
	d := New(x, D, nil)
	calls := [2]int{}
	clamp := func(axis int) ProjectFunc {
		return func(_, _, r []float64) {
			calls[axis]++
			for i := range r {
				r[i] = math.Max(r[i], 0)
			}
		}
	}
	d.Project = []ProjectFunc{clamp(0), clamp(1)}
	d.RungeKutta()

	// four stages, each with a gradient step and a correction step
	if calls != [2]int{8, 8} {
		t.Errorf("projection calls = %v, want [8 8]", calls)
	}
	for i := range d.X {
		for j, v := range d.X[i] {
			if v < 0 {
				t.Errorf("x[%d][%d] = %v escaped the feasible region", i, j, v)
			}
		}
	}
}

func TestGridSnapOffset(t *testing.T) {
	s := GridSnap{Size: 100}
	tests := []struct {
		v, want float64
	}{
		{48, 48},
		{60, -40},
		{-60, 40},
		{150, 50},
		{-20, -20},
		{200, 0},
	}
	for _, tt := range tests {
		if got := s.offset(tt.v); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("offset(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestGridSnapPullsTowardLine(t *testing.T) {
	x := [][]float64{{10}, {-10}}
	g := [][]float64{{0}, {0}}
	H := [][][]float64{{{0}}, {{0}}}
	GridSnap{Nodes: 1, Size: 100, Strength: 1000}.Apply(x, g, H, 1)

	k := 1000.0 / (50 * 50)
	if math.Abs(g[0][0]-k*10) > 1e-9 || math.Abs(g[1][0]+k*10) > 1e-9 {
		t.Errorf("gradient = %v, want +-%v", g, k*10)
	}
	if H[0][0][0] != k || H[1][0][0] != k {
		t.Errorf("hessian diagonal = %v, %v; want %v", H[0][0][0], H[1][0][0], k)
	}
}

func TestPseudoRandomSequence(t *testing.T) {
	r := NewPseudoRandom(1)
	if got, want := r.Next(), 41.0/32767; got != want {
		t.Errorf("first value = %v, want %v", got, want)
	}
	for i := 0; i < 1000; i++ {
		if v := r.Between(0.01, 1); v < 0.01 || v > 1.0001 {
			t.Fatalf("Between out of range: %v", v)
		}
	}
}

func TestCreateSquareMatrix(t *testing.T) {
	M := CreateSquareMatrix(2, 3, func(i, j int) float64 { return float64(i*10 + j) })
	if len(M) != 2 || len(M[0]) != 3 || M[1][2] != 12 {
		t.Errorf("matrix = %v", M)
	}
}

func TestReduceStressLowersStress(t *testing.T) {
	x := [][]float64{{0, 2}, {0, 0}}
	D := [][]float64{{0, 10}, {10, 0}}
	d := New(x, D, nil)
	before := d.ComputeStress()
	if after := d.ReduceStress(); after >= before {
		t.Errorf("stress rose from %v to %v", before, after)
	}
}
