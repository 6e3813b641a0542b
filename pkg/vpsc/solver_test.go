package vpsc

import (
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-6

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-4 }

func TestSolveTwoOverlapping(t *testing.T) {
	a := NewVariable(10)
	b := NewVariable(10)
	c := NewConstraint(a, b, 5, false)
	s := NewSolver([]*Variable{a, b}, []*Constraint{c})
	s.Solve()

	if !approx(a.Position(), 7.5) || !approx(b.Position(), 12.5) {
		t.Errorf("positions = %v, %v; want 7.5, 12.5", a.Position(), b.Position())
	}
	if !c.Active() {
		t.Error("tight constraint should be active")
	}
	if err := s.Check(); err != nil {
		t.Error(err)
	}
}

func TestSolveAlreadySatisfied(t *testing.T) {
	a := NewVariable(0)
	b := NewVariable(10)
	c := NewConstraint(a, b, 5, false)
	s := NewSolver([]*Variable{a, b}, []*Constraint{c})
	cost := s.Solve()

	if cost > eps {
		t.Errorf("cost = %v, want 0", cost)
	}
	if c.Active() {
		t.Error("slack constraint should stay inactive")
	}
	if a.Position() != 0 || b.Position() != 10 {
		t.Errorf("positions moved: %v, %v", a.Position(), b.Position())
	}
}

func TestSolveChain(t *testing.T) {
	vs := []*Variable{NewVariable(0), NewVariable(0), NewVariable(0)}
	cs := []*Constraint{
		NewConstraint(vs[0], vs[1], 1, false),
		NewConstraint(vs[1], vs[2], 1, false),
	}
	s := NewSolver(vs, cs)
	s.Solve()

	want := []float64{-1, 0, 1}
	for i, v := range vs {
		if !approx(v.Position(), want[i]) {
			t.Errorf("x[%d] = %v, want %v", i, v.Position(), want[i])
		}
	}
}

func TestSolveEquality(t *testing.T) {
	a := NewVariable(0)
	b := NewVariable(0)
	c := NewConstraint(a, b, 3, true)
	s := NewSolver([]*Variable{a, b}, []*Constraint{c})
	s.Solve()

	if got := b.Position() - a.Position(); !approx(got, 3) {
		t.Errorf("separation = %v, want 3", got)
	}
	if !approx(a.Position(), -1.5) {
		t.Errorf("a = %v, want -1.5", a.Position())
	}
}

func TestEqualityPullsTogether(t *testing.T) {
	a := NewVariable(0)
	b := NewVariable(10)
	c := NewConstraint(a, b, 2, true)
	s := NewSolver([]*Variable{a, b}, []*Constraint{c})
	s.Solve()

	if got := b.Position() - a.Position(); !approx(got, 2) {
		t.Errorf("separation = %v, want 2 (equality must also bind when slack is positive)", got)
	}
}

func TestCycleMarkedUnsatisfiable(t *testing.T) {
	a := NewVariable(0)
	b := NewVariable(0)
	ab := NewConstraint(a, b, 1, false)
	ba := NewConstraint(b, a, 1, false)
	s := NewSolver([]*Variable{a, b}, []*Constraint{ab, ba})
	s.Solve()

	flagged := 0
	for _, c := range []*Constraint{ab, ba} {
		if c.Unsatisfiable() {
			flagged++
			if c.Slack() != math.MaxFloat64 {
				t.Error("unsatisfiable constraint should report infinite slack")
			}
		}
	}
	if flagged != 1 {
		t.Fatalf("flagged = %d, want exactly 1", flagged)
	}
	if len(s.Violations(eps)) != 0 {
		t.Errorf("remaining constraint should be satisfied")
	}
	if err := s.Check(); err != nil {
		t.Error(err)
	}
}

func TestLongCycleDoesNotLoop(t *testing.T) {
	vs := []*Variable{NewVariable(0), NewVariable(1), NewVariable(2)}
	cs := []*Constraint{
		NewConstraint(vs[0], vs[1], 1, false),
		NewConstraint(vs[1], vs[2], 1, false),
		NewConstraint(vs[2], vs[0], 1, false),
	}
	s := NewSolver(vs, cs)
	s.Solve()

	flagged := 0
	for _, c := range cs {
		if c.Unsatisfiable() {
			flagged++
		}
	}
	if flagged == 0 {
		t.Error("a cyclic constraint set must flag at least one constraint")
	}
	if v := s.Violations(eps); len(v) != 0 {
		t.Errorf("%d satisfiable constraints left violated", len(v))
	}
}

func TestMergeLeavesZeroSlack(t *testing.T) {
	tests := []struct {
		name         string
		left, right  float64
		gap          float64
		extraOnRight bool
	}{
		{"overlapping", 5, 5, 3, false},
		{"crossed", 10, 0, 1, false},
		{"larger right block", 4, 4, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewVariable(tt.left)
			b := NewVariable(tt.right)
			vs := []*Variable{a, b}
			cs := []*Constraint{NewConstraint(a, b, tt.gap, false)}
			if tt.extraOnRight {
				extra := NewVariable(tt.right + 10)
				vs = append(vs, extra)
				cs = append(cs, NewConstraint(b, extra, 1, false))
			}
			s := NewSolver(vs, cs)
			s.bs = newBlocks(vs)
			if tt.extraOnRight {
				s.bs.merge(cs[1])
			}
			s.bs.merge(cs[0])

			if sl := cs[0].Slack(); math.Abs(sl) > eps {
				t.Errorf("slack after merge = %v, want 0", sl)
			}
			if a.block != b.block {
				t.Error("merged variables should share a block")
			}
		})
	}
}

func TestPositionStatsMatchesLeastSquares(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(8)
		vs := make([]*Variable, n)
		for i := range vs {
			vs[i] = NewWeightedVariable(rng.Float64()*100-50, 0.1+rng.Float64()*5, 0.5+rng.Float64()*2)
			vs[i].offset = rng.Float64()*20 - 10
		}
		ps := PositionStats{Scale: vs[0].Scale}
		for _, v := range vs {
			ps.AddVariable(v)
		}

		// minimize sum w (a*p + b - d)^2 with a = S/s, b = offset/s
		num, den := 0.0, 0.0
		for _, v := range vs {
			a := ps.Scale / v.Scale
			b := v.offset / v.Scale
			num += v.Weight * a * (v.DesiredPosition - b)
			den += v.Weight * a * a
		}
		if want := num / den; math.Abs(ps.Posn()-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Fatalf("trial %d: Posn() = %v, want %v", trial, ps.Posn(), want)
		}
	}
}

// randomAcyclic builds constraints that only point from lower to higher
// index, so the set is always feasible.
func randomAcyclic(rng *rand.Rand, n, m int) ([]*Variable, []*Constraint) {
	vs := make([]*Variable, n)
	for i := range vs {
		vs[i] = NewVariable(rng.Float64() * 20)
	}
	cs := make([]*Constraint, 0, m)
	for len(cs) < m {
		i, j := rng.Intn(n), rng.Intn(n)
		if i == j {
			continue
		}
		if i > j {
			i, j = j, i
		}
		cs = append(cs, NewConstraint(vs[i], vs[j], rng.Float64()*5, false))
	}
	return vs, cs
}

func TestSatisfyFeasibleOnAcyclicSets(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 100; trial++ {
		vs, cs := randomAcyclic(rng, 2+rng.Intn(12), 1+rng.Intn(25))
		s := NewSolver(vs, cs)
		s.Satisfy()

		for _, c := range cs {
			if c.Unsatisfiable() {
				t.Fatalf("trial %d: acyclic constraint flagged unsatisfiable", trial)
			}
			if c.Slack() < -eps {
				t.Fatalf("trial %d: slack %v after Satisfy", trial, c.Slack())
			}
		}
		if err := s.Check(); err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
	}
}

func TestSolveFeasibleOnAcyclicSets(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for trial := 0; trial < 100; trial++ {
		vs, cs := randomAcyclic(rng, 2+rng.Intn(12), 1+rng.Intn(25))
		s := NewSolver(vs, cs)
		s.Solve()

		if v := s.Violations(eps); len(v) != 0 {
			t.Fatalf("trial %d: %d violations after Solve", trial, len(v))
		}
		if err := s.Check(); err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
	}
}

func TestCostNonIncreasingAcrossSatisfy(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 50; trial++ {
		vs, cs := randomAcyclic(rng, 3+rng.Intn(10), 2+rng.Intn(20))
		s := NewSolver(vs, cs)
		s.Satisfy()
		prev := s.Cost()
		for round := 0; round < 10; round++ {
			s.Satisfy()
			cost := s.Cost()
			if cost > prev+1e-6*math.Max(1, prev) {
				t.Fatalf("trial %d round %d: cost rose from %v to %v", trial, round, prev, cost)
			}
			prev = cost
		}
	}
}

func TestStartingAndDesiredPositions(t *testing.T) {
	a := NewVariable(0)
	b := NewVariable(0)
	c := NewConstraint(a, b, 4, false)
	s := NewSolver([]*Variable{a, b}, []*Constraint{c})

	s.SetStartingPositions([]float64{1, 2})
	if a.Position() != 1 || b.Position() != 2 {
		t.Fatalf("starting positions = %v, %v", a.Position(), b.Position())
	}
	s.SetDesiredPositions([]float64{3, 3})
	s.Solve()
	if !approx(a.Position(), 1) || !approx(b.Position(), 5) {
		t.Errorf("positions = %v, %v; want 1, 5", a.Position(), b.Position())
	}
}

func TestWeightedVariableHoldsPosition(t *testing.T) {
	pinned := NewWeightedVariable(0, 1000, 1)
	free := NewVariable(0)
	s := NewSolver([]*Variable{pinned, free}, []*Constraint{NewConstraint(pinned, free, 10, false)})
	s.Solve()

	if math.Abs(pinned.Position()) > 0.02 {
		t.Errorf("heavy variable moved to %v", pinned.Position())
	}
	if !approx(free.Position()-pinned.Position(), 10) {
		t.Errorf("separation = %v, want 10", free.Position()-pinned.Position())
	}
}

func TestNewSolverResetsAdjacency(t *testing.T) {
	a := NewVariable(0)
	b := NewVariable(0)
	NewSolver([]*Variable{a, b}, []*Constraint{NewConstraint(a, b, 1, false)})
	NewSolver([]*Variable{a, b}, []*Constraint{NewConstraint(a, b, 2, false)})

	if len(a.Out()) != 1 || len(b.In()) != 1 {
		t.Errorf("adjacency leaked between solvers: out=%d in=%d", len(a.Out()), len(b.In()))
	}
}

func TestPositionBeforeSolve(t *testing.T) {
	v := NewVariable(42)
	if v.Position() != 42 {
		t.Errorf("Position() = %v, want desired position", v.Position())
	}
}
