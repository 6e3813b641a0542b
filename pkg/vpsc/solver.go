package vpsc

import "math"

const (
	// LagrangianTolerance is the multiplier below which a block is split.
	LagrangianTolerance = -1e-4

	// ZeroUpperBound is the slack below which a constraint counts as violated.
	ZeroUpperBound = -1e-10

	// costTolerance bounds the change in cost at which Solve stops iterating.
	costTolerance = 1e-4
)

// Solver finds positions for a set of variables satisfying separation
// constraints at minimum weighted squared displacement.
type Solver struct {
	vs       []*Variable
	cs       []*Constraint
	bs       *Blocks
	inactive []*Constraint
}

// NewSolver wires the constraints into the variables' adjacency lists.
// Any adjacency left over from a previous solver is discarded.
func NewSolver(vs []*Variable, cs []*Constraint) *Solver {
	for _, v := range vs {
		v.in = v.in[:0]
		v.out = v.out[:0]
	}
	for _, c := range cs {
		c.Left.out = append(c.Left.out, c)
		c.Right.in = append(c.Right.in, c)
	}
	s := &Solver{vs: vs, cs: cs}
	s.resetInactive()
	return s
}

func (s *Solver) resetInactive() {
	s.inactive = make([]*Constraint, len(s.cs))
	for i, c := range s.cs {
		c.active = false
		s.inactive[i] = c
	}
}

// Variables returns the solver's variables.
func (s *Solver) Variables() []*Variable { return s.vs }

// Constraints returns the solver's constraints.
func (s *Solver) Constraints() []*Constraint { return s.cs }

// Blocks returns the current block partition; nil before the first Satisfy.
func (s *Solver) Blocks() *Blocks { return s.bs }

// Cost returns the total weighted squared displacement.
func (s *Solver) Cost() float64 {
	if s.bs == nil {
		return 0
	}
	return s.bs.Cost()
}

// SetStartingPositions discards the block structure and places every
// variable in its own block at ps[i], leaving desired positions alone.
func (s *Solver) SetStartingPositions(ps []float64) {
	s.resetInactive()
	s.bs = newBlocks(s.vs)
	for i, b := range s.bs.list {
		b.posn = ps[i]
	}
}

// SetDesiredPositions assigns DesiredPosition from ps.
func (s *Solver) SetDesiredPositions(ps []float64) {
	for i, v := range s.vs {
		v.DesiredPosition = ps[i]
	}
}

// mostViolated returns the inactive constraint with the least slack, with
// equality constraints taking priority. The chosen constraint is dropped from
// the inactive list when it is about to be acted upon.
func (s *Solver) mostViolated() *Constraint {
	minSlack := math.MaxFloat64
	var v *Constraint
	n := len(s.inactive)
	deletePoint := n
	for i := 0; i < n; i++ {
		c := s.inactive[i]
		if c.unsatisfiable {
			continue
		}
		slack := c.Slack()
		if c.Equality || slack < minSlack {
			minSlack = slack
			v = c
			deletePoint = i
			if c.Equality {
				break
			}
		}
	}
	if deletePoint != n && (minSlack < ZeroUpperBound && !v.active || v.Equality) {
		s.inactive[deletePoint] = s.inactive[n-1]
		s.inactive[n-1] = nil
		s.inactive = s.inactive[:n-1]
	}
	return v
}

// Satisfy builds block structure over violated constraints until none
// remain. Constraints involved in cycles or unsplittable equality chains are
// flagged unsatisfiable instead.
func (s *Solver) Satisfy() {
	if s.bs == nil {
		s.bs = newBlocks(s.vs)
	}
	s.inactive = s.bs.split(s.inactive)
	for {
		v := s.mostViolated()
		if v == nil || !(v.Equality || v.Slack() < ZeroUpperBound && !v.active) {
			return
		}
		lb, rb := v.Left.block, v.Right.block
		if lb != rb {
			s.bs.merge(v)
			continue
		}
		if lb.isActiveDirectedPathBetween(v.Right, v.Left) {
			v.unsatisfiable = true
			continue
		}
		sc, sl, sr, ok := lb.splitBetween(v.Left, v.Right)
		if !ok {
			v.unsatisfiable = true
			continue
		}
		s.bs.insert(sl)
		s.bs.insert(sr)
		s.bs.remove(lb)
		s.inactive = append(s.inactive, sc)
		if v.Slack() >= 0 {
			// the split alone satisfied v
			s.inactive = append(s.inactive, v)
		} else {
			s.bs.merge(v)
		}
	}
}

// Solve alternates Satisfy with split passes until the cost stabilizes and
// returns the final cost.
func (s *Solver) Solve() float64 {
	s.Satisfy()
	last, cost := math.MaxFloat64, s.bs.Cost()
	for math.Abs(last-cost) > costTolerance {
		s.Satisfy()
		last = cost
		cost = s.bs.Cost()
	}
	return cost
}
