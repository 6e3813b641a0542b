package vpsc

import "math"

// =============================================================================
// Variable
// =============================================================================

// Variable is a scalar position unknown.
type Variable struct {
	// DesiredPosition is the position the solver pulls the variable toward.
	DesiredPosition float64

	// Weight scales the cost of deviating from DesiredPosition.
	Weight float64

	// Scale multiplies the variable in every constraint it takes part in.
	Scale float64

	offset float64
	block  *Block
	in     []*Constraint
	out    []*Constraint
}

// NewVariable creates a variable with weight 1 and scale 1.
func NewVariable(desired float64) *Variable {
	return &Variable{DesiredPosition: desired, Weight: 1, Scale: 1}
}

// NewWeightedVariable creates a variable with explicit weight and scale.
func NewWeightedVariable(desired, weight, scale float64) *Variable {
	return &Variable{DesiredPosition: desired, Weight: weight, Scale: scale}
}

// Position returns the current solved position. Before the variable has been
// handed to a [Solver] it returns DesiredPosition.
func (v *Variable) Position() float64 {
	if v.block == nil {
		return v.DesiredPosition
	}
	return (v.block.ps.Scale*v.block.posn + v.offset) / v.Scale
}

// In returns the constraints whose right-hand side is v.
func (v *Variable) In() []*Constraint { return v.in }

// Out returns the constraints whose left-hand side is v.
func (v *Variable) Out() []*Constraint { return v.out }

func (v *Variable) dfdv() float64 {
	return 2 * v.Weight * (v.Position() - v.DesiredPosition)
}

// visitNeighbours calls f for every active constraint incident to v, skipping
// the one leading back to prev.
func (v *Variable) visitNeighbours(prev *Variable, f func(c *Constraint, next *Variable)) {
	for _, c := range v.out {
		if c.active && c.Right != prev {
			f(c, c.Right)
		}
	}
	for _, c := range v.in {
		if c.active && c.Left != prev {
			f(c, c.Left)
		}
	}
}

// =============================================================================
// Constraint
// =============================================================================

// Constraint requires Left*Left.Scale + Gap <= Right*Right.Scale, or equality.
type Constraint struct {
	Left, Right *Variable
	Gap         float64
	Equality    bool

	lm            float64
	active        bool
	unsatisfiable bool
}

// NewConstraint creates a separation (or equality) constraint.
func NewConstraint(left, right *Variable, gap float64, equality bool) *Constraint {
	return &Constraint{Left: left, Right: right, Gap: gap, Equality: equality}
}

// Slack returns how far the constraint is from being violated. Negative
// slack means violation; unsatisfiable constraints report math.MaxFloat64.
func (c *Constraint) Slack() float64 {
	if c.unsatisfiable {
		return math.MaxFloat64
	}
	return c.Right.Scale*c.Right.Position() - c.Gap - c.Left.Scale*c.Left.Position()
}

// Active reports whether the constraint currently holds a block together.
func (c *Constraint) Active() bool { return c.active }

// Unsatisfiable reports whether the solver flagged the constraint as part of a
// contradiction.
func (c *Constraint) Unsatisfiable() bool { return c.unsatisfiable }

// LagrangeMultiplier returns the multiplier computed by the last split search.
func (c *Constraint) LagrangeMultiplier() float64 { return c.lm }

// =============================================================================
// PositionStats
// =============================================================================

// PositionStats accumulates the weighted sums that give a block's optimal
// position in closed form.
type PositionStats struct {
	Scale float64
	AB    float64
	AD    float64
	A2    float64
}

// AddVariable folds v into the accumulators.
func (ps *PositionStats) AddVariable(v *Variable) {
	ai := ps.Scale / v.Scale
	bi := v.offset / v.Scale
	wi := v.Weight
	ps.AB += wi * ai * bi
	ps.AD += wi * ai * v.DesiredPosition
	ps.A2 += wi * ai * ai
}

// Posn returns the least-squares optimal block position.
func (ps *PositionStats) Posn() float64 {
	return (ps.AD - ps.AB) / ps.A2
}

func (ps *PositionStats) reset() {
	ps.AB, ps.AD, ps.A2 = 0, 0, 0
}
