package vpsc

// Block is a set of variables rigidly connected by active constraints.
type Block struct {
	vars  []*Variable
	posn  float64
	ps    PositionStats
	index int
}

func newBlock(v *Variable) *Block {
	v.offset = 0
	b := &Block{ps: PositionStats{Scale: v.Scale}}
	b.addVariable(v)
	return b
}

// Vars returns the variables owned by the block.
func (b *Block) Vars() []*Variable { return b.vars }

// Position returns the block's reference position.
func (b *Block) Position() float64 { return b.posn }

func (b *Block) addVariable(v *Variable) {
	v.block = b
	b.vars = append(b.vars, v)
	b.ps.AddVariable(v)
	b.posn = b.ps.Posn()
}

// updateWeightedPosition recomputes the optimal position from scratch, for
// example after desired positions changed.
func (b *Block) updateWeightedPosition() {
	b.ps.reset()
	for _, v := range b.vars {
		b.ps.AddVariable(v)
	}
	b.posn = b.ps.Posn()
}

// computeLM walks the active tree below v (arriving from u) and assigns the
// Lagrangian multiplier of every constraint visited, calling post after each.
func (b *Block) computeLM(v, u *Variable, post func(*Constraint)) float64 {
	dfdv := v.dfdv()
	v.visitNeighbours(u, func(c *Constraint, next *Variable) {
		sub := b.computeLM(next, v, post)
		if next == c.Right {
			dfdv += sub * c.Left.Scale
			c.lm = sub
		} else {
			dfdv += sub * c.Right.Scale
			c.lm = -sub
		}
		post(c)
	})
	return dfdv / v.Scale
}

func (b *Block) populateSplitBlock(v, prev *Variable) {
	v.visitNeighbours(prev, func(c *Constraint, next *Variable) {
		if next == c.Right {
			next.offset = v.offset + c.Gap
		} else {
			next.offset = v.offset - c.Gap
		}
		b.addVariable(next)
		b.populateSplitBlock(next, v)
	})
}

// ActiveConstraints returns the constraints of the block's spanning tree.
func (b *Block) ActiveConstraints() []*Constraint {
	var out []*Constraint
	b.traverse(b.vars[0], nil, func(c *Constraint) { out = append(out, c) })
	return out
}

func (b *Block) traverse(v, prev *Variable, visit func(*Constraint)) {
	v.visitNeighbours(prev, func(c *Constraint, next *Variable) {
		visit(c)
		b.traverse(next, v, visit)
	})
}

// findMinLM computes multipliers over the whole block and returns the
// non-equality active constraint with the smallest one, or nil.
func (b *Block) findMinLM() *Constraint {
	var m *Constraint
	b.computeLM(b.vars[0], nil, func(c *Constraint) {
		if !c.Equality && (m == nil || c.lm < m.lm) {
			m = c
		}
	})
	return m
}

// findMinLMBetween restricts the search to the active path from lv to rv and
// only to constraints pointing towards rv.
func (b *Block) findMinLMBetween(lv, rv *Variable) *Constraint {
	b.computeLM(lv, nil, func(*Constraint) {})
	var m *Constraint
	b.findPath(lv, nil, rv, func(c *Constraint, next *Variable) {
		if !c.Equality && c.Right == next && (m == nil || c.lm < m.lm) {
			m = c
		}
	})
	return m
}

func (b *Block) findPath(v, prev, to *Variable, visit func(c *Constraint, next *Variable)) bool {
	found := false
	v.visitNeighbours(prev, func(c *Constraint, next *Variable) {
		if !found && (next == to || b.findPath(next, v, to, visit)) {
			found = true
			visit(c, next)
		}
	})
	return found
}

// isActiveDirectedPathBetween reports whether u reaches v along active
// constraints in their left-to-right direction.
func (b *Block) isActiveDirectedPathBetween(u, v *Variable) bool {
	if u == v {
		return true
	}
	for i := len(u.out) - 1; i >= 0; i-- {
		c := u.out[i]
		if c.active && b.isActiveDirectedPathBetween(c.Right, v) {
			return true
		}
	}
	return false
}

// split deactivates c and returns the two blocks rebuilt from its ends.
func split(c *Constraint) (left, right *Block) {
	c.active = false
	return createSplitBlock(c.Left), createSplitBlock(c.Right)
}

func createSplitBlock(start *Variable) *Block {
	b := newBlock(start)
	b.populateSplitBlock(start, nil)
	return b
}

// splitBetween splits the block on the path from vl to vr. ok is false when
// no split point exists, for example when the path is all equalities.
func (b *Block) splitBetween(vl, vr *Variable) (c *Constraint, lb, rb *Block, ok bool) {
	c = b.findMinLMBetween(vl, vr)
	if c == nil {
		return nil, nil, nil, false
	}
	lb, rb = split(c)
	return c, lb, rb, true
}

// mergeAcross absorbs other into b, shifting its offsets by dist, and
// activates c.
func (b *Block) mergeAcross(other *Block, c *Constraint, dist float64) {
	c.active = true
	for _, v := range other.vars {
		v.offset += dist
		b.addVariable(v)
	}
	b.posn = b.ps.Posn()
}

// Cost returns sum w (position - desired)^2 over the block's variables.
func (b *Block) Cost() float64 {
	sum := 0.0
	for _, v := range b.vars {
		d := v.Position() - v.DesiredPosition
		sum += d * d * v.Weight
	}
	return sum
}
