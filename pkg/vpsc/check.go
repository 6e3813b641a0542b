package vpsc

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvariant is wrapped by every error returned from [Solver.Check].
var ErrInvariant = errors.New("vpsc: invariant violated")

// activeTolerance bounds the slack an active constraint may show from
// floating point drift.
const activeTolerance = 1e-6

// Check verifies the block partition: every variable belongs to exactly one
// live block, active constraints join variables of the same block and are
// tight, and the active constraints inside each block form a spanning tree.
// It is meant for tests and debugging and has no side effects.
func (s *Solver) Check() error {
	if s.bs == nil {
		return nil
	}
	seen := make(map[*Variable]*Block, len(s.vs))
	for i, b := range s.bs.list {
		if b.index != i {
			return fmt.Errorf("%w: block in slot %d records slot %d", ErrInvariant, i, b.index)
		}
		for _, v := range b.vars {
			if prev, ok := seen[v]; ok {
				if prev == b {
					return fmt.Errorf("%w: variable listed twice in one block", ErrInvariant)
				}
				return fmt.Errorf("%w: variable found in two blocks", ErrInvariant)
			}
			seen[v] = b
			if v.block != b {
				return fmt.Errorf("%w: variable back-reference does not match owning block", ErrInvariant)
			}
		}
	}
	if len(seen) != len(s.vs) {
		return fmt.Errorf("%w: %d of %d variables are owned by a block", ErrInvariant, len(seen), len(s.vs))
	}

	activePerBlock := make(map[*Block]int)
	for _, c := range s.cs {
		if !c.active {
			continue
		}
		if c.Left.block != c.Right.block {
			return fmt.Errorf("%w: active constraint spans two blocks", ErrInvariant)
		}
		if sl := c.Slack(); math.Abs(sl) > activeTolerance {
			return fmt.Errorf("%w: active constraint has slack %g", ErrInvariant, sl)
		}
		activePerBlock[c.Left.block]++
	}

	for _, b := range s.bs.list {
		if got, want := activePerBlock[b], len(b.vars)-1; got != want {
			return fmt.Errorf("%w: block of %d variables has %d active constraints", ErrInvariant, len(b.vars), got)
		}
		reached := map[*Variable]bool{b.vars[0]: true}
		queue := []*Variable{b.vars[0]}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			v.visitNeighbours(nil, func(_ *Constraint, next *Variable) {
				if !reached[next] {
					reached[next] = true
					queue = append(queue, next)
				}
			})
		}
		if len(reached) != len(b.vars) {
			return fmt.Errorf("%w: active constraints do not span their block", ErrInvariant)
		}
	}
	return nil
}

// Violations returns the satisfiable constraints whose slack is below -eps.
func (s *Solver) Violations(eps float64) []*Constraint {
	var out []*Constraint
	for _, c := range s.cs {
		if c.unsatisfiable {
			continue
		}
		sl := c.Slack()
		if sl < -eps || (c.Equality && sl > eps) {
			out = append(out, c)
		}
	}
	return out
}
