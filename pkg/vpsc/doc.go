// Package vpsc solves one-dimensional separation constraint problems.
//
// # Problem
//
// Given variables x_i with desired positions d_i and weights w_i, and
// separation constraints of the form
//
//	left.Scale*left + gap <= right.Scale*right   (or == for equalities)
//
// the [Solver] finds positions minimizing sum w_i (x_i - d_i)^2 subject to the
// constraints. It is an active-set method specialized to one dimension rather
// than a general quadratic program solver: variables are partitioned into
// blocks that move rigidly, blocks merge across violated constraints and split
// across constraints whose Lagrangian multiplier shows that relaxing them
// would lower the cost.
//
// # Usage
//
//	a := vpsc.NewVariable(10)
//	b := vpsc.NewVariable(10)
//	c := vpsc.NewConstraint(a, b, 5, false)
//	s := vpsc.NewSolver([]*vpsc.Variable{a, b}, []*vpsc.Constraint{c})
//	s.Solve()
//	a.Position() // 7.5
//	b.Position() // 12.5
//
// # Contradictions
//
// Cyclic or otherwise infeasible constraint sets never abort a solve. The
// offending constraint is flagged [Constraint.Unsatisfiable] and reports
// infinite slack from then on, so the solver ignores it. The flag persists
// across solvers that reuse the constraint.
//
// # Block arena
//
// [Blocks] owns every live block and addresses it by a slot index so removal
// is an O(1) swap. Retired blocks have their slot set to -1; [Solver.Check]
// uses that to detect a variable whose back-reference points at a block that
// is no longer in the partition.
package vpsc
