// Package descent minimizes layout stress by second-order gradient descent.
//
// # Overview
//
// Given k coordinate axes, n points and an ideal distance matrix D, a
// [Descent] moves the points so that Euclidean distances approach D. Each
// step assembles the full gradient and Hessian of the stress function,
// chooses the optimal step along the gradient, and combines four such steps
// with fourth-order Runge-Kutta weights.
//
// # Constraints
//
// Hard constraints are not known to this package. Callers install one
// [ProjectFunc] per axis in [Descent.Project]; it is invoked after every
// axis step of every stage and moves the axis coordinates back into the
// feasible region.
//
// # Soft terms
//
// [Locks] pull individual nodes towards fixed targets with a stiffness equal
// to the largest Hessian diagonal entry. Additional quadratic energies, such
// as [GridSnap], implement [EnergyTerm] and are applied after stress
// assembly.
package descent
