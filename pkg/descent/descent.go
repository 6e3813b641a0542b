package descent

import "math"

// DefaultThreshold is the relative stress change at which [Descent.Run]
// stops.
const DefaultThreshold = 1e-4

// coincident is the squared distance below which two points are nudged
// apart before derivatives are taken.
const coincident = 1e-9

// ProjectFunc moves the coordinates of one axis into the feasible region.
// x0 and y0 are the previous positions of the first two axes and r is the
// axis being projected, updated in place.
type ProjectFunc func(x0, y0, r []float64)

// Descent holds the optimizer state for k axes of n points.
type Descent struct {
	// X holds one coordinate slice per axis, updated in place.
	X [][]float64

	// D is the ideal distance matrix; non-finite entries are ignored.
	D [][]float64

	// G weights each pair. Entries above 1 mark pairs that only repel:
	// they are skipped once the points are farther apart than ideal.
	// A nil G means every weight is 1.
	G [][]float64

	// Threshold is the relative stress change used by Run.
	Threshold float64

	// Locks pins nodes to fixed targets.
	Locks *Locks

	// Terms are extra soft energies applied after stress assembly.
	Terms []EnergyTerm

	// Project, when set, must hold one function per axis for the first two
	// axes.
	Project []ProjectFunc

	k, n int
	minD float64

	g  [][]float64
	H  [][][]float64
	Hd [][]float64

	a, b, c, d, e [][]float64
	ia, ib        [][]float64

	random *PseudoRandom
}

// New creates an optimizer over positions x (k slices of length n), ideal
// distances D and optional weights G.
func New(x, D, G [][]float64) *Descent {
	k := len(x)
	n := 0
	if k > 0 {
		n = len(x[0])
	}
	dd := &Descent{
		X:         x,
		D:         D,
		G:         G,
		Threshold: DefaultThreshold,
		Locks:     NewLocks(),
		k:         k,
		n:         n,
		random:    NewPseudoRandom(1),
	}
	dd.minD = math.MaxFloat64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if v := D[i][j]; v > 0 && v < dd.minD {
				dd.minD = v
			}
		}
	}
	if dd.minD == math.MaxFloat64 {
		dd.minD = 1
	}

	dd.g = CreateSquareMatrix(k, n, nil)
	dd.Hd = CreateSquareMatrix(k, n, nil)
	dd.H = make([][][]float64, k)
	for i := range dd.H {
		dd.H[i] = CreateSquareMatrix(n, n, nil)
	}
	for _, m := range []*[][]float64{&dd.a, &dd.b, &dd.c, &dd.d, &dd.e, &dd.ia, &dd.ib} {
		*m = CreateSquareMatrix(k, n, nil)
	}
	return dd
}

// CreateSquareMatrix returns a rows x cols matrix filled by f(i, j), or
// zeros when f is nil.
func CreateSquareMatrix(rows, cols int, f func(i, j int) float64) [][]float64 {
	M := make([][]float64, rows)
	for i := range M {
		M[i] = make([]float64, cols)
		if f == nil {
			continue
		}
		for j := range M[i] {
			M[i][j] = f(i, j)
		}
	}
	return M
}

// K returns the number of axes.
func (dd *Descent) K() int { return dd.k }

// N returns the number of points.
func (dd *Descent) N() int { return dd.n }

// Gradient returns the gradient computed by the last ComputeDerivatives.
func (dd *Descent) Gradient() [][]float64 { return dd.g }

// Hessian returns the per-axis Hessian computed by the last
// ComputeDerivatives.
func (dd *Descent) Hessian() [][][]float64 { return dd.H }

// offsetDir returns a random direction of length minD.
func (dd *Descent) offsetDir() []float64 {
	u := make([]float64, dd.k)
	l := 0.0
	for i := range u {
		v := dd.random.Between(0.01, 1) - 0.5
		u[i] = v
		l += v * v
	}
	l = math.Sqrt(l)
	for i := range u {
		u[i] *= dd.minD / l
	}
	return u
}

// ComputeDerivatives assembles the gradient and Hessian of stress at x,
// then applies energy terms and locks.
func (dd *Descent) ComputeDerivatives(x [][]float64) {
	if dd.n < 1 {
		return
	}
	k, n := dd.k, dd.n
	d := make([]float64, k)
	d2 := make([]float64, k)
	Huu := make([]float64, k)
	maxH := 0.0

	for u := 0; u < n; u++ {
		for i := 0; i < k; i++ {
			Huu[i] = 0
			dd.g[i][u] = 0
		}
		for v := 0; v < n; v++ {
			if u == v {
				continue
			}
			distSq := 0.0
			for attempts := n; attempts > 0; attempts-- {
				distSq = 0
				for i := 0; i < k; i++ {
					dx := x[i][u] - x[i][v]
					d[i] = dx
					d2[i] = dx * dx
					distSq += d2[i]
				}
				if distSq > coincident {
					break
				}
				rd := dd.offsetDir()
				for i := 0; i < k; i++ {
					x[i][v] += rd[i]
				}
			}
			dist := math.Sqrt(distSq)
			ideal := dd.D[u][v]
			weight := 1.0
			if dd.G != nil {
				weight = dd.G[u][v]
			}
			if weight > 1 && dist > ideal || !interacts(ideal) {
				for i := 0; i < k; i++ {
					dd.H[i][u][v] = 0
				}
				continue
			}
			if weight > 1 {
				weight = 1
			}
			idealSq := ideal * ideal
			gs := 2 * weight * (dist - ideal) / (idealSq * dist)
			distCubed := distSq * dist
			hs := -2 * weight / (idealSq * distCubed)
			for i := 0; i < k; i++ {
				dd.g[i][u] += d[i] * gs
				h := hs * (2*distCubed + ideal*(d2[i]-distSq))
				dd.H[i][u][v] = h
				Huu[i] -= h
			}
		}
		for i := 0; i < k; i++ {
			dd.H[i][u][u] = Huu[i]
			maxH = math.Max(maxH, Huu[i])
		}
	}

	for _, t := range dd.Terms {
		t.Apply(x, dd.g, dd.H, maxH)
	}

	dd.Locks.Apply(func(u int, p []float64) {
		for i := 0; i < k; i++ {
			dd.H[i][u][u] += maxH
			dd.g[i][u] -= maxH * (p[i] - x[i][u])
		}
	})
}

// interacts reports whether an ideal distance pulls its pair together.
// Non-finite and non-positive ideals are ignored.
func interacts(ideal float64) bool {
	return ideal > 0 && !math.IsInf(ideal, 0)
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// rightMultiply stores M*v in r.
func rightMultiply(M [][]float64, v, r []float64) {
	for i := range M {
		r[i] = dot(M[i], v)
	}
}

// ComputeStepSize returns the optimal step length along direction d for the
// current gradient and Hessian, or 0 when the curvature is degenerate.
func (dd *Descent) ComputeStepSize(d [][]float64) float64 {
	num, den := 0.0, 0.0
	for i := 0; i < dd.k; i++ {
		num += dot(dd.g[i], d[i])
		rightMultiply(dd.H[i], d[i], dd.Hd[i])
		den += dot(d[i], dd.Hd[i])
	}
	if den == 0 || math.IsInf(den, 0) || math.IsNaN(den) {
		return 0
	}
	return num / den
}

// ReduceStress takes one unprojected steepest-descent step and returns the
// resulting stress.
func (dd *Descent) ReduceStress() float64 {
	dd.ComputeDerivatives(dd.X)
	alpha := dd.ComputeStepSize(dd.g)
	for i := 0; i < dd.k; i++ {
		takeDescentStep(dd.X[i], dd.g[i], alpha)
	}
	return dd.ComputeStress()
}

func takeDescentStep(x, d []float64, step float64) {
	for i := range x {
		x[i] -= step * d[i]
	}
}

func copyMatrix(from, to [][]float64) {
	for i := range from {
		copy(to[i], from[i])
	}
}

// stepAndProject takes a step from x0 into r along d. The first axis is
// projected before the second axis steps, so the second projection sees the
// updated first axis.
func (dd *Descent) stepAndProject(x0, r, d [][]float64, step float64) {
	copyMatrix(x0, r)
	project := dd.Project != nil && dd.k >= 2
	for i := 0; i < dd.k; i++ {
		takeDescentStep(r[i], d[i], step)
		if !project {
			continue
		}
		switch i {
		case 0:
			dd.Project[0](x0[0], x0[1], r[0])
		case 1:
			dd.Project[1](r[0], x0[1], r[1])
		}
	}
}

func (dd *Descent) computeNextPosition(x0, r [][]float64) {
	dd.ComputeDerivatives(x0)
	alpha := dd.ComputeStepSize(dd.g)
	dd.stepAndProject(x0, r, dd.g, alpha)

	if dd.Project != nil {
		for i := 0; i < dd.k; i++ {
			for j := 0; j < dd.n; j++ {
				dd.e[i][j] = x0[i][j] - r[i][j]
			}
		}
		beta := dd.ComputeStepSize(dd.e)
		beta = math.Max(0.2, math.Min(beta, 1))
		dd.stepAndProject(x0, r, dd.e, beta)
	}
}

func mid(a, b, m [][]float64) {
	for i := range a {
		for j := range a[i] {
			m[i][j] = a[i][j] + (b[i][j]-a[i][j])/2
		}
	}
}

// RungeKutta advances X by one fourth-order Runge-Kutta step and returns the
// squared displacement of the step. Locked nodes end exactly at their
// targets.
func (dd *Descent) RungeKutta() float64 {
	dd.computeNextPosition(dd.X, dd.a)
	mid(dd.X, dd.a, dd.ia)
	dd.computeNextPosition(dd.ia, dd.b)
	mid(dd.X, dd.b, dd.ib)
	dd.computeNextPosition(dd.ib, dd.c)
	dd.computeNextPosition(dd.c, dd.d)

	disp := 0.0
	for i := 0; i < dd.k; i++ {
		for j := 0; j < dd.n; j++ {
			x := (dd.a[i][j] + 2*dd.b[i][j] + 2*dd.c[i][j] + dd.d[i][j]) / 6
			delta := dd.X[i][j] - x
			disp += delta * delta
			dd.X[i][j] = x
		}
	}
	dd.Locks.Apply(func(u int, p []float64) {
		for i := 0; i < dd.k; i++ {
			dd.X[i][u] = p[i]
		}
	})
	return disp
}

// Run performs up to iterations Runge-Kutta steps, stopping early once the
// relative stress change drops below Threshold or stress reaches zero. It
// returns the final stress.
func (dd *Descent) Run(iterations int) float64 {
	stress := math.MaxFloat64
	for ; iterations > 0; iterations-- {
		dd.RungeKutta()
		s := dd.ComputeStress()
		converged := s == 0 || math.Abs(stress/s-1) < dd.Threshold
		stress = s
		if converged {
			break
		}
	}
	if stress == math.MaxFloat64 {
		return dd.ComputeStress()
	}
	return stress
}

// ComputeStress returns sum((D - l)^2 / D^2) over pairs with finite ideal
// distance, where l is the current Euclidean distance.
func (dd *Descent) ComputeStress() float64 {
	stress := 0.0
	for u := 0; u < dd.n-1; u++ {
		for v := u + 1; v < dd.n; v++ {
			ideal := dd.D[u][v]
			if !interacts(ideal) {
				continue
			}
			l := 0.0
			for i := 0; i < dd.k; i++ {
				dx := dd.X[i][u] - dd.X[i][v]
				l += dx * dx
			}
			rl := ideal - math.Sqrt(l)
			stress += rl * rl / (ideal * ideal)
		}
	}
	return stress
}
