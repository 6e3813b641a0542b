package descent

import "math"

// EnergyTerm adds a soft energy to the gradient g and Hessian H assembled by
// [Descent.ComputeDerivatives]. maxH is the largest Hessian diagonal entry
// produced by the stress term and is available for scaling.
type EnergyTerm interface {
	Apply(x, g [][]float64, H [][][]float64, maxH float64)
}

// GridSnap attracts the first Nodes nodes towards the nearest grid line on
// every axis with a quadratic well of radius Size/2 around each line.
type GridSnap struct {
	Nodes    int
	Size     float64
	Strength float64

	// ScaleByMaxH multiplies the stiffness by the largest Hessian entry.
	ScaleByMaxH bool
}

// Apply implements [EnergyTerm].
func (s GridSnap) Apply(x, g [][]float64, H [][][]float64, maxH float64) {
	if s.Size <= 0 || s.Nodes <= 0 {
		return
	}
	r := s.Size / 2
	k := s.Strength / (r * r)
	if s.ScaleByMaxH {
		k *= maxH
	}
	for u := 0; u < s.Nodes; u++ {
		for i := range x {
			dx := s.offset(x[i][u])
			if -r < dx && dx <= r {
				g[i][u] += k * dx
				H[i][u][u] += k
			}
		}
	}
}

// offset returns the signed distance from v to its nearest grid line.
func (s GridSnap) offset(v float64) float64 {
	m := v / s.Size
	q, f := math.Modf(m)
	switch {
	case math.Abs(f) <= 0.5:
		return v - q*s.Size
	case v > 0:
		return v - (q+1)*s.Size
	default:
		return v - (q-1)*s.Size
	}
}
