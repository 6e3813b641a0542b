package overlap

import (
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/geom"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/vpsc"
)

// RemoveOverlaps moves rs in place so that no two rectangles overlap,
// solving first horizontally and then vertically.
func RemoveOverlaps(rs []geom.Rectangle) {
	vs := make([]*vpsc.Variable, len(rs))
	for i, r := range rs {
		vs[i] = vpsc.NewVariable(r.CX())
	}
	vpsc.NewSolver(vs, GenerateXConstraints(rs, vs)).Solve()
	for i, v := range vs {
		rs[i].SetXCentre(v.Position())
	}

	for i, r := range rs {
		vs[i] = vpsc.NewVariable(r.CY())
	}
	vpsc.NewSolver(vs, GenerateYConstraints(rs, vs)).Solve()
	for i, v := range vs {
		rs[i].SetYCentre(v.Position())
	}
}
