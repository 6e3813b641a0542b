package overlap

import (
	"slices"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/geom"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/vpsc"
)

// DefaultGroupStiffness is the weight of group boundary variables.
const DefaultGroupStiffness = 0.01

// Node is a rectangle with its own variable, as seen by the projection.
type Node struct {
	X, Y          float64
	Width, Height float64

	// Fixed nodes are held at (PX, PY) with weight FixedWeight.
	Fixed       bool
	FixedWeight float64
	PX, PY      float64

	Bounds   geom.Rectangle
	Variable *vpsc.Variable

	index int
}

// Group is a node of the containment hierarchy.
type Group struct {
	Leaves  []*Node
	Groups  []*Group
	Padding float64

	// Stiffness weights the boundary variables; 0 selects
	// DefaultGroupStiffness.
	Stiffness float64

	Bounds         geom.Rectangle
	MinVar, MaxVar *vpsc.Variable

	minIndex, maxIndex int
}

// ComputeGroupBounds sets g.Bounds, and those of its descendants, to the
// union of member bounds inflated by padding.
func ComputeGroupBounds(g *Group) geom.Rectangle {
	b := geom.Empty()
	for _, l := range g.Leaves {
		b = l.Bounds.Union(b)
	}
	for _, c := range g.Groups {
		b = ComputeGroupBounds(c).Union(b)
	}
	g.Bounds = b.Inflate(g.Padding)
	return g.Bounds
}

// GenerateXGroupConstraints keeps members of every group, recursively,
// horizontally inside the group boundaries and apart from each other.
func GenerateXGroupConstraints(root *Group) []*vpsc.Constraint {
	return generateGroupConstraints(root, xRect, DefaultMinSeparation, false)
}

// GenerateYGroupConstraints is the vertical counterpart of
// GenerateXGroupConstraints.
func GenerateYGroupConstraints(root *Group) []*vpsc.Constraint {
	return generateGroupConstraints(root, yRect, DefaultMinSeparation, false)
}

func generateGroupConstraints(root *Group, f rectAccessor, minSep float64, contained bool) []*vpsc.Constraint {
	var child []*vpsc.Constraint
	for _, g := range root.Groups {
		child = append(child, generateGroupConstraints(g, f, minSep, true)...)
	}

	var (
		rs []geom.Rectangle
		vs []*vpsc.Variable
	)
	if contained {
		// the group's own borders, each a padding-thick slab
		b := root.Bounds
		c, s := f.centre(b), f.size(b)/2
		open, close := f.open(b), f.close(b)
		lo := c - s + root.Padding/2
		hi := c + s - root.Padding/2
		root.MinVar.DesiredPosition = lo
		rs = append(rs, f.makeRect(open, close, lo, root.Padding))
		vs = append(vs, root.MinVar)
		root.MaxVar.DesiredPosition = hi
		rs = append(rs, f.makeRect(open, close, hi, root.Padding))
		vs = append(vs, root.MaxVar)
	}
	for _, l := range root.Leaves {
		rs = append(rs, l.Bounds)
		vs = append(vs, l.Variable)
	}
	for _, g := range root.Groups {
		b := g.Bounds
		rs = append(rs, f.makeRect(f.open(b), f.close(b), f.centre(b), f.size(b)))
		vs = append(vs, g.MinVar)
	}

	cs := generate(rs, vs, f, minSep)
	// Each child group was placed as a single rectangle on its min variable.
	// Redirect the right-hand side of that rectangle to the max variable.
	for _, g := range root.Groups {
		adj := (g.Padding - f.size(g.Bounds)) / 2
		for _, c := range cs {
			switch {
			case c.Right == g.MinVar:
				c.Gap += adj
			case c.Left == g.MinVar:
				c.Left = g.MaxVar
				c.Gap += adj
			}
		}
	}
	return slices.Concat(child, cs)
}
