package overlap

import (
	"cmp"
	"slices"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/geom"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/vpsc"
)

// DefaultFixedWeight is the variable weight of fixed nodes.
const DefaultFixedWeight = 1000

// ConstraintType distinguishes user constraints.
type ConstraintType string

const (
	Separation ConstraintType = "separation"
	Alignment  ConstraintType = "alignment"
)

// Offset places a node relative to an alignment guideline.
type Offset struct {
	Node   int     `json:"node" yaml:"node" toml:"node"`
	Offset float64 `json:"offset" yaml:"offset" toml:"offset"`
}

// Constraint is a user constraint over node indices.
//
// A separation requires pos(Left) + Gap <= pos(Right) on Axis, or equality
// when Equality is set. An alignment makes every node in Offsets share the
// guideline position of the first, shifted by its offset relative to it.
type Constraint struct {
	Type     ConstraintType `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Axis     Axis           `json:"axis" yaml:"axis" toml:"axis"`
	Left     int            `json:"left,omitempty" yaml:"left,omitempty" toml:"left,omitempty"`
	Right    int            `json:"right,omitempty" yaml:"right,omitempty" toml:"right,omitempty"`
	Gap      float64        `json:"gap,omitempty" yaml:"gap,omitempty" toml:"gap,omitempty"`
	Equality bool           `json:"equality,omitempty" yaml:"equality,omitempty" toml:"equality,omitempty"`
	Offsets  []Offset       `json:"offsets,omitempty" yaml:"offsets,omitempty" toml:"offsets,omitempty"`
}

// IsSeparation reports whether c is a separation constraint; an empty Type
// defaults to separation.
func (c Constraint) IsSeparation() bool {
	return c.Type == "" || c.Type == Separation
}

// Projection projects proposed positions onto the feasible region defined by
// user constraints and, optionally, non-overlap and group containment.
type Projection struct {
	nodes         []*Node
	groups        []*Group
	root          *Group
	avoidOverlaps bool

	vars []*vpsc.Variable
	xcs  []*vpsc.Constraint
	ycs  []*vpsc.Constraint
	// constrained is false when no user constraint list was given.
	constrained bool
}

// NewProjection creates node variables, group boundary variables when
// avoidOverlaps is set, and the solver constraints for cs. Alignment
// constraints may move node positions to start from a feasible state.
func NewProjection(nodes []*Node, groups []*Group, root *Group, cs []Constraint, avoidOverlaps bool) *Projection {
	p := &Projection{
		nodes:         nodes,
		groups:        groups,
		root:          root,
		avoidOverlaps: avoidOverlaps,
		constrained:   cs != nil,
	}
	p.vars = make([]*vpsc.Variable, len(nodes), len(nodes)+2*len(groups))
	for i, v := range nodes {
		v.index = i
		v.Variable = vpsc.NewVariable(0)
		p.vars[i] = v.Variable
	}

	if cs != nil {
		p.createConstraints(cs)
	}

	if avoidOverlaps && root != nil {
		for _, v := range nodes {
			v.Bounds = geom.FromCentre(v.X, v.Y, v.Width, v.Height)
		}
		ComputeGroupBounds(root)
		for _, g := range groups {
			w := g.Stiffness
			if w == 0 {
				w = DefaultGroupStiffness
			}
			g.minIndex = len(p.vars)
			g.MinVar = vpsc.NewWeightedVariable(0, w, 1)
			g.maxIndex = g.minIndex + 1
			g.MaxVar = vpsc.NewWeightedVariable(0, w, 1)
			p.vars = append(p.vars, g.MinVar, g.MaxVar)
		}
	}
	return p
}

// Variables returns the projection's variables: one per node followed by
// min and max boundary variables per group.
func (p *Projection) Variables() []*vpsc.Variable { return p.vars }

func (p *Projection) createSeparation(c Constraint) *vpsc.Constraint {
	return vpsc.NewConstraint(p.nodes[c.Left].Variable, p.nodes[c.Right].Variable, c.Gap, c.Equality)
}

// makeFeasible spreads the nodes of an alignment along its guideline so
// that consecutive nodes do not start overlapping.
func (p *Projection) makeFeasible(c Constraint) {
	if !p.avoidOverlaps {
		return
	}
	pos := func(v *Node) *float64 { return &v.X }
	dim := func(v *Node) float64 { return v.Width }
	if c.Axis == AxisX {
		pos = func(v *Node) *float64 { return &v.Y }
		dim = func(v *Node) float64 { return v.Height }
	}
	vs := make([]*Node, len(c.Offsets))
	for i, o := range c.Offsets {
		vs[i] = p.nodes[o.Node]
	}
	slices.SortStableFunc(vs, func(a, b *Node) int { return cmp.Compare(*pos(a), *pos(b)) })
	for i := 1; i < len(vs); i++ {
		prev, v := vs[i-1], vs[i]
		if next := *pos(prev) + dim(prev); next > *pos(v) {
			*pos(v) = next
		}
	}
}

func (p *Projection) createAlignment(c Constraint) {
	if len(c.Offsets) == 0 {
		return
	}
	u := p.nodes[c.Offsets[0].Node].Variable
	p.makeFeasible(c)
	for _, o := range c.Offsets[1:] {
		v := p.nodes[o.Node].Variable
		vc := vpsc.NewConstraint(u, v, o.Offset, true)
		if c.Axis == AxisX {
			p.xcs = append(p.xcs, vc)
		} else {
			p.ycs = append(p.ycs, vc)
		}
	}
}

func (p *Projection) createConstraints(cs []Constraint) {
	for _, c := range cs {
		if !c.IsSeparation() {
			continue
		}
		switch c.Axis {
		case AxisX:
			p.xcs = append(p.xcs, p.createSeparation(c))
		case AxisY:
			p.ycs = append(p.ycs, p.createSeparation(c))
		}
	}
	for _, c := range cs {
		if c.Type == Alignment {
			p.createAlignment(c)
		}
	}
}

func (p *Projection) setupVariablesAndBounds(x0, y0, desired []float64, pinned func(*Node) float64) {
	for i, v := range p.nodes {
		if v.Fixed {
			v.Variable.Weight = DefaultFixedWeight
			if v.FixedWeight > 0 {
				v.Variable.Weight = v.FixedWeight
			}
			desired[i] = pinned(v)
		} else {
			v.Variable.Weight = 1
		}
		v.Bounds = geom.FromCentre(x0[i], y0[i], v.Width, v.Height)
	}
}

// XProject projects x onto the horizontal constraints, starting from x0.
// x holds desired positions on entry and the solution on return.
func (p *Projection) XProject(x0, y0, x []float64) {
	if p.root == nil && !p.avoidOverlaps && !p.constrained {
		return
	}
	p.project(x0, y0, x0, x, func(v *Node) float64 { return v.PX }, p.xcs, GenerateXGroupConstraints,
		func(v *Node) {
			x[v.index] = v.Variable.Position()
			v.Bounds.SetXCentre(x[v.index])
		},
		func(g *Group) {
			lo := g.MinVar.Position()
			hi := g.MaxVar.Position()
			x[g.minIndex], x[g.maxIndex] = lo, hi
			g.Bounds.X = lo - g.Padding/2
			g.Bounds.MaxX = hi + g.Padding/2
		})
}

// YProject is the vertical counterpart of XProject.
func (p *Projection) YProject(x0, y0, y []float64) {
	if p.root == nil && !p.constrained {
		return
	}
	p.project(x0, y0, y0, y, func(v *Node) float64 { return v.PY }, p.ycs, GenerateYGroupConstraints,
		func(v *Node) {
			y[v.index] = v.Variable.Position()
			v.Bounds.SetYCentre(y[v.index])
		},
		func(g *Group) {
			lo := g.MinVar.Position()
			hi := g.MaxVar.Position()
			y[g.minIndex], y[g.maxIndex] = lo, hi
			g.Bounds.Y = lo - g.Padding/2
			g.Bounds.MaxY = hi + g.Padding/2
		})
}

// ProjectFunctions returns XProject and YProject in axis order.
func (p *Projection) ProjectFunctions() []func(x0, y0, r []float64) {
	return []func(x0, y0, r []float64){p.XProject, p.YProject}
}

func (p *Projection) project(
	x0, y0, start, desired []float64,
	pinned func(*Node) float64,
	cs []*vpsc.Constraint,
	groupConstraints func(*Group) []*vpsc.Constraint,
	updateNode func(*Node),
	updateGroup func(*Group),
) {
	p.setupVariablesAndBounds(x0, y0, desired, pinned)
	overlaps := p.root != nil && p.avoidOverlaps
	if overlaps {
		ComputeGroupBounds(p.root)
		cs = slices.Concat(cs, groupConstraints(p.root))
	}
	s := vpsc.NewSolver(p.vars, cs)
	s.SetStartingPositions(start)
	s.SetDesiredPositions(desired)
	s.Solve()

	for _, v := range p.nodes {
		updateNode(v)
	}
	if overlaps {
		for _, g := range p.groups {
			updateGroup(g)
		}
		ComputeGroupBounds(p.root)
	}
}
