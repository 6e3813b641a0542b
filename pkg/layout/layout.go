package layout

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/descent"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/errors"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/geom"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/overlap"
)

// Node is a laid-out rectangle. X and Y are read as the starting position
// and hold the result. Fixed nodes are pinned where they start, or at
// (PX, PY) once [Layout.Pin] has been called.
type Node = overlap.Node

// Constraint is a separation or alignment over node indices.
type Constraint = overlap.Constraint

// Link connects two node indices.
type Link struct {
	Source, Target int

	// Length multiplies the link distance; 0 means 1. Link length
	// heuristics overwrite it.
	Length float64

	// Weight is the stress weight of the pair; 0 means 1.
	Weight float64
}

// Group is a cluster of nodes and child groups kept together, and apart
// from their non-members, when overlap avoidance is on.
type Group struct {
	Leaves  []int
	Groups  []int
	Padding float64
}

// Graph is the layout input.
type Graph struct {
	Nodes       []*Node
	Links       []Link
	Groups      []Group
	Constraints []Constraint
}

// Validate checks indices, sizes and the group hierarchy of g against cfg.
func Validate(g Graph, cfg Config) error {
	n := len(g.Nodes)
	for i, v := range g.Nodes {
		if v == nil {
			return errors.New(errors.ErrCodeInvalidGraph, "node %d is nil", i)
		}
		for _, f := range []struct {
			what string
			v    float64
		}{{"x", v.X}, {"y", v.Y}} {
			if err := errors.ValidateFinite(fmt.Sprintf("node %d %s", i, f.what), f.v); err != nil {
				return err
			}
		}
		if err := errors.ValidateSize(fmt.Sprintf("node %d width", i), v.Width); err != nil {
			return err
		}
		if err := errors.ValidateSize(fmt.Sprintf("node %d height", i), v.Height); err != nil {
			return err
		}
	}
	for i, l := range g.Links {
		if err := errors.ValidateIndex(errors.ErrCodeInvalidGraph, fmt.Sprintf("link %d source", i), l.Source, n); err != nil {
			return err
		}
		if err := errors.ValidateIndex(errors.ErrCodeInvalidGraph, fmt.Sprintf("link %d target", i), l.Target, n); err != nil {
			return err
		}
		if err := errors.ValidateSize(fmt.Sprintf("link %d length", i), l.Length); err != nil {
			return err
		}
		if err := errors.ValidateSize(fmt.Sprintf("link %d weight", i), l.Weight); err != nil {
			return err
		}
	}
	if err := validateGroups(g.Groups, n); err != nil {
		return err
	}
	for i, c := range g.Constraints {
		if err := validateConstraint(c, n); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConstraint, err, "constraint %d", i)
		}
	}
	return cfg.validate(n)
}

func validateGroups(groups []Group, n int) error {
	nodeParent := make([]int, n)
	groupParent := make([]int, len(groups))
	for i := range nodeParent {
		nodeParent[i] = -1
	}
	for i := range groupParent {
		groupParent[i] = -1
	}
	for gi, g := range groups {
		if err := errors.ValidateSize(fmt.Sprintf("group %d padding", gi), g.Padding); err != nil {
			return err
		}
		for _, v := range g.Leaves {
			if err := errors.ValidateIndex(errors.ErrCodeInvalidGroup, fmt.Sprintf("group %d leaf", gi), v, n); err != nil {
				return err
			}
			if p := nodeParent[v]; p >= 0 {
				return errors.New(errors.ErrCodeInvalidGroup, "node %d belongs to groups %d and %d", v, p, gi)
			}
			nodeParent[v] = gi
		}
		for _, c := range g.Groups {
			if err := errors.ValidateIndex(errors.ErrCodeInvalidGroup, fmt.Sprintf("group %d child", gi), c, len(groups)); err != nil {
				return err
			}
			if p := groupParent[c]; p >= 0 {
				return errors.New(errors.ErrCodeInvalidGroup, "group %d has parents %d and %d", c, p, gi)
			}
			groupParent[c] = gi
		}
	}
	// walking up from every group must reach a root
	for gi := range groups {
		steps := 0
		for p := groupParent[gi]; p >= 0; p = groupParent[p] {
			if p == gi || steps > len(groups) {
				return errors.New(errors.ErrCodeInvalidGroup, "group %d contains itself", gi)
			}
			steps++
		}
	}
	return nil
}

func validateConstraint(c Constraint, n int) error {
	if err := errors.ValidateAxis(string(c.Axis)); err != nil {
		return err
	}
	if c.IsSeparation() {
		if err := errors.ValidateIndex(errors.ErrCodeInvalidConstraint, "left", c.Left, n); err != nil {
			return err
		}
		if err := errors.ValidateIndex(errors.ErrCodeInvalidConstraint, "right", c.Right, n); err != nil {
			return err
		}
		return errors.ValidateFinite("gap", c.Gap)
	}
	if c.Type != overlap.Alignment {
		return errors.New(errors.ErrCodeInvalidConstraint, "unknown type %q", c.Type)
	}
	if len(c.Offsets) == 0 {
		return errors.New(errors.ErrCodeInvalidConstraint, "alignment has no nodes")
	}
	for _, o := range c.Offsets {
		if err := errors.ValidateIndex(errors.ErrCodeInvalidConstraint, "alignment node", o.Node, n); err != nil {
			return err
		}
		if err := errors.ValidateFinite("alignment offset", o.Offset); err != nil {
			return err
		}
	}
	return nil
}

// Layout is a running or finished layout over one graph.
type Layout struct {
	cfg Config
	log *log.Logger

	nodes       []*Node
	links       []Link
	groups      []Group
	constraints []Constraint

	// group hierarchy as seen by the projection
	ogroups []*overlap.Group
	root    *overlap.Group

	descent *descent.Descent

	alpha      float64
	lastStress float64
	hasStress  bool
	running    bool
	ticks      int

	handlers map[EventType][]Handler
}

// New validates g and prepares a layout. Node pointers are shared: the
// layout writes positions into them.
func New(g Graph, cfg Config) (*Layout, error) {
	cfg.setDefaults()
	if err := Validate(g, cfg); err != nil {
		return nil, err
	}
	l := &Layout{
		cfg:         cfg,
		log:         cfg.Logger,
		nodes:       g.Nodes,
		links:       append([]Link(nil), g.Links...),
		groups:      g.Groups,
		constraints: g.Constraints,
		handlers:    make(map[EventType][]Handler),
	}
	l.buildHierarchy()
	return l, nil
}

func (l *Layout) buildHierarchy() {
	l.ogroups = make([]*overlap.Group, len(l.groups))
	for i, g := range l.groups {
		l.ogroups[i] = &overlap.Group{Padding: g.Padding}
	}
	inGroup := make([]bool, len(l.nodes))
	isChild := make([]bool, len(l.groups))
	for i, g := range l.groups {
		og := l.ogroups[i]
		for _, v := range g.Leaves {
			og.Leaves = append(og.Leaves, l.nodes[v])
			inGroup[v] = true
		}
		for _, c := range g.Groups {
			og.Groups = append(og.Groups, l.ogroups[c])
			isChild[c] = true
		}
	}
	l.root = &overlap.Group{}
	for i, v := range l.nodes {
		if !inGroup[i] {
			l.root.Leaves = append(l.root.Leaves, v)
		}
	}
	for i, og := range l.ogroups {
		if !isChild[i] {
			l.root.Groups = append(l.root.Groups, og)
		}
	}
}

// Nodes returns the laid-out nodes.
func (l *Layout) Nodes() []*Node { return l.nodes }

// Links returns the links, with lengths set by the link length heuristic.
func (l *Layout) Links() []Link { return l.links }

// Config returns the effective configuration.
func (l *Layout) Config() Config { return l.cfg }

// GroupBounds returns the bounding rectangle of each group in input order.
func (l *Layout) GroupBounds() []geom.Rectangle {
	bs := make([]geom.Rectangle, len(l.ogroups))
	for i, g := range l.ogroups {
		bs[i] = g.Bounds
	}
	return bs
}

// Stress returns the current stress, or 0 before Start.
func (l *Layout) Stress() float64 {
	if l.descent == nil {
		return 0
	}
	return l.descent.ComputeStress()
}

// Ticks returns the number of ticks that advanced the layout.
func (l *Layout) Ticks() int { return l.ticks }

// Running reports whether the layout is between start and end events.
func (l *Layout) Running() bool { return l.running }

// Pin fixes node i at (x, y) from the next tick on.
func (l *Layout) Pin(i int, x, y float64) error {
	if err := errors.ValidateIndex(errors.ErrCodeInvalidInput, "pin", i, len(l.nodes)); err != nil {
		return err
	}
	v := l.nodes[i]
	v.Fixed = true
	v.PX, v.PY = x, y
	return nil
}

// Unpin releases node i.
func (l *Layout) Unpin(i int) error {
	if err := errors.ValidateIndex(errors.ErrCodeInvalidInput, "unpin", i, len(l.nodes)); err != nil {
		return err
	}
	l.nodes[i].Fixed = false
	return nil
}
