package graph

import (
	"fmt"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/errors"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/layout"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/overlap"
)

// Validate checks that ids are unique and every reference resolves.
// Structural checks on groups and sizes are left to the layout.
func (g *Graph) Validate() error {
	_, err := g.index()
	return err
}

type indices struct {
	nodes  map[string]int
	groups map[string]int
}

func (g *Graph) index() (indices, error) {
	ix := indices{
		nodes:  make(map[string]int, len(g.Nodes)),
		groups: make(map[string]int, len(g.Groups)),
	}
	for i, n := range g.Nodes {
		if n.ID == "" {
			return ix, errors.New(errors.ErrCodeInvalidGraph, "node %d has no id", i)
		}
		if _, dup := ix.nodes[n.ID]; dup {
			return ix, errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		ix.nodes[n.ID] = i
	}
	for i, gr := range g.Groups {
		if gr.ID == "" {
			return ix, errors.New(errors.ErrCodeInvalidGroup, "group %d has no id", i)
		}
		if _, dup := ix.groups[gr.ID]; dup {
			return ix, errors.New(errors.ErrCodeInvalidGroup, "duplicate group id %q", gr.ID)
		}
		ix.groups[gr.ID] = i
	}
	for i, l := range g.Links {
		for _, id := range []string{l.Source, l.Target} {
			if _, ok := ix.nodes[id]; !ok {
				return ix, errors.New(errors.ErrCodeInvalidGraph, "link %d: unknown node %q", i, id)
			}
		}
	}
	for _, gr := range g.Groups {
		for _, id := range gr.Leaves {
			if _, ok := ix.nodes[id]; !ok {
				return ix, errors.New(errors.ErrCodeInvalidGroup, "group %q: unknown node %q", gr.ID, id)
			}
		}
		for _, id := range gr.Groups {
			if _, ok := ix.groups[id]; !ok {
				return ix, errors.New(errors.ErrCodeInvalidGroup, "group %q: unknown group %q", gr.ID, id)
			}
		}
	}
	for i, c := range g.Constraints {
		var refs []string
		switch c.Type {
		case "", ConstraintSeparation:
			refs = []string{c.Left, c.Right}
		case ConstraintAlignment:
			for _, o := range c.Offsets {
				refs = append(refs, o.Node)
			}
		default:
			return ix, errors.New(errors.ErrCodeInvalidConstraint, "constraint %d: unknown type %q", i, c.Type)
		}
		for _, id := range refs {
			if _, ok := ix.nodes[id]; !ok {
				return ix, errors.New(errors.ErrCodeInvalidConstraint, "constraint %d: unknown node %q", i, id)
			}
		}
	}
	return ix, nil
}

// ToLayout resolves ids into the index-based layout input. Nodes without a
// position start at the centre of a width x height canvas.
func (g *Graph) ToLayout(width, height float64) (layout.Graph, error) {
	ix, err := g.index()
	if err != nil {
		return layout.Graph{}, err
	}

	out := layout.Graph{
		Nodes:       make([]*layout.Node, len(g.Nodes)),
		Links:       make([]layout.Link, len(g.Links)),
		Groups:      make([]layout.Group, len(g.Groups)),
		Constraints: make([]layout.Constraint, len(g.Constraints)),
	}
	for i, n := range g.Nodes {
		v := &layout.Node{X: width / 2, Y: height / 2, Width: n.Width, Height: n.Height, Fixed: n.Fixed}
		if n.X != nil {
			v.X = *n.X
		}
		if n.Y != nil {
			v.Y = *n.Y
		}
		out.Nodes[i] = v
	}
	for i, l := range g.Links {
		out.Links[i] = layout.Link{
			Source: ix.nodes[l.Source],
			Target: ix.nodes[l.Target],
			Length: l.Length,
			Weight: l.Weight,
		}
	}
	for i, gr := range g.Groups {
		lg := layout.Group{Padding: layout.DefaultGroupPadding}
		if gr.Padding != nil {
			lg.Padding = *gr.Padding
		}
		for _, id := range gr.Leaves {
			lg.Leaves = append(lg.Leaves, ix.nodes[id])
		}
		for _, id := range gr.Groups {
			lg.Groups = append(lg.Groups, ix.groups[id])
		}
		out.Groups[i] = lg
	}
	for i, c := range g.Constraints {
		lc := layout.Constraint{
			Axis:     overlap.Axis(c.Axis),
			Gap:      c.Gap,
			Equality: c.Equality,
		}
		if c.Type == ConstraintAlignment {
			lc.Type = overlap.Alignment
			for _, o := range c.Offsets {
				lc.Offsets = append(lc.Offsets, overlap.Offset{Node: ix.nodes[o.Node], Offset: o.Offset})
			}
		} else {
			lc.Type = overlap.Separation
			lc.Left, lc.Right = ix.nodes[c.Left], ix.nodes[c.Right]
		}
		out.Constraints[i] = lc
	}
	return out, nil
}

// NewResult collects the positions of l, which must have been built from
// g.ToLayout.
func NewResult(g *Graph, l *layout.Layout) (*Result, error) {
	nodes := l.Nodes()
	if len(nodes) != len(g.Nodes) {
		return nil, errors.New(errors.ErrCodeInternal, "layout has %d nodes, graph has %d", len(nodes), len(g.Nodes))
	}
	cfg := l.Config()
	r := &Result{
		Width:  cfg.Width,
		Height: cfg.Height,
		Stress: l.Stress(),
		Ticks:  l.Ticks(),
		Nodes:  make([]Position, len(nodes)),
	}
	for i, v := range nodes {
		n := g.Nodes[i]
		r.Nodes[i] = Position{
			ID:     n.ID,
			Label:  n.Label,
			X:      v.X,
			Y:      v.Y,
			Width:  v.Width,
			Height: v.Height,
		}
	}
	// link lengths may have been rewritten by a heuristic
	for i, e := range l.Links() {
		r.Links = append(r.Links, Link{
			Source: g.Links[i].Source,
			Target: g.Links[i].Target,
			Length: e.Length,
			Weight: e.Weight,
		})
	}
	for i, b := range l.GroupBounds() {
		r.Groups = append(r.Groups, GroupBounds{
			ID:   g.Groups[i].ID,
			MinX: b.X,
			MinY: b.Y,
			MaxX: b.MaxX,
			MaxY: b.MaxY,
		})
	}
	return r, nil
}

// Node returns the position with the given id.
func (r *Result) Node(id string) (Position, bool) {
	for _, p := range r.Nodes {
		if p.ID == id {
			return p, true
		}
	}
	return Position{}, false
}

// String summarizes the result.
func (r *Result) String() string {
	return fmt.Sprintf("%d nodes, %d groups, stress %.4g after %d ticks", len(r.Nodes), len(r.Groups), r.Stress, r.Ticks)
}
