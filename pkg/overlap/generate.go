package overlap

import (
	"cmp"
	"slices"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/geom"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/rbtree"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/vpsc"
)

// Axis names a layout axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// DefaultMinSeparation is the extra gap added to every generated constraint.
const DefaultMinSeparation = 1e-6

// scanNode is a rectangle on the scan line together with the neighbours it
// has to be separated from.
type scanNode struct {
	v     *vpsc.Variable
	r     geom.Rectangle
	pos   float64
	index int
	prev  *rbtree.Tree[*scanNode]
	next  *rbtree.Tree[*scanNode]
}

func compareScanNodes(a, b *scanNode) int {
	if c := cmp.Compare(a.pos, b.pos); c != 0 {
		return c
	}
	return cmp.Compare(a.index, b.index)
}

func newScanNode(v *vpsc.Variable, r geom.Rectangle, pos float64, index int) *scanNode {
	return &scanNode{
		v:     v,
		r:     r,
		pos:   pos,
		index: index,
		prev:  rbtree.New(compareScanNodes),
		next:  rbtree.New(compareScanNodes),
	}
}

type event struct {
	open bool
	v    *scanNode
	pos  float64
}

func compareEvents(a, b event) int {
	if c := cmp.Compare(a.pos, b.pos); c != 0 {
		return c
	}
	switch {
	case a.open == b.open:
		return 0
	case a.open:
		return -1
	}
	return 1
}

// rectAccessor projects rectangles onto the axis being separated. The scan
// line sweeps along the other axis.
type rectAccessor struct {
	centre         func(geom.Rectangle) float64
	open           func(geom.Rectangle) float64
	close          func(geom.Rectangle) float64
	size           func(geom.Rectangle) float64
	makeRect       func(open, close, centre, size float64) geom.Rectangle
	findNeighbours func(v *scanNode, scanline *rbtree.Tree[*scanNode])
}

var xRect = rectAccessor{
	centre: geom.Rectangle.CX,
	open:   func(r geom.Rectangle) float64 { return r.Y },
	close:  func(r geom.Rectangle) float64 { return r.MaxY },
	size:   geom.Rectangle.Width,
	makeRect: func(open, close, centre, size float64) geom.Rectangle {
		return geom.New(centre-size/2, centre+size/2, open, close)
	},
	findNeighbours: findXNeighbours,
}

var yRect = rectAccessor{
	centre: geom.Rectangle.CY,
	open:   func(r geom.Rectangle) float64 { return r.X },
	close:  func(r geom.Rectangle) float64 { return r.MaxX },
	size:   geom.Rectangle.Height,
	makeRect: func(open, close, centre, size float64) geom.Rectangle {
		return geom.New(open, close, centre-size/2, centre+size/2)
	},
	findNeighbours: findYNeighbours,
}

func accessorFor(axis Axis) rectAccessor {
	if axis == AxisY {
		return yRect
	}
	return xRect
}

// link records u and v as neighbours, u lying in direction forward of v.
func link(v, u *scanNode, forward bool) {
	if forward {
		v.next.Insert(u)
		u.prev.Insert(v)
	} else {
		v.prev.Insert(u)
		u.next.Insert(v)
	}
}

func step(it *rbtree.Iterator[*scanNode], forward bool) (*scanNode, bool) {
	if forward {
		return it.Next()
	}
	return it.Prev()
}

// findXNeighbours walks outward from v collecting every rectangle that is
// better separated horizontally, stopping at the first one that no longer
// overlaps horizontally.
func findXNeighbours(v *scanNode, scanline *rbtree.Tree[*scanNode]) {
	for _, forward := range []bool{true, false} {
		it := scanline.FindIter(v)
		for u, ok := step(it, forward); ok; u, ok = step(it, forward) {
			ox := u.r.OverlapX(v.r)
			if ox <= 0 || ox <= u.r.OverlapY(v.r) {
				link(v, u, forward)
			}
			if ox <= 0 {
				break
			}
		}
	}
}

// findYNeighbours only considers the immediate neighbours of v, and only if
// they overlap horizontally.
func findYNeighbours(v *scanNode, scanline *rbtree.Tree[*scanNode]) {
	for _, forward := range []bool{true, false} {
		u, ok := step(scanline.FindIter(v), forward)
		if ok && u.r.OverlapX(v.r) > 0 {
			link(v, u, forward)
		}
	}
}

// GenerateConstraints returns separation constraints between vs so that the
// rectangles rs do not overlap on axis. rs[i] is the footprint of vs[i].
func GenerateConstraints(rs []geom.Rectangle, vs []*vpsc.Variable, axis Axis, minSep float64) []*vpsc.Constraint {
	return generate(rs, vs, accessorFor(axis), minSep)
}

// GenerateXConstraints separates rs horizontally.
func GenerateXConstraints(rs []geom.Rectangle, vs []*vpsc.Variable) []*vpsc.Constraint {
	return generate(rs, vs, xRect, DefaultMinSeparation)
}

// GenerateYConstraints separates rs vertically.
func GenerateYConstraints(rs []geom.Rectangle, vs []*vpsc.Variable) []*vpsc.Constraint {
	return generate(rs, vs, yRect, DefaultMinSeparation)
}

func generate(rs []geom.Rectangle, vs []*vpsc.Variable, f rectAccessor, minSep float64) []*vpsc.Constraint {
	n := len(rs)
	events := make([]event, 0, 2*n)
	for i, r := range rs {
		v := newScanNode(vs[i], r, f.centre(r), i)
		events = append(events, event{open: true, v: v, pos: f.open(r)})
	}
	for i := 0; i < n; i++ {
		v := events[i].v
		events = append(events, event{open: false, v: v, pos: f.close(v.r)})
	}
	slices.SortStableFunc(events, compareEvents)

	var cs []*vpsc.Constraint
	mk := func(l, r *scanNode) {
		sep := (f.size(l.r)+f.size(r.r))/2 + minSep
		cs = append(cs, vpsc.NewConstraint(l.v, r.v, sep, false))
	}
	scanline := rbtree.New(compareScanNodes)
	for _, e := range events {
		v := e.v
		if e.open {
			scanline.Insert(v)
			f.findNeighbours(v, scanline)
			continue
		}
		scanline.Remove(v)
		it := v.prev.Iterator()
		for u, ok := it.Prev(); ok; u, ok = it.Prev() {
			mk(u, v)
			u.next.Remove(v)
		}
		it = v.next.Iterator()
		for u, ok := it.Next(); ok; u, ok = it.Next() {
			mk(v, u)
			u.prev.Remove(v)
		}
	}
	return cs
}
