package pack

import (
	"cmp"
	"math"
	"slices"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/geom"
)

const (
	// Padding separates packed component boxes.
	Padding = 10

	goldenSection = (1 + 2.23606797749979) / 2 // (1 + sqrt 5) / 2
	floatEpsilon  = 1e-4
	maxIterations = 100
)

// Node is a positioned rectangle. Non-positive sizes fall back to the node
// size passed to ApplyPacking.
type Node struct {
	X, Y          float64
	Width, Height float64
}

// Graph is one connected component.
type Graph struct {
	Nodes []*Node

	// Bounds is the component's bounding box before packing.
	Bounds geom.Rectangle

	x, y      float64
	width     float64
	height    float64
	bottom    float64
	spaceLeft float64
}

// SeparateGraphs groups nodes into connected components, given links as
// pairs of node indices. Components are returned in order of their first
// node.
func SeparateGraphs(nodes []*Node, links [][2]int) []*Graph {
	adj := make([][]int, len(nodes))
	for _, l := range links {
		adj[l[0]] = append(adj[l[0]], l[1])
		adj[l[1]] = append(adj[l[1]], l[0])
	}
	seen := make([]bool, len(nodes))
	var graphs []*Graph
	for i := range nodes {
		if seen[i] {
			continue
		}
		g := &Graph{}
		stack := []int{i}
		seen[i] = true
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			g.Nodes = append(g.Nodes, nodes[u])
			for _, v := range adj[u] {
				if !seen[v] {
					seen[v] = true
					stack = append(stack, v)
				}
			}
		}
		graphs = append(graphs, g)
	}
	return graphs
}

type packer struct {
	nodeSize     float64
	desiredRatio float64

	line         []*Graph
	realWidth    float64
	realHeight   float64
	globalBottom float64
}

// ApplyPacking arranges graphs inside a w x h canvas. When centerGraph is
// false the boxes are computed but nodes are left in place.
func ApplyPacking(graphs []*Graph, w, h, nodeSize, desiredRatio float64, centerGraph bool) {
	if len(graphs) == 0 {
		return
	}
	p := &packer{nodeSize: nodeSize, desiredRatio: desiredRatio}
	for _, g := range graphs {
		p.boundingBox(g)
	}
	// packing order must not leak to the caller's slice
	order := slices.Clone(graphs)
	p.apply(order)
	if !centerGraph {
		return
	}
	for _, g := range graphs {
		dx := g.x - g.Bounds.X + w/2 - p.realWidth/2
		dy := g.y - g.Bounds.Y + h/2 - p.realHeight/2
		for _, n := range g.Nodes {
			n.X += dx
			n.Y += dy
		}
	}
}

func (p *packer) size(v float64) float64 {
	if v > 0 {
		return v
	}
	return p.nodeSize
}

func (p *packer) boundingBox(g *Graph) {
	b := geom.Empty()
	for _, n := range g.Nodes {
		b = b.Union(geom.FromCentre(n.X, n.Y, p.size(n.Width), p.size(n.Height)))
	}
	g.Bounds = b
	g.width = b.Width()
	g.height = b.Height()
}

// apply golden-section searches the shelf width minimizing the aspect ratio
// error, then packs with the best width found.
func (p *packer) apply(data []*Graph) {
	slices.SortStableFunc(data, func(a, b *Graph) int { return cmp.Compare(b.height, a.height) })
	minWidth := data[0].width
	for _, g := range data[1:] {
		minWidth = math.Min(minWidth, g.width)
	}
	best, _ := goldenSectionMin(minWidth, p.entireWidth(data), minWidth, func(w float64) float64 {
		return p.step(data, w)
	})
	p.step(data, best)
}

// goldenSectionMin narrows [left, right] around a minimum of f until the
// points are within tol of each other and agree in value. It returns the
// best point seen and the number of evaluations of f.
func goldenSectionMin(left, right, tol float64, f func(float64) float64) (best float64, evals int) {
	eval := func(x float64) float64 {
		evals++
		return f(x)
	}
	x1 := right - (right-left)/goldenSection
	x2 := left + (right-left)/goldenSection
	f1, f2 := eval(x1), eval(x2)
	bestF := math.Inf(1)
	for i := 0; ; i++ {
		if f1 < bestF {
			bestF, best = f1, x1
		}
		if f2 < bestF {
			bestF, best = f2, x2
		}
		if math.Abs(x1-x2) <= tol && math.Abs(f1-f2) <= floatEpsilon || i >= maxIterations {
			return best, evals
		}
		// the surviving point becomes the opposite point of the new bracket
		if f1 > f2 {
			left = x1
			x1, f1 = x2, f2
			x2 = left + (right-left)/goldenSection
			f2 = eval(x2)
		} else {
			right = x2
			x2, f2 = x1, f1
			x1 = right - (right-left)/goldenSection
			f1 = eval(x1)
		}
	}
}

// step packs data into shelves no wider than maxWidth and returns the aspect
// ratio error.
func (p *packer) step(data []*Graph, maxWidth float64) float64 {
	p.line = p.line[:0]
	p.realWidth = 0
	p.realHeight = 0
	p.globalBottom = 0
	for _, g := range data {
		p.put(g, maxWidth)
	}
	return math.Abs(p.realWidth/p.realHeight - p.desiredRatio)
}

func (p *packer) put(r *Graph, maxWidth float64) {
	var parent *Graph
	for _, l := range p.line {
		if l.spaceLeft >= r.height && l.x+l.width+r.width+Padding-maxWidth <= floatEpsilon {
			parent = l
			break
		}
	}
	p.line = append(p.line, r)
	if parent != nil {
		r.x = parent.x + parent.width + Padding
		r.y = parent.bottom
		parent.spaceLeft -= r.height + Padding
		parent.bottom += r.height + Padding
	} else {
		r.y = p.globalBottom
		p.globalBottom += r.height + Padding
		r.x = 0
	}
	r.bottom = r.y
	r.spaceLeft = r.height
	if r.y+r.height-p.realHeight > -floatEpsilon {
		p.realHeight = r.y + r.height
	}
	if r.x+r.width-p.realWidth > -floatEpsilon {
		p.realWidth = r.x + r.width
	}
}

func (p *packer) entireWidth(data []*Graph) float64 {
	w := 0.0
	for _, g := range data {
		w += g.width + Padding
	}
	return w
}
