package pack

import (
	"math"
	"math/rand"
	"testing"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/geom"
)

const tol = 1e-6

func TestSeparateGraphs(t *testing.T) {
	nodes := make([]*Node, 6)
	for i := range nodes {
		nodes[i] = &Node{}
	}
	links := [][2]int{{0, 1}, {1, 2}, {3, 4}}
	graphs := SeparateGraphs(nodes, links)

	want := []int{3, 2, 1}
	if len(graphs) != len(want) {
		t.Fatalf("components = %d, want %d", len(graphs), len(want))
	}
	for i, g := range graphs {
		if len(g.Nodes) != want[i] {
			t.Errorf("component %d has %d nodes, want %d", i, len(g.Nodes), want[i])
		}
	}
	if graphs[0].Nodes[0] != nodes[0] || graphs[2].Nodes[0] != nodes[5] {
		t.Error("components should start at their lowest node")
	}
}

func boxOf(g *Graph, nodeSize float64) geom.Rectangle {
	b := geom.Empty()
	for _, n := range g.Nodes {
		w, h := n.Width, n.Height
		if w <= 0 {
			w = nodeSize
		}
		if h <= 0 {
			h = nodeSize
		}
		b = b.Union(geom.FromCentre(n.X, n.Y, w, h))
	}
	return b
}

func TestApplyPackingSeparatesComponents(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 10; trial++ {
		var nodes []*Node
		var links [][2]int
		k := 2 + rng.Intn(6)
		for c := 0; c < k; c++ {
			// every component starts stacked on the same spot
			size := 1 + rng.Intn(5)
			first := len(nodes)
			for i := 0; i < size; i++ {
				nodes = append(nodes, &Node{
					X:      rng.Float64() * 40,
					Y:      rng.Float64() * 40,
					Width:  float64(rng.Intn(3)) * 10,
					Height: float64(rng.Intn(3)) * 10,
				})
				if i > 0 {
					links = append(links, [2]int{first + i - 1, first + i})
				}
			}
		}
		graphs := SeparateGraphs(nodes, links)
		if len(graphs) != k {
			t.Fatalf("trial %d: components = %d, want %d", trial, len(graphs), k)
		}
		ApplyPacking(graphs, 800, 600, 10, 1, true)

		for i := range graphs {
			for j := i + 1; j < len(graphs); j++ {
				a, b := boxOf(graphs[i], 10), boxOf(graphs[j], 10)
				if a.OverlapX(b) > tol && a.OverlapY(b) > tol {
					t.Errorf("trial %d: components %d and %d overlap: %v %v", trial, i, j, a, b)
				}
			}
		}
	}
}

func TestApplyPackingKeepsShape(t *testing.T) {
	a := &Node{X: 0, Y: 0, Width: 10, Height: 10}
	b := &Node{X: 30, Y: 5, Width: 10, Height: 10}
	c := &Node{X: 0, Y: 0, Width: 10, Height: 10}
	graphs := SeparateGraphs([]*Node{a, b, c}, [][2]int{{0, 1}})
	ApplyPacking(graphs, 500, 500, 10, 1, true)

	if dx, dy := b.X-a.X, b.Y-a.Y; math.Abs(dx-30) > tol || math.Abs(dy-5) > tol {
		t.Errorf("relative offset = (%v, %v), want (30, 5)", dx, dy)
	}
}

func TestApplyPackingWithoutCentering(t *testing.T) {
	a := &Node{X: 1, Y: 2}
	b := &Node{X: 1, Y: 2}
	graphs := SeparateGraphs([]*Node{a, b}, nil)
	ApplyPacking(graphs, 100, 100, 10, 1, false)
	if a.X != 1 || a.Y != 2 || b.X != 1 || b.Y != 2 {
		t.Error("nodes should not move when centerGraph is false")
	}
	if graphs[0].Bounds != geom.New(-4, 6, -3, 7) {
		t.Errorf("bounds = %v", graphs[0].Bounds)
	}
	ApplyPacking(nil, 100, 100, 10, 1, true)
}

func TestGoldenSectionMin(t *testing.T) {
	tests := []struct {
		name        string
		left, right float64
		f           func(float64) float64
		want        float64
	}{
		{"interior minimum", 0, 10, func(x float64) float64 { return (x - 3) * (x - 3) }, 3},
		{"minimum at left edge", 2, 12, func(x float64) float64 { return x }, 2},
		{"minimum at right edge", 0, 8, func(x float64) float64 { return -x / 100 }, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, evals := goldenSectionMin(tt.left, tt.right, 1e-3, tt.f)
			if math.Abs(best-tt.want) > 1e-2 {
				t.Errorf("best = %v, want %v", best, tt.want)
			}
			// one new evaluation per narrowing step
			if evals > 30 {
				t.Errorf("evaluations = %d, want at most 30", evals)
			}
		})
	}
}
