package layout

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/descent"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/geom"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/linklength"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/observability"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/overlap"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/pack"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/shortestpath"
)

// Iterations bounds the descent run of each phase. Zero skips the phase.
type Iterations struct {
	Unconstrained   int `json:"unconstrained" yaml:"unconstrained" toml:"unconstrained"`
	UserConstraints int `json:"user_constraints" yaml:"user_constraints" toml:"user_constraints"`
	AllConstraints  int `json:"all_constraints" yaml:"all_constraints" toml:"all_constraints"`
	GridSnap        int `json:"grid_snap" yaml:"grid_snap" toml:"grid_snap"`
}

// linkAccessor adapts links for the link length and flow heuristics.
type linkAccessor struct{ sep float64 }

func (linkAccessor) SourceIndex(l *Link) int           { return l.Source }
func (linkAccessor) TargetIndex(l *Link) int           { return l.Target }
func (linkAccessor) SetLength(l *Link, length float64) { l.Length = length }
func (a linkAccessor) MinSeparation(*Link) float64     { return a.sep }

func (l *Layout) linkPointers() []*Link {
	ps := make([]*Link, len(l.links))
	for i := range l.links {
		ps[i] = &l.links[i]
	}
	return ps
}

func (l *Layout) linkLength(e Link) float64 {
	if l.cfg.LinkDistanceFunc != nil {
		return l.cfg.LinkDistanceFunc(e)
	}
	m := e.Length
	if m <= 0 {
		m = 1
	}
	return l.cfg.LinkDistance * m
}

func (l *Layout) computeLinkLengths() {
	switch l.cfg.LinkLengths {
	case LinkLengthsSymmetricDiff:
		linklength.SymmetricDiffLinkLengths(l.linkPointers(), linkAccessor{}, l.cfg.LinkLengthWeight)
	case LinkLengthsJaccard:
		linklength.JaccardLinkLengths(l.linkPointers(), linkAccessor{}, l.cfg.LinkLengthWeight)
	}
}

func (l *Layout) flowConstraints() []Constraint {
	f := l.cfg.Flow
	sep := f.MinSeparation
	if sep <= 0 {
		sep = l.cfg.LinkDistance
	}
	fcs := linklength.GenerateDirectedEdgeConstraints(len(l.nodes), l.linkPointers(), string(f.Axis), linkAccessor{sep: sep})
	cs := make([]Constraint, len(fcs))
	for i, c := range fcs {
		cs[i] = Constraint{Axis: overlap.Axis(c.Axis), Left: c.Left, Right: c.Right, Gap: c.Gap}
	}
	return cs
}

// distances returns the ideal distance matrix and the pair weights over
// all n real nodes and 2 dummies per group.
func (l *Layout) distances(N int) (D, G [][]float64) {
	n := len(l.nodes)
	if dm := l.cfg.DistanceMatrix; dm != nil {
		D = descent.CreateSquareMatrix(N, N, func(i, j int) float64 {
			switch {
			case i < n && j < n:
				return dm[i][j]
			case i == j:
				return 0
			}
			return math.Inf(1)
		})
		if len(l.groups) > 0 {
			G = descent.CreateSquareMatrix(N, N, func(int, int) float64 { return 1 })
		}
		return D, G
	}
	calc := shortestpath.New(N, l.links,
		func(e Link) int { return e.Source },
		func(e Link) int { return e.Target },
		l.linkLength)
	D = calc.DistanceMatrix()
	G = descent.CreateSquareMatrix(N, N, func(int, int) float64 { return 2 })
	for _, e := range l.links {
		w := e.Weight
		if w <= 0 {
			w = 1
		}
		G[e.Source][e.Target] = w
		G[e.Target][e.Source] = w
	}
	return D, G
}

// Start computes the layout. With keepRunning the layout resumes afterwards
// and must be advanced by Tick or Converge. centerGraph places packed
// components in the middle of the canvas. ctx is checked between phases.
func (l *Layout) Start(ctx context.Context, it Iterations, keepRunning, centerGraph bool) error {
	n := len(l.nodes)
	l.ticks = 0
	l.hasStress = false
	if n == 0 {
		l.descent = nil
		return nil
	}
	N := n + 2*len(l.groups)
	w, h := l.cfg.Width, l.cfg.Height

	l.computeLinkLengths()

	x := make([]float64, N)
	y := make([]float64, N)
	for i, v := range l.nodes {
		x[i], y[i] = v.X, v.Y
	}

	D, G := l.distances(N)
	for k := range l.groups {
		i := n + 2*k
		if G != nil {
			G[i][i+1] = l.cfg.GroupCompactness
			G[i+1][i] = l.cfg.GroupCompactness
		}
		D[i][i+1] = groupDummyIdeal
		D[i+1][i] = groupDummyIdeal
	}

	cs := slices.Clone(l.constraints)
	if l.cfg.Flow != nil {
		cs = append(cs, l.flowConstraints()...)
	}

	l.descent = descent.New([][]float64{x, y}, D, nil)
	l.descent.Threshold = l.cfg.Threshold
	for i, v := range l.nodes {
		if v.Fixed {
			v.PX, v.PY = v.X, v.Y
			l.descent.Locks.Add(i, []float64{v.X, v.Y})
		}
	}

	l.log.Debug("layout start", "nodes", n, "links", len(l.links), "groups", len(l.groups), "constraints", len(cs))

	if err := l.phase(ctx, "unconstrained", it.Unconstrained, func() float64 {
		l.initialLayout(ctx, it.Unconstrained, x, y)
		return l.descent.ComputeStress()
	}); err != nil {
		return err
	}

	if len(cs) > 0 {
		p := overlap.NewProjection(l.nodes, l.ogroups, l.root, cs, false)
		l.descent.Project = []descent.ProjectFunc{p.XProject, p.YProject}
	}
	if err := l.phase(ctx, "user constraints", it.UserConstraints, func() float64 {
		return l.descent.Run(it.UserConstraints)
	}); err != nil {
		return err
	}
	l.separateOverlappingComponents(w, h, centerGraph)

	if l.cfg.AvoidOverlaps {
		for i, v := range l.nodes {
			v.X, v.Y = x[i], y[i]
		}
		p := overlap.NewProjection(l.nodes, l.ogroups, l.root, cs, true)
		l.descent.Project = []descent.ProjectFunc{p.XProject, p.YProject}
		for i, v := range l.nodes {
			x[i], y[i] = v.X, v.Y
		}
	}

	// unlinked pairs only repel from here on
	l.descent.G = G
	if err := l.phase(ctx, "all constraints", it.AllConstraints, func() float64 {
		return l.descent.Run(it.AllConstraints)
	}); err != nil {
		return err
	}

	if it.GridSnap > 0 {
		l.descent.Terms = []descent.EnergyTerm{descent.GridSnap{
			Nodes:       n,
			Size:        l.nodes[0].Width,
			Strength:    gridSnapStrength,
			ScaleByMaxH: n != N,
		}}
		l.descent.G = descent.CreateSquareMatrix(N, N, func(i, j int) float64 {
			if (i >= n || j >= n) && G != nil {
				return G[i][j]
			}
			return 0
		})
		if err := l.phase(ctx, "grid snap", it.GridSnap, func() float64 {
			return l.descent.Run(it.GridSnap)
		}); err != nil {
			return err
		}
	}

	l.updateNodePositions()
	l.separateOverlappingComponents(w, h, centerGraph)
	if keepRunning {
		l.Resume()
	}
	return nil
}

func (l *Layout) phase(ctx context.Context, name string, iterations int, run func() float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	stress := run()
	d := time.Since(start)
	l.log.Debug("layout phase", "phase", name, "iterations", iterations, "stress", stress, "duration", d)
	observability.Layout().OnPhase(ctx, name, iterations, stress, d)
	return nil
}

// initialLayout seeds x and y. Grouped graphs are first laid out flat with
// one dummy node per group linked to its members.
func (l *Layout) initialLayout(ctx context.Context, iterations int, x, y []float64) {
	if len(l.groups) == 0 || iterations <= 0 {
		l.descent.Run(iterations)
		return
	}
	n := len(l.nodes)
	vs := make([]*Node, n+len(l.groups))
	for i := range vs {
		vs[i] = &Node{X: l.cfg.Width / 2, Y: l.cfg.Height / 2}
	}
	edges := make([]Link, 0, len(l.links))
	for _, e := range l.links {
		edges = append(edges, Link{Source: e.Source, Target: e.Target})
	}
	for gi, g := range l.groups {
		for _, v := range g.Leaves {
			edges = append(edges, Link{Source: n + gi, Target: v})
		}
		for _, c := range g.Groups {
			edges = append(edges, Link{Source: n + gi, Target: n + c})
		}
	}

	seed, err := New(Graph{Nodes: vs, Links: edges}, l.seedConfig())
	if err != nil {
		// the seed graph is derived from validated input
		l.log.Warn("seed layout rejected, descending without it", "err", err)
		l.descent.Run(iterations)
		return
	}
	if err := seed.Start(ctx, Iterations{Unconstrained: iterations}, false, true); err != nil {
		return
	}
	for i := 0; i < n; i++ {
		x[i], y[i] = vs[i].X, vs[i].Y
	}
}

// seedConfig configures the layout of the graph whose extra nodes stand in
// for groups.
func (l *Layout) seedConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = l.cfg.Width, l.cfg.Height
	cfg.DefaultNodeSize = l.cfg.DefaultNodeSize
	cfg.LinkDistance = l.cfg.LinkDistance
	cfg.LinkLengths = LinkLengthsSymmetricDiff
	cfg.LinkLengthWeight = seedLinkLengthWeight
	cfg.Threshold = seedThreshold
	cfg.Logger = l.log.WithPrefix("seed")
	return cfg
}

// separateOverlappingComponents packs disconnected components apart.
func (l *Layout) separateOverlappingComponents(w, h float64, centerGraph bool) {
	if l.cfg.DistanceMatrix != nil || !l.cfg.HandleDisconnected {
		return
	}
	x, y := l.descent.X[0], l.descent.X[1]
	pn := make([]*pack.Node, len(l.nodes))
	for i, v := range l.nodes {
		v.X, v.Y = x[i], y[i]
		pn[i] = &pack.Node{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
	}
	pairs := make([][2]int, len(l.links))
	for i, e := range l.links {
		pairs[i] = [2]int{e.Source, e.Target}
	}
	pack.ApplyPacking(pack.SeparateGraphs(pn, pairs), w, h, l.cfg.DefaultNodeSize, 1, centerGraph)
	for i, v := range l.nodes {
		v.X, v.Y = pn[i].X, pn[i].Y
		x[i], y[i] = v.X, v.Y
		v.Bounds = geom.FromCentre(v.X, v.Y, v.Width, v.Height)
	}
	if len(l.groups) > 0 {
		overlap.ComputeGroupBounds(l.root)
	}
}

func (l *Layout) updateNodePositions() {
	x, y := l.descent.X[0], l.descent.X[1]
	for i, v := range l.nodes {
		v.X, v.Y = x[i], y[i]
		v.Bounds = geom.FromCentre(v.X, v.Y, v.Width, v.Height)
	}
	if len(l.groups) > 0 {
		overlap.ComputeGroupBounds(l.root)
	}
}
