package layout

import (
	"context"
	"math"
	"testing"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/errors"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/geom"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/overlap"
)

func nodesAt(size float64, xy ...[2]float64) []*Node {
	ns := make([]*Node, len(xy))
	for i, p := range xy {
		ns[i] = &Node{X: p[0], Y: p[1], Width: size, Height: size}
	}
	return ns
}

func dist(a, b *Node) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

func mustNew(t *testing.T, g Graph, cfg Config) *Layout {
	t.Helper()
	l, err := New(g, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestStartLinkedPairReachesLinkDistance(t *testing.T) {
	nodes := nodesAt(0, [2]float64{0, 0}, [2]float64{1, 0})
	l := mustNew(t, Graph{Nodes: nodes, Links: []Link{{Source: 0, Target: 1}}}, DefaultConfig())
	if err := l.Start(context.Background(), Iterations{Unconstrained: 100}, false, true); err != nil {
		t.Fatal(err)
	}
	if d := dist(nodes[0], nodes[1]); math.Abs(d-DefaultLinkDistance) > 1e-2 {
		t.Errorf("distance = %v, want %v", d, DefaultLinkDistance)
	}
	if l.Running() {
		t.Error("layout should not run without keepRunning")
	}
}

func TestStartUsesDistanceMatrix(t *testing.T) {
	nodes := nodesAt(0, [2]float64{0, 0}, [2]float64{1, 0})
	cfg := DefaultConfig()
	cfg.DistanceMatrix = [][]float64{{0, 30}, {30, 0}}
	l := mustNew(t, Graph{Nodes: nodes}, cfg)
	if err := l.Start(context.Background(), Iterations{Unconstrained: 100}, false, true); err != nil {
		t.Fatal(err)
	}
	if d := dist(nodes[0], nodes[1]); math.Abs(d-30) > 1e-2 {
		t.Errorf("distance = %v, want 30", d)
	}
}

func TestStartPacksDisconnectedComponents(t *testing.T) {
	nodes := nodesAt(10, [2]float64{0, 0}, [2]float64{3, 1}, [2]float64{1, 2}, [2]float64{2, 0})
	g := Graph{Nodes: nodes, Links: []Link{{Source: 0, Target: 1}, {Source: 2, Target: 3}}}
	l := mustNew(t, g, DefaultConfig())
	if err := l.Start(context.Background(), Iterations{Unconstrained: 50}, false, true); err != nil {
		t.Fatal(err)
	}

	box := func(vs ...*Node) geom.Rectangle {
		b := geom.Empty()
		for _, v := range vs {
			b = b.Union(geom.FromCentre(v.X, v.Y, v.Width, v.Height))
		}
		return b
	}
	a, b := box(nodes[0], nodes[1]), box(nodes[2], nodes[3])
	if a.OverlapX(b) > 1e-6 && a.OverlapY(b) > 1e-6 {
		t.Errorf("component boxes overlap: %v %v", a, b)
	}
}

func TestStartAvoidsOverlaps(t *testing.T) {
	nodes := nodesAt(40, [2]float64{0, 0}, [2]float64{1, 0})
	cfg := DefaultConfig()
	cfg.AvoidOverlaps = true
	l := mustNew(t, Graph{Nodes: nodes, Links: []Link{{Source: 0, Target: 1}}}, cfg)
	if err := l.Start(context.Background(), Iterations{Unconstrained: 50, AllConstraints: 50}, false, true); err != nil {
		t.Fatal(err)
	}
	if dx := math.Abs(nodes[1].X - nodes[0].X); dx < 40-1e-3 {
		t.Errorf("horizontal separation = %v, want >= 40", dx)
	}
	if math.Abs(nodes[1].Y-nodes[0].Y) > 1e-6 {
		t.Errorf("nodes left their row: y = %v, %v", nodes[0].Y, nodes[1].Y)
	}
}

func TestStartHonoursFlow(t *testing.T) {
	nodes := nodesAt(0, [2]float64{0, 10}, [2]float64{5, 5}, [2]float64{10, 0})
	cfg := DefaultConfig()
	cfg.Flow = &Flow{Axis: overlap.AxisY, MinSeparation: 30}
	g := Graph{Nodes: nodes, Links: []Link{{Source: 0, Target: 1}, {Source: 1, Target: 2}}}
	l := mustNew(t, g, cfg)
	it := Iterations{Unconstrained: 30, UserConstraints: 30, AllConstraints: 30}
	if err := l.Start(context.Background(), it, false, true); err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(nodes); i++ {
		if gap := nodes[i].Y - nodes[i-1].Y; gap < 30-1e-3 {
			t.Errorf("y[%d] - y[%d] = %v, want >= 30", i, i-1, gap)
		}
	}
}

func TestStartHonoursUserConstraints(t *testing.T) {
	nodes := nodesAt(0, [2]float64{0, 0}, [2]float64{20, 3}, [2]float64{10, 17})
	g := Graph{
		Nodes: nodes,
		Links: []Link{{Source: 0, Target: 1}, {Source: 1, Target: 2}, {Source: 0, Target: 2}},
		Constraints: []Constraint{
			{Type: overlap.Alignment, Axis: overlap.AxisY, Offsets: []overlap.Offset{{Node: 0}, {Node: 1}}},
			{Axis: overlap.AxisX, Left: 1, Right: 0, Gap: 25},
		},
	}
	l := mustNew(t, g, DefaultConfig())
	it := Iterations{Unconstrained: 20, UserConstraints: 30, AllConstraints: 30}
	if err := l.Start(context.Background(), it, false, true); err != nil {
		t.Fatal(err)
	}
	if math.Abs(nodes[0].Y-nodes[1].Y) > 1e-3 {
		t.Errorf("aligned nodes at y = %v and %v", nodes[0].Y, nodes[1].Y)
	}
	if gap := nodes[0].X - nodes[1].X; gap < 25-1e-3 {
		t.Errorf("x[0] - x[1] = %v, want >= 25", gap)
	}
}

func TestSeedConfigKeepsLinkDistance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LinkDistance = 80
	cfg.Width, cfg.Height = 400, 300
	l := mustNew(t, Graph{Nodes: nodesAt(10, [2]float64{0, 0}, [2]float64{5, 5})}, cfg)
	seed := l.seedConfig()
	if seed.LinkDistance != 80 {
		t.Errorf("seed LinkDistance = %v, want 80", seed.LinkDistance)
	}
	if seed.LinkLengths != LinkLengthsSymmetricDiff {
		t.Errorf("seed LinkLengths = %v, want symmetric difference", seed.LinkLengths)
	}
	if seed.LinkLengthWeight != 5 {
		t.Errorf("seed LinkLengthWeight = %v, want 5", seed.LinkLengthWeight)
	}
	if seed.Width != 400 || seed.Height != 300 {
		t.Errorf("seed canvas = %vx%v, want 400x300", seed.Width, seed.Height)
	}
}

func TestStartAttachesUserProjection(t *testing.T) {
	tests := []struct {
		name        string
		constraints []Constraint
		want        bool
	}{
		{"no constraints", nil, false},
		{"separation", []Constraint{{Axis: overlap.AxisX, Left: 0, Right: 1, Gap: 20}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Graph{
				Nodes:       nodesAt(0, [2]float64{0, 0}, [2]float64{20, 3}),
				Links:       []Link{{Source: 0, Target: 1}},
				Constraints: tt.constraints,
			}
			l := mustNew(t, g, DefaultConfig())
			it := Iterations{Unconstrained: 5, UserConstraints: 5}
			if err := l.Start(context.Background(), it, false, true); err != nil {
				t.Fatal(err)
			}
			if got := l.descent.Project != nil; got != tt.want {
				t.Errorf("projection attached = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStartWithGroups(t *testing.T) {
	nodes := nodesAt(10, [2]float64{0, 0}, [2]float64{30, 0}, [2]float64{0, 30}, [2]float64{30, 30})
	cfg := DefaultConfig()
	cfg.AvoidOverlaps = true
	g := Graph{
		Nodes:  nodes,
		Links:  []Link{{Source: 0, Target: 1}, {Source: 1, Target: 2}, {Source: 2, Target: 3}},
		Groups: []Group{{Leaves: []int{0, 1}, Padding: 5}},
	}
	l := mustNew(t, g, cfg)
	if err := l.Start(context.Background(), Iterations{Unconstrained: 20, AllConstraints: 20}, false, true); err != nil {
		t.Fatal(err)
	}
	for i, v := range nodes {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
			t.Fatalf("node %d at (%v, %v)", i, v.X, v.Y)
		}
	}
	bounds := l.GroupBounds()
	if len(bounds) != 1 {
		t.Fatalf("group bounds = %d, want 1", len(bounds))
	}
	for _, i := range []int{0, 1} {
		r := geom.FromCentre(nodes[i].X, nodes[i].Y, 10, 10)
		if !bounds[0].ContainsRect(r) {
			t.Errorf("group %v does not contain node %d %v", bounds[0], i, r)
		}
	}
}

func TestStartSeparatesGroups(t *testing.T) {
	nodes := nodesAt(10,
		[2]float64{0, 0}, [2]float64{12, 3}, [2]float64{5, 8},
		[2]float64{9, 14}, [2]float64{3, 11}, [2]float64{7, 5})
	cfg := DefaultConfig()
	cfg.AvoidOverlaps = true
	g := Graph{
		Nodes: nodes,
		Links: []Link{
			{Source: 0, Target: 1}, {Source: 1, Target: 2}, {Source: 2, Target: 3},
			{Source: 3, Target: 4}, {Source: 4, Target: 5},
		},
		Groups: []Group{
			{Leaves: []int{0, 1}, Padding: 5},                // inner, nested in outer
			{Leaves: []int{2, 3}, Padding: 5},                // sibling of outer
			{Leaves: []int{4}, Groups: []int{0}, Padding: 5}, // outer
		},
	}
	l := mustNew(t, g, cfg)
	if err := l.Start(context.Background(), Iterations{Unconstrained: 20, AllConstraints: 50}, false, true); err != nil {
		t.Fatal(err)
	}
	bounds := l.GroupBounds()
	inner, sibling, outer := bounds[0], bounds[1], bounds[2]

	const tol = 1e-2
	overlaps := func(a, b geom.Rectangle) bool {
		return a.OverlapX(b) > tol && a.OverlapY(b) > tol
	}
	rect := func(i int) geom.Rectangle { return geom.FromCentre(nodes[i].X, nodes[i].Y, 10, 10) }

	outside := []struct {
		name  string
		group geom.Rectangle
		nodes []int
	}{
		{"inner", inner, []int{2, 3, 4, 5}},
		{"sibling", sibling, []int{0, 1, 4, 5}},
		{"outer", outer, []int{2, 3, 5}},
	}
	for _, tt := range outside {
		for _, i := range tt.nodes {
			if overlaps(tt.group, rect(i)) {
				t.Errorf("%s group %v overlaps non-member %d %v", tt.name, tt.group, i, rect(i))
			}
		}
	}
	if overlaps(sibling, outer) {
		t.Errorf("sibling groups overlap: %v %v", sibling, outer)
	}
	if !outer.ContainsRect(inner) {
		t.Errorf("outer group %v does not contain inner group %v", outer, inner)
	}
}

func TestStartIgnoresZeroIdealDistances(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*Config)
	}{
		{"distance matrix", func(c *Config) {
			c.DistanceMatrix = [][]float64{{0, 0, 10}, {0, 0, 10}, {10, 10, 0}}
		}},
		{"link distance func", func(c *Config) {
			c.LinkDistanceFunc = func(Link) float64 { return 0 }
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := nodesAt(0, [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{0, 1})
			cfg := DefaultConfig()
			tt.cfg(&cfg)
			g := Graph{Nodes: nodes, Links: []Link{{Source: 0, Target: 1}, {Source: 1, Target: 2}}}
			l := mustNew(t, g, cfg)
			if err := l.Start(context.Background(), Iterations{Unconstrained: 10, AllConstraints: 10}, false, true); err != nil {
				t.Fatal(err)
			}
			for i, v := range nodes {
				if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
					t.Errorf("node %d at (%v, %v)", i, v.X, v.Y)
				}
			}
			if s := l.Stress(); math.IsNaN(s) || math.IsInf(s, 0) {
				t.Errorf("stress = %v", s)
			}
		})
	}
}

func TestLinkLengthHeuristic(t *testing.T) {
	nodes := nodesAt(0, [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{0, 1})
	cfg := DefaultConfig()
	cfg.LinkLengths = LinkLengthsSymmetricDiff
	l := mustNew(t, Graph{Nodes: nodes, Links: []Link{{Source: 0, Target: 1}, {Source: 0, Target: 2}}}, cfg)
	if err := l.Start(context.Background(), Iterations{Unconstrained: 50}, false, false); err != nil {
		t.Fatal(err)
	}
	want := 1 + math.Sqrt(3)
	for i, e := range l.Links() {
		if math.Abs(e.Length-want) > 1e-12 {
			t.Errorf("link %d length = %v, want %v", i, e.Length, want)
		}
	}
}

func triangle(t *testing.T) (*Layout, []*Node) {
	t.Helper()
	nodes := nodesAt(0, [2]float64{0, 0}, [2]float64{10, 0}, [2]float64{0, 10})
	g := Graph{Nodes: nodes, Links: []Link{{Source: 0, Target: 1}, {Source: 1, Target: 2}, {Source: 0, Target: 2}}}
	return mustNew(t, g, DefaultConfig()), nodes
}

func TestPinnedNodeStaysOnTargetEveryTick(t *testing.T) {
	l, nodes := triangle(t)
	if err := l.Start(context.Background(), Iterations{Unconstrained: 30}, true, true); err != nil {
		t.Fatal(err)
	}
	if err := l.Pin(0, 50, 60); err != nil {
		t.Fatal(err)
	}
	for tick := 0; tick < 50; tick++ {
		if l.Tick() {
			break
		}
		if nodes[0].X != 50 || nodes[0].Y != 60 {
			t.Fatalf("tick %d: pinned node at (%v, %v), want (50, 60)", tick, nodes[0].X, nodes[0].Y)
		}
	}
	if err := l.Unpin(0); err != nil {
		t.Fatal(err)
	}
	if nodes[0].Fixed {
		t.Error("Unpin should release the node")
	}
}

func TestPinRejectsBadIndex(t *testing.T) {
	l, _ := triangle(t)
	if err := l.Pin(3, 0, 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Pin(3) = %v, want INVALID_INPUT", err)
	}
	if err := l.Unpin(-1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Unpin(-1) = %v, want INVALID_INPUT", err)
	}
}

func TestEventsAndConverge(t *testing.T) {
	l, _ := triangle(t)
	var starts, ticks, ends int
	l.On(EventStart, func(e Event) {
		starts++
		if e.Alpha != resumeAlpha {
			t.Errorf("start alpha = %v, want %v", e.Alpha, resumeAlpha)
		}
	})
	l.On(EventTick, func(Event) { ticks++ })
	l.On(EventEnd, func(e Event) {
		ends++
		if e.Alpha != 0 {
			t.Errorf("end alpha = %v, want 0", e.Alpha)
		}
	})

	if err := l.Start(context.Background(), Iterations{Unconstrained: 30}, true, true); err != nil {
		t.Fatal(err)
	}
	if !l.Running() || l.Alpha() != resumeAlpha {
		t.Fatalf("after Start: running %v alpha %v", l.Running(), l.Alpha())
	}
	n, err := l.Converge(context.Background(), 500)
	if err != nil {
		t.Fatal(err)
	}
	if l.Running() {
		t.Fatal("layout should have converged")
	}
	if starts != 1 || ends != 1 {
		t.Errorf("starts = %d, ends = %d; want 1 each", starts, ends)
	}
	if ticks != n || n != l.Ticks() || n == 0 {
		t.Errorf("tick events = %d, Converge = %d, Ticks() = %d", ticks, n, l.Ticks())
	}

	// a finished layout stays finished and reports no further end
	if !l.Tick() || ends != 1 {
		t.Error("Tick after end should report done without another event")
	}
}

func TestStopEndsOnNextTick(t *testing.T) {
	l, _ := triangle(t)
	ended := false
	l.On(EventEnd, func(Event) { ended = true })
	if err := l.Start(context.Background(), Iterations{Unconstrained: 10}, true, true); err != nil {
		t.Fatal(err)
	}
	l.Stop()
	if !l.Tick() || !ended || l.Running() {
		t.Errorf("Stop: tick done, ended %v, running %v", ended, l.Running())
	}
}

func TestCancelledContext(t *testing.T) {
	l, _ := triangle(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Start(ctx, Iterations{Unconstrained: 10}, true, true); err != context.Canceled {
		t.Errorf("Start = %v, want context.Canceled", err)
	}

	l, _ = triangle(t)
	if err := l.Start(context.Background(), Iterations{Unconstrained: 10}, true, true); err != nil {
		t.Fatal(err)
	}
	if n, err := l.Converge(ctx, 10); err != context.Canceled || n != 0 {
		t.Errorf("Converge = %d, %v; want 0, context.Canceled", n, err)
	}
}

func TestEmptyGraph(t *testing.T) {
	l := mustNew(t, Graph{}, DefaultConfig())
	if err := l.Start(context.Background(), Iterations{Unconstrained: 10}, true, true); err != nil {
		t.Fatal(err)
	}
	if !l.Tick() {
		t.Error("empty layout should end immediately")
	}
	if l.Stress() != 0 {
		t.Errorf("stress = %v, want 0", l.Stress())
	}
}

func TestValidate(t *testing.T) {
	two := func() []*Node { return nodesAt(10, [2]float64{0, 0}, [2]float64{1, 1}) }
	tests := []struct {
		name string
		g    Graph
		cfg  func(*Config)
		code errors.Code
	}{
		{"valid", Graph{Nodes: two(), Links: []Link{{Source: 0, Target: 1}}}, nil, ""},
		{"nil node", Graph{Nodes: []*Node{nil}}, nil, errors.ErrCodeInvalidGraph},
		{"negative width", Graph{Nodes: []*Node{{Width: -1}}}, nil, errors.ErrCodeInvalidInput},
		{"nan position", Graph{Nodes: []*Node{{X: math.NaN()}}}, nil, errors.ErrCodeInvalidInput},
		{"link out of range", Graph{Nodes: two(), Links: []Link{{Source: 0, Target: 2}}}, nil, errors.ErrCodeInvalidGraph},
		{"group leaf out of range", Graph{Nodes: two(), Groups: []Group{{Leaves: []int{5}}}}, nil, errors.ErrCodeInvalidGroup},
		{"node in two groups", Graph{Nodes: two(), Groups: []Group{{Leaves: []int{0}}, {Leaves: []int{0}}}}, nil, errors.ErrCodeInvalidGroup},
		{"group cycle", Graph{Nodes: two(), Groups: []Group{{Groups: []int{1}}, {Groups: []int{0}}}}, nil, errors.ErrCodeInvalidGroup},
		{"self group", Graph{Nodes: two(), Groups: []Group{{Groups: []int{0}}}}, nil, errors.ErrCodeInvalidGroup},
		{"bad axis", Graph{Nodes: two(), Constraints: []Constraint{{Axis: "z", Left: 0, Right: 1}}}, nil, errors.ErrCodeInvalidConstraint},
		{"constraint out of range", Graph{Nodes: two(), Constraints: []Constraint{{Axis: overlap.AxisX, Left: 0, Right: 9}}}, nil, errors.ErrCodeInvalidConstraint},
		{"empty alignment", Graph{Nodes: two(), Constraints: []Constraint{{Type: overlap.Alignment, Axis: overlap.AxisX}}}, nil, errors.ErrCodeInvalidConstraint},
		{"unknown type", Graph{Nodes: two(), Constraints: []Constraint{{Type: "ring", Axis: overlap.AxisX}}}, nil, errors.ErrCodeInvalidConstraint},
		{"bad link length mode", Graph{Nodes: two()}, func(c *Config) { c.LinkLengths = "cosine" }, errors.ErrCodeInvalidConfig},
		{"bad flow axis", Graph{Nodes: two()}, func(c *Config) { c.Flow = &Flow{Axis: "diagonal"} }, errors.ErrCodeInvalidConfig},
		{"distance matrix shape", Graph{Nodes: two()}, func(c *Config) { c.DistanceMatrix = [][]float64{{0}} }, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			err := Validate(tt.g, cfg)
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %v", err, tt.code)
			}
			if _, err := New(tt.g, cfg); err == nil {
				t.Error("New should reject the graph")
			}
		})
	}
}
