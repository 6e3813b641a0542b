package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/geom"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/graph"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/layout"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/observability"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/overlap"
)

// =============================================================================
// Layout Generation
// =============================================================================

// NewLayout prepares a layout of g without starting it.
func NewLayout(g *graph.Graph, opts Options) (*layout.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	lg, err := g.ToLayout(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	return layout.New(lg, opts.LayoutConfig())
}

// ComputeLayout runs every layout phase on g and, with opts.Converge, ticks
// until the layout settles or opts.MaxTicks is reached.
func ComputeLayout(ctx context.Context, g *graph.Graph, opts Options) (res *graph.Result, err error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	l, err := NewLayout(g, opts)
	if err != nil {
		return nil, err
	}

	hooks := observability.Layout()
	start := time.Now()
	ticks := 0
	hooks.OnLayoutStart(ctx, len(g.Nodes), len(g.Links))
	defer func() {
		hooks.OnLayoutEnd(ctx, ticks, l.Stress(), time.Since(start), err)
	}()

	if err := l.Start(ctx, opts.Iterations, opts.Converge, !opts.NoCenter); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if opts.Converge {
		if ticks, err = l.Converge(ctx, opts.MaxTicks); err != nil {
			return nil, fmt.Errorf("converge: %w", err)
		}
	}

	opts.Logger.Debug("layout finished",
		"stress", l.Stress(),
		"ticks", ticks,
		"duration", time.Since(start))

	return graph.NewResult(g, l)
}

// RemoveOverlaps moves the rectangles apart as little as possible so that
// no two overlap.
func RemoveOverlaps(ctx context.Context, rects []graph.Rect) []graph.Rect {
	start := time.Now()
	rs := make([]geom.Rectangle, len(rects))
	for i, r := range rects {
		rs[i] = geom.FromCentre(r.X, r.Y, r.Width, r.Height)
	}
	overlap.RemoveOverlaps(rs)
	observability.Layout().OnSolve(ctx, 2*len(rs), 0, time.Since(start))

	out := make([]graph.Rect, len(rects))
	for i, r := range rects {
		out[i] = graph.Rect{ID: r.ID, X: rs[i].CX(), Y: rs[i].CY(), Width: r.Width, Height: r.Height}
	}
	return out
}
