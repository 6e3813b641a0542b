package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/cache"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/errors"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/graph"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
// A nil g is loaded from opts.Input.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])
	opts.Logger = logger

	// Stage 1: Load
	loadStart := time.Now()
	if g == nil {
		if opts.Input == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "no graph and no input file")
		}
		var err error
		if g, err = graph.ReadGraphFile(opts.Input); err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.LinkCount = len(g.Links)
	result.Stats.GroupCount = len(g.Groups)
	result.GraphHash = HashGraph(g)

	logger.Info("loaded graph",
		"nodes", len(g.Nodes),
		"links", len(g.Links),
		"groups", len(g.Groups),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res.RunID = result.RunID
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"stress", res.Stress,
		"ticks", res.Ticks,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// HashGraph returns the content hash of g.
func HashGraph(g *graph.Graph) string {
	data, _ := json.Marshal(g)
	return cache.Hash(data)
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (*graph.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.LayoutKey(HashGraph(g), opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := graph.ReadResult(bytes.NewReader(data), graph.FormatJSON)
		if err == nil {
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}

	res, err := ComputeLayout(ctx, g, opts)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := graph.WriteResult(&buf, res, graph.FormatJSON); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLLayout)
	}

	return res, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g *graph.Graph, opts Options) (*graph.Result, error) {
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return res, err
}

// RenderWithCacheInfo encodes artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *graph.Result, g *graph.Graph, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	// the run id differs between otherwise identical results
	keyed := *res
	keyed.RunID = ""
	layoutData, err := json.Marshal(keyed)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.RenderKey(layoutHash, opts.RenderKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit && !embedsRunID(format) {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, res, g, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if embedsRunID(format) {
			continue
		}
		cacheKey := r.Keyer.RenderKey(layoutHash, opts.RenderKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLRender)
	}

	return artifacts, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *graph.Result, g *graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, g, opts)
	return artifacts, err
}

// embedsRunID reports whether an encoded output carries the run id and so
// must not be shared between runs.
func embedsRunID(format string) bool {
	switch format {
	case FormatJSON, FormatYAML, FormatTOML:
		return true
	}
	return false
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
