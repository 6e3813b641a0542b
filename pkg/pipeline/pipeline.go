// Package pipeline runs the load → layout → render pipeline of clustermap.
//
// The CLI commands share this package so that defaults, validation and
// caching behave the same everywhere.
//
// # Stages
//
//  1. Load: read a graph file ([graph.ReadGraphFile])
//  2. Layout: run the constrained layout to convergence ([ComputeLayout])
//  3. Render: encode the result in each requested format ([Render])
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	defer runner.Close()
//
//	opts := pipeline.Options{
//	    Input:         "network.yaml",
//	    AvoidOverlaps: true,
//	    Formats:       []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, nil, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Options may also be read from a TOML file with [LoadOptionsFile].
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/cache"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/errors"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/graph"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/layout"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/overlap"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default canvas width.
	DefaultWidth = layout.DefaultWidth

	// DefaultHeight is the default canvas height.
	DefaultHeight = layout.DefaultHeight

	// DefaultLinkDistance is the ideal length of a plain link.
	DefaultLinkDistance = layout.DefaultLinkDistance

	// DefaultMaxTicks bounds the convergence loop.
	DefaultMaxTicks = layout.DefaultMaxTicks
)

// DefaultIterations are the phase budgets used when none are given.
var DefaultIterations = layout.Iterations{
	Unconstrained:   10,
	UserConstraints: 15,
	AllConstraints:  20,
}

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatYAML: true,
	FormatTOML: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidLinkLengths is the set of supported link length heuristics.
var ValidLinkLengths = map[string]bool{
	string(layout.LinkLengthsNone):          true,
	string(layout.LinkLengthsSymmetricDiff): true,
	string(layout.LinkLengthsJaccard):       true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Load options
	Input string `json:"input,omitempty" toml:"input,omitempty"`

	// Layout options
	Width            float64           `json:"width,omitempty" toml:"width,omitempty"`
	Height           float64           `json:"height,omitempty" toml:"height,omitempty"`
	LinkDistance     float64           `json:"link_distance,omitempty" toml:"link_distance,omitempty"`
	NodeSize         float64           `json:"node_size,omitempty" toml:"node_size,omitempty"`
	Iterations       layout.Iterations `json:"iterations" toml:"iterations"`
	AvoidOverlaps    bool              `json:"avoid_overlaps,omitempty" toml:"avoid_overlaps,omitempty"`
	SkipDisconnected bool              `json:"skip_disconnected,omitempty" toml:"skip_disconnected,omitempty"`
	NoCenter         bool              `json:"no_center,omitempty" toml:"no_center,omitempty"`
	Threshold        float64           `json:"threshold,omitempty" toml:"threshold,omitempty"`
	GroupCompactness float64           `json:"group_compactness,omitempty" toml:"group_compactness,omitempty"`
	LinkLengths      string            `json:"link_lengths,omitempty" toml:"link_lengths,omitempty"`
	LinkLengthWeight float64           `json:"link_length_weight,omitempty" toml:"link_length_weight,omitempty"`
	FlowAxis         string            `json:"flow_axis,omitempty" toml:"flow_axis,omitempty"`
	FlowSeparation   float64           `json:"flow_separation,omitempty" toml:"flow_separation,omitempty"`
	Converge         bool              `json:"converge,omitempty" toml:"converge,omitempty"`
	MaxTicks         int               `json:"max_ticks,omitempty" toml:"max_ticks,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty" toml:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty" toml:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty" toml:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Graph is the loaded input graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout holds the final positions.
	Layout *graph.Result

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LinkCount  int
	GroupCount int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid format: %q (must be one of: %s)", format, validNames(ValidFormats))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLinkLengths checks a link length heuristic name.
func ValidateLinkLengths(mode string) error {
	if !ValidLinkLengths[mode] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid link_lengths: %q (must be one of: symmetric, jaccard)", mode)
	}
	return nil
}

func validNames(m map[string]bool) string {
	var names []string
	for k := range m {
		names = append(names, k)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// =============================================================================
// Options Methods
// =============================================================================

// LoadOptionsFile reads options from a TOML file.
func LoadOptionsFile(path string) (Options, error) {
	var o Options
	if _, err := toml.DecodeFile(path, &o); err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return o, nil
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.LinkDistance == 0 {
		o.LinkDistance = DefaultLinkDistance
	}
	if o.Iterations == (layout.Iterations{}) {
		o.Iterations = DefaultIterations
	}
	if o.MaxTicks == 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"width", o.Width},
		{"height", o.Height},
		{"link_distance", o.LinkDistance},
		{"node_size", o.NodeSize},
		{"threshold", o.Threshold},
		{"group_compactness", o.GroupCompactness},
		{"link_length_weight", o.LinkLengthWeight},
		{"flow_separation", o.FlowSeparation},
	} {
		if err := errors.ValidateSize(f.name, f.v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", f.name)
		}
	}
	it := o.Iterations
	if it.Unconstrained < 0 || it.UserConstraints < 0 || it.AllConstraints < 0 || it.GridSnap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "iterations cannot be negative: %+v", it)
	}
	if o.MaxTicks < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_ticks cannot be negative, got %d", o.MaxTicks)
	}
	if err := ValidateLinkLengths(o.LinkLengths); err != nil {
		return err
	}
	if o.FlowAxis != "" {
		if err := errors.ValidateAxis(o.FlowAxis); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid flow_axis")
		}
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutConfig builds the layout configuration.
func (o *Options) LayoutConfig() layout.Config {
	cfg := layout.DefaultConfig()
	cfg.Width = o.Width
	cfg.Height = o.Height
	cfg.LinkDistance = o.LinkDistance
	cfg.DefaultNodeSize = o.NodeSize
	cfg.AvoidOverlaps = o.AvoidOverlaps
	cfg.HandleDisconnected = !o.SkipDisconnected
	cfg.Threshold = o.Threshold
	cfg.GroupCompactness = o.GroupCompactness
	cfg.LinkLengths = layout.LinkLengthMode(o.LinkLengths)
	cfg.LinkLengthWeight = o.LinkLengthWeight
	if o.FlowAxis != "" {
		cfg.Flow = &layout.Flow{Axis: overlap.Axis(o.FlowAxis), MinSeparation: o.FlowSeparation}
	}
	cfg.Logger = o.Logger
	return cfg
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	it := o.Iterations
	k := cache.LayoutKeyOpts{
		Width:            o.Width,
		Height:           o.Height,
		LinkDistance:     o.LinkDistance,
		NodeSize:         o.NodeSize,
		Iterations:       [4]int{it.Unconstrained, it.UserConstraints, it.AllConstraints, it.GridSnap},
		AvoidOverlaps:    o.AvoidOverlaps,
		Disconnected:     !o.SkipDisconnected,
		Centered:         !o.NoCenter,
		Threshold:        o.Threshold,
		GroupCompactness: o.GroupCompactness,
		LinkLengths:      o.LinkLengths,
		LinkLengthWeight: o.LinkLengthWeight,
		FlowAxis:         o.FlowAxis,
		FlowSeparation:   o.FlowSeparation,
	}
	if o.Converge {
		k.Ticks = o.MaxTicks
	}
	return k
}

// RenderKeyOpts returns cache key options for one output format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format:   format,
		Scale:    o.Scale,
		Detailed: o.Detailed,
	}
}

// String summarizes the layout-relevant options for logs.
func (o *Options) String() string {
	return fmt.Sprintf("%gx%g link=%g overlaps=%t iterations=%+v", o.Width, o.Height, o.LinkDistance, o.AvoidOverlaps, o.Iterations)
}
