package layout

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/errors"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/overlap"
)

const (
	DefaultWidth            = 800
	DefaultHeight           = 600
	DefaultLinkDistance     = 20
	DefaultNodeSize         = 10
	DefaultThreshold        = 0.01
	DefaultGroupCompactness = 1e-6
	DefaultGroupPadding     = 1
	DefaultMaxTicks         = 1000

	resumeAlpha      = 0.1
	gridSnapStrength = 1000
	groupDummyIdeal  = 0.1

	// helper layout used to seed grouped graphs
	seedLinkLengthWeight = 5
	seedThreshold        = 1e-4
)

// LinkLengthMode selects a heuristic that scales each link's ideal length
// by the structure of its endpoints' neighbourhoods.
type LinkLengthMode string

const (
	LinkLengthsNone          LinkLengthMode = ""
	LinkLengthsSymmetricDiff LinkLengthMode = "symmetric"
	LinkLengthsJaccard       LinkLengthMode = "jaccard"
)

// Flow lays directed links out along an axis: every link between distinct
// strongly connected components gets source + MinSeparation <= target.
type Flow struct {
	Axis overlap.Axis

	// MinSeparation defaults to the link distance.
	MinSeparation float64
}

// Config controls a layout. Start from [DefaultConfig]; zero numeric fields
// are replaced by their defaults.
type Config struct {
	// Width and Height are the canvas size used for initial placement and
	// component packing.
	Width, Height float64

	// DefaultNodeSize is used by packing for nodes without a size.
	DefaultNodeSize float64

	// LinkDistance is the ideal length of a link with length multiplier 1.
	LinkDistance float64

	// LinkDistanceFunc, when set, overrides LinkDistance per link.
	LinkDistanceFunc func(Link) float64

	LinkLengths      LinkLengthMode
	LinkLengthWeight float64

	AvoidOverlaps      bool
	HandleDisconnected bool

	// Threshold is both the relative stress change that ends a descent
	// phase and the alpha below which ticking stops.
	Threshold float64

	GroupCompactness float64

	Flow *Flow

	// DistanceMatrix replaces shortest-path distances. It must be n x n.
	// Component packing is skipped when it is set.
	DistanceMatrix [][]float64

	// Logger receives phase timings at debug level. Nil discards.
	Logger *log.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Width:              DefaultWidth,
		Height:             DefaultHeight,
		DefaultNodeSize:    DefaultNodeSize,
		LinkDistance:       DefaultLinkDistance,
		LinkLengthWeight:   1,
		HandleDisconnected: true,
		Threshold:          DefaultThreshold,
		GroupCompactness:   DefaultGroupCompactness,
	}
}

func (c *Config) setDefaults() {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.DefaultNodeSize <= 0 {
		c.DefaultNodeSize = DefaultNodeSize
	}
	if c.LinkDistance <= 0 {
		c.LinkDistance = DefaultLinkDistance
	}
	if c.LinkLengthWeight <= 0 {
		c.LinkLengthWeight = 1
	}
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	if c.GroupCompactness <= 0 {
		c.GroupCompactness = DefaultGroupCompactness
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

func (c *Config) validate(n int) error {
	switch c.LinkLengths {
	case LinkLengthsNone, LinkLengthsSymmetricDiff, LinkLengthsJaccard:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown link length mode %q", c.LinkLengths)
	}
	if c.Flow != nil {
		if err := errors.ValidateAxis(string(c.Flow.Axis)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "flow")
		}
		if err := errors.ValidateSize("flow separation", c.Flow.MinSeparation); err != nil {
			return err
		}
	}
	if c.DistanceMatrix != nil {
		if len(c.DistanceMatrix) != n {
			return errors.New(errors.ErrCodeInvalidConfig, "distance matrix has %d rows, want %d", len(c.DistanceMatrix), n)
		}
		for i, row := range c.DistanceMatrix {
			if len(row) != n {
				return errors.New(errors.ErrCodeInvalidConfig, "distance matrix row %d has %d columns, want %d", i, len(row), n)
			}
		}
	}
	return nil
}
