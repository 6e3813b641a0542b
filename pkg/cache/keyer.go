package cache

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a computed layout.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// RenderKey identifies one encoded output of a layout.
	RenderKey(layoutHash string, opts RenderKeyOpts) string
}

// LayoutKeyOpts holds every option that changes layout positions.
type LayoutKeyOpts struct {
	Width, Height    float64
	LinkDistance     float64
	NodeSize         float64
	Iterations       [4]int
	Ticks            int
	AvoidOverlaps    bool
	Disconnected     bool
	Centered         bool
	Threshold        float64
	GroupCompactness float64
	LinkLengths      string
	LinkLengthWeight float64
	FlowAxis         string
	FlowSeparation   float64
}

// RenderKeyOpts holds every option that changes an encoded output.
type RenderKeyOpts struct {
	Format   string
	Scale    float64
	Detailed bool
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns layout:<hash>.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// RenderKey returns render:<hash>.
func (DefaultKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return hashKey("render", layoutHash, opts)
}
