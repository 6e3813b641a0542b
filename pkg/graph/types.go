package graph

// =============================================================================
// Graph - Layout Input
// =============================================================================

// Graph is the serialized layout input.
type Graph struct {
	Nodes       []Node       `json:"nodes" yaml:"nodes" toml:"nodes"`
	Links       []Link       `json:"links,omitempty" yaml:"links,omitempty" toml:"links,omitempty"`
	Groups      []Group      `json:"groups,omitempty" yaml:"groups,omitempty" toml:"groups,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty" yaml:"constraints,omitempty" toml:"constraints,omitempty"`
}

// Node is a rectangle to place. X and Y are optional starting centres.
type Node struct {
	ID     string   `json:"id" yaml:"id" toml:"id"`
	Label  string   `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	X      *float64 `json:"x,omitempty" yaml:"x,omitempty" toml:"x,omitempty"`
	Y      *float64 `json:"y,omitempty" yaml:"y,omitempty" toml:"y,omitempty"`
	Width  float64  `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height float64  `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
	Fixed  bool     `json:"fixed,omitempty" yaml:"fixed,omitempty" toml:"fixed,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Link connects two nodes by id.
type Link struct {
	Source string  `json:"source" yaml:"source" toml:"source"`
	Target string  `json:"target" yaml:"target" toml:"target"`
	Length float64 `json:"length,omitempty" yaml:"length,omitempty" toml:"length,omitempty"` // multiplier, 0 means 1
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty" toml:"weight,omitempty"`
}

// Group clusters nodes and child groups. A nil Padding uses the default.
type Group struct {
	ID      string   `json:"id" yaml:"id" toml:"id"`
	Leaves  []string `json:"leaves,omitempty" yaml:"leaves,omitempty" toml:"leaves,omitempty"`
	Groups  []string `json:"groups,omitempty" yaml:"groups,omitempty" toml:"groups,omitempty"`
	Padding *float64 `json:"padding,omitempty" yaml:"padding,omitempty" toml:"padding,omitempty"`
}

// Constraint types.
const (
	ConstraintSeparation = "separation"
	ConstraintAlignment  = "alignment"
)

// Constraint is a separation (Left, Right, Gap) or an alignment (Offsets)
// on one axis. An empty Type is a separation.
type Constraint struct {
	Type     string   `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Axis     string   `json:"axis" yaml:"axis" toml:"axis"`
	Left     string   `json:"left,omitempty" yaml:"left,omitempty" toml:"left,omitempty"`
	Right    string   `json:"right,omitempty" yaml:"right,omitempty" toml:"right,omitempty"`
	Gap      float64  `json:"gap,omitempty" yaml:"gap,omitempty" toml:"gap,omitempty"`
	Equality bool     `json:"equality,omitempty" yaml:"equality,omitempty" toml:"equality,omitempty"`
	Offsets  []Offset `json:"offsets,omitempty" yaml:"offsets,omitempty" toml:"offsets,omitempty"`
}

// Offset places a node relative to an alignment guideline.
type Offset struct {
	Node   string  `json:"node" yaml:"node" toml:"node"`
	Offset float64 `json:"offset,omitempty" yaml:"offset,omitempty" toml:"offset,omitempty"`
}

// =============================================================================
// Result - Layout Output
// =============================================================================

// Result holds the final positions of a layout.
type Result struct {
	RunID  string        `json:"run_id,omitempty" yaml:"run_id,omitempty" toml:"run_id,omitempty"`
	Width  float64       `json:"width" yaml:"width" toml:"width"`
	Height float64       `json:"height" yaml:"height" toml:"height"`
	Stress float64       `json:"stress" yaml:"stress" toml:"stress"`
	Ticks  int           `json:"ticks" yaml:"ticks" toml:"ticks"`
	Nodes  []Position    `json:"nodes" yaml:"nodes" toml:"nodes"`
	Links  []Link        `json:"links,omitempty" yaml:"links,omitempty" toml:"links,omitempty"`
	Groups []GroupBounds `json:"groups,omitempty" yaml:"groups,omitempty" toml:"groups,omitempty"`
}

// Position is a placed node.
type Position struct {
	ID     string  `json:"id" yaml:"id" toml:"id"`
	Label  string  `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	X      float64 `json:"x" yaml:"x" toml:"x"`
	Y      float64 `json:"y" yaml:"y" toml:"y"`
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
}

// GroupBounds is the final rectangle of a group.
type GroupBounds struct {
	ID   string  `json:"id" yaml:"id" toml:"id"`
	MinX float64 `json:"min_x" yaml:"min_x" toml:"min_x"`
	MinY float64 `json:"min_y" yaml:"min_y" toml:"min_y"`
	MaxX float64 `json:"max_x" yaml:"max_x" toml:"max_x"`
	MaxY float64 `json:"max_y" yaml:"max_y" toml:"max_y"`
}

// =============================================================================
// Rect - Overlap Removal Input and Output
// =============================================================================

// Rect is a rectangle given by its centre and size.
type Rect struct {
	ID     string  `json:"id" yaml:"id" toml:"id"`
	X      float64 `json:"x" yaml:"x" toml:"x"`
	Y      float64 `json:"y" yaml:"y" toml:"y"`
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
}

// rectList wraps rectangles for TOML, which has no top-level arrays.
type rectList struct {
	Rects []Rect `toml:"rects"`
}
