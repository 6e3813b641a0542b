// Package geom provides the axis-aligned rectangle used for node and group
// footprints.
package geom

import (
	"fmt"
	"math"
)

// Rectangle spans [X, MaxX] horizontally and [Y, MaxY] vertically.
type Rectangle struct {
	X    float64 `json:"x" yaml:"x" toml:"x"`
	MaxX float64 `json:"max_x" yaml:"max_x" toml:"max_x"`
	Y    float64 `json:"y" yaml:"y" toml:"y"`
	MaxY float64 `json:"max_y" yaml:"max_y" toml:"max_y"`
}

// New returns the rectangle with the given bounds.
func New(x, maxX, y, maxY float64) Rectangle {
	return Rectangle{X: x, MaxX: maxX, Y: y, MaxY: maxY}
}

// FromCentre returns a w x h rectangle centred on (cx, cy).
func FromCentre(cx, cy, w, h float64) Rectangle {
	return Rectangle{X: cx - w/2, MaxX: cx + w/2, Y: cy - h/2, MaxY: cy + h/2}
}

// Empty returns the identity element for Union.
func Empty() Rectangle {
	return Rectangle{
		X:    math.Inf(1),
		MaxX: math.Inf(-1),
		Y:    math.Inf(1),
		MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether r encloses no points.
func (r Rectangle) IsEmpty() bool { return r.X > r.MaxX || r.Y > r.MaxY }

// CX returns the horizontal centre.
func (r Rectangle) CX() float64 { return (r.X + r.MaxX) / 2 }

// CY returns the vertical centre.
func (r Rectangle) CY() float64 { return (r.Y + r.MaxY) / 2 }

// Width returns MaxX - X.
func (r Rectangle) Width() float64 { return r.MaxX - r.X }

// Height returns MaxY - Y.
func (r Rectangle) Height() float64 { return r.MaxY - r.Y }

// OverlapX returns the horizontal overlap with o, or 0 if the rectangles are
// apart on that axis.
func (r Rectangle) OverlapX(o Rectangle) float64 {
	ux, vx := r.CX(), o.CX()
	switch {
	case ux <= vx && o.X < r.MaxX:
		return r.MaxX - o.X
	case vx <= ux && r.X < o.MaxX:
		return o.MaxX - r.X
	}
	return 0
}

// OverlapY returns the vertical overlap with o, or 0 if the rectangles are
// apart on that axis.
func (r Rectangle) OverlapY(o Rectangle) float64 {
	uy, vy := r.CY(), o.CY()
	switch {
	case uy <= vy && o.Y < r.MaxY:
		return r.MaxY - o.Y
	case vy <= uy && r.Y < o.MaxY:
		return o.MaxY - r.Y
	}
	return 0
}

// SetXCentre moves r horizontally so its centre is cx.
func (r *Rectangle) SetXCentre(cx float64) {
	dx := cx - r.CX()
	r.X += dx
	r.MaxX += dx
}

// SetYCentre moves r vertically so its centre is cy.
func (r *Rectangle) SetYCentre(cy float64) {
	dy := cy - r.CY()
	r.Y += dy
	r.MaxY += dy
}

// Translate moves r by (dx, dy).
func (r *Rectangle) Translate(dx, dy float64) {
	r.X += dx
	r.MaxX += dx
	r.Y += dy
	r.MaxY += dy
}

// Union returns the smallest rectangle containing r and o.
func (r Rectangle) Union(o Rectangle) Rectangle {
	return Rectangle{
		X:    math.Min(r.X, o.X),
		MaxX: math.Max(r.MaxX, o.MaxX),
		Y:    math.Min(r.Y, o.Y),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// Inflate grows r by pad on every side.
func (r Rectangle) Inflate(pad float64) Rectangle {
	return Rectangle{X: r.X - pad, MaxX: r.MaxX + pad, Y: r.Y - pad, MaxY: r.MaxY + pad}
}

// Contains reports whether (x, y) lies inside r, borders included.
func (r Rectangle) Contains(x, y float64) bool {
	return x >= r.X && x <= r.MaxX && y >= r.Y && y <= r.MaxY
}

// ContainsRect reports whether o lies inside r, borders included.
func (r Rectangle) ContainsRect(o Rectangle) bool {
	return o.X >= r.X && o.MaxX <= r.MaxX && o.Y >= r.Y && o.MaxY <= r.MaxY
}

// Intersects reports whether r and o share interior area.
func (r Rectangle) Intersects(o Rectangle) bool {
	return r.OverlapX(o) > 0 && r.OverlapY(o) > 0
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[%g..%g]x[%g..%g]", r.X, r.MaxX, r.Y, r.MaxY)
}
