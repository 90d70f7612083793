package core

import "math"

// Vec2 is a point in the field-angle frame: the 2D angular coordinate
// system (radians on the tangent plane) shared by the whole mosaic.
type Vec2 struct {
	X, Y float64
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Norm returns the Euclidean norm of the vector.
func (v Vec2) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PixelPoint is a point in a single detector's local pixel frame.
type PixelPoint struct {
	X, Y float64
}

// Box2 is an axis-aligned box. Containment is closed-interval: boundary
// points count as inside.
type Box2 struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// EmptyBox2 returns a box that contains nothing and grows to fit the
// points passed to Include.
func EmptyBox2() Box2 {
	return Box2{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box2) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Contains reports whether (x, y) lies inside the box, boundaries included.
// NaN coordinates are never contained.
func (b Box2) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Include grows the box to cover (x, y).
func (b *Box2) Include(x, y float64) {
	if x < b.MinX {
		b.MinX = x
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if y > b.MaxY {
		b.MaxY = y
	}
}

// polygonArea returns the absolute shoelace area of a polygon whose
// vertices are given in order. Used to reject degenerate footprints.
func polygonArea(pts []Vec2) float64 {
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2
}
