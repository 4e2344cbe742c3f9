package svgpath

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Point is a location in a 2D space, either in document
// units or in device pixels, depending on the context.
type Point struct{ X, Y float64 }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Fixed converts the point to its 26.6 fixed point representation,
// as expected by the rasterizers.
func (p Point) Fixed() fixed.Point26_6 {
	return fixed.Point26_6{X: fToFixed(p.X), Y: fToFixed(p.Y)}
}

// Size is the extent of a document or a surface.
// Both components are non negative.
type Size struct{ W, H float64 }

// IsEmpty returns true if one of the dimensions is zero (or invalid).
func (s Size) IsEmpty() bool { return !(s.W > 0 && s.H > 0) }

// Rect defines a bounding box, such as a viewBox
// or a path extent.
type Rect struct{ X, Y, W, H float64 }

// Origin returns the top left corner.
func (r Rect) Origin() Point { return Point{r.X, r.Y} }

// Size returns the extent of the rectangle.
func (r Rect) Size() Size { return Size{r.W, r.H} }

// Center returns the center point of the rect.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// IsEmpty returns true for rectangles with zero or negative area.
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Contains checks if a point is inside the rect, borders included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Union returns the smallest rect containing both rects.
// The zero Rect is ignored.
func (r Rect) Union(other Rect) Rect {
	if r == (Rect{}) {
		return other
	}
	if other == (Rect{}) {
		return r
	}
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.W, other.X+other.W)
	maxY := math.Max(r.Y+r.H, other.Y+other.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// rectFromPoints returns the axis aligned box enclosing the points.
func rectFromPoints(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func fToFixed(f float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(f * 64))
}
