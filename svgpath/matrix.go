package svgpath

import (
	"errors"
	"math"
)

// ErrNonInvertible is returned when inverting a degenerate transform.
var ErrNonInvertible = errors.New("matrix is not invertible")

// determinants below this fraction of the coefficients
// magnitude are treated as zero
const epsilonDet = 1e-12

// Matrix2D represents a 2D affine transformation matrix,
// using the SVG convention:
//
//	| A  C  E |
//	| B  D  F |
//	| 0  0  1 |
//
// that is x' = A*x + C*y + E and y' = B*x + D*y + F.
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity matrix
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult returns a * b: b is applied first, then a.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Translate composes a translation, applied before a.
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

// Scale composes a scaling, applied before a.
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// Rotate composes a rotation of theta radians, applied before a.
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	sin, cos := math.Sincos(theta)
	return a.Mult(Matrix2D{cos, sin, -sin, cos, 0, 0})
}

// SkewX composes a skew along the x axis of theta radians.
func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, math.Tan(theta), 1, 0, 0})
}

// SkewY composes a skew along the y axis of theta radians.
func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, math.Tan(theta), 0, 1, 0, 0})
}

// Det returns the determinant of the linear part.
func (a Matrix2D) Det() float64 { return a.A*a.D - a.B*a.C }

// Invert returns the inverse transform, or ErrNonInvertible
// if a is degenerate.
func (a Matrix2D) Invert() (Matrix2D, error) {
	det := a.Det()
	magnitude := (math.Abs(a.A) + math.Abs(a.B)) * (math.Abs(a.C) + math.Abs(a.D))
	if math.Abs(det) <= epsilonDet*magnitude || math.IsNaN(det) {
		return Identity, ErrNonInvertible
	}
	return Matrix2D{
		A: a.D / det,
		B: -a.B / det,
		C: -a.C / det,
		D: a.A / det,
		E: (a.C*a.F - a.D*a.E) / det,
		F: (a.B*a.E - a.A*a.F) / det,
	}, nil
}

// Transform applies the matrix to a point.
func (a Matrix2D) Transform(p Point) Point {
	return Point{
		X: a.A*p.X + a.C*p.Y + a.E,
		Y: a.B*p.X + a.D*p.Y + a.F,
	}
}

// MeanScale is the geometric mean of the axis scale factors,
// used to scale line widths.
func (a Matrix2D) MeanScale() float64 { return math.Sqrt(math.Abs(a.Det())) }

// ApproxEqual compares the coefficients within tol.
func (a Matrix2D) ApproxEqual(b Matrix2D, tol float64) bool {
	return math.Abs(a.A-b.A) <= tol && math.Abs(a.B-b.B) <= tol &&
		math.Abs(a.C-b.C) <= tol && math.Abs(a.D-b.D) <= tol &&
		math.Abs(a.E-b.E) <= tol && math.Abs(a.F-b.F) <= tol
}
