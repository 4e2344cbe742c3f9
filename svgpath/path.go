// Implements an abstract representation of
// svg paths, which can then be consumed
// by painting drivers.
package svgpath

import (
	"fmt"
	"strings"

	"golang.org/x/image/math/fixed"
)

// Adder interface for types that can accumlate path commands,
// expressed in device space.
type Adder interface {
	// Start starts a new curve at the given point.
	Start(a fixed.Point26_6)
	// Line adds a line segment to the path
	Line(b fixed.Point26_6)
	// QuadBezier adds a quadratic bezier curve to the path
	QuadBezier(b, c fixed.Point26_6)
	// CubeBezier adds a cubic bezier curve to the path
	CubeBezier(b, c, d fixed.Point26_6)
	// Closes the path to the start point if closeLoop is true
	Stop(closeLoop bool)
}

type pathCommand uint8

// Human readable path constants
const (
	pathMoveTo pathCommand = iota
	pathLineTo
	pathQuadTo
	pathCubicTo
	pathClose
)

// Operation groups the different SVG commands
type Operation interface {
	command() pathCommand
	// add itself on the adder `q`, after applying the transform `M`
	addTo(q Adder, M Matrix2D)
}

type MoveTo Point

type LineTo Point

type QuadTo [2]Point

type CubicTo [3]Point

type Close struct{}

func (MoveTo) command() pathCommand  { return pathMoveTo }
func (LineTo) command() pathCommand  { return pathLineTo }
func (QuadTo) command() pathCommand  { return pathQuadTo }
func (CubicTo) command() pathCommand { return pathCubicTo }
func (Close) command() pathCommand   { return pathClose }

func (op MoveTo) addTo(q Adder, M Matrix2D) {
	q.Stop(false) // implicit close if currently in path.
	q.Start(M.Transform(Point(op)).Fixed())
}

func (op LineTo) addTo(q Adder, M Matrix2D) { q.Line(M.Transform(Point(op)).Fixed()) }

func (op QuadTo) addTo(q Adder, M Matrix2D) {
	q.QuadBezier(M.Transform(op[0]).Fixed(), M.Transform(op[1]).Fixed())
}

func (op CubicTo) addTo(q Adder, M Matrix2D) {
	q.CubeBezier(M.Transform(op[0]).Fixed(), M.Transform(op[1]).Fixed(), M.Transform(op[2]).Fixed())
}

func (Close) addTo(q Adder, _ Matrix2D) { q.Stop(true) }

// Path describes a sequence of basic SVG operations, in document coordinates.
// Higher-level shapes may be reduced to a path.
type Path []Operation

// ToSVGPath returns a string representation of the path
func (p Path) ToSVGPath() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = fmt.Sprintf("M%4.3f,%4.3f", op.X, op.Y)
		case LineTo:
			chunks[i] = fmt.Sprintf("L%4.3f,%4.3f", op.X, op.Y)
		case QuadTo:
			chunks[i] = fmt.Sprintf("Q%4.3f,%4.3f,%4.3f,%4.3f", op[0].X, op[0].Y, op[1].X, op[1].Y)
		case CubicTo:
			chunks[i] = fmt.Sprintf("C%4.3f,%4.3f,%4.3f,%4.3f,%4.3f,%4.3f",
				op[0].X, op[0].Y, op[1].X, op[1].Y, op[2].X, op[2].Y)
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// Clear zeros the path slice
func (p *Path) Clear() {
	*p = (*p)[:0]
}

// Start starts a new curve at the given point.
func (p *Path) Start(a Point) {
	*p = append(*p, MoveTo(a))
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b Point) {
	*p = append(*p, LineTo(b))
}

// QuadBezier adds a quadratic segment to the current curve.
func (p *Path) QuadBezier(b, c Point) {
	*p = append(*p, QuadTo{b, c})
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d Point) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// AddTo sends the path to q, transforming every point by M.
func (p Path) AddTo(q Adder, M Matrix2D) {
	for _, op := range p {
		op.addTo(q, M)
	}
	q.Stop(false)
}

// Transform returns a new path with every point mapped by M.
func (p Path) Transform(M Matrix2D) Path {
	out := make(Path, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			out[i] = MoveTo(M.Transform(Point(op)))
		case LineTo:
			out[i] = LineTo(M.Transform(Point(op)))
		case QuadTo:
			out[i] = QuadTo{M.Transform(op[0]), M.Transform(op[1])}
		case CubicTo:
			out[i] = CubicTo{M.Transform(op[0]), M.Transform(op[1]), M.Transform(op[2])}
		default:
			out[i] = op
		}
	}
	return out
}
