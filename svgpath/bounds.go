package svgpath

import "math"

// compute the bounding box of a path, using the extrema
// of its bezier segments

type bezier interface {
	// compute the t zeroing the derivative
	criticalPoints() (tX, tY []float64)
	// compute the point a time t
	evaluateCurve(t float64) Point
}

type line [2]Point

func (l line) criticalPoints() (tX, tY []float64) { return nil, nil }

func (l line) evaluateCurve(t float64) Point {
	return Point{bezierLine(l[0].X, l[1].X, t), bezierLine(l[0].Y, l[1].Y, t)}
}

func bezierLine(p0, p1, t float64) float64 {
	return (p1-p0)*t + p0
}

type quadBezier [3]Point

// quadratic polinomial
// x = At^2 + Bt + C
// where
// A = p0 + p2 - 2p1
// B = 2(p1 - p0)
// C = p0
func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// derivative as at + b where a,b :
func quadraticDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - p1 - (p1 - p0)), 2 * (p1 - p0)
}

// handle the case where a = 0
func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

func (cu quadBezier) criticalPoints() (tX, tY []float64) {
	aX, bX := quadraticDerivative(cu[0].X, cu[1].X, cu[2].X)
	aY, bY := quadraticDerivative(cu[0].Y, cu[1].Y, cu[2].Y)
	return linearRoots(aX, bX), linearRoots(aY, bY)
}

func (cu quadBezier) evaluateCurve(t float64) Point {
	return Point{
		bezierQuad(cu[0].X, cu[1].X, cu[2].X, t),
		bezierQuad(cu[0].Y, cu[1].Y, cu[2].Y, t),
	}
}

type cubicBezier [4]Point

func (cu cubicBezier) criticalPoints() (tX, tY []float64) {
	aX, bX, cX := cubicDerivative(cu[0].X, cu[1].X, cu[2].X, cu[3].X)
	aY, bY, cY := cubicDerivative(cu[0].Y, cu[1].Y, cu[2].Y, cu[3].Y)
	return quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)
}

func (cu cubicBezier) evaluateCurve(t float64) Point {
	return Point{
		bezierSpline(cu[0].X, cu[1].X, cu[2].X, cu[3].X, t),
		bezierSpline(cu[0].Y, cu[1].Y, cu[2].Y, cu[3].Y, t),
	}
}

// cubic polinomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		(p0)
}

// We would like to know the values of t where X = 0
// X  = (p3-3*p2+3*p1-p0)t^3 + (3*p2-6*p1+3*p0)t^2 + (3*p1-3*p0)t + (p0)
// Derivative :
// X' = (3*p3-9*p2+9*p1-3*p0)t^2 + (6*p2-12*p1+6*p0)t + (3*p1-3*p0)
// taken as aX^2 + bX + c  a,b and c are:
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

// b^2 - 4ac = Determinant
func determinant(a, b, c float64) float64 { return b*b - 4*a*c }

func solve(a, b, c float64, s bool) float64 {
	sign := 1.
	if !s {
		sign = -1.
	}
	return (-b + (math.Sqrt((b*b)-(4*a*c)) * sign)) / (2 * a)
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		// bX + c : a simple line
		return linearRoots(b, c)
	}
	d := determinant(a, b, c)
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{solve(a, b, c, true)}
	}
	return []float64{solve(a, b, c, true), solve(a, b, c, false)}
}

func computeBoundingBox(curve bezier) Rect {
	resX, resY := curve.criticalPoints()

	var pts []Point
	// add begin and end point
	for _, t := range append(append(resX, 0, 1), resY...) {
		// filter invalid value
		if !(0 <= t && t <= 1) {
			continue
		}
		pts = append(pts, curve.evaluateCurve(t))
	}
	return rectFromPoints(pts...)
}

// Bounds returns the exact bounding box of the path, after
// applying the transform M. The boolean is false for empty paths.
func (p Path) Bounds(M Matrix2D) (Rect, bool) {
	var (
		out         Rect
		found       bool
		start, curr Point
	)
	add := func(r Rect) {
		if !found {
			out, found = r, true
			return
		}
		minX, minY := math.Min(out.X, r.X), math.Min(out.Y, r.Y)
		maxX, maxY := math.Max(out.X+out.W, r.X+r.W), math.Max(out.Y+out.H, r.Y+r.H)
		out = Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
	}
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			curr = M.Transform(Point(op))
			start = curr
			add(Rect{X: curr.X, Y: curr.Y})
		case LineTo:
			next := M.Transform(Point(op))
			add(computeBoundingBox(line{curr, next}))
			curr = next
		case QuadTo:
			c, next := M.Transform(op[0]), M.Transform(op[1])
			add(computeBoundingBox(quadBezier{curr, c, next}))
			curr = next
		case CubicTo:
			c1, c2, next := M.Transform(op[0]), M.Transform(op[1]), M.Transform(op[2])
			add(computeBoundingBox(cubicBezier{curr, c1, c2, next}))
			curr = next
		case Close:
			curr = start
		}
	}
	return out, found
}
