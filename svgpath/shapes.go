package svgpath

import (
	"math"
)

// This file implements the transformation from
// high level shapes to their path equivalent

// maxDx is the maximum radians a cubic splice is allowed to span
// in ellipse parametric when approximating an off-axis ellipse.
const maxDx float64 = math.Pi / 8

// kappa is the control point distance approximating a quarter
// of unit circle with a cubic bezier
const kappa = 0.5522847498307936

// AddRect adds a closed rectangle.
func (p *Path) AddRect(minX, minY, maxX, maxY float64) {
	p.Start(Point{minX, minY})
	p.Line(Point{maxX, minY})
	p.Line(Point{maxX, maxY})
	p.Line(Point{minX, maxY})
	p.Stop(true)
}

// AddRoundRect adds a rectangle with rounded corners of radius
// rx in the x axis and ry in the y axis.
// If only one radius is positive, it is used for both axis.
func (p *Path) AddRoundRect(minX, minY, maxX, maxY, rx, ry float64) {
	if rx <= 0 {
		rx = ry
	} else if ry <= 0 {
		ry = rx
	}
	if rx <= 0 || ry <= 0 {
		p.AddRect(minX, minY, maxX, maxY)
		return
	}
	if w := maxX - minX; w < rx*2 {
		rx = w / 2
	}
	if h := maxY - minY; h < ry*2 {
		ry = h / 2
	}
	kx, ky := rx*kappa, ry*kappa

	p.Start(Point{minX + rx, minY})
	p.Line(Point{maxX - rx, minY})
	p.CubeBezier(Point{maxX - rx + kx, minY}, Point{maxX, minY + ry - ky}, Point{maxX, minY + ry})
	p.Line(Point{maxX, maxY - ry})
	p.CubeBezier(Point{maxX, maxY - ry + ky}, Point{maxX - rx + kx, maxY}, Point{maxX - rx, maxY})
	p.Line(Point{minX + rx, maxY})
	p.CubeBezier(Point{minX + rx - kx, maxY}, Point{minX, maxY - ry + ky}, Point{minX, maxY - ry})
	p.Line(Point{minX, minY + ry})
	p.CubeBezier(Point{minX, minY + ry - ky}, Point{minX + rx - kx, minY}, Point{minX + rx, minY})
	p.Stop(true)
}

// AddEllipse adds a closed ellipse centered at (cx, cy),
// approximated by four cubic bezier curves.
func (p *Path) AddEllipse(cx, cy, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	p.Start(Point{cx + rx, cy})
	p.CubeBezier(Point{cx + rx, cy + ky}, Point{cx + kx, cy + ry}, Point{cx, cy + ry})
	p.CubeBezier(Point{cx - kx, cy + ry}, Point{cx - rx, cy + ky}, Point{cx - rx, cy})
	p.CubeBezier(Point{cx - rx, cy - ky}, Point{cx - kx, cy - ry}, Point{cx, cy - ry})
	p.CubeBezier(Point{cx + kx, cy - ry}, Point{cx + rx, cy - ky}, Point{cx + rx, cy})
	p.Stop(true)
}

// ellipticArc is an arc command of path data, in absolute coordinates.
type ellipticArc struct {
	rx, ry   float64 // positive radii
	rotation float64 // of the x axis, in radians
	large    bool
	sweep    bool
	from, to Point
}

// point returns the point of parameter `eta` on the ellipse centered at `c`.
func (a *ellipticArc) point(c Point, eta float64) Point {
	sin, cos := math.Sincos(a.rotation)
	u, v := a.rx*math.Cos(eta), a.ry*math.Sin(eta)
	return Point{c.X + u*cos - v*sin, c.Y + u*sin + v*cos}
}

// tangent returns the derivative of point with respect to `eta`.
func (a *ellipticArc) tangent(eta float64) Point {
	sin, cos := math.Sincos(a.rotation)
	u, v := -a.rx*math.Sin(eta), a.ry*math.Cos(eta)
	return Point{u*cos - v*sin, u*sin + v*cos}
}

// center returns the center of the ellipse going through both end points.
// When the radii are too small for such an ellipse to exist,
// they are scaled up (keeping their ratio) to the smallest solution.
// The problem is reduced to a circle through the origin and
// a point, by moving, rotating and scaling the coordinates.
func (a *ellipticArc) center() Point {
	sin, cos := math.Sincos(a.rotation)
	d := a.to.Sub(a.from)
	n := Point{(d.X*cos + d.Y*sin) * a.ry / a.rx, -d.X*sin + d.Y*cos}

	mid := n.Mul(0.5)
	midLenSq := mid.X*mid.X + mid.Y*mid.Y

	var hr float64
	if a.ry*a.ry < midLenSq {
		nry := math.Sqrt(midLenSq)
		if a.rx == a.ry {
			a.rx = nry
		} else {
			a.rx *= nry / a.ry
		}
		a.ry = nry
	} else {
		hr = math.Sqrt(a.ry*a.ry-midLenSq) / math.Sqrt(midLenSq)
	}

	var c Point
	if a.sweep == a.large {
		c = Point{mid.X + mid.Y*hr, mid.Y - mid.X*hr}
	} else {
		c = Point{mid.X - mid.Y*hr, mid.Y + mid.X*hr}
	}
	c.X *= a.rx / a.ry
	return Point{c.X*cos - c.Y*sin + a.from.X, c.X*sin + c.Y*cos + a.from.Y}
}

// addArc approximates the arc with cubic bezier curves, each spanning
// at most maxDx, using the method of L. Maisonobe, "Drawing an elliptical
// arc using polylines, quadratic or cubic Bezier curves", 2003.
func (p *Path) addArc(a ellipticArc) {
	c := a.center()
	startAngle := math.Atan2(a.from.Y-c.Y, a.from.X-c.X) - a.rotation
	endAngle := math.Atan2(a.to.Y-c.Y, a.to.X-c.X) - a.rotation
	arcBig := math.Abs(endAngle-startAngle) > math.Pi

	etaStart := math.Atan2(math.Sin(startAngle)/a.ry, math.Cos(startAngle)/a.rx)
	etaEnd := math.Atan2(math.Sin(endAngle)/a.ry, math.Cos(endAngle)/a.rx)
	deltaEta := etaEnd - etaStart
	if arcBig != a.large {
		if deltaEta < 0 {
			deltaEta += math.Pi * 2
		} else {
			deltaEta -= math.Pi * 2
		}
	}
	// when the center is the midpoint of the end points
	if deltaEta < 0 && a.sweep {
		deltaEta += math.Pi * 2
	} else if deltaEta >= 0 && !a.sweep {
		deltaEta -= math.Pi * 2
	}

	segs := int(math.Abs(deltaEta)/maxDx) + 1
	dEta := deltaEta / float64(segs)
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3

	last, lastTangent := a.from, a.tangent(etaStart)
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		next := a.to // exact end point
		if i < segs {
			next = a.point(c, eta)
		}
		tangent := a.tangent(eta)
		p.CubeBezier(last.Add(lastTangent.Mul(alpha)), next.Sub(tangent.Mul(alpha)), next)
		last, lastTangent = next, tangent
	}
}
