// Package svgview places SVG documents on raster surfaces.
//
// It computes the transform mapping document space onto a target
// surface from a ViewState (scale, offset and rotation), maps points
// between the two spaces, and drives the rendering through a Session
// talking to a Host which owns the surfaces.
package svgview

import (
	"math"

	"github.com/benoitkugler/svgview/svgpath"
)

// ViewState holds the user controlled view parameters.
// Offsets are expressed in document units, and applied
// before scaling. Rotation is in degrees, clockwise
// on screen (the y axis points down).
type ViewState struct {
	ScaleX, ScaleY   float64
	OffsetX, OffsetY float64
	Rotation         float64
}

// FitScale returns the largest uniform scale at which a document of size
// `doc` fits into `target`, or 0 if one of the sizes is empty.
func FitScale(doc, target svgpath.Size) float64 {
	if doc.IsEmpty() || target.IsEmpty() {
		return 0
	}
	return math.Min(target.W/doc.W, target.H/doc.H)
}

// Fit returns the state used until the view is customized, and after a reset:
// the document is scaled to fit and centered, without rotation.
func Fit(doc, target svgpath.Size) ViewState {
	s := FitScale(doc, target)
	return ViewState{ScaleX: s, ScaleY: s}
}

// Placement returns the transform from document space (in the coordinates of `viewBox`)
// to a target surface of size `target`:
//
//	translate(targetCenter) · rotate(Rotation) · scale(ScaleX, ScaleY) · translate(Offset) · translate(-viewBoxCenter)
//
// so that the rotation occurs around the center of the placed document.
// An empty target yields the identity.
func Placement(viewBox svgpath.Rect, target svgpath.Size, vs ViewState) svgpath.Matrix2D {
	if target.W <= 0 || target.H <= 0 {
		return svgpath.Identity
	}
	c := viewBox.Center()
	return svgpath.Identity.
		Translate(target.W/2, target.H/2).
		Rotate(vs.Rotation*math.Pi/180).
		Scale(vs.ScaleX, vs.ScaleY).
		Translate(vs.OffsetX, vs.OffsetY).
		Translate(-c.X, -c.Y)
}
