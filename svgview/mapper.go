package svgview

import (
	"math"

	"github.com/benoitkugler/svgview/svgpath"
)

// Mapper converts points between document and view space.
type Mapper struct {
	M svgpath.Matrix2D // document to view
}

// NewMapper returns the mapper for the given placement.
func NewMapper(viewBox svgpath.Rect, target svgpath.Size, vs ViewState) Mapper {
	return Mapper{M: Placement(viewBox, target, vs)}
}

// ToView maps a document point to the view.
func (m Mapper) ToView(p svgpath.Point) svgpath.Point { return m.M.Transform(p) }

// Inverse returns the view to document transform.
func (m Mapper) Inverse() (svgpath.Matrix2D, error) {
	inv, err := m.M.Invert()
	if err != nil {
		return svgpath.Identity, &TransformError{Op: "inverse mapping", Err: err}
	}
	return inv, nil
}

// ToDocument maps a view point to the document.
// When the transform is not invertible (for instance with a zero scale),
// the point is returned unchanged.
func (m Mapper) ToDocument(p svgpath.Point) svgpath.Point {
	inv, err := m.Inverse()
	if err != nil {
		return p
	}
	return inv.Transform(p)
}

// Locate returns a view state showing the whole document, uniformly scaled to fit
// in `box`, with its center at the view point `at`.
// The rotation of `vs` is kept. If `box`, the document or the target is empty,
// `vs` is returned unchanged.
func Locate(vs ViewState, viewBox svgpath.Rect, target svgpath.Size, at svgpath.Point, box svgpath.Size) ViewState {
	if box.IsEmpty() || viewBox.IsEmpty() || target.IsEmpty() {
		return vs
	}
	s := FitScale(viewBox.Size(), box)
	out := ViewState{ScaleX: s, ScaleY: s, Rotation: vs.Rotation}

	// the document center is mapped to targetCenter + R·S·offset
	delta := at.Sub(svgpath.Point{X: target.W / 2, Y: target.H / 2})
	d := svgpath.Identity.Rotate(-vs.Rotation * math.Pi / 180).Transform(delta)
	out.OffsetX, out.OffsetY = d.X/s, d.Y/s
	return out
}
