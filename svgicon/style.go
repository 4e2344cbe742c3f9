package svgicon

import (
	"image/color"
)

// PaintKind distinguishes the forms of a fill or stroke value.
type PaintKind uint8

const (
	PaintNone         PaintKind = iota // painting is disabled (not the same as black)
	PaintColor                         // plain color
	PaintCurrentColor                  // the inherited `color` property
)

// Paint is the value of a fill or stroke property.
type Paint struct {
	Kind  PaintKind
	Color color.NRGBA // for PaintColor
}

// Property is a bit set of the style properties explicitly
// specified on a node.
type Property uint16

const (
	PropFill Property = 1 << iota
	PropStroke
	PropColor
	PropStrokeWidth
	PropFillOpacity
	PropStrokeOpacity
	PropFillRule
	PropLineCap
	PropLineJoin
	PropLineGap
	PropLeadLineCap
	PropMiterLimit
	PropDashArray
	PropDashOffset
	PropVisibility
)

// Style holds the presentation properties set on one node.
// Properties not in Set are inherited from the nearest ancestor
// defining them, or from DefaultStyle at the root.
type Style struct {
	Set Property

	Fill, Stroke               Paint
	Color                      color.NRGBA
	StrokeWidth                float64
	FillOpacity, StrokeOpacity float64
	UseNonZeroWinding          bool
	Join                       JoinOptions
	Dash                       DashOptions
	Visible                    bool

	// Opacity is the group opacity of the node, used when HasOpacity is set.
	// It is not inherited but multiplies the opacity of the whole subtree.
	Opacity    float64
	HasOpacity bool
}

// ResolvedStyle is the effective style of a node, once
// inheritance has been applied.
type ResolvedStyle struct {
	Fill, Stroke               Paint
	Color                      color.NRGBA
	StrokeWidth                float64
	FillOpacity, StrokeOpacity float64
	UseNonZeroWinding          bool
	Join                       JoinOptions
	Dash                       DashOptions
	Visible                    bool

	// Opacity accumulates the group opacities of the node and its ancestors.
	Opacity float64
}

// DefaultStyle is the style of the graph root: fill black, nonzero winding rule,
// full opacity, no stroke (width 1), ButtCap line end and Miter line connect.
var DefaultStyle = ResolvedStyle{
	Fill:              Paint{Kind: PaintColor, Color: color.NRGBA{0x00, 0x00, 0x00, 0xff}},
	Stroke:            Paint{Kind: PaintNone},
	Color:             color.NRGBA{0x00, 0x00, 0x00, 0xff},
	StrokeWidth:       1,
	FillOpacity:       1,
	StrokeOpacity:     1,
	UseNonZeroWinding: true,
	Join: JoinOptions{
		MiterLimit:   4,
		LineJoin:     Miter,
		TrailLineCap: ButtCap,
	},
	Visible: true,
	Opacity: 1,
}

func (p Paint) resolve(currentColor color.NRGBA) Paint {
	if p.Kind == PaintCurrentColor {
		return Paint{Kind: PaintColor, Color: currentColor}
	}
	return p
}

// Resolve computes the effective style of a node whose parent
// has the effective style `parent`.
func (s Style) Resolve(parent ResolvedStyle) ResolvedStyle {
	out := parent
	if s.Set&PropColor != 0 {
		out.Color = s.Color
	}
	if s.Set&PropFill != 0 {
		out.Fill = s.Fill.resolve(out.Color)
	}
	if s.Set&PropStroke != 0 {
		out.Stroke = s.Stroke.resolve(out.Color)
	}
	if s.Set&PropStrokeWidth != 0 {
		out.StrokeWidth = s.StrokeWidth
	}
	if s.Set&PropFillOpacity != 0 {
		out.FillOpacity = s.FillOpacity
	}
	if s.Set&PropStrokeOpacity != 0 {
		out.StrokeOpacity = s.StrokeOpacity
	}
	if s.Set&PropFillRule != 0 {
		out.UseNonZeroWinding = s.UseNonZeroWinding
	}
	if s.Set&PropLineCap != 0 {
		out.Join.TrailLineCap = s.Join.TrailLineCap
	}
	if s.Set&PropLeadLineCap != 0 {
		out.Join.LeadLineCap = s.Join.LeadLineCap
	}
	if s.Set&PropLineJoin != 0 {
		out.Join.LineJoin = s.Join.LineJoin
	}
	if s.Set&PropLineGap != 0 {
		out.Join.LineGap = s.Join.LineGap
	}
	if s.Set&PropMiterLimit != 0 {
		out.Join.MiterLimit = s.Join.MiterLimit
	}
	if s.Set&PropDashArray != 0 {
		out.Dash.Dash = s.Dash.Dash
	}
	if s.Set&PropDashOffset != 0 {
		out.Dash.DashOffset = s.Dash.DashOffset
	}
	if s.Set&PropVisibility != 0 {
		out.Visible = s.Visible
	}
	if s.HasOpacity {
		out.Opacity *= s.Opacity
	}
	return out
}

// WillFill returns true if the style produces a visible fill.
func (rs ResolvedStyle) WillFill() bool {
	return rs.Visible && rs.Fill.Kind != PaintNone && rs.FillOpacity*rs.Opacity > 0
}

// WillStroke returns true if the style produces a visible stroke.
func (rs ResolvedStyle) WillStroke() bool {
	return rs.Visible && rs.Stroke.Kind != PaintNone && rs.StrokeWidth > 0 && rs.StrokeOpacity*rs.Opacity > 0
}
