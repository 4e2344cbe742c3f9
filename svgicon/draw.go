package svgicon

import (
	"image/color"

	"github.com/benoitkugler/svgview/svgpath"
	"golang.org/x/image/math/fixed"
)

// Drawer receives the outline of one node, already mapped to
// device space, and paints it.
type Drawer interface {
	svgpath.Adder

	// Clear resets the accumulated path.
	Clear()

	// SetColor sets the paint of the current path. `opacity` is the
	// product of the node, paint and group opacities.
	SetColor(color color.Color, opacity float64)

	// Draw paints the accumulated path.
	Draw()
}

type Filler interface {
	Drawer

	// SetWinding selects the nonzero (true) or evenodd (false) fill rule.
	SetWinding(useNonZeroWinding bool)
}

type Stroker interface {
	Drawer

	SetStrokeOptions(options StrokeOptions)
}

// Driver is implemented by rendering backends.
type Driver interface {
	// SetupDrawers is called once per painted node. A drawer must
	// be nil when its `willXXX` boolean is false.
	// When both are requested, the fill is completed before the stroke starts.
	SetupDrawers(willFill, willStroke bool) (Filler, Stroker)
}

type DashOptions struct {
	Dash       []float64 // dash pattern, empty for a solid line
	DashOffset float64
}

// JoinMode specifies how stroke segments are bridged at a join.
type JoinMode uint8

const (
	Arc JoinMode = iota // SVG 2
	Round
	Bevel
	Miter
	MiterClip // SVG 2
	ArcClip   // MiterClip applied to arcs, non standard
)

// CapMode specifies how line ends are drawn.
type CapMode uint8

const (
	NilCap CapMode = iota // unset, resolved to ButtCap
	ButtCap
	SquareCap
	RoundCap
	CubicCap     // non standard
	QuadraticCap // non standard
)

// GapMode specifies how the convex side of a join is filled when the
// miter limit is exceeded. It is not part of SVG.
type GapMode uint8

const (
	NilGap GapMode = iota // unset, resolved to FlatGap
	FlatGap
	RoundGap
	CubicGap
	QuadraticGap
)

// attribute values, indexed by mode
var (
	joinNames = [...]string{Arc: "arc", Round: "round", Bevel: "bevel", Miter: "miter", MiterClip: "miter-clip", ArcClip: "arc-clip"}
	capNames  = [...]string{NilCap: "", ButtCap: "butt", SquareCap: "square", RoundCap: "round", CubicCap: "cubic", QuadraticCap: "quadratic"}
	gapNames  = [...]string{NilGap: "", FlatGap: "flat", RoundGap: "round", CubicGap: "cubic", QuadraticGap: "quadratic"}
)

func (j JoinMode) String() string {
	if int(j) < len(joinNames) {
		return joinNames[j]
	}
	return "<unknown JoinMode>"
}

func (c CapMode) String() string {
	if c == NilCap {
		return "<unset>"
	}
	if int(c) < len(capNames) {
		return capNames[c]
	}
	return "<unknown CapMode>"
}

func (g GapMode) String() string {
	if g == NilGap {
		return "<unset>"
	}
	if int(g) < len(gapNames) {
		return gapNames[g]
	}
	return "<unknown GapMode>"
}

// lookupName returns the index of `v` in `names`, ignoring the empty entries.
func lookupName(names []string, v string) (int, bool) {
	for i, name := range names {
		if name != "" && name == v {
			return i, true
		}
	}
	return 0, false
}

func parseJoin(v string) (JoinMode, bool) {
	i, ok := lookupName(joinNames[:], v)
	return JoinMode(i), ok
}

func parseCap(v string) (CapMode, bool) {
	i, ok := lookupName(capNames[:], v)
	return CapMode(i), ok
}

func parseGap(v string) (GapMode, bool) {
	i, ok := lookupName(gapNames[:], v)
	return GapMode(i), ok
}

type JoinOptions struct {
	MiterLimit   float64 // for the miter, arc, miter-clip and arc-clip joins
	LineJoin     JoinMode
	TrailLineCap CapMode // used at both ends when LeadLineCap is NilCap
	LeadLineCap  CapMode // non standard
	LineGap      GapMode // non standard
}

// StrokeOptions are expressed in device space.
type StrokeOptions struct {
	LineWidth fixed.Int26_6
	Join      JoinOptions
	Dash      DashOptions
}

// Draw the scene graph into the driver `d`, mapping document
// coordinates to device space with `m`.
// Nodes are painted in document order. The graph is not modified,
// so that concurrent calls with different drivers are safe.
func (s *SceneGraph) Draw(d Driver, m svgpath.Matrix2D, opacity float64) {
	s.Walk(m, func(n *Node, t svgpath.Matrix2D, style ResolvedStyle) {
		if n.Kind == KindGroup {
			return
		}
		drawTransformed(d, n.Outline(), style, opacity, t)
	})
}

// drawTransformed paints `path` mapped by `t`, filling then stroking.
func drawTransformed(d Driver, path svgpath.Path, style ResolvedStyle, opacity float64, t svgpath.Matrix2D) {
	if len(path) == 0 {
		return
	}
	filler, stroker := d.SetupDrawers(style.WillFill(), style.WillStroke())
	if filler != nil {
		filler.Clear()
		filler.SetWinding(style.UseNonZeroWinding)
		path.AddTo(filler, t)
		filler.SetColor(style.Fill.Color, style.FillOpacity*style.Opacity*opacity)
		filler.Draw()
		filler.SetWinding(true)
	}
	if stroker != nil {
		stroker.Clear()
		stroker.SetStrokeOptions(style.strokeOptions(t.MeanScale()))
		path.AddTo(stroker, t)
		stroker.SetColor(style.Stroke.Color, style.StrokeOpacity*style.Opacity*opacity)
		stroker.Draw()
	}
}

// strokeOptions maps the user space lengths of the style
// to device space, and fills in the unset caps and gaps.
func (rs ResolvedStyle) strokeOptions(scale float64) StrokeOptions {
	join := rs.Join
	if join.LineGap == NilGap {
		join.LineGap = FlatGap
	}
	if join.TrailLineCap == NilCap {
		join.TrailLineCap = ButtCap
	}
	if join.LeadLineCap == NilCap {
		join.LeadLineCap = join.TrailLineCap
	}

	var dashes []float64
	for _, v := range rs.Dash.Dash {
		dashes = append(dashes, v*scale)
	}
	return StrokeOptions{
		LineWidth: fixed.Int26_6(rs.StrokeWidth * scale * 64),
		Join:      join,
		Dash:      DashOptions{Dash: dashes, DashOffset: rs.Dash.DashOffset * scale},
	}
}
