// Implements a raster backend to render SVG images,
// by wrapping rasterx.
package svgraster

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/benoitkugler/svgview/svgicon"
	"github.com/benoitkugler/svgview/svgpath"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

var _ svgicon.Driver = (*Renderer)(nil) // assert interface conformance

// Renderer paints on a draw.Image, using source-over compositing.
type Renderer struct {
	filler  filler  // we use separated instances
	stroker stroker // to avoid shared state
}

// NewRenderer returns a renderer drawing into `dst`.
// Both painters share a rasterx.ScannerGV clipped to the image bounds.
func NewRenderer(dst draw.Image) *Renderer {
	bounds := dst.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	scanner := rasterx.NewScannerGV(width, height, dst, bounds)
	return &Renderer{
		filler:  filler{rasterx.NewFiller(width, height, scanner)},
		stroker: stroker{rasterx.NewDasher(width, height, scanner)},
	}
}

// SetupDrawers implements svgicon.Driver.
func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f svgicon.Filler, s svgicon.Stroker) {
	if willFill {
		f = rd.filler
	}
	if willStroke {
		s = rd.stroker
	}
	return f, s
}

// Draw paints `icon` into `dst`, mapping document space with `m`.
func Draw(dst draw.Image, icon *svgicon.SceneGraph, m svgpath.Matrix2D) {
	icon.Draw(NewRenderer(dst), m, 1.0)
}

// RasterSVGIconToImage uses a ScannerGV instance to renderer the
// icon into an image and returns it.
// The viewBox is stretched to width x height; if one of them is not positive,
// the document size (rounded up) is used instead.
func RasterSVGIconToImage(icon io.Reader, width, height int) (*image.RGBA, error) {
	parsedIcon, err := svgicon.ReadIconStream(icon, svgicon.WithErrorMode(svgicon.IgnoreErrorMode))
	if err != nil {
		return nil, err
	}
	vb := parsedIcon.ViewBox
	if width <= 0 || height <= 0 {
		width, height = int(math.Ceil(vb.W)), int(math.Ceil(vb.H))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	m := svgpath.Identity.
		Scale(float64(width)/vb.W, float64(height)/vb.H).
		Translate(-vb.X, -vb.Y)
	Draw(img, parsedIcon, m)
	return img, nil
}

type filler struct {
	*rasterx.Filler
}

func (f filler) SetColor(c color.Color, opacity float64) {
	f.Filler.SetColor(rasterx.ApplyOpacity(c, opacity))
}

type stroker struct {
	*rasterx.Dasher
}

func (s stroker) SetColor(c color.Color, opacity float64) {
	s.Dasher.SetColor(rasterx.ApplyOpacity(c, opacity))
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgicon.Round:     rasterx.Round,
		svgicon.Bevel:     rasterx.Bevel,
		svgicon.Miter:     rasterx.Miter,
		svgicon.MiterClip: rasterx.MiterClip,
		svgicon.Arc:       rasterx.Arc,
		svgicon.ArcClip:   rasterx.ArcClip,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgicon.NilCap:       rasterx.ButtCap,
		svgicon.ButtCap:      rasterx.ButtCap,
		svgicon.SquareCap:    rasterx.SquareCap,
		svgicon.RoundCap:     rasterx.RoundCap,
		svgicon.CubicCap:     rasterx.CubicCap,
		svgicon.QuadraticCap: rasterx.QuadraticCap,
	}

	gapToFunc = [...]rasterx.GapFunc{
		svgicon.NilGap:       rasterx.FlatGap,
		svgicon.FlatGap:      rasterx.FlatGap,
		svgicon.RoundGap:     rasterx.RoundGap,
		svgicon.CubicGap:     rasterx.CubicGap,
		svgicon.QuadraticGap: rasterx.QuadraticGap,
	}
)

func (s stroker) SetStrokeOptions(options svgicon.StrokeOptions) {
	s.Dasher.SetStroke(
		options.LineWidth, fixed.Int26_6(math.Round(options.Join.MiterLimit*64)),
		capToFunc[options.Join.LeadLineCap], capToFunc[options.Join.TrailLineCap],
		gapToFunc[options.Join.LineGap], joinToJoin[options.Join.LineJoin],
		options.Dash.Dash, options.Dash.DashOffset,
	)
}
