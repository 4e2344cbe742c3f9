package svgicon

import (
	"encoding/xml"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/svgview/svgpath"
	"go.uber.org/zap"
)

// iconCursor is used while parsing SVG files.
// It folds the XML tokens into a SceneGraph, using an explicit
// stack of the open elements.
type iconCursor struct {
	opts options
	icon *SceneGraph

	stack     []*Node          // open elements; nil for non drawable ones (title, desc)
	ids       map[string]*Node // elements seen so far, for <use>
	skipDepth int              // > 0 while inside a skipped subtree

	inTitleText, inDescText bool
}

func newCursor(opts options) *iconCursor {
	return &iconCursor{
		opts: opts,
		icon: &SceneGraph{},
		ids:  make(map[string]*Node),
	}
}

// warn records a non fatal problem
func (c *iconCursor) warn(msg string, fields ...zap.Field) {
	c.icon.Warnings = append(c.icon.Warnings, errors.New(msg))
	c.opts.logger.Warn(msg, fields...)
}

// handleError reacts to an unsupported element, according to the error mode.
func (c *iconCursor) handleError(element string) error {
	switch c.opts.errorMode {
	case StrictErrorMode:
		return &ParseError{Kind: UnsupportedElement, Element: element}
	case WarnErrorMode:
		c.warn("Cannot process svg element "+element, zap.String("element", element))
	}
	return nil
}

// elements which are not rendered where they appear,
// but only referenced by <use>
var detachedElements = map[string]bool{
	"defs":   true,
	"symbol": true,
}

func (c *iconCursor) top() *Node { return c.stack[len(c.stack)-1] }

func (c *iconCursor) readStartElement(se xml.StartElement) error {
	if c.skipDepth > 0 {
		c.skipDepth++
		return nil
	}
	name := se.Name.Local
	if c.icon.Root == nil && name != "svg" {
		return &ParseError{Kind: UnsupportedRoot, Element: name}
	}

	var parent *Node
	if len(c.stack) != 0 {
		parent = c.top()
		if parent == nil || parent.Kind != KindGroup {
			// content of a leaf element (like animations in a path),
			// or of a text element
			c.skipDepth = 1
			return nil
		}
	}

	df, ok := drawFuncs[name]
	if !ok {
		if err := c.handleError(name); err != nil {
			return err
		}
		c.skipDepth = 1
		return nil
	}
	node, err := df(c, se.Attr)
	if err != nil {
		return err
	}
	if node != nil {
		if node.Kind == KindGroup {
			node.Element = name
		}
		if err := c.readCommonAttrs(node, se.Attr); err != nil {
			return err
		}
		if node.ID != "" {
			c.ids[node.ID] = node
		}
		if parent != nil && !detachedElements[name] {
			parent.Children = append(parent.Children, node)
		}
	}
	c.stack = append(c.stack, node)
	return nil
}

func (c *iconCursor) readEndElement(se xml.EndElement) {
	if c.skipDepth > 0 {
		c.skipDepth--
		return
	}
	c.stack = c.stack[:len(c.stack)-1]
	switch se.Name.Local {
	case "title":
		c.inTitleText = false
	case "desc":
		c.inDescText = false
	}
}

func (c *iconCursor) readCharData(data xml.CharData) {
	if c.skipDepth > 0 {
		return
	}
	if c.inTitleText {
		c.icon.Titles[len(c.icon.Titles)-1] += string(data)
	}
	if c.inDescText {
		c.icon.Descriptions[len(c.icon.Descriptions)-1] += string(data)
	}
}

// readCommonAttrs reads the id, the transform, and the
// presentation attributes.
func (c *iconCursor) readCommonAttrs(n *Node, attrs []xml.Attr) error {
	var inline []declaration
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "id":
			n.ID = attr.Value
		case "transform":
			m, err := parseTransform(attr.Value)
			if err != nil {
				return attrError(n.Element, "transform", err)
			}
			// the element placement (like x, y for use) is applied first
			n.Transform = m.Mult(n.Transform)
		case "style":
			decls, skipped := parseInlineStyle(attr.Value)
			for _, err := range skipped {
				c.warn("Skipping malformed style declaration", zap.String("element", n.Element), zap.Error(err))
			}
			inline = append(inline, decls...)
		default:
			if err := c.readStyleAttr(n, attr.Name.Local, attr.Value); err != nil {
				return err
			}
		}
	}
	// the style attribute wins over presentation attributes
	for _, decl := range inline {
		if err := c.readStyleAttr(n, decl.property, decl.value); err != nil {
			return err
		}
	}
	return nil
}

func readTransformAttr(m1 svgpath.Matrix2D, k string, points []float64) (svgpath.Matrix2D, error) {
	ln := len(points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(points[1], points[2]).
				Rotate(points[0]*math.Pi/180).
				Translate(-points[1], -points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(points[0], points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(points[0], points[0])
		} else if ln == 2 {
			m1 = m1.Scale(points[0], points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(svgpath.Matrix2D{
				A: points[0],
				B: points[1],
				C: points[2],
				D: points[3],
				E: points[4],
				F: points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}

// parseTransform parses a transform list, such as
// "translate(10, 20) rotate(45)". Transforms are applied
// right to left.
func parseTransform(v string) (svgpath.Matrix2D, error) {
	ts := strings.Split(v, ")")
	m1 := svgpath.Identity
	for i, t := range ts {
		t = strings.Trim(t, " \t\n\r,")
		if len(t) == 0 {
			continue
		}
		if i == len(ts)-1 {
			return m1, errParamMismatch // missing closing parenthesis
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		points, err := svgpath.ParseNumberList(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])), points)
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}

// readStyleAttr reads one presentation property. Unknown
// properties are ignored.
func (c *iconCursor) readStyleAttr(n *Node, k, v string) error {
	st := &n.Style
	switch k {
	case "fill", "stroke", "color":
		var (
			paint Paint
			err   error
		)
		if k == "color" {
			paint.Kind = PaintColor
			paint.Color, err = ParseColor(v)
		} else {
			paint, err = parsePaint(v)
		}
		if err != nil {
			c.warn("Unsupported "+k+" value "+v, zap.String("element", n.Element), zap.Error(err))
			return nil
		}
		switch k {
		case "fill":
			st.Fill = paint
			st.Set |= PropFill
		case "stroke":
			st.Stroke = paint
			st.Set |= PropStroke
		default:
			st.Color = paint.Color
			st.Set |= PropColor
		}
	case "stroke-linegap":
		if gap, ok := parseGap(v); ok {
			st.Join.LineGap = gap
			st.Set |= PropLineGap
		}
	case "stroke-leadlinecap":
		if cp, ok := parseCap(v); ok {
			st.Join.LeadLineCap = cp
			st.Set |= PropLeadLineCap
		}
	case "stroke-linecap":
		if cp, ok := parseCap(v); ok {
			st.Join.TrailLineCap = cp
			st.Set |= PropLineCap
		}
	case "stroke-linejoin":
		if join, ok := parseJoin(v); ok {
			st.Join.LineJoin = join
			st.Set |= PropLineJoin
		}
	case "stroke-miterlimit":
		mLimit, err := parseBasicFloat(v)
		if err != nil {
			return attrError(n.Element, k, err)
		}
		st.Join.MiterLimit = mLimit
		st.Set |= PropMiterLimit
	case "stroke-width":
		width, err := c.parseUnit(v, diagPercentage)
		if err != nil {
			return attrError(n.Element, k, err)
		}
		st.StrokeWidth = width
		st.Set |= PropStrokeWidth
	case "stroke-dashoffset":
		dashOffset, err := c.parseUnit(v, diagPercentage)
		if err != nil {
			return attrError(n.Element, k, err)
		}
		st.Dash.DashOffset = dashOffset
		st.Set |= PropDashOffset
	case "stroke-dasharray":
		st.Set |= PropDashArray
		if v == "none" {
			st.Dash.Dash = nil
			break
		}
		dashes := splitOnCommaOrSpace(v)
		dList := make([]float64, len(dashes))
		for i, dstr := range dashes {
			d, err := c.parseUnit(dstr, diagPercentage)
			if err != nil {
				return attrError(n.Element, k, err)
			}
			dList[i] = d
		}
		if len(dList)%2 == 1 { // repeated to yield an even number of values
			dList = append(dList, dList...)
		}
		st.Dash.Dash = dList
	case "opacity", "stroke-opacity", "fill-opacity":
		op, err := readFraction(v)
		if err != nil {
			return attrError(n.Element, k, err)
		}
		op = math.Max(0, math.Min(1, op))
		switch k {
		case "opacity":
			st.Opacity, st.HasOpacity = op, true
		case "stroke-opacity":
			st.StrokeOpacity = op
			st.Set |= PropStrokeOpacity
		case "fill-opacity":
			st.FillOpacity = op
			st.Set |= PropFillOpacity
		}
	case "fill-rule":
		switch v {
		case "nonzero":
			st.UseNonZeroWinding = true
		case "evenodd":
			st.UseNonZeroWinding = false
		default:
			return nil
		}
		st.Set |= PropFillRule
	case "display":
		n.Hidden = v == "none"
	case "visibility":
		switch v {
		case "visible":
			st.Visible = true
		case "hidden", "collapse":
			st.Visible = false
		default:
			return nil
		}
		st.Set |= PropVisibility
	}
	return nil
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
}

func readFraction(v string) (f float64, err error) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err = parseBasicFloat(v)
	f /= d
	return
}

func parseBasicFloat(v string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

// percentageReference selects the viewBox length
// a percentage is relative to
type percentageReference uint8

const (
	widthPercentage percentageReference = iota
	heightPercentage
	diagPercentage
)

// absolute units, in pixels (user units)
var unitFactors = [...]struct {
	suffix string
	factor float64
}{
	{"px", 1},
	{"pt", 96. / 72},
	{"pc", 16},
	{"mm", 96 / 25.4},
	{"cm", 96 / 2.54},
	{"in", 96},
	{"em", 16}, // with the default font size
	{"ex", 8},
}

// parseUnit parses a length, converting it in user units.
// Percentages are relative to the document viewBox.
func (c *iconCursor) parseUnit(s string, asPerc percentageReference) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		f, err := parseBasicFloat(strings.TrimSuffix(s, "%"))
		if err != nil {
			return 0, err
		}
		vb := c.icon.ViewBox
		var ref float64
		switch asPerc {
		case widthPercentage:
			ref = vb.W
		case heightPercentage:
			ref = vb.H
		case diagPercentage:
			ref = math.Sqrt(vb.W*vb.W+vb.H*vb.H) / math.Sqrt2
		}
		return f / 100 * ref, nil
	}
	factor := 1.
	for _, u := range unitFactors {
		if strings.HasSuffix(s, u.suffix) {
			factor = u.factor
			s = strings.TrimSuffix(s, u.suffix)
			break
		}
	}
	f, err := parseBasicFloat(s)
	return f * factor, err
}
