package svgicon

import (
	"encoding/xml"
	"errors"
	"strings"

	"github.com/benoitkugler/svgview/svgpath"
	"go.uber.org/zap"
)

// svgFunc builds the node for one element. It may return
// a nil node for elements which are not drawn (title, desc).
type svgFunc func(c *iconCursor, attrs []xml.Attr) (*Node, error)

var drawFuncs = map[string]svgFunc{
	"svg":      svgF,
	"g":        gF,
	"a":        gF, // links are drawn as groups
	"line":     lineF,
	"rect":     rectF,
	"circle":   circleF,
	"ellipse":  circleF, // circleF handles ellipse also
	"polyline": polylineF,
	"polygon":  polygonF,
	"path":     pathF,
	"desc":     descF,
	"defs":     gF,
	"symbol":   gF,
	"title":    titleF,
	"use":      useF,
}

// parseDimension reads the width or height of the root element.
// Percentages and "auto" are not resolved and return 0.
func (c *iconCursor) parseDimension(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "auto" || strings.HasSuffix(v, "%") {
		return 0, nil
	}
	return c.parseUnit(v, widthPercentage)
}

func svgF(c *iconCursor, attrs []xml.Attr) (*Node, error) {
	if c.icon.Root != nil {
		return nestedSvgF(c, attrs)
	}
	var (
		viewBox       svgpath.Rect
		width, height float64
		err           error
	)
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "viewBox":
			var points []float64
			points, err = svgpath.ParseNumberList(attr.Value)
			if err == nil && len(points) != 4 {
				err = errParamMismatch
			}
			if err != nil {
				return nil, attrError("svg", "viewBox", err)
			}
			viewBox = svgpath.Rect{X: points[0], Y: points[1], W: points[2], H: points[3]}
			if viewBox.W < 0 || viewBox.H < 0 {
				return nil, attrError("svg", "viewBox", errors.New("negative size"))
			}
		case "width":
			width, err = c.parseDimension(attr.Value)
			if err != nil {
				return nil, attrError("svg", "width", err)
			}
		case "height":
			height, err = c.parseDimension(attr.Value)
			if err != nil {
				return nil, attrError("svg", "height", err)
			}
		}
	}

	if viewBox.IsEmpty() {
		// fallback on the width and height attributes,
		// completed by the default size
		def := c.opts.defaultSize
		if width <= 0 {
			width = def.W
		}
		if height <= 0 {
			height = def.H
		}
		if width <= 0 || height <= 0 {
			return nil, &ParseError{Kind: MissingDimensions, Element: "svg"}
		}
		viewBox = svgpath.Rect{W: width, H: height}
	}

	c.icon.ViewBox = viewBox
	c.icon.DocumentSize = viewBox.Size()
	root := newNode(KindGroup, "svg")
	c.icon.Root = root
	return root, nil
}

// nestedSvgF handles an inner <svg>, drawn as a group
// translated to its x, y attributes.
func nestedSvgF(c *iconCursor, attrs []xml.Attr) (*Node, error) {
	var (
		x, y float64
		err  error
	)
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return nil, attrError("svg", attr.Name.Local, err)
		}
	}
	n := newNode(KindGroup, "svg")
	n.Transform = svgpath.Identity.Translate(x, y)
	return n, nil
}

// g does nothing but push the style; the element name
// is set by the caller
func gF(_ *iconCursor, _ []xml.Attr) (*Node, error) {
	return newNode(KindGroup, "g"), nil
}

func rectF(c *iconCursor, attrs []xml.Attr) (*Node, error) {
	n := newNode(KindRect, "rect")
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x":
			n.X, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			n.Y, err = c.parseUnit(attr.Value, heightPercentage)
		case "width":
			n.W, err = c.parseUnit(attr.Value, widthPercentage)
		case "height":
			n.H, err = c.parseUnit(attr.Value, heightPercentage)
		case "rx":
			n.RX, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			n.RY, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return nil, attrError("rect", attr.Name.Local, err)
		}
	}
	return n, nil
}

func circleF(c *iconCursor, attrs []xml.Attr) (*Node, error) {
	n := newNode(KindEllipse, "ellipse")
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "cx":
			n.CX, err = c.parseUnit(attr.Value, widthPercentage)
		case "cy":
			n.CY, err = c.parseUnit(attr.Value, heightPercentage)
		case "r":
			n.Element = "circle"
			n.RX, err = c.parseUnit(attr.Value, diagPercentage)
			n.RY = n.RX
		case "rx":
			n.RX, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			n.RY, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return nil, attrError(n.Element, attr.Name.Local, err)
		}
	}
	return n, nil
}

func lineF(c *iconCursor, attrs []xml.Attr) (*Node, error) {
	var x1, x2, y1, y2 float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x1":
			x1, err = c.parseUnit(attr.Value, widthPercentage)
		case "x2":
			x2, err = c.parseUnit(attr.Value, widthPercentage)
		case "y1":
			y1, err = c.parseUnit(attr.Value, heightPercentage)
		case "y2":
			y2, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return nil, attrError("line", attr.Name.Local, err)
		}
	}
	n := newNode(KindPath, "line")
	n.Path.Start(svgpath.Point{X: x1, Y: y1})
	n.Path.Line(svgpath.Point{X: x2, Y: y2})
	return n, nil
}

func readPoints(element string, attrs []xml.Attr) (svgpath.Path, error) {
	var points []float64
	for _, attr := range attrs {
		if attr.Name.Local != "points" {
			continue
		}
		var err error
		points, err = svgpath.ParseNumberList(attr.Value)
		if err != nil {
			return nil, attrError(element, "points", err)
		}
		if len(points)%2 != 0 {
			return nil, attrError(element, "points", errors.New("odd number of coordinates"))
		}
	}
	var path svgpath.Path
	if len(points) >= 4 {
		path.Start(svgpath.Point{X: points[0], Y: points[1]})
		for i := 2; i < len(points)-1; i += 2 {
			path.Line(svgpath.Point{X: points[i], Y: points[i+1]})
		}
	}
	return path, nil
}

func polylineF(_ *iconCursor, attrs []xml.Attr) (*Node, error) {
	path, err := readPoints("polyline", attrs)
	if err != nil {
		return nil, err
	}
	n := newNode(KindPath, "polyline")
	n.Path = path
	return n, nil
}

func polygonF(_ *iconCursor, attrs []xml.Attr) (*Node, error) {
	path, err := readPoints("polygon", attrs)
	if err != nil {
		return nil, err
	}
	if len(path) != 0 {
		path.Stop(true)
	}
	n := newNode(KindPath, "polygon")
	n.Path = path
	return n, nil
}

func pathF(_ *iconCursor, attrs []xml.Attr) (*Node, error) {
	n := newNode(KindPath, "path")
	for _, attr := range attrs {
		if attr.Name.Local != "d" {
			continue
		}
		path, err := svgpath.ParsePath(attr.Value)
		if err != nil {
			return nil, &ParseError{Kind: MalformedPath, Element: "path", Attr: "d", Err: err}
		}
		n.Path = path
	}
	return n, nil
}

func descF(c *iconCursor, _ []xml.Attr) (*Node, error) {
	c.inDescText = true
	c.icon.Descriptions = append(c.icon.Descriptions, "")
	return nil, nil
}

func titleF(c *iconCursor, _ []xml.Attr) (*Node, error) {
	c.inTitleText = true
	c.icon.Titles = append(c.icon.Titles, "")
	return nil, nil
}

// useF instantiates a copy of the referenced element,
// translated by the x, y attributes.
// Only references to elements defined before the <use>
// are supported; other ones are skipped with a warning.
func useF(c *iconCursor, attrs []xml.Attr) (*Node, error) {
	var (
		href string
		x, y float64
		err  error
	)
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "href":
			href = attr.Value
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return nil, attrError("use", attr.Name.Local, err)
		}
	}
	n := newNode(KindGroup, "use")
	n.Transform = svgpath.Identity.Translate(x, y)

	id, ok := strings.CutPrefix(href, "#")
	if !ok {
		c.warn("Only local references are supported in <use>", zap.String("href", href))
		return n, nil
	}
	if id == "" {
		return nil, attrError("use", "href", errZeroLengthID)
	}
	ref, ok := c.ids[id]
	if !ok {
		c.warn("Unknown reference in <use>", zap.String("href", href))
		return n, nil
	}
	if c.isOpen(ref) {
		return nil, attrError("use", "href", errors.New("circular reference to "+href))
	}
	shared := ref.clone()
	shared.ID = "" // the copy is not addressable
	n.Children = []*Node{shared}
	return n, nil
}

// isOpen returns true if n is an ancestor of the current element
func (c *iconCursor) isOpen(n *Node) bool {
	for _, open := range c.stack {
		if open == n {
			return true
		}
	}
	return false
}
