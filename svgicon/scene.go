package svgicon

import (
	"github.com/benoitkugler/svgview/svgpath"
)

// NodeKind is the tag of the Node variant.
type NodeKind uint8

const (
	KindGroup NodeKind = iota
	KindPath
	KindRect
	KindEllipse
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindPath:
		return "path"
	case KindRect:
		return "rect"
	case KindEllipse:
		return "ellipse"
	default:
		return "<unknown NodeKind>"
	}
}

// Node is a drawable element of the scene graph.
// The fields used depend on Kind:
//   - KindGroup: Children, in paint order
//   - KindPath: Path (also used for line, polyline and polygon)
//   - KindRect: X, Y, W, H, RX, RY
//   - KindEllipse: CX, CY, RX, RY (also used for circle)
type Node struct {
	Kind    NodeKind
	Element string // the SVG element name
	ID      string

	Transform svgpath.Matrix2D // local transform, in the parent space
	Style     Style
	Hidden    bool // display:none, the whole subtree is skipped

	Children []*Node

	Path svgpath.Path

	X, Y, W, H float64
	CX, CY     float64
	RX, RY     float64
}

func newNode(kind NodeKind, element string) *Node {
	return &Node{Kind: kind, Element: element, Transform: svgpath.Identity}
}

// Outline returns the geometry of a leaf node as a path,
// in its local coordinates. Groups return nil.
func (n *Node) Outline() svgpath.Path {
	switch n.Kind {
	case KindPath:
		return n.Path
	case KindRect:
		if n.W <= 0 || n.H <= 0 {
			return nil
		}
		var p svgpath.Path
		p.AddRoundRect(n.X, n.Y, n.X+n.W, n.Y+n.H, n.RX, n.RY)
		return p
	case KindEllipse:
		if n.RX <= 0 || n.RY <= 0 {
			return nil
		}
		var p svgpath.Path
		p.AddEllipse(n.CX, n.CY, n.RX, n.RY)
		return p
	}
	return nil
}

// clone returns a deep copy of the subtree.
func (n *Node) clone() *Node {
	out := *n
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.clone()
		}
	}
	if n.Path != nil {
		out.Path = append(svgpath.Path(nil), n.Path...)
	}
	if n.Style.Dash.Dash != nil {
		out.Style.Dash.Dash = append([]float64(nil), n.Style.Dash.Dash...)
	}
	return &out
}

// SceneGraph holds data from parsed SVGs.
// It is immutable once returned by ReadIconStream, and may
// be drawn concurrently.
// See the `Draw` method to use it.
type SceneGraph struct {
	Root *Node // the root <svg> group

	ViewBox      svgpath.Rect
	DocumentSize svgpath.Size // the intrinsic size, always positive

	Titles       []string // Title elements collect here
	Descriptions []string // Description elements collect here
	Warnings     []error  // unsupported content which has been skipped
}

// WalkFunc is called for each visible node, with its composed
// transform (from the node local space to the target space)
// and its effective style.
type WalkFunc func(n *Node, m svgpath.Matrix2D, style ResolvedStyle)

// Walk visits the nodes depth-first, in paint order, starting with
// the transform `m`. Hidden nodes and their subtrees are skipped.
func (s *SceneGraph) Walk(m svgpath.Matrix2D, fn WalkFunc) {
	if s.Root == nil {
		return
	}
	walk(s.Root, m, DefaultStyle, fn)
}

func walk(n *Node, m svgpath.Matrix2D, parent ResolvedStyle, fn WalkFunc) {
	if n.Hidden {
		return
	}
	m = m.Mult(n.Transform)
	style := n.Style.Resolve(parent)
	fn(n, m, style)
	for _, child := range n.Children {
		walk(child, m, style, fn)
	}
}

// Bounds returns the union of the painted geometry,
// in document space. Strokes are not taken into account.
func (s *SceneGraph) Bounds() svgpath.Rect {
	var out svgpath.Rect
	s.Walk(svgpath.Identity, func(n *Node, m svgpath.Matrix2D, _ ResolvedStyle) {
		if b, ok := n.Outline().Bounds(m); ok {
			out = out.Union(b)
		}
	})
	return out
}

// HitTest returns the topmost leaf node whose bounding box
// contains the point `p`, expressed in document space,
// or nil if there is none.
// Only painted nodes (with a fill or a stroke) are considered.
func (s *SceneGraph) HitTest(p svgpath.Point) *Node {
	var hit *Node
	s.Walk(svgpath.Identity, func(n *Node, m svgpath.Matrix2D, style ResolvedStyle) {
		if n.Kind == KindGroup || !(style.WillFill() || style.WillStroke()) {
			return
		}
		if b, ok := n.Outline().Bounds(m); ok && b.Contains(p) {
			hit = n // later nodes are painted over
		}
	})
	return hit
}

// Find returns the first node with the given id, or nil.
func (s *SceneGraph) Find(id string) *Node {
	var find func(n *Node) *Node
	find = func(n *Node) *Node {
		if n.ID == id {
			return n
		}
		for _, c := range n.Children {
			if f := find(c); f != nil {
				return f
			}
		}
		return nil
	}
	if s.Root == nil || id == "" {
		return nil
	}
	return find(s.Root)
}
