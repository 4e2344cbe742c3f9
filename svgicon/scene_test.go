package svgicon

import (
	"math"
	"testing"

	"github.com/benoitkugler/svgview/svgpath"
)

func rectApproxEqual(a, b svgpath.Rect, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.W-b.W) <= tol && math.Abs(a.H-b.H) <= tol
}

func TestSceneBounds(t *testing.T) {
	icon := parseString(t, `<svg viewBox="0 0 100 100">
		<rect x="10" y="10" width="20" height="20"/>
		<g transform="translate(50, 50) scale(2)">
			<circle r="5"/>
		</g>
		<rect x="-50" width="10" height="10" display="none"/>
	</svg>`)
	want := svgpath.Rect{X: 10, Y: 10, W: 50, H: 50}
	if got := icon.Bounds(); !rectApproxEqual(got, want, 1e-6) {
		t.Errorf("expected %v, got %v", want, got)
	}

	empty := parseString(t, `<svg viewBox="0 0 100 100"><g/></svg>`)
	if b := empty.Bounds(); b != (svgpath.Rect{}) {
		t.Errorf("expected empty bounds, got %v", b)
	}
}

func TestHitTest(t *testing.T) {
	icon := parseIcon(t, "testdata/shapes.svg")
	for _, test := range []struct {
		p           svgpath.Point
		element, id string
	}{
		{svgpath.Point{X: 5, Y: 5}, "rect", "background"},
		{svgpath.Point{X: 20, Y: 20}, "rect", ""},
		{svgpath.Point{X: 110, Y: 50}, "ellipse", ""},
		{svgpath.Point{X: 180, Y: 80}, "circle", ""},
		{svgpath.Point{X: 300, Y: 50}, "", ""},
	} {
		got := icon.HitTest(test.p)
		var element, id string
		if got != nil {
			element, id = got.Element, got.ID
		}
		if element != test.element || id != test.id {
			t.Errorf("HitTest(%v) = %q#%q, want %q#%q", test.p, element, id, test.element, test.id)
		}
	}
}

func TestOutline(t *testing.T) {
	for _, test := range []struct {
		node  Node
		empty bool
	}{
		{Node{Kind: KindRect, W: 10, H: 10}, false},
		{Node{Kind: KindRect, W: 0, H: 10}, true},
		{Node{Kind: KindEllipse, RX: 1, RY: 2}, false},
		{Node{Kind: KindEllipse, RX: 1}, true},
		{Node{Kind: KindGroup}, true},
	} {
		if got := len(test.node.Outline()) == 0; got != test.empty {
			t.Errorf("%s: unexpected outline %v", test.node.Kind, test.node.Outline())
		}
	}
}

func TestClone(t *testing.T) {
	n := newNode(KindGroup, "g")
	child := newNode(KindPath, "path")
	child.Path.Start(svgpath.Point{X: 1, Y: 1})
	n.Children = append(n.Children, child)

	c := n.clone()
	c.Children[0].Path[0] = svgpath.MoveTo{X: 5, Y: 5}
	c.Children = append(c.Children, newNode(KindRect, "rect"))
	if len(n.Children) != 1 || n.Children[0].Path[0] != (svgpath.MoveTo{X: 1, Y: 1}) {
		t.Errorf("clone should not share memory with the original")
	}
}
