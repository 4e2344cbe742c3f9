package svgpath

import (
	"errors"
	"math"
	"testing"
)

func TestParsePath(t *testing.T) {
	for _, test := range []struct {
		d    string
		want string
	}{
		{"", ""},
		{"M10 20 L30 40", "M10.000,20.000 L30.000,40.000"},
		{"m10,20 l5,5 h10 v-5 z", "M10.000,20.000 L15.000,25.000 L25.000,25.000 L25.000,20.000 Z"},
		{"M0 0 10 0 10 10", "M0.000,0.000 L10.000,0.000 L10.000,10.000"},
		{"m1 1 2 2", "M1.000,1.000 L3.000,3.000"},
		{"M0,0C1,2 3,4 5,6S9,10 11,12", "M0.000,0.000 C1.000,2.000,3.000,4.000,5.000,6.000 C7.000,8.000,9.000,10.000,11.000,12.000"},
		{"M0 0Q5 5 10 0T20 0", "M0.000,0.000 Q5.000,5.000,10.000,0.000 Q15.000,-5.000,20.000,0.000"},
		{"M0 0S5 5 10 0", "M0.000,0.000 C0.000,0.000,5.000,5.000,10.000,0.000"},
		{"M.5.5L-1-1", "M0.500,0.500 L-1.000,-1.000"},
		{"M1e1 2E-1", "M10.000,0.200"},
		{"M0 0 A0 5 0 0 1 10 0", "M0.000,0.000 L10.000,0.000"},
		{"M0 0 L10 0 Z l5 5", "M0.000,0.000 L10.000,0.000 Z M0.000,0.000 L5.000,5.000"},
	} {
		p, err := ParsePath(test.d)
		if err != nil {
			t.Fatalf("ParsePath(%q) error = %v", test.d, err)
		}
		if got := p.ToSVGPath(); got != test.want {
			t.Errorf("ParsePath(%q) = %q, want %q", test.d, got, test.want)
		}
	}
}

func TestParsePathArc(t *testing.T) {
	p, err := ParsePath("M0 0 A5 5 0 0 1 10 0")
	if err != nil {
		t.Fatal(err)
	}
	last, ok := p[len(p)-1].(CubicTo)
	if !ok {
		t.Fatalf("expected cubic approximation, got %v", p)
	}
	if last[2] != (Point{10, 0}) {
		t.Errorf("arc end point = %v, want {10 0}", last[2])
	}
	bounds, _ := p.Bounds(Identity)
	if math.Abs(bounds.W-10) > 1e-3 || math.Abs(bounds.H-5) > 1e-2 {
		t.Errorf("half circle bounds = %v", bounds)
	}
	// a positive sweep goes through the top with y pointing down
	if math.Abs(bounds.Y+5) > 1e-2 {
		t.Errorf("half circle should be above the x axis, got %v", bounds)
	}

	// compact flags
	q, err := ParsePath("M0 0a5 5 0 1110 0")
	if err != nil {
		t.Fatal(err)
	}
	if end := q[len(q)-1].(CubicTo)[2]; end != (Point{10, 0}) {
		t.Errorf("arc end point = %v, want {10 0}", end)
	}

	// radii too small are scaled up
	r, err := ParsePath("M0 0 A1 1 0 0 0 10 0")
	if err != nil {
		t.Fatal(err)
	}
	if bounds, _ := r.Bounds(Identity); math.Abs(bounds.H-5) > 1e-2 {
		t.Errorf("scaled arc bounds = %v", bounds)
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, d := range []string{
		"L10 10",
		"10 10",
		"M10",
		"M10 10 L",
		"M0 0 X 1 2",
		"M0 0 Z 5",
		"M0 0 A5 5 0 2 1 10 0",
		"M0 0 L1 .",
	} {
		_, err := ParsePath(d)
		var perr *PathError
		if !errors.As(err, &perr) {
			t.Errorf("ParsePath(%q) error = %v, want *PathError", d, err)
		}
	}
}

func TestParseNumberList(t *testing.T) {
	got, err := ParseNumberList(" 0, 0 100\t50 ")
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0, 100, 50}
	if len(got) != len(want) {
		t.Fatalf("ParseNumberList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseNumberList()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if _, err := ParseNumberList("1 a 2"); err == nil {
		t.Error("expected error for invalid list")
	}
}

func TestPathBounds(t *testing.T) {
	var p Path
	p.AddEllipse(10, 10, 5, 2)
	b, ok := p.Bounds(Identity)
	if !ok {
		t.Fatal("expected bounds")
	}
	if math.Abs(b.X-5) > 1e-9 || math.Abs(b.Y-8) > 1e-9 || math.Abs(b.W-10) > 1e-9 || math.Abs(b.H-4) > 1e-9 {
		t.Errorf("ellipse bounds = %v", b)
	}

	b, _ = p.Bounds(Identity.Scale(2, 2))
	if math.Abs(b.W-20) > 1e-9 || math.Abs(b.H-8) > 1e-9 {
		t.Errorf("scaled ellipse bounds = %v", b)
	}

	if _, ok := (Path{}).Bounds(Identity); ok {
		t.Error("empty path should have no bounds")
	}

	var q Path
	q.QuadBezier(Point{5, 10}, Point{10, 0}) // no start: from origin
	q = append(Path{MoveTo{0, 0}}, q...)
	b, _ = q.Bounds(Identity)
	if math.Abs(b.H-5) > 1e-9 {
		t.Errorf("quad bounds = %v, want height 5", b)
	}
}

func TestRoundRect(t *testing.T) {
	var p Path
	p.AddRoundRect(0, 0, 10, 4, 3, 0)
	b, _ := p.Bounds(Identity)
	if math.Abs(b.W-10) > 1e-9 || math.Abs(b.H-4) > 1e-9 {
		t.Errorf("round rect bounds = %v", b)
	}
	if _, ok := p[len(p)-1].(Close); !ok {
		t.Error("round rect should be closed")
	}
}
