package svgpath

import (
	"math"
	"testing"
)

const tol = 1e-9

func closeTo(a, b Point) bool {
	return math.Abs(a.X-b.X) <= 1e-6 && math.Abs(a.Y-b.Y) <= 1e-6
}

func TestMatrixComposition(t *testing.T) {
	// translate is applied last
	m := Identity.Translate(10, 20).Scale(2, 3)
	if got := m.Transform(Point{1, 1}); !closeTo(got, Point{12, 23}) {
		t.Errorf("Transform() = %v, want {12 23}", got)
	}

	r := Identity.Rotate(math.Pi / 2)
	if got := r.Transform(Point{1, 0}); !closeTo(got, Point{0, 1}) {
		t.Errorf("Rotate(pi/2) = %v, want {0 1}", got)
	}

	if !Identity.Mult(m).ApproxEqual(m, tol) || !m.Mult(Identity).ApproxEqual(m, tol) {
		t.Error("Identity is not neutral")
	}
}

func TestMatrixInvert(t *testing.T) {
	for _, m := range []Matrix2D{
		Identity,
		Identity.Translate(-4, 7),
		Identity.Scale(0.5, 4).Rotate(0.3).Translate(2, 2),
		Identity.SkewX(0.2).SkewY(-0.4).Scale(-1, 1),
		{1, 2, 3, 4, 5, 6},
		// strong zoom out on large coordinates
		Identity.Scale(1e-7, 1e-7).Translate(-5e5, -5e5),
	} {
		inv, err := m.Invert()
		if err != nil {
			t.Fatalf("Invert(%v) error = %v", m, err)
		}
		if !m.Mult(inv).ApproxEqual(Identity, 1e-9) {
			t.Errorf("m * inv(m) = %v, want identity", m.Mult(inv))
		}
		for _, p := range []Point{{0, 0}, {1, -3}, {250.5, 1e3}} {
			if got := inv.Transform(m.Transform(p)); !closeTo(got, p) {
				t.Errorf("round trip of %v = %v", p, got)
			}
		}
	}
}

func TestMatrixDegenerate(t *testing.T) {
	for _, m := range []Matrix2D{
		Identity.Scale(0, 1),
		{1, 2, 2, 4, 0, 0},
		{1, 2, 1, 2 + 1e-14, 0, 0},
		{},
	} {
		inv, err := m.Invert()
		if err != ErrNonInvertible {
			t.Errorf("Invert(%v) error = %v, want ErrNonInvertible", m, err)
		}
		if inv != Identity {
			t.Errorf("Invert(%v) = %v, want identity fallback", m, inv)
		}
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, -5, 10, 10}
	if got := a.Union(b); got != (Rect{0, -5, 15, 15}) {
		t.Errorf("Union() = %v", got)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("Union() with zero = %v, want %v", got, b)
	}
	if !a.Contains(Point{10, 0}) || a.Contains(Point{10.1, 0}) {
		t.Error("Contains() is wrong on borders")
	}
}
