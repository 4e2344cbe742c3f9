package svgview

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"
	"testing"

	"github.com/benoitkugler/svgview/svgicon"
	"github.com/benoitkugler/svgview/svgpath"
)

const redDocument = `<svg viewBox="0 0 100 50"><rect x="0" y="0" width="100" height="50" fill="#ff0000"/></svg>`

// isRed allows rounding errors in the rasterizer coverage
func isRed(c color.RGBA) bool {
	return c.R >= 0xfe && c.G == 0 && c.B == 0 && c.A >= 0xfe
}

// fakeHost allocates RGBA surfaces and records the calls
type fakeHost struct {
	requestErr  error
	finishErr   error
	undersized  bool
	requested   []image.Point
	finished    []draw.Image
	finishedErr []error
}

func (h *fakeHost) RequestSurface(width, height int) (draw.Image, error) {
	h.requested = append(h.requested, image.Pt(width, height))
	if h.requestErr != nil {
		return nil, h.requestErr
	}
	if h.undersized {
		width /= 2
	}
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

func (h *fakeHost) FinishedRendering(dst draw.Image, err error) error {
	h.finished = append(h.finished, dst)
	h.finishedErr = append(h.finishedErr, err)
	return h.finishErr
}

func newLoadedSession(t *testing.T, host Host, content string) *Session {
	t.Helper()
	s := NewSession(host)
	if err := s.Load(strings.NewReader(content)); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRenderFit(t *testing.T) {
	host := &fakeHost{}
	s := newLoadedSession(t, host, redDocument)
	s.SetViewFrame(svgpath.Size{W: 200, H: 100})

	if vs := s.ViewState(); vs != (ViewState{ScaleX: 2, ScaleY: 2}) {
		t.Errorf("unexpected fit state %v", vs)
	}
	if err := s.Render(); err != nil {
		t.Fatal(err)
	}
	if len(host.finished) != 1 || host.finishedErr[0] != nil {
		t.Fatalf("unexpected host calls %v", host.finishedErr)
	}
	if host.requested[0] != image.Pt(200, 100) {
		t.Errorf("unexpected surface size %v", host.requested[0])
	}
	img := host.finished[0].(*image.RGBA)
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			if c := img.RGBAAt(x, y); !isRed(c) {
				t.Fatalf("pixel (%d, %d): expected red, got %v", x, y, c)
			}
		}
	}
}

func TestResetIdentity(t *testing.T) {
	s := newLoadedSession(t, &fakeHost{}, redDocument)
	s.SetRotation(45)
	s.SetOffsetX(10)
	s.ResetScale()
	if m := s.Transform(); !m.ApproxEqual(svgpath.Identity, 1e-9) {
		t.Errorf("expected identity, got %v", m)
	}
	// the frame defaults to the document size
	if f := s.ViewFrame(); f != (svgpath.Size{W: 100, H: 50}) {
		t.Errorf("unexpected frame %v", f)
	}
}

func TestAutoFit(t *testing.T) {
	s := newLoadedSession(t, &fakeHost{}, redDocument)
	s.SetViewFrame(svgpath.Size{W: 50, H: 50})
	if sx := s.ScaleX(); sx != 0.5 {
		t.Errorf("expected fit scale 0.5, got %g", sx)
	}
	s.SetViewFrame(svgpath.Size{W: 300, H: 300})
	if sx := s.ScaleX(); sx != 3 {
		t.Errorf("expected fit scale to follow the frame, got %g", sx)
	}

	// explicit values stop the auto fit
	s.SetScaleY(1)
	s.SetViewFrame(svgpath.Size{W: 100, H: 100})
	if vs := s.ViewState(); vs.ScaleX != 3 || vs.ScaleY != 1 {
		t.Errorf("unexpected state %v", vs)
	}

	// a failed load keeps everything
	if err := s.Load(strings.NewReader("<svg")); err == nil {
		t.Fatal("expected parse error")
	}
	if vs := s.ViewState(); vs.ScaleX != 3 || vs.ScaleY != 1 || s.DocumentSize() != (svgpath.Size{W: 100, H: 50}) {
		t.Errorf("unexpected state after failed load %v", vs)
	}

	// a new document restores the auto fit
	if err := s.Load(strings.NewReader(`<svg width="10" height="10"/>`)); err != nil {
		t.Fatal(err)
	}
	if vs := s.ViewState(); vs != (ViewState{ScaleX: 10, ScaleY: 10}) {
		t.Errorf("unexpected state after load %v", vs)
	}
}

func TestRenderErrors(t *testing.T) {
	if err := NewSession(&fakeHost{}).Render(); err != ErrNoDocument {
		t.Errorf("expected ErrNoDocument, got %v", err)
	}

	errHost := errors.New("no more memory")
	host := &fakeHost{requestErr: errHost}
	s := newLoadedSession(t, host, redDocument)
	s.SetRotation(12)
	before := s.ViewState()
	err := s.Render()
	var se *SurfaceError
	if !errors.As(err, &se) || !errors.Is(err, errHost) || se.Width != 100 || se.Height != 50 {
		t.Errorf("expected a surface error, got %v", err)
	}
	if len(host.finished) != 0 {
		t.Error("no surface should be released")
	}
	if s.ViewState() != before {
		t.Error("render should not modify the view state")
	}

	// the surface is released with the error
	host = &fakeHost{undersized: true}
	s = newLoadedSession(t, host, redDocument)
	err = s.Render()
	if !errors.As(err, &se) {
		t.Errorf("expected a surface error, got %v", err)
	}
	if len(host.finished) != 1 || host.finishedErr[0] != err {
		t.Errorf("expected the surface to be released with the error")
	}

	// host errors are combined
	host = &fakeHost{finishErr: errors.New("can't save")}
	s = newLoadedSession(t, host, redDocument)
	if err = s.Render(); err == nil || err.Error() != "can't save" {
		t.Errorf("expected the host error, got %v", err)
	}
}

func TestSessionMapping(t *testing.T) {
	s := newLoadedSession(t, &fakeHost{}, `<svg viewBox="0 0 100 100">
		<rect id="left" width="50" height="100" fill="red"/>
		<rect id="right" x="50" width="50" height="100" fill="blue"/>
	</svg>`)
	s.SetViewFrame(svgpath.Size{W: 200, H: 200})
	s.SetRotation(180)

	p := svgpath.Point{X: 20, Y: 30}
	if got := s.DocumentToViewPoint(s.ViewToDocumentPoint(p)); !pointsClose(got, p) {
		t.Errorf("round trip of %v gives %v", p, got)
	}
	// the view is upside down
	if n := s.HitTest(svgpath.Point{X: 20, Y: 100}); n == nil || n.ID != "right" {
		t.Errorf("unexpected hit %v", n)
	}
	if n := s.HitTest(svgpath.Point{X: 300, Y: 100}); n != nil {
		t.Errorf("unexpected hit %v", n)
	}

	s.Locate(svgpath.Point{X: 150, Y: 150}, svgpath.Size{W: 20, H: 20})
	if got := s.DocumentToViewPoint(svgpath.Point{X: 50, Y: 50}); !pointsClose(got, svgpath.Point{X: 150, Y: 150}) {
		t.Errorf("document center mapped to %v", got)
	}
	if vs := s.ViewState(); vs.ScaleX != 0.2 || vs.Rotation != 180 {
		t.Errorf("unexpected state %v", vs)
	}

	s.SetScale(0)
	p = svgpath.Point{X: 1, Y: 2}
	if got := s.ViewToDocumentPoint(p); got != p {
		t.Errorf("expected identity fallback, got %v", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := newLoadedSession(t, &lockedHost{}, redDocument)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.SetRotation(float64(i * 10))
			s.SetViewFrame(svgpath.Size{W: float64(10 + i), H: 10})
		}(i)
		go func() {
			defer wg.Done()
			if err := s.Render(); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}

func TestConcurrentHitTest(t *testing.T) {
	var icons []*svgicon.SceneGraph
	for _, content := range []string{
		`<svg viewBox="0 0 10 10"><rect id="small" x="4" y="4" width="2" height="2"/></svg>`,
		`<svg viewBox="0 0 1000 1000"><rect id="large" x="400" y="400" width="200" height="200"/></svg>`,
	} {
		icon, err := svgicon.ReadIconStream(strings.NewReader(content))
		if err != nil {
			t.Fatal(err)
		}
		icons = append(icons, icon)
	}
	s := NewSession(nil)
	s.SetDocument(icons[0])
	s.SetViewFrame(svgpath.Size{W: 100, H: 100})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.SetDocument(icons[i%2])
		}
	}()
	go func() {
		defer wg.Done()
		// the view center always shows the center of the current document
		for i := 0; i < 200; i++ {
			if n := s.HitTest(svgpath.Point{X: 50, Y: 50}); n == nil {
				t.Error("document and transform are out of sync")
				return
			}
		}
	}()
	wg.Wait()
}

// lockedHost may be shared between goroutines
type lockedHost struct {
	mu   sync.Mutex
	host fakeHost
}

func (h *lockedHost) RequestSurface(width, height int) (draw.Image, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.host.RequestSurface(width, height)
}

func (h *lockedHost) FinishedRendering(dst draw.Image, err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.host.FinishedRendering(dst, err)
}

func TestDrawDoesNotModifyState(t *testing.T) {
	icon, err := svgicon.ReadIconStream(strings.NewReader(redDocument))
	if err != nil {
		t.Fatal(err)
	}
	vs := ViewState{ScaleX: 1, ScaleY: 1, Rotation: 10}
	dst := image.NewRGBA(image.Rect(0, 0, 100, 50))
	Draw(dst, icon, svgpath.Size{W: 100, H: 50}, vs)
	if vs != (ViewState{ScaleX: 1, ScaleY: 1, Rotation: 10}) {
		t.Error("state modified")
	}
	if c := dst.RGBAAt(50, 25); !isRed(c) {
		t.Errorf("unexpected center %v", c)
	}
}
