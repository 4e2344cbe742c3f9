package svgview

import (
	"image/draw"
	"io"
	"math"
	"sync"
	"time"

	"github.com/benoitkugler/svgview/svgicon"
	"github.com/benoitkugler/svgview/svgpath"
	"github.com/benoitkugler/svgview/svgraster"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Host owns the drawing surfaces.
type Host interface {
	// RequestSurface returns a surface of (at least) the requested size,
	// with its origin at (0, 0).
	RequestSurface(width, height int) (draw.Image, error)

	// FinishedRendering is called once for every surface returned by RequestSurface.
	// When err is not nil, the content of dst is undefined and should be discarded.
	FinishedRendering(dst draw.Image, err error) error
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithLogger sets the logger of the session. A nil logger disables logging.
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger == nil {
			logger = zap.NewNop()
		}
		s.logger = logger
	}
}

// WithParseOptions sets the options used when loading documents.
func WithParseOptions(opts ...svgicon.Option) SessionOption {
	return func(s *Session) { s.parseOpts = append(s.parseOpts, opts...) }
}

// Session is a rendering session: it holds one document, the view frame
// and the view state, and renders on surfaces provided by its Host.
// Its methods are safe for concurrent use.
//
// Until a view parameter is explicitly set, the session is in auto-fit mode:
// the view state is Fit(DocumentSize, ViewFrame), following frame changes.
type Session struct {
	host      Host
	logger    *zap.Logger
	parseOpts []svgicon.Option

	mu      sync.RWMutex
	icon    *svgicon.SceneGraph
	frame   svgpath.Size // empty means the document size
	state   ViewState
	autoFit bool
}

// NewSession returns a session without document.
func NewSession(host Host, opts ...SessionOption) *Session {
	s := &Session{host: host, logger: zap.NewNop(), autoFit: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load parses a new document. On failure the previous document is kept.
func (s *Session) Load(r io.Reader) error {
	icon, err := svgicon.ReadIconStream(r, append([]svgicon.Option{svgicon.WithLogger(s.logger)}, s.parseOpts...)...)
	if err != nil {
		s.logger.Warn("Failed to load document", zap.Error(err))
		return err
	}
	s.SetDocument(icon)
	return nil
}

// LoadFile parses the document at `path`. On failure the previous document is kept.
func (s *Session) LoadFile(path string) error {
	icon, err := svgicon.ReadIcon(path, append([]svgicon.Option{svgicon.WithLogger(s.logger)}, s.parseOpts...)...)
	if err != nil {
		s.logger.Warn("Failed to load document", zap.String("path", path), zap.Error(err))
		return err
	}
	s.SetDocument(icon)
	return nil
}

// SetDocument replaces the document by an already parsed one,
// and resets the view to auto-fit.
func (s *Session) SetDocument(icon *svgicon.SceneGraph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.icon = icon
	s.autoFit = true
}

// Document returns the current document, or nil.
func (s *Session) Document() *svgicon.SceneGraph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.icon
}

// DocumentSize returns the intrinsic size of the document,
// or an empty size if there is no document.
func (s *Session) DocumentSize() svgpath.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.icon == nil {
		return svgpath.Size{}
	}
	return s.icon.DocumentSize
}

// ViewBox returns the viewBox of the document.
func (s *Session) ViewBox() svgpath.Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.icon == nil {
		return svgpath.Rect{}
	}
	return s.icon.ViewBox
}

// SetViewFrame sets the size of the view. An empty size
// means the document size.
func (s *Session) SetViewFrame(frame svgpath.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = frame
}

// ViewFrame returns the effective size of the view.
func (s *Session) ViewFrame() svgpath.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewFrame()
}

func (s *Session) viewFrame() svgpath.Size {
	if s.frame.IsEmpty() && s.icon != nil {
		return s.icon.DocumentSize
	}
	return s.frame
}

// viewState must be called with the lock held
func (s *Session) viewState() ViewState {
	if s.autoFit {
		if s.icon == nil {
			return ViewState{ScaleX: 1, ScaleY: 1}
		}
		return Fit(s.icon.DocumentSize, s.viewFrame())
	}
	return s.state
}

// update applies `fn` to the current state and leaves the auto-fit mode
func (s *Session) update(fn func(vs *ViewState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs := s.viewState()
	fn(&vs)
	s.state, s.autoFit = vs, false
}

// ResetScale fits the document in the view, removing offsets and rotation.
// The resulting state is kept when the frame changes.
func (s *Session) ResetScale() {
	s.update(func(vs *ViewState) {
		if s.icon == nil {
			*vs = ViewState{ScaleX: 1, ScaleY: 1}
			return
		}
		*vs = Fit(s.icon.DocumentSize, s.viewFrame())
	})
}

// ViewState returns the effective view state.
func (s *Session) ViewState() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewState()
}

// SetViewState replaces the view state.
func (s *Session) SetViewState(vs ViewState) { s.update(func(v *ViewState) { *v = vs }) }

func (s *Session) ScaleX() float64   { return s.ViewState().ScaleX }
func (s *Session) ScaleY() float64   { return s.ViewState().ScaleY }
func (s *Session) OffsetX() float64  { return s.ViewState().OffsetX }
func (s *Session) OffsetY() float64  { return s.ViewState().OffsetY }
func (s *Session) Rotation() float64 { return s.ViewState().Rotation }

func (s *Session) SetScaleX(v float64)   { s.update(func(vs *ViewState) { vs.ScaleX = v }) }
func (s *Session) SetScaleY(v float64)   { s.update(func(vs *ViewState) { vs.ScaleY = v }) }
func (s *Session) SetOffsetX(v float64)  { s.update(func(vs *ViewState) { vs.OffsetX = v }) }
func (s *Session) SetOffsetY(v float64)  { s.update(func(vs *ViewState) { vs.OffsetY = v }) }
func (s *Session) SetRotation(v float64) { s.update(func(vs *ViewState) { vs.Rotation = v }) }

// SetScale sets both scales.
func (s *Session) SetScale(v float64) {
	s.update(func(vs *ViewState) { vs.ScaleX, vs.ScaleY = v, v })
}

// snapshot returns a consistent copy of the rendering inputs
func (s *Session) snapshot() (*svgicon.SceneGraph, svgpath.Size, ViewState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.icon, s.viewFrame(), s.viewState()
}

func (s *Session) mapper() Mapper {
	icon, frame, vs := s.snapshot()
	var vb svgpath.Rect
	if icon != nil {
		vb = icon.ViewBox
	}
	return NewMapper(vb, frame, vs)
}

// Transform returns the document to view transform.
func (s *Session) Transform() svgpath.Matrix2D { return s.mapper().M }

// ViewToDocumentPoint maps a view point to document space.
// A degenerate transform maps points to themselves.
func (s *Session) ViewToDocumentPoint(p svgpath.Point) svgpath.Point {
	return s.mapper().ToDocument(p)
}

// DocumentToViewPoint maps a document point to the view.
func (s *Session) DocumentToViewPoint(p svgpath.Point) svgpath.Point {
	return s.mapper().ToView(p)
}

// Locate scales the document to fit in `box`, centered on the view point `at`,
// keeping the current rotation. An empty box is ignored.
func (s *Session) Locate(at svgpath.Point, box svgpath.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.icon == nil || box.IsEmpty() {
		return
	}
	s.state = Locate(s.viewState(), s.icon.ViewBox, s.viewFrame(), at, box)
	s.autoFit = false
}

// HitTest returns the topmost painted node under the view point `p`, or nil.
func (s *Session) HitTest(p svgpath.Point) *svgicon.Node {
	icon, frame, vs := s.snapshot()
	if icon == nil {
		return nil
	}
	return icon.HitTest(NewMapper(icon.ViewBox, frame, vs).ToDocument(p))
}

// Render draws the document on a new surface requested to the host,
// with the size of the view frame (rounded up).
// The host is notified with FinishedRendering on every path once
// the surface has been provided.
func (s *Session) Render() (err error) {
	icon, frame, vs := s.snapshot()
	if icon == nil {
		return ErrNoDocument
	}
	width, height := int(math.Ceil(frame.W)), int(math.Ceil(frame.H))

	dst, err := s.host.RequestSurface(width, height)
	if err != nil {
		return &SurfaceError{Width: width, Height: height, Err: err}
	}
	defer func() {
		err = multierr.Append(err, s.host.FinishedRendering(dst, err))
	}()
	if dst == nil {
		return &SurfaceError{Width: width, Height: height, Err: errNilSurface}
	}
	if b := dst.Bounds(); b.Dx() < width || b.Dy() < height {
		return &SurfaceError{Width: width, Height: height, Err: errSmallSurface}
	}

	start := time.Now()
	Draw(dst, icon, frame, vs)
	s.logger.Debug("Rendered document",
		zap.Int("width", width), zap.Int("height", height),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Draw paints `icon` on `dst`, placed in a view of size `frame` according to `vs`.
// Neither `icon` nor `vs` are modified.
func Draw(dst draw.Image, icon *svgicon.SceneGraph, frame svgpath.Size, vs ViewState) {
	svgraster.Draw(dst, icon, Placement(icon.ViewBox, frame, vs))
}
