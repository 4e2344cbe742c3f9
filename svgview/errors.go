package svgview

import (
	"errors"
	"fmt"
)

// ErrNoDocument is returned when rendering a session without document.
var ErrNoDocument = errors.New("svgview: no document loaded")

var (
	errNilSurface   = errors.New("nil surface")
	errSmallSurface = errors.New("surface smaller than requested")
)

// TransformError is returned when a transform can't be used
// for the requested operation, such as inverting a degenerate matrix.
type TransformError struct {
	Op  string
	Err error
}

func (e *TransformError) Error() string { return "svgview: " + e.Op + ": " + e.Err.Error() }

func (e *TransformError) Unwrap() error { return e.Err }

// SurfaceError is returned when the host does not provide
// a surface of the requested size.
type SurfaceError struct {
	Width, Height int
	Err           error
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("svgview: surface %dx%d unavailable: %s", e.Width, e.Height, e.Err)
}

func (e *SurfaceError) Unwrap() error { return e.Err }
