package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benoitkugler/svgview/svgview"
)

var _ svgview.Host = (*imageHost)(nil)

// imageHost provides RGBA surfaces and saves the finished ones
// to a file, encoded according to its extension.
type imageHost struct {
	path        string
	format      imaging.Format
	jpegQuality int
	background  color.Color // nil for transparent
	log         *zap.Logger
}

func newImageHost(path string, log *zap.Logger) (*imageHost, error) {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return nil, fmt.Errorf("unable to select output format for '%s': %w", path, err)
	}
	return &imageHost{path: path, format: format, jpegQuality: 95, log: log}, nil
}

func (h *imageHost) RequestSurface(width, height int) (draw.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if h.background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(h.background), image.Point{}, draw.Src)
	}
	return img, nil
}

func (h *imageHost) FinishedRendering(dst draw.Image, renderErr error) (err error) {
	if renderErr != nil {
		h.log.Debug("Discarding image", zap.String("file", h.path), zap.Error(renderErr))
		return nil
	}

	out, err := os.Create(h.path)
	if err != nil {
		return fmt.Errorf("unable to create destination file '%s': %w", h.path, err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(out))

	if err = imaging.Encode(out, dst, h.format,
		imaging.PNGCompressionLevel(png.BestCompression),
		imaging.JPEGQuality(h.jpegQuality)); err != nil {
		return fmt.Errorf("unable to encode %s image: %w", h.format, err)
	}
	h.log.Info("Image saved", zap.String("file", h.path), zap.Stringer("format", h.format),
		zap.Int("width", dst.Bounds().Dx()), zap.Int("height", dst.Bounds().Dy()))
	return nil
}
