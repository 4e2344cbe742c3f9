package svgicon

import (
	"github.com/benoitkugler/svgview/svgpath"
	"go.uber.org/zap"
)

// Option customizes the parsing of a document.
type Option func(*options)

type options struct {
	errorMode   ErrorMode
	logger      *zap.Logger
	defaultSize svgpath.Size // used if the document has no size, when not empty
}

func defaultOptions() options {
	return options{errorMode: WarnErrorMode, logger: zap.NewNop()}
}

// WithErrorMode determines if the parser ignores, errors out, or logs a warning
// if it does not handle an element found in the file.
func WithErrorMode(mode ErrorMode) Option {
	return func(o *options) { o.errorMode = mode }
}

// WithLogger sets the logger used to report warnings.
// A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = zap.NewNop()
		}
		o.logger = logger
	}
}

// WithDefaultSize provides the intrinsic size used for documents
// without viewBox nor width and height attributes.
// Without this option, such documents are rejected.
func WithDefaultSize(width, height float64) Option {
	return func(o *options) { o.defaultSize = svgpath.Size{W: width, H: height} }
}
