// Provides parsing of SVG documents into a scene graph.
// SVG files are parsed into an abstract representation,
// which can then be consumed by painting drivers.
// See for example svgview/svgraster.
package svgicon

import (
	"encoding/xml"
	"errors"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// ReadIconStream reads the document from the given io.Reader.
// This only supports a sub-set of SVG (shapes, paths, groups, use and
// plain color styling), but is enough to draw many icons.
// Loading is all-or-nothing: on error, no SceneGraph is returned,
// and the error is a *ParseError.
func ReadIconStream(stream io.Reader, opts ...Option) (*SceneGraph, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	cursor := newCursor(options)
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, &ParseError{Kind: MalformedXML, Err: err}
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			if err = cursor.readStartElement(se); err != nil {
				return nil, err
			}
		case xml.EndElement:
			cursor.readEndElement(se)
		case xml.CharData:
			cursor.readCharData(se)
		}
	}
	if cursor.icon.Root == nil {
		return nil, &ParseError{Kind: MalformedXML, Err: errNoRoot}
	}
	options.logger.Debug("Parsed svg document",
		zap.Float64("width", cursor.icon.DocumentSize.W),
		zap.Float64("height", cursor.icon.DocumentSize.H),
		zap.Int("warnings", len(cursor.icon.Warnings)))
	return cursor.icon, nil
}

// ReadIcon reads the document from the named file.
// See ReadIconStream for the supported options.
func ReadIcon(iconFile string, opts ...Option) (*SceneGraph, error) {
	fin, errf := os.Open(iconFile)
	if errf != nil {
		return nil, errf
	}
	defer fin.Close()
	return ReadIconStream(fin, opts...)
}

// IsParseError returns true if err is, or wraps, a *ParseError of the given kind.
func IsParseError(err error, kind ErrorKind) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == kind
}
