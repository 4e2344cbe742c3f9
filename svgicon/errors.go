package svgicon

import (
	"errors"
	"fmt"
)

// ErrorMode is the for setting how the parser reacts to unparsed elements
type ErrorMode uint8

const (
	// WarnErrorMode logs a warning (and records it in SceneGraph.Warnings)
	// for each unsupported element. This is the default.
	WarnErrorMode ErrorMode = iota
	// IgnoreErrorMode silently skips unsupported elements
	IgnoreErrorMode
	// StrictErrorMode aborts the parsing on the first unsupported element
	StrictErrorMode
)

func (m ErrorMode) String() string {
	switch m {
	case IgnoreErrorMode:
		return "ignore"
	case WarnErrorMode:
		return "warn"
	case StrictErrorMode:
		return "strict"
	default:
		return fmt.Sprintf("<unknown ErrorMode %d>", uint8(m))
	}
}

// ParseErrorMode maps the names returned by String back to an ErrorMode.
func ParseErrorMode(s string) (ErrorMode, error) {
	switch s {
	case "ignore":
		return IgnoreErrorMode, nil
	case "warn", "":
		return WarnErrorMode, nil
	case "strict":
		return StrictErrorMode, nil
	}
	return 0, fmt.Errorf("unknown error mode %q", s)
}

// ErrorKind classifies parse failures.
type ErrorKind uint8

const (
	MalformedXML ErrorKind = iota + 1
	UnsupportedRoot
	UnsupportedElement
	MissingDimensions
	MalformedPath
	MalformedAttribute
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedXML:
		return "malformed XML"
	case UnsupportedRoot:
		return "unsupported root element"
	case UnsupportedElement:
		return "unsupported element"
	case MissingDimensions:
		return "missing dimensions"
	case MalformedPath:
		return "malformed path data"
	case MalformedAttribute:
		return "malformed attribute"
	default:
		return "<unknown ErrorKind>"
	}
}

// ParseError is returned when a document can't be loaded.
// No partial SceneGraph is ever returned alongside it.
type ParseError struct {
	Kind    ErrorKind
	Element string // may be empty
	Attr    string // may be empty
	Err     error  // underlying cause, may be nil
}

func (e *ParseError) Error() string {
	msg := "svg: " + e.Kind.String()
	if e.Element != "" {
		msg += " in <" + e.Element + ">"
	}
	if e.Attr != "" {
		msg += " (attribute " + e.Attr + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is a *ParseError of the same Kind,
// so that errors.Is(err, &ParseError{Kind: MalformedPath}) works.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

var (
	errParamMismatch = errors.New("param mismatch")
	errNoRoot        = errors.New("no svg element found")
	errZeroLengthID  = errors.New("zero length id")
)

func attrError(element, attr string, err error) error {
	return &ParseError{Kind: MalformedAttribute, Element: element, Attr: attr, Err: err}
}
