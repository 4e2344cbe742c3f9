package svgpath

import (
	"fmt"
	"math"
	"strconv"
)

// This file implements the SVG 1.1 path data mini-language
// (the `d` attribute).

// PathError reports malformed path data.
type PathError struct {
	Pos int    // byte offset in the path data
	Msg string // what went wrong
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path data at offset %d: %s", e.Pos, e.Msg)
}

// lexer splits path data and number lists into tokens,
// supporting the compact syntaxes like "1.5.5" or "10-20".
type lexer struct {
	s   string
	pos int
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// skipSeparators skips whitespaces and at most one comma
func (l *lexer) skipSeparators() {
	comma := false
	for l.pos < len(l.s) {
		c := l.s[l.pos]
		if isSpace(c) {
			l.pos++
		} else if c == ',' && !comma {
			comma = true
			l.pos++
		} else {
			return
		}
	}
}

func (l *lexer) done() bool { return l.pos >= len(l.s) }

// atNumber returns true if the next token starts a number
func (l *lexer) atNumber() bool {
	if l.done() {
		return false
	}
	c := l.s[l.pos]
	return isDigit(c) || c == '.' || c == '-' || c == '+'
}

func (l *lexer) errorf(format string, args ...interface{}) error {
	return &PathError{Pos: l.pos, Msg: fmt.Sprintf(format, args...)}
}

// readNumber reads a float, following the SVG number grammar.
func (l *lexer) readNumber() (float64, error) {
	start := l.pos
	i := l.pos
	if i < len(l.s) && (l.s[i] == '-' || l.s[i] == '+') {
		i++
	}
	digits := 0
	for i < len(l.s) && isDigit(l.s[i]) {
		i++
		digits++
	}
	if i < len(l.s) && l.s[i] == '.' {
		i++
		for i < len(l.s) && isDigit(l.s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, l.errorf("expected number")
	}
	// exponent, only if followed by digits
	if i < len(l.s) && (l.s[i] == 'e' || l.s[i] == 'E') {
		j := i + 1
		if j < len(l.s) && (l.s[j] == '-' || l.s[j] == '+') {
			j++
		}
		if j < len(l.s) && isDigit(l.s[j]) {
			for j < len(l.s) && isDigit(l.s[j]) {
				j++
			}
			i = j
		}
	}
	f, err := strconv.ParseFloat(l.s[start:i], 64)
	if err != nil {
		return 0, l.errorf("invalid number %q", l.s[start:i])
	}
	l.pos = i
	return f, nil
}

// readFlag reads an arc flag, which may not be separated
// from the next token.
func (l *lexer) readFlag() (float64, error) {
	if l.done() {
		return 0, l.errorf("expected flag")
	}
	switch l.s[l.pos] {
	case '0':
		l.pos++
		return 0, nil
	case '1':
		l.pos++
		return 1, nil
	default:
		return 0, l.errorf("invalid arc flag %q", l.s[l.pos])
	}
}

// ParseNumberList parses a list of numbers separated
// by commas and/or whitespaces, such as a viewBox or
// the `points` of a polygon.
func ParseNumberList(s string) ([]float64, error) {
	l := lexer{s: s}
	var out []float64
	l.skipWhitespaces()
	for !l.done() {
		f, err := l.readNumber()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
		l.skipSeparators()
	}
	return out, nil
}

func (l *lexer) skipWhitespaces() {
	for l.pos < len(l.s) && isSpace(l.s[l.pos]) {
		l.pos++
	}
}

// number of arguments expected by each command
var argCounts = [256]int{
	'M': 2, 'm': 2, 'L': 2, 'l': 2, 'H': 1, 'h': 1, 'V': 1, 'v': 1,
	'C': 6, 'c': 6, 'S': 4, 's': 4, 'Q': 4, 'q': 4, 'T': 2, 't': 2,
	'A': 7, 'a': 7, 'Z': 0, 'z': 0,
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's',
		'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

// pathCursor holds the state needed to compile a path
type pathCursor struct {
	path               Path
	points             []float64
	placeX, placeY     float64 // current point
	startX, startY     float64 // start of the current subpath
	cntlPtX, cntlPtY   float64 // last control point, for S and T
	lastKey            byte
	inPath, needsStart bool
}

func (c *pathCursor) reflectControl(curves string) (float64, float64) {
	for i := 0; i < len(curves); i++ {
		if c.lastKey == curves[i] {
			return 2*c.placeX - c.cntlPtX, 2*c.placeY - c.cntlPtY
		}
	}
	return c.placeX, c.placeY
}

// ensureStart starts a new subpath at the current point after a 'Z'
// not followed by a move.
func (c *pathCursor) ensureStart() {
	if c.needsStart {
		c.path.Start(Point{c.placeX, c.placeY})
		c.needsStart = false
	}
}

// addSeg applies the command `key` using the arguments in c.points.
func (c *pathCursor) addSeg(key byte) {
	rel := key >= 'a'
	var ox, oy float64
	if rel {
		ox, oy = c.placeX, c.placeY
	}
	p := c.points
	switch key {
	case 'M', 'm':
		c.placeX, c.placeY = p[0]+ox, p[1]+oy
		c.startX, c.startY = c.placeX, c.placeY
		c.path.Start(Point{c.placeX, c.placeY})
		c.needsStart = false
		c.inPath = true
	case 'L', 'l':
		c.ensureStart()
		c.placeX, c.placeY = p[0]+ox, p[1]+oy
		c.path.Line(Point{c.placeX, c.placeY})
	case 'H', 'h':
		c.ensureStart()
		c.placeX = p[0] + ox
		c.path.Line(Point{c.placeX, c.placeY})
	case 'V', 'v':
		c.ensureStart()
		c.placeY = p[0] + oy
		c.path.Line(Point{c.placeX, c.placeY})
	case 'C', 'c':
		c.ensureStart()
		c.cntlPtX, c.cntlPtY = p[2]+ox, p[3]+oy
		c.placeX, c.placeY = p[4]+ox, p[5]+oy
		c.path.CubeBezier(Point{p[0] + ox, p[1] + oy}, Point{c.cntlPtX, c.cntlPtY}, Point{c.placeX, c.placeY})
	case 'S', 's':
		c.ensureStart()
		x1, y1 := c.reflectControl("CcSs")
		c.cntlPtX, c.cntlPtY = p[0]+ox, p[1]+oy
		c.placeX, c.placeY = p[2]+ox, p[3]+oy
		c.path.CubeBezier(Point{x1, y1}, Point{c.cntlPtX, c.cntlPtY}, Point{c.placeX, c.placeY})
	case 'Q', 'q':
		c.ensureStart()
		c.cntlPtX, c.cntlPtY = p[0]+ox, p[1]+oy
		c.placeX, c.placeY = p[2]+ox, p[3]+oy
		c.path.QuadBezier(Point{c.cntlPtX, c.cntlPtY}, Point{c.placeX, c.placeY})
	case 'T', 't':
		c.ensureStart()
		c.cntlPtX, c.cntlPtY = c.reflectControl("QqTt")
		c.placeX, c.placeY = p[0]+ox, p[1]+oy
		c.path.QuadBezier(Point{c.cntlPtX, c.cntlPtY}, Point{c.placeX, c.placeY})
	case 'A', 'a':
		c.ensureStart()
		arc := ellipticArc{
			rx: math.Abs(p[0]), ry: math.Abs(p[1]),
			rotation: p[2] * math.Pi / 180,
			large:    p[3] != 0, sweep: p[4] != 0,
			from: Point{c.placeX, c.placeY}, to: Point{p[5] + ox, p[6] + oy},
		}
		if arc.to == arc.from {
			break // omitted, per the implementation notes of SVG
		}
		c.placeX, c.placeY = arc.to.X, arc.to.Y
		if arc.rx == 0 || arc.ry == 0 {
			c.path.Line(arc.to)
			break
		}
		c.path.addArc(arc)
	case 'Z', 'z':
		if c.inPath {
			c.path.Stop(true)
		}
		c.placeX, c.placeY = c.startX, c.startY
		c.needsStart = true
	}
	c.lastKey = key
}

// ParsePath compiles the path data `d` into a Path.
// An empty string is a valid, empty path.
func ParsePath(d string) (Path, error) {
	var c pathCursor
	l := lexer{s: d}
	var cmd byte
	for {
		l.skipWhitespaces()
		if l.done() {
			break
		}
		ch := l.s[l.pos]
		if isCommand(ch) {
			if cmd == 0 && ch != 'M' && ch != 'm' {
				return nil, l.errorf("path data must start with a moveto, got %q", ch)
			}
			cmd = ch
			l.pos++
		} else if cmd == 0 {
			return nil, l.errorf("path data must start with a moveto")
		} else if !l.atNumber() {
			return nil, l.errorf("unexpected character %q", ch)
		} else if argCounts[cmd] == 0 {
			return nil, l.errorf("unexpected number after close path")
		}
		// else: implicit repetition of the previous command

		n := argCounts[cmd]
		c.points = c.points[:0]
		for i := 0; i < n; i++ {
			l.skipSeparators()
			var (
				f   float64
				err error
			)
			if (cmd == 'A' || cmd == 'a') && (i == 3 || i == 4) {
				f, err = l.readFlag()
			} else {
				f, err = l.readNumber()
			}
			if err != nil {
				return nil, err
			}
			c.points = append(c.points, f)
		}
		c.addSeg(cmd)
		// subsequent pairs after a moveto are implicit lineto
		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
		l.skipSeparators()
	}
	return c.path, nil
}
