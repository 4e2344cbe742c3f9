package svgicon

import (
	"errors"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var errURLPaint = errors.New("url paint servers are not supported")

// parseSVGColorNum reads the SVG color string e.g. #FBD9BD
func parseSVGColorNum(colorStr string) (r, g, b uint8, err error) {
	colorStr = strings.TrimPrefix(colorStr, "#")
	switch len(colorStr) {
	case 6:
	case 3:
		// SVG specs say duplicate characters in case of 3 digit hex number
		colorStr = string([]byte{colorStr[0], colorStr[0],
			colorStr[1], colorStr[1], colorStr[2], colorStr[2]})
	default:
		return 0, 0, 0, errParamMismatch
	}
	var t uint64
	for _, v := range []struct {
		c *uint8
		s string
	}{
		{&r, colorStr[0:2]},
		{&g, colorStr[2:4]},
		{&b, colorStr[4:6]},
	} {
		t, err = strconv.ParseUint(v.s, 16, 8)
		if err != nil {
			return
		}
		*v.c = uint8(t)
	}
	return
}

// ParseColor parses a plain SVG color: SVG 1.1 names (from the
// colornames package), #rgb, #rrggbb and rgb() forms.
func ParseColor(colorStr string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(colorStr))
	if cn, ok := colornames.Map[v]; ok {
		return color.NRGBA{cn.R, cn.G, cn.B, cn.A}, nil
	}
	if strings.HasPrefix(v, "#") {
		r, g, b, err := parseSVGColorNum(v)
		if err != nil {
			return color.NRGBA{}, err
		}
		return color.NRGBA{r, g, b, 0xFF}, nil
	}
	if cStr := strings.TrimPrefix(v, "rgb("); cStr != v {
		cStr = strings.TrimSuffix(cStr, ")")
		vals := strings.Split(cStr, ",")
		if len(vals) != 3 {
			return color.NRGBA{}, errParamMismatch
		}
		var cvals [3]uint8
		for i := range cvals {
			var err error
			cvals[i], err = parseColorValue(vals[i])
			if err != nil {
				return color.NRGBA{}, err
			}
		}
		return color.NRGBA{cvals[0], cvals[1], cvals[2], 0xFF}, nil
	}
	return color.NRGBA{}, errParamMismatch
}

func parseColorValue(v string) (uint8, error) {
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "%") {
		n, err := strconv.ParseFloat(strings.TrimSpace(v[:len(v)-1]), 64)
		if err != nil {
			return 0, err
		}
		return clampByte(n * 0xFF / 100), nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return clampByte(n), nil
}

func clampByte(f float64) uint8 {
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f + 0.5)
}

// parsePaint parses a fill or stroke value.
// url() references return errURLPaint.
func parsePaint(v string) (Paint, error) {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "none", "transparent":
		// signals that the function (fill or stroke) is off;
		// not the same as black
		return Paint{Kind: PaintNone}, nil
	case "currentcolor":
		return Paint{Kind: PaintCurrentColor}, nil
	}
	if strings.HasPrefix(v, "url(") {
		return Paint{}, errURLPaint
	}
	c, err := ParseColor(v)
	if err != nil {
		return Paint{}, err
	}
	return Paint{Kind: PaintColor, Color: c}, nil
}
