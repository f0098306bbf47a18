package svgstyle

import (
	"strconv"
	"strings"
)

// JoinMode is the stroke line-join vocabulary.
type JoinMode uint8

const (
	JoinMiter JoinMode = iota
	JoinRound
	JoinBevel
)

// CapMode is the stroke line-cap vocabulary.
type CapMode uint8

const (
	CapButt CapMode = iota
	CapRound
	CapSquare
)

// Dash holds the stroke-dasharray/stroke-dashoffset pair.
type Dash struct {
	Array  []float64
	Offset float64
}

// Style is the computed-style record inherited along the tree. Every
// field carries SVG's specified initial value, set by Default below.
type Style struct {
	Display bool
	Opacity float64
	Color   Color

	FillPaint, StrokePaint         Paint
	FillOpacity, StrokeOpacity     float64
	NonzeroFillRule                bool
	StrokeWidth                    float64
	LineCap                        CapMode
	LineJoin                       JoinMode
	MiterLimit                     float64
	Dash                           Dash
	ClipPathFragment, MaskFragment string
	Filter                         string
	MarkerStart, MarkerMid, MarkerEnd string
	OverflowClip                   bool
}

// Default returns SVG's initial computed style.
func Default() Style {
	return Style{
		Display:          true,
		Opacity:          1,
		Color:            Black,
		FillPaint:        PaintColor{Color: Black},
		StrokePaint:      PaintNone{},
		FillOpacity:      1,
		StrokeOpacity:    1,
		NonzeroFillRule:  true,
		StrokeWidth:      1,
		LineCap:          CapButt,
		LineJoin:         JoinMiter,
		MiterLimit:       4,
		OverflowClip:     false,
	}
}

// NeedsOwnBuffer reports whether a Canvas with this style draws into its
// own offscreen buffer: true iff opacity is not (near) 1, or it carries
// a mask, clip-path or filter reference.
func (s Style) NeedsOwnBuffer() bool {
	return s.Opacity < 0.999 || s.MaskFragment != "" || s.ClipPathFragment != "" || s.Filter != ""
}

// SetAttribute applies one SVG presentation attribute or CSS "style"
// declaration to the style ("opacity" sets the element's group opacity;
// fill-opacity and stroke-opacity are left unchanged).
func (s *Style) SetAttribute(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	switch key {
	case "display":
		s.Display = value != "none"
	case "opacity":
		v, err := parseFloatClamped(value)
		if err != nil {
			return err
		}
		s.Opacity = v
	case "color":
		c, err := ParseColor(value)
		if err != nil {
			return err
		}
		s.Color = c
	case "fill":
		p, err := parsePaint(value)
		if err != nil {
			return err
		}
		s.FillPaint = p
	case "stroke":
		p, err := parsePaint(value)
		if err != nil {
			return err
		}
		s.StrokePaint = p
	case "fill-opacity":
		v, err := parseFloatClamped(value)
		if err != nil {
			return err
		}
		s.FillOpacity = v
	case "stroke-opacity":
		v, err := parseFloatClamped(value)
		if err != nil {
			return err
		}
		s.StrokeOpacity = v
	case "fill-rule":
		s.NonzeroFillRule = value != "evenodd"
	case "stroke-width":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		s.StrokeWidth = v
	case "stroke-linecap":
		switch value {
		case "round":
			s.LineCap = CapRound
		case "square":
			s.LineCap = CapSquare
		default:
			s.LineCap = CapButt
		}
	case "stroke-linejoin":
		switch value {
		case "round":
			s.LineJoin = JoinRound
		case "bevel":
			s.LineJoin = JoinBevel
		default:
			s.LineJoin = JoinMiter
		}
	case "stroke-miterlimit":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		s.MiterLimit = v
	case "stroke-dasharray":
		if value == "none" || value == "" {
			s.Dash.Array = nil
			return nil
		}
		parts := splitOnCommaOrSpace(value)
		arr := make([]float64, 0, len(parts))
		for _, p := range parts {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return err
			}
			arr = append(arr, v)
		}
		s.Dash.Array = arr
	case "stroke-dashoffset":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		s.Dash.Offset = v
	case "clip-path":
		s.ClipPathFragment = parseIRIRef(value)
	case "mask":
		s.MaskFragment = parseIRIRef(value)
	case "filter":
		s.Filter = parseIRIRef(value)
	case "marker-start":
		s.MarkerStart = parseIRIRef(value)
	case "marker-mid":
		s.MarkerMid = parseIRIRef(value)
	case "marker-end":
		s.MarkerEnd = parseIRIRef(value)
	case "marker":
		ref := parseIRIRef(value)
		s.MarkerStart, s.MarkerMid, s.MarkerEnd = ref, ref, ref
	case "overflow":
		s.OverflowClip = value != "visible"
	}
	return nil
}

// ApplyCSSDeclarations parses a "style" attribute's ";"-separated
// declarations, applied on top of plain presentation attributes.
func (s *Style) ApplyCSSDeclarations(style string) error {
	for _, decl := range strings.Split(style, ";") {
		kv := strings.SplitN(decl, ":", 2)
		if len(kv) != 2 {
			continue
		}
		if err := s.SetAttribute(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' })
}

func parseFloatClamped(v string) (float64, error) {
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	f /= d
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return f, nil
}

// parseIRIRef extracts the fragment id from a "url(#id)" or bare "#id"
// reference; anything else (including "none") yields "".
func parseIRIRef(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "url(") && strings.HasSuffix(v, ")") {
		v = strings.TrimSuffix(strings.TrimPrefix(v, "url("), ")")
		v = strings.Trim(v, `'"`)
	}
	return strings.TrimPrefix(v, "#")
}

// parsePaint parses a fill/stroke value into the Paint sum type: none,
// currentColor, a Color, or an IRI reference with an optional fallback
// color.
func parsePaint(v string) (Paint, error) {
	v = strings.TrimSpace(v)
	switch v {
	case "none":
		return PaintNone{}, nil
	case "currentColor":
		return PaintCurrentColor{}, nil
	}
	if strings.HasPrefix(v, "url(") {
		close := strings.Index(v, ")")
		if close < 0 {
			return nil, errInvalidPaint(v)
		}
		frag := strings.Trim(strings.TrimPrefix(v[:close], "url("), `'"# `)
		rest := strings.TrimSpace(v[close+1:])
		var fallback Paint
		if rest != "" {
			fb, err := parsePaint(rest)
			if err != nil {
				return nil, err
			}
			fallback = fb
		}
		return PaintIRI{Fragment: frag, Fallback: fallback}, nil
	}
	c, err := ParseColor(v)
	if err != nil {
		return nil, err
	}
	return PaintColor{Color: c}, nil
}

func errInvalidPaint(v string) error { return &invalidPaintError{v} }

type invalidPaintError struct{ v string }

func (e *invalidPaintError) Error() string { return "invalid paint value: " + e.v }
