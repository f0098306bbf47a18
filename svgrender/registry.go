package svgrender

import (
	"strconv"
	"strings"

	"github.com/benoitkugler/svgpp/svgfilter"
	"github.com/benoitkugler/svgpp/svggradient"
	"github.com/benoitkugler/svgpp/svgstyle"
	"github.com/benoitkugler/svgpp/svgxml"
)

// GradientRegistry is the lazy id -> *svggradient.Gradient cache: on
// miss it re-traverses the referenced linearGradient/radialGradient
// element (following its own href inheritance chain for attributes it
// doesn't set itself, one hop with cycle protection) and builds the
// gradient once; hits are served from cache.
type GradientRegistry struct {
	doc    *Document
	cache  map[string]*svggradient.Gradient
	lf     svgstyle.LengthFactory
}

func newGradientRegistry(doc *Document) *GradientRegistry {
	return &GradientRegistry{doc: doc, cache: map[string]*svggradient.Gradient{}}
}

// SetViewport updates the length factory percentages resolve against,
// called once the root viewport is known.
func (r *GradientRegistry) SetViewport(lf svgstyle.LengthFactory) { r.lf = lf }

// Resolve looks up id, building and caching the gradient on first use.
// Returns (nil, false) if no such element exists or it isn't a gradient.
func (r *GradientRegistry) Resolve(id string) (*svggradient.Gradient, bool) {
	if g, ok := r.cache[id]; ok {
		return g, true
	}
	el, ok := r.doc.XML.FindElementByID(id)
	if !ok {
		return nil, false
	}
	if el.Tag != "linearGradient" && el.Tag != "radialGradient" {
		return nil, false
	}
	g := r.build(el, map[string]bool{})
	if g == nil {
		return nil, false
	}
	r.cache[id] = g
	return g, true
}

// build constructs a Gradient from el, following one "href"/"xlink:href"
// inheritance hop per un-set attribute (cycle-guarded via visited).
func (r *GradientRegistry) build(el *svgxml.Element, visited map[string]bool) *svggradient.Gradient {
	id := el.ID()
	if id != "" {
		if visited[id] {
			return nil
		}
		visited[id] = true
	}

	var parent *svgxml.Element
	if href, ok := el.Attr("href"); ok && strings.HasPrefix(href, "#") {
		if p, ok := r.doc.XML.FindElementByID(strings.TrimPrefix(href, "#")); ok {
			parent = p
		}
	}

	stops := r.collectStops(el)
	if len(stops) == 0 && parent != nil {
		stops = r.collectStops(parent)
	}

	spread := parseSpread(attrOr(el, parent, "spreadMethod"))
	useObb := attrOr(el, parent, "gradientUnits") != "userSpaceOnUse"
	if useObb {
		// objectBoundingBox lengths are fractions of the unit square.
		saved := r.lf
		r.lf = svgstyle.LengthFactory{ViewportWidth: 1, ViewportHeight: 1}
		defer func() { r.lf = saved }()
	}
	gt := parseGradientTransform(attrOr(el, parent, "gradientTransform"))

	kind := svggradient.Linear
	if el.Tag == "radialGradient" {
		kind = svggradient.Radial
	}
	g := svggradient.New(kind, spread, stops)
	g.UseObjectBoundingBox = useObb
	g.GradientTransform = gt

	basis := svgstyle.WidthPercentage
	if useObb {
		basis = fractionBasis
	}
	switch el.Tag {
	case "linearGradient":
		g.X1 = r.length(el, parent, "x1", "0%", basis)
		g.Y1 = r.length(el, parent, "y1", "0%", heightBasis(useObb))
		g.X2 = r.length(el, parent, "x2", "100%", basis)
		g.Y2 = r.length(el, parent, "y2", "0%", heightBasis(useObb))
	case "radialGradient":
		g.CX = r.length(el, parent, "cx", "50%", basis)
		g.CY = r.length(el, parent, "cy", "50%", heightBasis(useObb))
		g.R = r.length(el, parent, "r", "50%", basis)
		fx, hasFx := attrOrOk(el, parent, "fx")
		fy, hasFy := attrOrOk(el, parent, "fy")
		if hasFx {
			g.FX = (r.parseLen(fx, basis) - g.CX) / maxF(g.R, 1e-9)
		}
		if hasFy {
			g.FY = (r.parseLen(fy, heightBasis(useObb)) - g.CY) / maxF(g.R, 1e-9)
		}
	}
	return g
}

// fractionBasis is a pseudo-basis: objectBoundingBox coordinates are
// already fractions of the unit square, so percentages and bare numbers
// both resolve 1:1 (a length factory of width=height=1 makes "%" and
// bare numbers agree, matching SVG's objectBoundingBox convention).
var fractionBasis = svgstyle.WidthPercentage

func heightBasis(useObb bool) svgstyle.PercentBasis {
	if useObb {
		return svgstyle.WidthPercentage
	}
	return svgstyle.HeightPercentage
}

func (r *GradientRegistry) length(el, parent *svgxml.Element, name, def string, basis svgstyle.PercentBasis) float64 {
	v := attrOr(el, parent, name)
	if v == "" {
		v = def
	}
	return r.parseLen(v, basis)
}

func (r *GradientRegistry) parseLen(v string, basis svgstyle.PercentBasis) float64 {
	lf := r.lf
	if lf == (svgstyle.LengthFactory{}) {
		lf = svgstyle.LengthFactory{ViewportWidth: 1, ViewportHeight: 1}
	}
	f, err := lf.ParseLength(v, basis)
	if err != nil {
		return 0
	}
	return f
}

func (r *GradientRegistry) collectStops(el *svgxml.Element) []svggradient.Stop {
	var stops []svggradient.Stop
	for _, child := range el.Children {
		if child.Tag != "stop" {
			continue
		}
		offsetStr, _ := child.Attr("offset")
		offset := parseOffset(offsetStr)
		style := svgstyle.Default()
		if sc, ok := child.Attr("stop-color"); ok {
			if c, err := svgstyle.ParseColor(sc); err == nil {
				style.Color = c
			}
		} else {
			style.Color = svgstyle.Black
		}
		opacity := 1.0
		if so, ok := child.Attr("stop-opacity"); ok {
			if f, err := strconv.ParseFloat(strings.TrimSuffix(so, "%"), 64); err == nil {
				opacity = f
			}
		}
		stops = append(stops, svggradient.Stop{Offset: offset, Color: style.Color, Opacity: opacity})
	}
	return stops
}

func parseOffset(v string) float64 {
	v = strings.TrimSpace(v)
	pct := strings.HasSuffix(v, "%")
	v = strings.TrimSuffix(v, "%")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	if pct {
		f /= 100
	}
	return f
}

func parseSpread(v string) svggradient.SpreadMethod {
	switch v {
	case "reflect":
		return svggradient.SpreadReflect
	case "repeat":
		return svggradient.SpreadRepeat
	default:
		return svggradient.SpreadPad
	}
}

func parseGradientTransform(v string) svgstyle.Matrix2D {
	m, _ := ParseTransformList(v)
	return m
}

func attrOr(el, parent *svgxml.Element, name string) string {
	if v, ok := el.Attr(name); ok {
		return v
	}
	if parent != nil {
		if v, ok := parent.Attr(name); ok {
			return v
		}
	}
	return ""
}

func attrOrOk(el, parent *svgxml.Element, name string) (string, bool) {
	if v, ok := el.Attr(name); ok {
		return v, true
	}
	if parent != nil {
		if v, ok := parent.Attr(name); ok {
			return v, true
		}
	}
	return "", false
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// FilterRegistry is the lazy id -> *svgfilter.Chain cache for <filter>
// elements.
type FilterRegistry struct {
	doc   *Document
	cache map[string]*svgfilter.Chain
}

func newFilterRegistry(doc *Document) *FilterRegistry {
	return &FilterRegistry{doc: doc, cache: map[string]*svgfilter.Chain{}}
}

// Resolve looks up a <filter> element by id, parsing and caching its
// primitive chain on first use.
func (r *FilterRegistry) Resolve(id string) (*svgfilter.Chain, bool) {
	if c, ok := r.cache[id]; ok {
		return c, true
	}
	el, ok := r.doc.XML.FindElementByID(id)
	if !ok || el.Tag != "filter" {
		return nil, false
	}
	c := svgfilter.Parse(el, r.doc.Logger)
	r.cache[id] = c
	return c, true
}
