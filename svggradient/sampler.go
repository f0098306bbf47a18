package svggradient

import (
	"image"
	"image/color"
	"math"

	"github.com/benoitkugler/svgpp/svgstyle"
)

// Sampler is a ready-to-paint gradient: a Gradient plus the fully
// composed device-space-to-gradient-space transform. It implements
// image.Image so it can be handed directly to rasterx's
// Scanner.SetColor, feeding computed-per-pixel paint into the scanline
// filler.
type Sampler struct {
	g       *Gradient
	inverse svgstyle.Matrix2D
	bounds  image.Rectangle
	opacity float64
}

// NewSampler composes the forward canonical-to-device transform chain:
//
//	device = userTransform( objectBoundingBox( gradientTransform( geometry(t) ) ) )
//
// then inverts it once, so At (device px) walks the chain backward:
// device -> user -> object bounding box -> gradientTransform -> geometry
// -> profile index. objectBoundingBoxRect is the fill/stroke geometry's
// bounding box in user space, used only when g.UseObjectBoundingBox.
// opacity is the fill-opacity/stroke-opacity the gradient is painted
// at; it is folded into every sampled color the same way a plain
// EffectiveColor paint's alpha is scaled, so opacity applies uniformly
// regardless of the resolved paint's kind.
func NewSampler(g *Gradient, userTransform svgstyle.Matrix2D, objectBoundingBoxRect [4]float64, bounds image.Rectangle, opacity float64) *Sampler {
	m := g.geometryTransform()
	if g.GradientTransform != (svgstyle.Matrix2D{}) {
		m = g.GradientTransform.Mult(m)
	}
	if g.UseObjectBoundingBox {
		x0, y0, w, h := objectBoundingBoxRect[0], objectBoundingBoxRect[1], objectBoundingBoxRect[2], objectBoundingBoxRect[3]
		obb := svgstyle.Matrix2D{A: w, B: 0, C: 0, D: h, E: x0, F: y0}
		m = obb.Mult(m)
	}
	m = userTransform.Mult(m)

	inv, ok := m.Invert()
	if !ok {
		inv = svgstyle.Identity
	}
	return &Sampler{g: g, inverse: inv, bounds: bounds, opacity: opacity}
}

// geometryTransform builds the linear or radial gradient geometry
// matrix: maps the canonical profile parameter (t along the gradient
// axis for Linear, a unit-circle point for Radial) into the gradient's
// own coordinate system (x1,y1,x2,y2 or cx,cy,r).
//
//	linear: translate(x1,y1) . rotate(atan2(dy,dx)) . scale(len)
//	radial: translate(cx,cy) . scale(r)
//
// point flow for linear: scale(len) is applied first (t -> len*t along
// the x axis), then rotate onto the x1->x2 direction, then translate so
// t=0 lands exactly on (x1,y1) untouched by rotation/scaling.
func (g *Gradient) geometryTransform() svgstyle.Matrix2D {
	switch g.Kind {
	case Linear:
		dx, dy := g.X2-g.X1, g.Y2-g.Y1
		length := math.Hypot(dx, dy)
		if length == 0 {
			length = 1
		}
		angle := math.Atan2(dy, dx)
		return svgstyle.Identity.Translate(g.X1, g.Y1).Rotate(angle).Scale(length, length)
	default: // Radial
		r := g.R
		if r == 0 {
			r = 1
		}
		return svgstyle.Identity.Translate(g.CX, g.CY).Scale(r, r)
	}
}

// ColorModel implements image.Image.
func (s *Sampler) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (s *Sampler) Bounds() image.Rectangle { return s.bounds }

// At implements image.Image, mapping a device pixel back to gradient
// space, sampling the profile there, and scaling alpha by the
// fill-opacity/stroke-opacity the sampler was built at.
func (s *Sampler) At(x, y int) color.Color {
	ux, uy := s.inverse.TransformPoint(float64(x)+0.5, float64(y)+0.5)
	t := s.offsetAt(ux, uy)
	c := s.g.ColorAt(t)
	a := c.A
	if s.opacity < 0.999 {
		a = uint8(float64(a) * clamp01(s.opacity))
	}
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// offsetAt computes the gradient-space scalar offset for linear
// gradients (simply the mapped x, since geometryTransform already
// rotated/scaled the axis onto the x-axis) or the focal-radial distance
// for radial gradients.
func (s *Sampler) offsetAt(ux, uy float64) float64 {
	if s.g.Kind == Linear {
		return ux
	}
	fx, fy := s.g.FX, s.g.FY
	if fx == 0 && fy == 0 {
		return math.Hypot(ux, uy)
	}
	// Focal-radial: distance ratio along the ray from the focal point
	// through (ux,uy) to where it exits the unit circle, matching the
	// standard SVG focal-point radial gradient construction used when fx/fy
	// differ from cx/cy (already translated into profile units by the
	// caller providing FX,FY relative to the untranslated unit circle).
	dx, dy := ux-fx, uy-fy
	a := dx*dx + dy*dy
	b := 2 * (fx*dx + fy*dy)
	c := fx*fx + fy*fy - 1
	if a == 0 {
		return math.Hypot(ux, uy)
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		disc = 0
	}
	root := (-b + math.Sqrt(disc)) / (2 * a)
	if root == 0 {
		return 0
	}
	return 1 / root
}
