// Package svggradient implements the gradient color-function and
// geometry math: the 256-entry color profile, the pad/reflect/repeat
// spread functions, and the geometry transform chain that maps a device
// pixel back into gradient space.
//
// This owns the color math directly rather than delegating to rasterx's
// built-in gradient support, since the exact spread formulas and
// stop-count special cases need a standalone unit-testable
// implementation rather than a black box inside a third-party
// rasterizer. rasterx is still used downstream, in svgraster, as the
// scanline/AA backend that consumes the per-pixel color this package
// produces.
package svggradient

import (
	"math"

	"github.com/benoitkugler/svgpp/svgstyle"
)

// SpreadMethod is the gradient repeat behavior outside [0,1].
type SpreadMethod uint8

const (
	SpreadPad SpreadMethod = iota
	SpreadReflect
	SpreadRepeat
)

// Stop is one offset/color/opacity entry of a gradient's stop list,
// already sorted and clamped to [0,1] non-decreasing offsets by New.
type Stop struct {
	Offset  float64
	Color   svgstyle.Color
	Opacity float64 // stop-opacity, 0..1
}

// Kind distinguishes linear from radial gradient geometry.
type Kind uint8

const (
	Linear Kind = iota
	Radial
)

// Gradient is a fully resolved paint server: stops, spread method,
// geometry, and a precomputed 256-entry color profile ready for
// per-pixel sampling.
type Gradient struct {
	Kind   Kind
	Spread SpreadMethod

	// Linear geometry, in gradient-units space.
	X1, Y1, X2, Y2 float64

	// Radial geometry, in gradient-units space.
	CX, CY, R, FX, FY float64

	// UseObjectBoundingBox is true when gradientUnits is
	// objectBoundingBox (the SVG default), false for userSpaceOnUse.
	UseObjectBoundingBox bool

	// GradientTransform is the optional extra "gradientTransform" matrix,
	// applied after geometry mapping and before the objectBoundingBox
	// mapping, matching the original's transform composition order.
	GradientTransform svgstyle.Matrix2D

	stops   []Stop
	profile [profileSize]svgstyle.Color
}

const profileSize = 256

// New builds a Gradient from already-inherited stops and geometry,
// clamping and sorting stops and building the 256-entry color profile
// once up front, matching the original's ColorFunctionProfile: built
// once per paint from the sorted stop list, not resampled per pixel.
func New(kind Kind, spread SpreadMethod, stops []Stop) *Gradient {
	g := &Gradient{Kind: kind, Spread: spread}
	g.stops = normalizeStops(stops)
	g.buildProfile()
	return g
}

func normalizeStops(in []Stop) []Stop {
	out := make([]Stop, len(in))
	copy(out, in)
	// stable insertion sort by offset: stop lists are short and the
	// input is nearly sorted already in the common case.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Offset < out[j-1].Offset; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	last := -1.0
	for i := range out {
		if out[i].Offset < 0 {
			out[i].Offset = 0
		}
		if out[i].Offset > 1 {
			out[i].Offset = 1
		}
		if out[i].Offset < last {
			out[i].Offset = last
		}
		last = out[i].Offset
		if out[i].Opacity < 0 {
			out[i].Opacity = 0
		}
		if out[i].Opacity > 1 {
			out[i].Opacity = 1
		}
	}
	return out
}

// StopCount reports how many stops the gradient was built from, needed
// by the paint resolver's stop-count special cases (0 stops resolves to
// none, 1 stop resolves to that stop's plain color).
func (g *Gradient) StopCount() int { return len(g.stops) }

// SoleStopColor returns the single stop's effective color, valid only
// when StopCount() == 1.
func (g *Gradient) SoleStopColor() svgstyle.Color {
	return stopColor(g.stops[0])
}

// stopColor applies stop-opacity to the stop color, matching the
// original's ColorFunctionProfile::stopColor: opacity is folded in via
// straight alpha multiplication only when it is meaningfully below 1,
// avoiding pointless rounding of the common fully-opaque case.
func stopColor(s Stop) svgstyle.Color {
	if s.Opacity >= 0.999 {
		return s.Color
	}
	return svgstyle.Color{
		R: s.Color.R,
		G: s.Color.G,
		B: s.Color.B,
		A: uint8(math.Round(float64(s.Color.A) * s.Opacity)),
	}
}

// buildProfile fills the 256-entry LUT by linearly interpolating
// between bracketing stops at each of the 256 sample offsets, matching
// the original's fixed-resolution ColorFunctionProfile.
func (g *Gradient) buildProfile() {
	if len(g.stops) == 0 {
		return
	}
	if len(g.stops) == 1 {
		c := stopColor(g.stops[0])
		for i := range g.profile {
			g.profile[i] = c
		}
		return
	}
	for i := 0; i < profileSize; i++ {
		t := float64(i) / float64(profileSize-1)
		g.profile[i] = g.sampleStops(t)
	}
}

func (g *Gradient) sampleStops(t float64) svgstyle.Color {
	stops := g.stops
	if t <= stops[0].Offset {
		return stopColor(stops[0])
	}
	last := len(stops) - 1
	if t >= stops[last].Offset {
		return stopColor(stops[last])
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			span := b.Offset - a.Offset
			f := 0.5
			if span > 0 {
				f = (t - a.Offset) / span
			}
			return lerpColor(stopColor(a), stopColor(b), f)
		}
	}
	return stopColor(stops[last])
}

func lerpColor(a, b svgstyle.Color, f float64) svgstyle.Color {
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	return svgstyle.Color{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

// spread maps an arbitrary gradient-space offset into [0,1] according to
// the spread method, matching GradientRepeatAdapter::calculate. math.Mod
// keeps the sign of its input (like C++'s fmod), so negative remainders
// are shifted back into range after each call.
func spread(method SpreadMethod, t float64) float64 {
	switch method {
	case SpreadReflect:
		t = math.Abs(t)
		period := math.Mod(t, 2)
		if period < 0 {
			period += 2
		}
		if period > 1 {
			return 2 - period
		}
		return period
	case SpreadRepeat:
		f := math.Mod(t, 1)
		if f < 0 {
			f += 1
		}
		return f
	default: // SpreadPad
		if t < 0 {
			return 0
		}
		if t > 1 {
			return 1
		}
		return t
	}
}

// ColorAt samples the profile at gradient-space offset t, applying the
// spread method first.
func (g *Gradient) ColorAt(t float64) svgstyle.Color {
	if len(g.stops) == 0 {
		return svgstyle.Color{}
	}
	s := spread(g.Spread, t)
	idx := int(math.Round(s * float64(profileSize-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= profileSize {
		idx = profileSize - 1
	}
	return g.profile[idx]
}
