package svggradient

import (
	"image"
	"testing"

	"github.com/benoitkugler/svgpp/svgstyle"
	"github.com/stretchr/testify/assert"
)

func redBlueStops() []Stop {
	return []Stop{
		{Offset: 0, Color: svgstyle.Color{R: 255, A: 255}, Opacity: 1},
		{Offset: 1, Color: svgstyle.Color{B: 255, A: 255}, Opacity: 1},
	}
}

func TestColorAtEndpoints(t *testing.T) {
	g := New(Linear, SpreadPad, redBlueStops())
	assert.Equal(t, uint8(255), g.ColorAt(0).R)
	assert.Equal(t, uint8(255), g.ColorAt(1).B)
}

func TestColorAtMidpointInterpolates(t *testing.T) {
	g := New(Linear, SpreadPad, redBlueStops())
	mid := g.ColorAt(0.5)
	assert.InDelta(t, 127, int(mid.R), 2)
	assert.InDelta(t, 127, int(mid.B), 2)
}

func TestSpreadPadClamps(t *testing.T) {
	g := New(Linear, SpreadPad, redBlueStops())
	assert.Equal(t, g.ColorAt(0), g.ColorAt(-5))
	assert.Equal(t, g.ColorAt(1), g.ColorAt(5))
}

func TestSpreadRepeatWrapsNegativeCorrectly(t *testing.T) {
	g := New(Linear, SpreadRepeat, redBlueStops())
	// -0.25 repeats to 0.75, not to a negative/garbage value.
	assert.Equal(t, g.ColorAt(0.75), g.ColorAt(-0.25))
}

func TestSpreadReflectBouncesBackAndForth(t *testing.T) {
	g := New(Linear, SpreadReflect, redBlueStops())
	assert.Equal(t, g.ColorAt(0), g.ColorAt(2))
	assert.Equal(t, g.ColorAt(0.25), g.ColorAt(1.75))
}

func TestStopCountAndSoleStopColor(t *testing.T) {
	single := New(Linear, SpreadPad, []Stop{{Offset: 0.5, Color: svgstyle.Color{G: 255, A: 255}, Opacity: 1}})
	assert.Equal(t, 1, single.StopCount())
	assert.Equal(t, svgstyle.Color{G: 255, A: 255}, single.SoleStopColor())

	empty := New(Linear, SpreadPad, nil)
	assert.Equal(t, 0, empty.StopCount())
}

func TestNormalizeStopsSortsAndClamps(t *testing.T) {
	g := New(Linear, SpreadPad, []Stop{
		{Offset: 0.8, Color: svgstyle.Color{B: 255, A: 255}, Opacity: 1},
		{Offset: -0.5, Color: svgstyle.Color{R: 255, A: 255}, Opacity: 1},
		{Offset: 2, Color: svgstyle.Color{G: 255, A: 255}, Opacity: 1},
	})
	assert.Equal(t, uint8(255), g.ColorAt(0).R)
	assert.Equal(t, uint8(255), g.ColorAt(1).G)
}

func TestStopOpacityFoldedIntoAlpha(t *testing.T) {
	g := New(Linear, SpreadPad, []Stop{
		{Offset: 0, Color: svgstyle.Color{R: 255, A: 255}, Opacity: 0.5},
		{Offset: 1, Color: svgstyle.Color{R: 255, A: 255}, Opacity: 0.5},
	})
	assert.InDelta(t, 127, int(g.ColorAt(0).A), 1)
}

func TestSamplerMapsLinearGeometry(t *testing.T) {
	g := New(Linear, SpreadPad, redBlueStops())
	g.X1, g.Y1, g.X2, g.Y2 = 0, 0, 10, 0
	g.UseObjectBoundingBox = false
	s := NewSampler(g, svgstyle.Identity, [4]float64{}, image.Rect(0, 0, 10, 1), 1)

	left := s.At(0, 0)
	right := s.At(9, 0)
	lr, _, _, _ := left.RGBA()
	rr, _, rb, _ := right.RGBA()
	assert.Greater(t, lr, rr)
	assert.Greater(t, rb, uint32(0))
}

func TestSamplerLinearEndpointsStayUnscaledByTranslate(t *testing.T) {
	// x1,y1 is offset from the origin and the axis length isn't 1: a
	// geometry transform that applies translate before scale/rotate
	// would drag (x1,y1) itself through the scale, landing the start of
	// the gradient on the wrong pixel.
	g := New(Linear, SpreadPad, redBlueStops())
	g.X1, g.Y1, g.X2, g.Y2 = 20, 20, 120, 20
	s := NewSampler(g, svgstyle.Identity, [4]float64{}, image.Rect(0, 0, 140, 40), 1)

	atStart := s.At(20, 20)
	atEnd := s.At(119, 20)
	sr, _, _, _ := atStart.RGBA()
	_, _, eb, _ := atEnd.RGBA()
	assert.Greater(t, sr, uint32(0x8000))
	assert.Greater(t, eb, uint32(0x8000))
}

func TestSamplerRadialCenterIsFirstStop(t *testing.T) {
	g := New(Radial, SpreadPad, redBlueStops())
	g.CX, g.CY, g.R = 5, 5, 5
	s := NewSampler(g, svgstyle.Identity, [4]float64{}, image.Rect(0, 0, 10, 10), 1)
	center := s.At(5, 5)
	r, _, _, _ := center.RGBA()
	assert.Greater(t, r, uint32(0x8000))
}

func TestSamplerScalesAlphaByOpacity(t *testing.T) {
	g := New(Linear, SpreadPad, redBlueStops())
	g.X1, g.Y1, g.X2, g.Y2 = 0, 0, 10, 0
	opaque := NewSampler(g, svgstyle.Identity, [4]float64{}, image.Rect(0, 0, 10, 1), 1)
	half := NewSampler(g, svgstyle.Identity, [4]float64{}, image.Rect(0, 0, 10, 1), 0.5)

	_, _, _, fullA := opaque.At(0, 0).RGBA()
	_, _, _, halfA := half.At(0, 0).RGBA()
	assert.InDelta(t, float64(fullA)/2, float64(halfA), float64(fullA)*0.02)
}
