package svgstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsOwnBufferPredicate(t *testing.T) {
	s := Default()
	assert.False(t, s.NeedsOwnBuffer())

	withOpacity := s
	withOpacity.Opacity = 0.5
	assert.True(t, withOpacity.NeedsOwnBuffer())

	withMask := s
	withMask.MaskFragment = "m1"
	assert.True(t, withMask.NeedsOwnBuffer())

	withClip := s
	withClip.ClipPathFragment = "c1"
	assert.True(t, withClip.NeedsOwnBuffer())

	withFilter := s
	withFilter.Filter = "f1"
	assert.True(t, withFilter.NeedsOwnBuffer())
}

func TestSetAttributeFillParsesColor(t *testing.T) {
	s := Default()
	require.NoError(t, s.SetAttribute("fill", "#ff0000"))
	pc, ok := s.FillPaint.(PaintColor)
	require.True(t, ok)
	assert.Equal(t, Color{R: 255, A: 255}, pc.Color)
}

func TestSetAttributeFillURLWithFallback(t *testing.T) {
	s := Default()
	require.NoError(t, s.SetAttribute("fill", "url(#grad) blue"))
	iri, ok := s.FillPaint.(PaintIRI)
	require.True(t, ok)
	assert.Equal(t, "grad", iri.Fragment)
	fb, ok := iri.Fallback.(PaintColor)
	require.True(t, ok)
	assert.Equal(t, Color{B: 255, A: 255}, fb.Color)
}

func TestSetAttributeStrokeDasharrayNone(t *testing.T) {
	s := Default()
	s.Dash.Array = []float64{1, 2}
	require.NoError(t, s.SetAttribute("stroke-dasharray", "none"))
	assert.Nil(t, s.Dash.Array)
}

func TestApplyCSSDeclarationsOverridesPresentationAttrs(t *testing.T) {
	s := Default()
	require.NoError(t, s.SetAttribute("fill", "red"))
	require.NoError(t, s.ApplyCSSDeclarations("fill: blue; opacity: 0.5"))
	pc, ok := s.FillPaint.(PaintColor)
	require.True(t, ok)
	assert.Equal(t, Color{B: 255, A: 255}, pc.Color)
	assert.Equal(t, 0.5, s.Opacity)
}

func TestSetAttributeOpacityClampsToUnitRange(t *testing.T) {
	s := Default()
	require.NoError(t, s.SetAttribute("opacity", "150%"))
	assert.Equal(t, 1.0, s.Opacity)
}

func TestSetAttributeMarkerShorthandSetsAllThree(t *testing.T) {
	s := Default()
	require.NoError(t, s.SetAttribute("marker", "url(#dot)"))
	assert.Equal(t, "dot", s.MarkerStart)
	assert.Equal(t, "dot", s.MarkerMid)
	assert.Equal(t, "dot", s.MarkerEnd)
}
