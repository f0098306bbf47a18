package svgrender

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgpp/svgstyle"
	"github.com/benoitkugler/svgpp/svgxml"
)

func newTestDocument(t *testing.T, svg string) *Document {
	t.Helper()
	xmlDoc, err := svgxml.Parse(strings.NewReader(svg))
	require.NoError(t, err)
	return NewDocument(xmlDoc, Warn, discardLogger())
}

func TestResolvePaintNoneAndCurrentColor(t *testing.T) {
	doc := newTestDocument(t, `<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	style := svgstyle.Default()
	style.Color = svgstyle.Color{R: 10, G: 20, B: 30, A: 255}

	none, err := doc.ResolvePaint(svgstyle.PaintNone{}, style)
	require.NoError(t, err)
	assert.IsType(t, svgstyle.EffectiveNone{}, none)

	cur, err := doc.ResolvePaint(svgstyle.PaintCurrentColor{}, style)
	require.NoError(t, err)
	ec, ok := cur.(svgstyle.EffectiveColor)
	require.True(t, ok)
	assert.Equal(t, style.Color, ec.Color)
}

func TestResolvePaintGradientWithTwoStopsStaysAGradient(t *testing.T) {
	doc := newTestDocument(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<defs>
			<linearGradient id="g1">
				<stop offset="0" stop-color="red"/>
				<stop offset="1" stop-color="blue"/>
			</linearGradient>
		</defs>
	</svg>`)
	paint := svgstyle.PaintIRI{Fragment: "g1"}
	eff, err := doc.ResolvePaint(paint, svgstyle.Default())
	require.NoError(t, err)
	assert.IsType(t, svgstyle.EffectiveGradient{}, eff)
}

func TestResolvePaintGradientWithOneStopCollapsesToSolidColor(t *testing.T) {
	doc := newTestDocument(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<defs>
			<linearGradient id="g1">
				<stop offset="0.5" stop-color="lime"/>
			</linearGradient>
		</defs>
	</svg>`)
	eff, err := doc.ResolvePaint(svgstyle.PaintIRI{Fragment: "g1"}, svgstyle.Default())
	require.NoError(t, err)
	ec, ok := eff.(svgstyle.EffectiveColor)
	require.True(t, ok)
	assert.Equal(t, svgstyle.Color{G: 255, A: 255}, ec.Color)
}

func TestResolvePaintGradientWithIdenticalEndpointsCollapsesToLastStop(t *testing.T) {
	doc := newTestDocument(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<defs>
			<linearGradient id="g1" x1="10" y1="10" x2="10" y2="10">
				<stop offset="0" stop-color="red"/>
				<stop offset="1" stop-color="blue"/>
			</linearGradient>
		</defs>
	</svg>`)
	eff, err := doc.ResolvePaint(svgstyle.PaintIRI{Fragment: "g1"}, svgstyle.Default())
	require.NoError(t, err)
	ec, ok := eff.(svgstyle.EffectiveColor)
	require.True(t, ok)
	assert.Equal(t, svgstyle.Color{B: 255, A: 255}, ec.Color)
}

func TestResolvePaintMissingPaintServerFallsBackToColor(t *testing.T) {
	doc := newTestDocument(t, `<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	paint := svgstyle.PaintIRI{Fragment: "nope", Fallback: svgstyle.PaintColor{Color: svgstyle.Color{R: 9, A: 255}}}
	eff, err := doc.ResolvePaint(paint, svgstyle.Default())
	require.NoError(t, err)
	ec, ok := eff.(svgstyle.EffectiveColor)
	require.True(t, ok)
	assert.Equal(t, uint8(9), ec.Color.R)
}

func TestResolvePaintMissingPaintServerNoFallbackIsFatal(t *testing.T) {
	doc := newTestDocument(t, `<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	_, err := doc.ResolvePaint(svgstyle.PaintIRI{Fragment: "nope"}, svgstyle.Default())
	require.Error(t, err)
	rerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, MissingPaintServer, rerr.Kind)
}
