package svgfilter

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgpp/svgxml"
)

func el(tag string, attrs map[string]string, children ...*svgxml.Element) *svgxml.Element {
	e := &svgxml.Element{Tag: tag, Children: children}
	for k, v := range attrs {
		e.Attrs = append(e.Attrs, svgxml.Attr{Name: k, Value: v})
	}
	return e
}

func TestParseGaussianBlurSingleStdDeviation(t *testing.T) {
	filterEl := el("filter", nil,
		el("feGaussianBlur", map[string]string{"stdDeviation": "2.5"}))
	c := Parse(filterEl, zerolog.Nop())
	require.Len(t, c.steps, 1)
	blur, ok := c.steps[0].prim.(GaussianBlur)
	require.True(t, ok)
	assert.Equal(t, 2.5, blur.StdDeviationX)
	assert.Equal(t, 2.5, blur.StdDeviationY)
}

func TestParseGaussianBlurTwoStdDeviations(t *testing.T) {
	filterEl := el("filter", nil,
		el("feGaussianBlur", map[string]string{"stdDeviation": "1, 3"}))
	c := Parse(filterEl, zerolog.Nop())
	blur := c.steps[0].prim.(GaussianBlur)
	assert.Equal(t, 1.0, blur.StdDeviationX)
	assert.Equal(t, 3.0, blur.StdDeviationY)
}

func TestParseOffsetDefaultsToZero(t *testing.T) {
	filterEl := el("filter", nil, el("feOffset", nil))
	c := Parse(filterEl, zerolog.Nop())
	off := c.steps[0].prim.(Offset)
	assert.Equal(t, 0, off.DX)
	assert.Equal(t, 0, off.DY)
}

func TestParseOffsetReadsDxDy(t *testing.T) {
	filterEl := el("filter", nil, el("feOffset", map[string]string{"dx": "4", "dy": "-2"}))
	c := Parse(filterEl, zerolog.Nop())
	off := c.steps[0].prim.(Offset)
	assert.Equal(t, 4, off.DX)
	assert.Equal(t, -2, off.DY)
}

func TestParseMergeCollectsNodesDefaultingMissingIn(t *testing.T) {
	filterEl := el("filter", nil,
		el("feMerge", nil,
			el("feMergeNode", map[string]string{"in": "blurred"}),
			el("feMergeNode", nil)))
	c := Parse(filterEl, zerolog.Nop())
	merge := c.steps[0].prim.(Merge)
	assert.Equal(t, []string{"blurred", "SourceGraphic"}, merge.Inputs)
}

func TestParseUnknownPrimitiveIsSkippedNotFatal(t *testing.T) {
	filterEl := el("filter", nil,
		el("feTurbulence", nil),
		el("feOffset", map[string]string{"dx": "1"}))
	c := Parse(filterEl, zerolog.Nop())
	require.Len(t, c.steps, 1)
	_, ok := c.steps[0].prim.(Offset)
	assert.True(t, ok)
}

func TestParseResultNameIsRecorded(t *testing.T) {
	filterEl := el("filter", nil,
		el("feOffset", map[string]string{"dx": "1", "result": "off1"}))
	c := Parse(filterEl, zerolog.Nop())
	assert.Equal(t, "off1", c.steps[0].result)
}
