package svgrender

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgpp/svgraster"
	"github.com/benoitkugler/svgpp/svgstyle"
)

func newRootedCanvas(t *testing.T, w, h float64) *Canvas {
	t.Helper()
	doc := newTestDocument(t, `<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	var bufSlot *svgraster.ImageBuffer
	c := NewRootCanvas(doc, &bufSlot, "svg")
	c.SetViewport(0, 0, w, h)
	return c
}

func TestChildOverflowClipIsPrivateNotSharedWithSibling(t *testing.T) {
	root := newRootedCanvas(t, 4, 4)

	clippedStyle := svgstyle.Default()
	clippedStyle.OverflowClip = true
	clipped := root.Child(clippedStyle, svgstyle.Identity, "g")
	clipped.SetViewport(0, 0, 2, 2)

	sibling := root.Child(svgstyle.Default(), svgstyle.Identity, "g")

	// The clipped child narrowed its own mask outside (0,0)-(2,2)...
	assert.Equal(t, uint8(0), clipped.clip.Mask().AlphaAt(3, 3).A)
	// ...but the sibling, sharing root's original buffer, is untouched.
	assert.Equal(t, uint8(0xff), sibling.clip.Mask().AlphaAt(3, 3).A)
}

func TestExitBlendsOwnBufferIntoParentByOpacity(t *testing.T) {
	root := newRootedCanvas(t, 4, 4)

	style := svgstyle.Default()
	style.Opacity = 0.5
	child := root.Child(style, svgstyle.Identity, "g")

	buf := child.Buffer()
	require.NotNil(t, buf)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			buf.Img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	require.NoError(t, child.Exit())

	_, _, _, a := root.Buffer().Img.At(1, 1).RGBA()
	assert.Greater(t, a, uint32(0))
	assert.Less(t, a, uint32(0xffff))
}

func TestExitWithoutOwnBufferIsANoOp(t *testing.T) {
	root := newRootedCanvas(t, 2, 2)
	child := root.Child(svgstyle.Default(), svgstyle.Identity, "g")
	assert.NoError(t, child.Exit())
}
