package svgfilter

import (
	"image"
	"image/color"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func solidRGBA(r image.Rectangle, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestGaussianBlurOnUniformFieldIsUnchanged(t *testing.T) {
	src := solidRGBA(image.Rect(0, 0, 20, 20), color.RGBA{R: 200, A: 255})
	blur := GaussianBlur{StdDeviationX: 3, StdDeviationY: 3}
	out := blur.Apply(src, nil)
	c := out.RGBAAt(10, 10)
	assert.Equal(t, uint8(200), c.R)
	assert.Equal(t, uint8(255), c.A)
}

func TestGaussianBlurSpreadsAHardEdge(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	blur := GaussianBlur{StdDeviationX: 4, StdDeviationY: 4}
	out := blur.Apply(src, nil)
	// A pixel just left of the edge, formerly transparent, picks up some
	// red from the blur spreading across the boundary.
	assert.Greater(t, out.RGBAAt(9, 10).R, uint8(0))
}

func TestGaussianBlurZeroStdDeviationIsIdentity(t *testing.T) {
	src := solidRGBA(image.Rect(0, 0, 5, 5), color.RGBA{R: 10, G: 20, B: 30, A: 255})
	blur := GaussianBlur{}
	out := blur.Apply(src, nil)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestOffsetTranslatesAndLeavesTransparentGap(t *testing.T) {
	src := solidRGBA(image.Rect(0, 0, 10, 10), color.RGBA{R: 100, A: 255})
	off := Offset{DX: 3, DY: 0}
	out := off.Apply(src, nil)
	assert.Equal(t, uint8(100), out.RGBAAt(5, 5).R)
	assert.Equal(t, uint8(0), out.RGBAAt(1, 5).A)
}

func TestMergeCompositesInputsInOrder(t *testing.T) {
	bottom := solidRGBA(image.Rect(0, 0, 4, 4), color.RGBA{R: 255, A: 255})
	top := solidRGBA(image.Rect(0, 0, 4, 4), color.RGBA{B: 255, A: 255})
	results := map[string]*image.RGBA{"bottom": bottom, "top": top}
	out := applyMerge(Merge{Inputs: []string{"bottom", "top"}}, results, bottom)
	c := out.RGBAAt(1, 1)
	assert.Equal(t, uint8(0), c.R)
	assert.Equal(t, uint8(255), c.B)
}

func TestMergeWithNoInputsReturnsFallback(t *testing.T) {
	fallback := solidRGBA(image.Rect(0, 0, 2, 2), color.RGBA{G: 255, A: 255})
	out := applyMerge(Merge{}, map[string]*image.RGBA{}, fallback)
	assert.Same(t, fallback, out)
}

func TestChainAppliesStepsInOrderAndExposesResultNames(t *testing.T) {
	src := solidRGBA(image.Rect(0, 0, 10, 10), color.RGBA{R: 50, A: 255})
	var c Chain
	c.AddPrimitive("offsetResult", Offset{DX: 2, DY: 0})
	c.AddPrimitive("", Merge{Inputs: []string{"SourceGraphic", "offsetResult"}})

	out := c.Apply(src, nil, zerolog.Nop())
	// offsetResult at (1,5) is transparent (DX=2 shifts nothing into x<2),
	// so the merge at (1,5) shows SourceGraphic's opaque red.
	assert.Equal(t, uint8(50), out.RGBAAt(1, 5).R)
}

func TestChainWithNoStepsReturnsSourceUnchanged(t *testing.T) {
	src := solidRGBA(image.Rect(0, 0, 4, 4), color.RGBA{R: 9, A: 255})
	var c Chain
	out := c.Apply(src, nil, zerolog.Nop())
	assert.Same(t, src, out)
}
