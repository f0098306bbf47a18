package svgraster

import (
	"image"
	"image/color"

	"github.com/benoitkugler/svgpp/svgstyle"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Driver is the 2D backend a Path hands its flattened geometry to: a
// rasterx Filler and Dasher, each over its own Scanner on the same
// target image, accepting this
// engine's own EffectivePaint/Gradient sampler and operating against
// an explicit ImageBuffer.
type Driver struct {
	dasher *rasterx.Dasher
	filler *rasterx.Filler
}

// NewDriver builds a Driver painting into target, using rasterx's
// default scanline/AA scanner (rasterx.ScannerGV).
func NewDriver(target *ImageBuffer) *Driver {
	b := target.Img.Bounds()
	// Filler and Dasher each collect their geometry in their own scanner,
	// so a Fill never rasterizes stroke outlines and vice versa.
	return &Driver{
		dasher: rasterx.NewDasher(b.Dx(), b.Dy(), rasterx.NewScannerGV(b.Dx(), b.Dy(), target.Img, b)),
		filler: rasterx.NewFiller(b.Dx(), b.Dy(), rasterx.NewScannerGV(b.Dx(), b.Dy(), target.Img, b)),
	}
}

func (d *Driver) Clear() {
	d.dasher.Clear()
	d.filler.Clear()
}

// SetWinding selects nonzero vs even-odd fill rule.
func (d *Driver) SetWinding(nonzero bool) {
	d.dasher.SetWinding(nonzero)
	d.filler.SetWinding(nonzero)
}

// SetFillColor paints subsequent Fill() calls with paint, at opacity.
func (d *Driver) SetFillColor(paint svgstyle.EffectivePaint, opacity float64) {
	d.filler.Scanner.SetColor(paintToImage(paint, opacity, d.filler.Scanner))
}

// SetStrokeColor paints subsequent Stroke() calls with paint, at opacity.
func (d *Driver) SetStrokeColor(paint svgstyle.EffectivePaint, opacity float64) {
	d.dasher.Scanner.SetColor(paintToImage(paint, opacity, d.dasher.Scanner))
}

// GradientSampler is implemented by *svggradient.Sampler; kept as an
// interface here (rather than importing svggradient directly) to avoid
// svgraster depending on the gradient math package, matching the same
// avoid-import-cycle discipline svgstyle.EffectivePaint already uses for
// its Gradient field.
type GradientSampler interface {
	image.Image
}

func paintToImage(paint svgstyle.EffectivePaint, opacity float64, scanner rasterx.Scanner) image.Image {
	switch p := paint.(type) {
	case svgstyle.EffectiveColor:
		c := p.Color
		a := uint8(float64(c.A) * clamp01(opacity))
		return image.NewUniform(color.RGBA{R: c.R, G: c.G, B: c.B, A: a})
	case svgstyle.EffectiveGradient:
		if sampler, ok := p.Gradient.(GradientSampler); ok {
			return sampler
		}
	}
	return image.NewUniform(color.RGBA{})
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

var (
	joinToJoin = map[svgstyle.JoinMode]rasterx.JoinMode{
		svgstyle.JoinMiter: rasterx.Miter,
		svgstyle.JoinRound: rasterx.Round,
		svgstyle.JoinBevel: rasterx.Bevel,
	}
	capToFunc = map[svgstyle.CapMode]rasterx.CapFunc{
		svgstyle.CapButt:   rasterx.ButtCap,
		svgstyle.CapRound:  rasterx.RoundCap,
		svgstyle.CapSquare: rasterx.SquareCap,
	}
)

// SetStrokeOptions configures the dasher per the computed stroke style,
// forwarding into rasterx.Dasher.SetStroke.
func (d *Driver) SetStrokeOptions(width float64, join svgstyle.JoinMode, lineCap svgstyle.CapMode, miterLimit float64, dash svgstyle.Dash) {
	d.dasher.SetStroke(
		fToFixed(width), fToFixed(miterLimit),
		capToFunc[lineCap], capToFunc[lineCap], rasterx.FlatGap,
		joinToJoin[join], dash.Array, dash.Offset,
	)
}

func dashToFixed(dash []float64) []fixed.Int26_6 {
	if len(dash) == 0 {
		return nil
	}
	out := make([]fixed.Int26_6, len(dash))
	for i, v := range dash {
		out[i] = fToFixed(v)
	}
	return out
}

func fToFixed(f float64) fixed.Int26_6 { return fixed.Int26_6(f * 64) }

// Start/Line/QuadBezier/CubeBezier/Stop mirror rasterx's Adder interface,
// feeding both the filler and dasher so either Fill or Stroke can be
// invoked afterward without re-walking the geometry.
func (d *Driver) Start(p fixed.Point26_6) {
	d.filler.Start(p)
	d.dasher.Start(p)
}

func (d *Driver) Line(p fixed.Point26_6) {
	d.filler.Line(p)
	d.dasher.Line(p)
}

func (d *Driver) QuadBezier(b, c fixed.Point26_6) {
	d.filler.QuadBezier(b, c)
	d.dasher.QuadBezier(b, c)
}

func (d *Driver) CubeBezier(b, c, e fixed.Point26_6) {
	d.filler.CubeBezier(b, c, e)
	d.dasher.CubeBezier(b, c, e)
}

func (d *Driver) Stop(closeLoop bool) {
	d.filler.Stop(closeLoop)
	d.dasher.Stop(closeLoop)
}

func (d *Driver) Fill()   { d.filler.Draw() }
func (d *Driver) Stroke() { d.dasher.Draw() }

// LuminanceToAlpha converts a rendered mask Canvas's own RGBA buffer
// into a single-channel alpha mask using the sRGB luminance coefficients
// the original's mask compositing step applies (mask_fragment_'s
// "blend_image_with_mask" treats luminance as alpha).
func LuminanceToAlpha(buf *ImageBuffer) *image.Alpha {
	b := buf.Img.Bounds()
	out := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// RGBA() already returns alpha-premultiplied channels, so the
			// weighted sum alone folds in the pixel's own alpha.
			r, g, bch, _ := buf.Img.At(x, y).RGBA()
			lum := 0.2125*float64(r) + 0.7154*float64(g) + 0.0721*float64(bch)
			out.SetAlpha(x, y, color.Alpha{A: uint8(lum / 0xffff * 0xff)})
		}
	}
	return out
}
