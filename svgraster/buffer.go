// Package svgraster is the rasterx-backed 2D backend: it owns pixel
// buffers and turns path/stroke geometry plus a resolved paint into
// pixels.
package svgraster

import (
	"image"
	"image/color"
	"image/draw"
)

// ImageBuffer is a Canvas's own RGBA pixel buffer (spec ref §3: Canvas
// "image_buffer (present only if NeedsOwnBuffer())"), created lazily the
// first time a Canvas that needs one is entered.
type ImageBuffer struct {
	Img *image.RGBA
}

// NewImageBuffer allocates a zeroed (fully transparent) buffer of the
// given device-pixel size.
func NewImageBuffer(width, height int) *ImageBuffer {
	return &ImageBuffer{Img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Image returns the buffer's backing *image.RGBA, for callers (the CLI's
// PNG encoder, pixel-level tests) that want the standard image.Image API.
func (b *ImageBuffer) Image() *image.RGBA { return b.Img }

// BlendOver composites src onto dst at opacity, using straight (non
// premultiplied) alpha blending per channel, matching the final step of
// the original's Canvas::on_exit_element compositing chain ("blend with
// opacity").  dst and src must have identical bounds.
func BlendOver(dst, src *ImageBuffer, opacity float64) {
	if opacity <= 0 {
		return
	}
	bounds := dst.Img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sr, sg, sb, sa := src.Img.At(x, y).RGBA()
			if sa == 0 {
				continue
			}
			a := float64(sa) / 0xffff * opacity
			dr, dg, db, da := dst.Img.At(x, y).RGBA()
			blend := func(s, d uint32) uint16 {
				return uint16((float64(s)*a + float64(d)*(1-a)))
			}
			dst.Img.Set(x, y, color.RGBA64{
				R: blend(sr, dr),
				G: blend(sg, dg),
				B: blend(sb, db),
				A: blend(sa, da),
			})
		}
	}
}

// CopyInto draws src over dst at (0,0), used when compositing a
// child Canvas's own buffer back without any extra opacity scaling
// (opacity==1 fast path of BlendOver, kept separate since draw.Draw is
// the idiomatic stdlib way to do a plain composite).
func CopyInto(dst *ImageBuffer, src *ImageBuffer) {
	draw.Draw(dst.Img, dst.Img.Bounds(), src.Img, image.Point{}, draw.Over)
}
