package svgraster

import (
	"image"
	"image/color"
)

// ClipBuffer is a single-channel alpha mask shared down the Canvas tree
// via copy-on-write, matching the original's clip_buffer_ field: most
// descendants never touch it and so can share the parent's buffer
// pointer for free; only a Canvas that actually narrows the clip
// (overflow clipping, a clip-path) needs a private copy.
type ClipBuffer struct {
	mask *image.Alpha
	refs *int
}

// NewClipBuffer allocates a fully-opaque mask covering the given
// rectangle (no clipping in effect yet).
func NewClipBuffer(bounds image.Rectangle) *ClipBuffer {
	m := image.NewAlpha(bounds)
	for i := range m.Pix {
		m.Pix[i] = 0xff
	}
	refs := 1
	return &ClipBuffer{mask: m, refs: &refs}
}

// Share returns a reference to the same underlying mask, incrementing
// the refcount; callers that only read the clip (the common case for a
// Canvas with no clip-path/overflow of its own) use this. A nil
// receiver (a Canvas with no clip in effect yet) shares as nil.
func (c *ClipBuffer) Share() *ClipBuffer {
	if c == nil {
		return nil
	}
	*c.refs++
	return &ClipBuffer{mask: c.mask, refs: c.refs}
}

// Release decrements the refcount; the last holder's release is a no-op
// since Go's GC reclaims the backing array once unreferenced, but the
// count still matters for CowCopy's decision of whether a copy is
// required. Safe to call on a nil receiver.
func (c *ClipBuffer) Release() {
	if c != nil && c.refs != nil {
		*c.refs--
	}
}

// CowCopy returns a private, independently mutable ClipBuffer: a cheap
// aliasing of the mask if this is the sole reference, otherwise a deep
// copy. A nil receiver has no mask to copy and stays nil.
func (c *ClipBuffer) CowCopy() *ClipBuffer {
	if c == nil {
		return nil
	}
	if *c.refs <= 1 {
		refs := 1
		return &ClipBuffer{mask: c.mask, refs: &refs}
	}
	cp := image.NewAlpha(c.mask.Bounds())
	copy(cp.Pix, c.mask.Pix)
	refs := 1
	return &ClipBuffer{mask: cp, refs: &refs}
}

// Mask exposes the underlying alpha image, read-only by convention; call
// CowCopy first if the caller intends to mutate it.
func (c *ClipBuffer) Mask() *image.Alpha { return c.mask }

// IntersectRect narrows the mask to zero outside r, the overflow-clip
// case of Canvas::set_viewport ("if overflow is not visible, narrow the
// clip buffer to the viewport rect").
func (c *ClipBuffer) IntersectRect(r image.Rectangle) {
	b := c.mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !(image.Pt(x, y).In(r)) {
				c.mask.SetAlpha(x, y, color.Alpha{A: 0})
			}
		}
	}
}

// IntersectAlpha multiplies this mask by another alpha image covering
// the same bounds, implementing the clip-path intersection step of
// Canvas::on_exit_element ("clip_buffer_ &= rasterized clip-path
// geometry").
func (c *ClipBuffer) IntersectAlpha(other *image.Alpha) {
	b := c.mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := c.mask.PixOffset(x, y)
			j := other.PixOffset(x, y)
			a := uint32(c.mask.Pix[i]) * uint32(other.Pix[j]) / 0xff
			c.mask.Pix[i] = uint8(a)
		}
	}
}

// ApplyTo multiplies img's alpha channel by this clip mask in place,
// the per-pixel "clip_buffer_ alpha multiply" step applied to a Canvas's
// own image buffer on exit.
func (c *ClipBuffer) ApplyTo(img *ImageBuffer) {
	b := img.Img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			ca := c.mask.AlphaAt(x, y).A
			if ca == 0xff {
				continue
			}
			r, g, bch, a := img.Img.At(x, y).RGBA()
			f := float64(ca) / 0xff
			scale := func(v uint32) uint16 { return uint16(float64(v) * f) }
			img.Img.SetRGBA64(x, y, color.RGBA64{R: scale(r), G: scale(g), B: scale(bch), A: scale(a)})
		}
	}
}
