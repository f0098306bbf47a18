package svgrender

import (
	"image"
	"image/color"
	"math"

	"github.com/benoitkugler/svgpp/svgraster"
	"github.com/benoitkugler/svgpp/svgstyle"
)

// Canvas is the central rendering context: one per group-like element.
// It carries the inherited style/transform, decides whether it needs an
// offscreen buffer, and composites back into its parent on exit.
type Canvas struct {
	Doc       *Document
	Style     svgstyle.Style
	Transform svgstyle.Matrix2D
	LF        svgstyle.LengthFactory

	parentBuffer *svgraster.ImageBuffer
	clip         *svgraster.ClipBuffer
	own          *svgraster.ImageBuffer

	// root is set only on the single topmost Canvas of a render; it
	// points at the caller-owned root buffer slot so SetViewport can size
	// it in place.
	root *rootState

	element string // tag name, for diagnostics
}

type rootState struct {
	buf   **svgraster.ImageBuffer
	sized bool
}

// NewRootCanvas constructs the topmost Canvas, wrapping the
// caller-provided (initially unsized) root buffer slot.
func NewRootCanvas(doc *Document, bufSlot **svgraster.ImageBuffer, element string) *Canvas {
	return &Canvas{
		Doc:       doc,
		Style:     svgstyle.Default(),
		Transform: svgstyle.Identity,
		element:   element,
		root:      &rootState{buf: bufSlot},
	}
}

// Child constructs a Canvas for a nested group-like element, inheriting
// style and transform from c.
func (c *Canvas) Child(style svgstyle.Style, transform svgstyle.Matrix2D, element string) *Canvas {
	return &Canvas{
		Doc:          c.Doc,
		Style:        style,
		Transform:    transform,
		LF:           c.LF,
		parentBuffer: c.Buffer(),
		clip:         c.clip.Share(),
		element:      element,
	}
}

// Buffer returns the effective ImageBuffer this Canvas draws into: its
// own offscreen if NeedsOwnBuffer, else the parent's.
func (c *Canvas) Buffer() *svgraster.ImageBuffer {
	if c.Style.NeedsOwnBuffer() {
		if c.own == nil {
			c.own = svgraster.NewImageBuffer(c.parentDims())
		}
		return c.own
	}
	if c.root != nil {
		return *c.root.buf
	}
	return c.parentBuffer
}

func (c *Canvas) parentDims() (int, int) {
	var b *svgraster.ImageBuffer
	if c.root != nil {
		b = *c.root.buf
	} else {
		b = c.parentBuffer
	}
	if b == nil {
		return 1, 1
	}
	r := b.Img.Bounds()
	return r.Dx(), r.Dy()
}

// SetViewport sizes the root buffer on first sight, narrows the clip
// buffer when overflow is clipped, and always updates the length
// factory.
func (c *Canvas) SetViewport(x, y, w, h float64) {
	c.LF = svgstyle.LengthFactory{ViewportWidth: w, ViewportHeight: h}
	if c.root != nil && !c.root.sized {
		width := int(math.Ceil(w + 1))
		height := int(math.Ceil(h + 1))
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}
		buf := svgraster.NewImageBuffer(width, height)
		fillTransparentWhite(buf)
		*c.root.buf = buf
		c.root.sized = true
		c.clip = svgraster.NewClipBuffer(buf.Img.Bounds())
		return
	}
	if c.Style.OverflowClip {
		if c.clip != nil {
			c.clip = c.clip.CowCopy()
			rect := c.deviceRect(x, y, w, h)
			c.clip.IntersectRect(rect)
		}
	}
}

func (c *Canvas) deviceRect(x, y, w, h float64) image.Rectangle {
	x0, y0 := c.Transform.TransformPoint(x, y)
	x1, y1 := c.Transform.TransformPoint(x+w, y+h)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x1)), int(math.Ceil(y1)))
}

// fillTransparentWhite initializes the root buffer to transparent-white:
// white RGB channels with zero alpha, so compositing reveals white
// wherever nothing was drawn but blending math still sees the right
// channel values at partial coverage.
func fillTransparentWhite(buf *svgraster.ImageBuffer) {
	b := buf.Img.Bounds()
	white := color.RGBA64{R: 0xffff, G: 0xffff, B: 0xffff, A: 0}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			buf.Img.SetRGBA64(x, y, white)
		}
	}
}

// Exit runs the 5-step on-exit compositing chain (filter, clip-path,
// clip buffer, mask, opacity blend). It is a no-op if this Canvas never
// created an own buffer.
func (c *Canvas) Exit() error {
	defer c.clip.Release()
	if c.own == nil {
		return nil
	}
	// 1. filter
	if c.Style.Filter != "" {
		if chain, ok := c.Doc.filters.Resolve(c.Style.Filter); ok {
			bg := c.parentBuffer
			var bgImg *image.RGBA
			if bg != nil {
				bgImg = bg.Img
			} else {
				bgImg = c.own.Img
			}
			c.own.Img = chain.Apply(c.own.Img, bgImg, c.Doc.Logger)
		} else {
			if err := c.Doc.report(MissingReferencedElement, c.element, errFmt("filter %q not found", c.Style.Filter)); err != nil {
				return err
			}
		}
	}
	// 2. clip-path intersect
	if c.Style.ClipPathFragment != "" {
		if err := c.applyClipPath(); err != nil {
			return err
		}
	}
	// 3. clip buffer alpha multiply
	if c.clip != nil {
		c.clip.ApplyTo(c.own)
	}
	// 4. mask
	if c.Style.MaskFragment != "" {
		if err := c.applyMask(); err != nil {
			return err
		}
	}
	// 5. opacity blend into parent
	target := c.parentBuffer
	if target == nil && c.root != nil {
		target = *c.root.buf
	}
	if target != nil {
		svgraster.BlendOver(target, c.own, c.Style.Opacity)
	}
	return nil
}

func (c *Canvas) applyClipPath() error {
	el, ok := c.Doc.XML.FindElementByID(c.Style.ClipPathFragment)
	if !ok {
		return c.Doc.report(MissingReferencedElement, c.element, errFmt("clip-path %q not found", c.Style.ClipPathFragment))
	}
	ref, err := c.Doc.Follow(el)
	if err != nil {
		return err
	}
	defer ref.Release()

	mask := renderClipGeometry(c, el)
	c.clip = c.clip.CowCopy()
	c.clip.IntersectAlpha(mask)
	return nil
}

func (c *Canvas) applyMask() error {
	el, ok := c.Doc.XML.FindElementByID(c.Style.MaskFragment)
	if !ok {
		return c.Doc.fatal(MissingReferencedElement, c.element, errFmt("mask %q not found", c.Style.MaskFragment))
	}
	ref, err := c.Doc.Follow(el)
	if err != nil {
		return err
	}
	defer ref.Release()

	maskBuf, err := renderMaskContent(c, el)
	if err != nil {
		return err
	}
	alpha := svgraster.LuminanceToAlpha(maskBuf)
	applyAlphaToBuffer(c.own, alpha)
	return nil
}

func applyAlphaToBuffer(buf *svgraster.ImageBuffer, alpha *image.Alpha) {
	b := buf.Img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := alpha.AlphaAt(x, y).A
			if a == 0xff {
				continue
			}
			r, g, bch, al := buf.Img.At(x, y).RGBA()
			f := float64(a) / 0xff
			scale := func(v uint32) uint16 { return uint16(float64(v) * f) }
			buf.Img.SetRGBA64(x, y, color.RGBA64{R: scale(r), G: scale(g), B: scale(bch), A: scale(al)})
		}
	}
}
