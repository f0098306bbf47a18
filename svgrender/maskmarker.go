package svgrender

import (
	"image"
	"image/color"
	"strconv"

	"github.com/benoitkugler/svgpp/svgraster"
	"github.com/benoitkugler/svgpp/svgstyle"
	"github.com/benoitkugler/svgpp/svgxml"
)

// drawMarker looks up the referenced <marker> element, guards against
// cycles, builds the two-phase priority-attribute transform
// (markerUnits/orient consumed before the rest), and renders the
// marker's content at the given path vertex.
func (dr *Driver) drawMarker(c *Canvas, markerID string, vx, vy, direction float64) error {
	el, ok := dr.Doc.XML.FindElementByID(markerID)
	if !ok || el.Tag != "marker" {
		return dr.Doc.report(MissingReferencedElement, "marker", errFmt("marker %q not found", markerID))
	}
	ref, err := dr.Doc.Follow(el)
	if err != nil {
		return err
	}
	defer ref.Release()

	markerUnits, _ := el.Attr("markerUnits")
	orient, _ := el.Attr("orient")
	refX := f(el, "refX", 0)
	refY := f(el, "refY", 0)

	angle := direction
	if orient != "" && orient != "auto" && orient != "auto-start-reverse" {
		if deg, err := strconv.ParseFloat(orient, 64); err == nil {
			angle = deg * degToRad
		}
	}

	// Translate to the vertex and rotate/scale are resolved before any
	// other marker attribute is consulted, then refX/refY anchors the
	// content.
	m := c.Transform.Translate(vx, vy).Rotate(angle)
	if markerUnits != "userSpaceOnUse" {
		m = m.Scale(c.Style.StrokeWidth, c.Style.StrokeWidth)
	}
	m = m.Translate(-refX, -refY)

	// Marker content does not inherit the referencing element's style;
	// it starts from the initial computed style.
	style := svgstyle.Default()
	applyPresentationAttrs(&style, el)
	markerCanvas := c.Child(style, m, "marker")
	if err := dr.renderChildren(markerCanvas, el); err != nil {
		return err
	}
	return markerCanvas.Exit()
}

// renderClipGeometry rasterizes a <clipPath> element's shape children
// into a coverage mask sized to c's own buffer, under c's current
// transform (clipPathUnits defaults to userSpaceOnUse).
func renderClipGeometry(c *Canvas, clipEl *svgxml.Element) *image.Alpha {
	dims := c.Buffer().Img.Bounds()
	temp := svgraster.NewImageBuffer(dims.Dx(), dims.Dy())
	rd := svgraster.NewDriver(temp)
	rd.SetWinding(true)
	white := svgstyle.EffectiveColor{Color: svgstyle.Color{R: 255, G: 255, B: 255, A: 255}}

	for _, child := range clipEl.Children {
		if !shapeTags[child.Tag] {
			continue
		}
		ops, err := pathOpsForElement(child)
		if err != nil || len(ops) == 0 {
			continue
		}
		transform := c.Transform
		if tv, ok := child.Attr("transform"); ok {
			if lm, err := ParseTransformList(tv); err == nil {
				transform = transform.Mult(lm)
			}
		}
		feedOps(rd, transform, ops)
		rd.SetFillColor(white, 1)
		rd.Fill()
	}
	return alphaChannelOf(temp)
}

func alphaChannelOf(buf *svgraster.ImageBuffer) *image.Alpha {
	b := buf.Img.Bounds()
	out := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := buf.Img.At(x, y).RGBA()
			out.SetAlpha(x, y, color.Alpha{A: uint8(a >> 8)})
		}
	}
	return out
}

// renderMaskContent rasterizes the referenced <mask> into a temporary
// RGBA buffer sized to the parent buffer: mask content is an ordinary
// Canvas subtree, drawn with maskContentUnits defaulting to
// userSpaceOnUse (the referencing element's own transform).
func renderMaskContent(c *Canvas, maskEl *svgxml.Element) (*svgraster.ImageBuffer, error) {
	dims := c.Buffer().Img.Bounds()
	temp := svgraster.NewImageBuffer(dims.Dx(), dims.Dy())
	maskCanvas := &Canvas{Doc: c.Doc, Style: svgstyle.Default(), Transform: c.Transform, LF: c.LF, parentBuffer: temp}
	applyPresentationAttrs(&maskCanvas.Style, maskEl)

	dr := NewDriver(c.Doc)
	if err := dr.renderChildren(maskCanvas, maskEl); err != nil {
		return nil, err
	}
	if err := maskCanvas.Exit(); err != nil {
		return nil, err
	}
	return temp, nil
}
