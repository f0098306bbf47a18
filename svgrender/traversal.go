package svgrender

import (
	"github.com/benoitkugler/svgpp/svgraster"
	"github.com/benoitkugler/svgpp/svgstyle"
	"github.com/benoitkugler/svgpp/svgxml"
)

// Driver walks an *svgxml.Element tree in document order, building a
// Canvas (or a specialized Path/Use variant) for each child, applying
// its style and transform, and firing path/marker draw events as it
// descends.
type Driver struct {
	Doc *Document
}

// NewDriver builds a traversal driver bound to doc.
func NewDriver(doc *Document) *Driver { return &Driver{Doc: doc} }

// groupTags produce a plain Canvas (no geometry, no specialized
// Use/Path handling).
var groupTags = map[string]bool{"g": true, "a": true}

// definitionTags never draw directly; they are visited only by
// reference (gradients, filters, clip paths, masks, markers) and are
// skipped during ordinary document-order traversal.
var definitionTags = map[string]bool{
	"defs": true, "linearGradient": true, "radialGradient": true,
	"filter": true, "clipPath": true, "mask": true, "marker": true,
	"symbol": true, "stop": true, "title": true, "desc": true,
	"style": true, "metadata": true,
}

var shapeTags = map[string]bool{
	"path": true, "rect": true, "circle": true, "ellipse": true,
	"line": true, "polyline": true, "polygon": true,
}

// Render is the engine's public entry point: it drives the traversal
// from the document's root <svg> element and returns the populated
// root buffer.
func Render(doc *Document, root *svgxml.Element) (*svgraster.ImageBuffer, error) {
	if root == nil || (root.Tag != "svg") {
		return nil, doc.fatal(InvalidSVG, "", errFmt("root element is not <svg>"))
	}
	var bufSlot *svgraster.ImageBuffer
	canvas := NewRootCanvas(doc, &bufSlot, "svg")

	w, h := rootViewport(root)
	applyPresentationAttrs(&canvas.Style, root)
	// Every new root canvas starts pre-translated by (0.5,0.5) so integer
	// coordinates sample pixel centers; applied last, after the viewBox
	// mapping.
	halfPixel := svgstyle.Matrix2D{A: 1, D: 1, E: 0.5, F: 0.5}
	canvas.Transform = halfPixel.Mult(rootViewBoxTransform(root, w, h))
	canvas.SetViewport(0, 0, w, h)
	doc.gradients.SetViewport(canvas.LF)

	driver := NewDriver(doc)
	if err := driver.renderChildren(canvas, root); err != nil {
		return nil, err
	}
	if err := canvas.Exit(); err != nil {
		return nil, err
	}
	return bufSlot, nil
}

func rootViewport(root *svgxml.Element) (float64, float64) {
	w := attrNumber(root, "width", 0)
	h := attrNumber(root, "height", 0)
	if vb, ok := root.Attr("viewBox"); ok {
		if _, _, vw, vh, ok := parseViewBox(vb); ok {
			if w == 0 {
				w = vw
			}
			if h == 0 {
				h = vh
			}
		}
	}
	if w == 0 {
		w = 300
	}
	if h == 0 {
		h = 150
	}
	return w, h
}

func rootViewBoxTransform(root *svgxml.Element, w, h float64) svgstyle.Matrix2D {
	vb, ok := root.Attr("viewBox")
	if !ok {
		return svgstyle.Identity
	}
	minX, minY, vw, vh, ok := parseViewBox(vb)
	if !ok || vw == 0 || vh == 0 {
		return svgstyle.Identity
	}
	sx, sy := w/vw, h/vh
	return svgstyle.Identity.Scale(sx, sy).Translate(-minX, -minY)
}

func parseViewBox(v string) (minX, minY, w, h float64, ok bool) {
	nums, err := parseFloatList(v)
	if err != nil || len(nums) != 4 {
		return 0, 0, 0, 0, false
	}
	return nums[0], nums[1], nums[2], nums[3], true
}

func attrNumber(el *svgxml.Element, name string, def float64) float64 {
	v, ok := el.Attr(name)
	if !ok {
		return def
	}
	n, err := svgstyle.LengthFactory{}.ParseLength(v, svgstyle.WidthPercentage)
	if err != nil {
		return def
	}
	return n
}

// renderChildren visits el's children in document order, skipping
// definition-only tags and descending only while style.Display is
// true.
func (dr *Driver) renderChildren(c *Canvas, el *svgxml.Element) error {
	if !c.Style.Display {
		return nil
	}
	for _, child := range el.Children {
		if err := dr.renderElement(c, child); err != nil {
			return err
		}
	}
	return nil
}

func (dr *Driver) renderElement(c *Canvas, el *svgxml.Element) error {
	if definitionTags[el.Tag] {
		return nil
	}
	switch {
	case el.Tag == "switch":
		return dr.renderSwitch(c, el)
	case el.Tag == "use":
		return dr.renderUse(c, el)
	case groupTags[el.Tag] || el.Tag == "svg":
		return dr.renderGroup(c, el)
	case shapeTags[el.Tag]:
		return dr.renderShape(c, el)
	}
	return nil
}

func (dr *Driver) renderGroup(c *Canvas, el *svgxml.Element) error {
	style, transform := computeChildStyleTransform(c, el)
	child := c.Child(style, transform, el.Tag)
	if el.Tag == "svg" {
		x := attrNumber(el, "x", 0)
		y := attrNumber(el, "y", 0)
		w, h := rootViewport(el)
		child.Transform = child.Transform.Translate(x, y).Mult(rootViewBoxTransform(el, w, h))
		child.SetViewport(0, 0, w, h)
	}
	if !style.Display {
		return nil
	}
	if err := dr.renderChildren(child, el); err != nil {
		return err
	}
	return child.Exit()
}

// renderSwitch picks the first non-definition child (condition
// attributes such as requiredFeatures/systemLanguage are not
// evaluated; every child is treated as viable).
func (dr *Driver) renderSwitch(c *Canvas, el *svgxml.Element) error {
	for _, child := range el.Children {
		if definitionTags[child.Tag] {
			continue
		}
		return dr.renderElement(c, child)
	}
	return nil
}

func (dr *Driver) renderShape(c *Canvas, el *svgxml.Element) error {
	style, transform := computeChildStyleTransform(c, el)
	if !style.Display {
		return nil
	}
	ops, err := pathOpsForElement(el)
	if err != nil {
		return dr.Doc.report(InvalidSVG, el.Tag, err)
	}
	child := c.Child(style, transform, el.Tag)
	if err := dr.drawPath(child, ops); err != nil {
		return err
	}
	return child.Exit()
}

// computeChildStyleTransform applies presentation attributes/CSS style
// on top of the parent's inherited style and composes the local
// "transform" attribute after the parent's current transform.
func computeChildStyleTransform(c *Canvas, el *svgxml.Element) (svgstyle.Style, svgstyle.Matrix2D) {
	style := c.Style
	// opacity, clip-path, mask and filter are applied once, on the buffer
	// of the element that sets them, so descendants do not inherit them.
	style.Opacity = 1
	style.ClipPathFragment, style.MaskFragment, style.Filter = "", "", ""
	applyPresentationAttrs(&style, el)
	transform := c.Transform
	if tv, ok := el.Attr("transform"); ok {
		if m, err := ParseTransformList(tv); err == nil {
			transform = transform.Mult(m)
		}
	}
	return style, transform
}

// applyPresentationAttrs folds an element's presentation attributes and
// "style" CSS declarations onto style, presentation attributes first
// and "style" attribute overrides last.
func applyPresentationAttrs(style *svgstyle.Style, el *svgxml.Element) {
	for _, a := range el.Attrs {
		_ = style.SetAttribute(a.Name, a.Value)
	}
	if decl, ok := el.Attr("style"); ok {
		_ = style.ApplyCSSDeclarations(decl)
	}
}
