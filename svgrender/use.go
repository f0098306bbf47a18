package svgrender

import (
	"strings"

	"github.com/benoitkugler/svgpp/svgxml"
)

// renderUse resolves a <use> element's href, cycle-guards it, translates
// by (x,y), and re-drives the traversal on the referenced element (a
// reusable shape, <g>, or <symbol>/<svg>).
func (dr *Driver) renderUse(c *Canvas, el *svgxml.Element) error {
	style, transform := computeChildStyleTransform(c, el)
	if !style.Display {
		return nil
	}

	href, ok := el.Attr("href")
	if !ok || href == "" {
		return nil
	}
	if !strings.HasPrefix(href, "#") {
		return dr.Doc.report(ExternalReference, "use", errFmt("external references aren't supported: %q", href))
	}
	target, found := dr.Doc.XML.FindElementByID(strings.TrimPrefix(href, "#"))
	if !found {
		return dr.Doc.report(MissingReferencedElement, "use", errFmt("use target %q not found", href))
	}

	ref, err := dr.Doc.Follow(target)
	if err != nil {
		return err
	}
	defer ref.Release()

	x := attrNumber(el, "x", 0)
	y := attrNumber(el, "y", 0)
	transform = transform.Translate(x, y)

	child := c.Child(style, transform, "use")

	switch target.Tag {
	case "symbol", "svg":
		if err := dr.renderReferencedSymbolOrSvg(child, el, target); err != nil {
			return err
		}
	default:
		if err := dr.renderElement(child, target); err != nil {
			return err
		}
	}
	return child.Exit()
}

// renderReferencedSymbolOrSvg handles a <use> that targets a <symbol> or
// nested <svg>: the <use>'s explicit width/height (when present)
// supplies the referenced element's own viewport computation; otherwise
// the referenced element's own width/height (or 100%-of-viewport
// default) apply.
func (dr *Driver) renderReferencedSymbolOrSvg(c *Canvas, useEl, target *svgxml.Element) error {
	w, wOk := attrNumberOk(useEl, "width")
	h, hOk := attrNumberOk(useEl, "height")
	if !wOk {
		w, wOk = attrNumberOk(target, "width")
	}
	if !hOk {
		h, hOk = attrNumberOk(target, "height")
	}
	if !wOk {
		w = c.LF.ViewportWidth
	}
	if !hOk {
		h = c.LF.ViewportHeight
	}

	targetStyle := c.Style
	applyPresentationAttrs(&targetStyle, target)
	c.Style = targetStyle
	c.Transform = c.Transform.Mult(rootViewBoxTransform(target, w, h))
	c.SetViewport(0, 0, w, h)

	if !c.Style.Display {
		return nil
	}
	return dr.renderChildren(c, target)
}

func attrNumberOk(el *svgxml.Element, name string) (float64, bool) {
	v, ok := el.Attr(name)
	if !ok || v == "" {
		return 0, false
	}
	return attrNumber(el, name, 0), true
}
