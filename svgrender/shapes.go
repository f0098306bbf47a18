package svgrender

import (
	"strconv"

	"github.com/benoitkugler/svgpp/svgxml"
)

// kappa is the standard cubic-bezier circle/ellipse approximation
// constant (4/3 * (sqrt(2)-1)), used to build round shapes out of 4
// cubic arcs.
const kappa = 0.5522847498307936

// pathOpsForElement builds the absolute path-op sequence for one of the
// basic shape elements (rect/circle/ellipse/line/polyline/polygon) or
// parses the "d" attribute for <path>, matching the traversal
// collaborator's contract of delivering shapes as ordinary path events.
func pathOpsForElement(el *svgxml.Element) ([]svgxml.PathOp, error) {
	switch el.Tag {
	case "path":
		d, _ := el.Attr("d")
		return svgxml.ParsePathData(d)
	case "rect":
		x := f(el, "x", 0)
		y := f(el, "y", 0)
		w := f(el, "width", 0)
		h := f(el, "height", 0)
		if w <= 0 || h <= 0 {
			return nil, nil
		}
		return []svgxml.PathOp{
			{Kind: svgxml.OpMove, X: x, Y: y},
			{Kind: svgxml.OpLine, X: x + w, Y: y},
			{Kind: svgxml.OpLine, X: x + w, Y: y + h},
			{Kind: svgxml.OpLine, X: x, Y: y + h},
			{Kind: svgxml.OpClose},
		}, nil
	case "circle":
		cx, cy, r := f(el, "cx", 0), f(el, "cy", 0), f(el, "r", 0)
		return ellipseOps(cx, cy, r, r), nil
	case "ellipse":
		cx, cy, rx, ry := f(el, "cx", 0), f(el, "cy", 0), f(el, "rx", 0), f(el, "ry", 0)
		return ellipseOps(cx, cy, rx, ry), nil
	case "line":
		x1, y1, x2, y2 := f(el, "x1", 0), f(el, "y1", 0), f(el, "x2", 0), f(el, "y2", 0)
		return []svgxml.PathOp{
			{Kind: svgxml.OpMove, X: x1, Y: y1},
			{Kind: svgxml.OpLine, X: x2, Y: y2},
		}, nil
	case "polyline", "polygon":
		pts, _ := el.Attr("points")
		coords, err := svgxml.ParsePoints(pts)
		if err != nil || len(coords) < 2 {
			return nil, err
		}
		ops := []svgxml.PathOp{{Kind: svgxml.OpMove, X: coords[0], Y: coords[1]}}
		for i := 2; i+1 < len(coords); i += 2 {
			ops = append(ops, svgxml.PathOp{Kind: svgxml.OpLine, X: coords[i], Y: coords[i+1]})
		}
		if el.Tag == "polygon" {
			ops = append(ops, svgxml.PathOp{Kind: svgxml.OpClose})
		}
		return ops, nil
	}
	return nil, nil
}

func ellipseOps(cx, cy, rx, ry float64) []svgxml.PathOp {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	ox, oy := rx*kappa, ry*kappa
	return []svgxml.PathOp{
		{Kind: svgxml.OpMove, X: cx + rx, Y: cy},
		{Kind: svgxml.OpCubic, X1: cx + rx, Y1: cy + oy, X2: cx + ox, Y2: cy + ry, X: cx, Y: cy + ry},
		{Kind: svgxml.OpCubic, X1: cx - ox, Y1: cy + ry, X2: cx - rx, Y2: cy + oy, X: cx - rx, Y: cy},
		{Kind: svgxml.OpCubic, X1: cx - rx, Y1: cy - oy, X2: cx - ox, Y2: cy - ry, X: cx, Y: cy - ry},
		{Kind: svgxml.OpCubic, X1: cx + ox, Y1: cy - ry, X2: cx + rx, Y2: cy - oy, X: cx + rx, Y: cy},
		{Kind: svgxml.OpClose},
	}
}

func f(el *svgxml.Element, name string, def float64) float64 {
	v, ok := el.Attr(name)
	if !ok {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return n
}

// pathBounds computes the axis-aligned bounding box of a path-op
// sequence in its own coordinate space (control points included, a
// conservative but standard approximation of a curve's true bbox),
// needed for objectBoundingBox gradient/pattern mapping.
func pathBounds(ops []svgxml.PathOp) (minX, minY, w, h float64) {
	first := true
	extend := func(x, y float64) {
		if first {
			minX, minY, w, h = x, y, 0, 0
			first = false
			return
		}
		if x < minX {
			w += minX - x
			minX = x
		} else if x > minX+w {
			w = x - minX
		}
		if y < minY {
			h += minY - y
			minY = y
		} else if y > minY+h {
			h = y - minY
		}
	}
	for _, op := range ops {
		switch op.Kind {
		case svgxml.OpMove, svgxml.OpLine:
			extend(op.X, op.Y)
		case svgxml.OpCubic:
			extend(op.X1, op.Y1)
			extend(op.X2, op.Y2)
			extend(op.X, op.Y)
		case svgxml.OpQuad:
			extend(op.X1, op.Y1)
			extend(op.X, op.Y)
		}
	}
	return
}
