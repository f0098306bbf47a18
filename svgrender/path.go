package svgrender

import (
	"math"

	"github.com/benoitkugler/svgpp/svggradient"
	"github.com/benoitkugler/svgpp/svgraster"
	"github.com/benoitkugler/svgpp/svgstyle"
	"github.com/benoitkugler/svgpp/svgxml"
)

// vertex is one marker-eligible point recorded while walking path ops:
// a subpath's first point (start), its last (end), or an interior join
// (mid), together with the tangent direction markers orient to.
type vertex struct {
	kind      markerKind
	x, y      float64
	direction float64
}

type markerKind uint8

const (
	markerStart markerKind = iota
	markerMid
	markerEnd
)

// drawPath runs the fill/stroke/marker sequence for one Path Canvas:
// fill first (if paint resolves to non-none), then stroke, then markers
// at the recorded vertices, all through svgraster.Driver's dual
// Filler/Dasher rasterization.
func (dr *Driver) drawPath(c *Canvas, ops []svgxml.PathOp) error {
	if !c.Style.Display || len(ops) == 0 {
		return nil
	}

	buf := c.Buffer()
	rd := svgraster.NewDriver(buf)
	// The dasher expands the stroke while the path is fed, so the stroke
	// options must be set before feedOps.
	rd.SetStrokeOptions(c.Style.StrokeWidth, c.Style.LineJoin, c.Style.LineCap, c.Style.MiterLimit, normalizeDash(c.Style.Dash))
	feedOps(rd, c.Transform, ops)

	if _, ok := c.Style.FillPaint.(svgstyle.PaintNone); !ok {
		fillPaint, err := dr.Doc.ResolvePaint(c.Style.FillPaint, c.Style)
		if err != nil {
			return err
		}
		if _, isNone := fillPaint.(svgstyle.EffectiveNone); !isNone {
			fillPaint = resolveSampler(fillPaint, c, ops, buf, c.Style.FillOpacity)
			rd.SetWinding(c.Style.NonzeroFillRule)
			rd.SetFillColor(fillPaint, c.Style.FillOpacity)
			rd.Fill()
		}
	}

	if _, ok := c.Style.StrokePaint.(svgstyle.PaintNone); !ok {
		strokePaint, err := dr.Doc.ResolvePaint(c.Style.StrokePaint, c.Style)
		if err != nil {
			return err
		}
		if _, isNone := strokePaint.(svgstyle.EffectiveNone); !isNone {
			strokePaint = resolveSampler(strokePaint, c, ops, buf, c.Style.StrokeOpacity)
			rd.SetStrokeColor(strokePaint, c.Style.StrokeOpacity)
			rd.Stroke()
		}
	}

	if c.Style.MarkerStart != "" || c.Style.MarkerMid != "" || c.Style.MarkerEnd != "" {
		for _, v := range markerVertices(ops) {
			id := ""
			switch v.kind {
			case markerStart:
				id = c.Style.MarkerStart
			case markerEnd:
				id = c.Style.MarkerEnd
			default:
				id = c.Style.MarkerMid
			}
			if id == "" {
				continue
			}
			if err := dr.drawMarker(c, id, v.x, v.y, v.direction); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveSampler turns a just-resolved EffectiveGradient's raw
// *svggradient.Gradient into a ready-to-paint *svggradient.Sampler,
// composing the path's own bounding box (for objectBoundingBox
// gradients), the canvas's current transform, and the fill-opacity or
// stroke-opacity the paint is drawn at. Any other EffectivePaint passes
// through unchanged.
func resolveSampler(paint svgstyle.EffectivePaint, c *Canvas, ops []svgxml.PathOp, buf *svgraster.ImageBuffer, opacity float64) svgstyle.EffectivePaint {
	eg, ok := paint.(svgstyle.EffectiveGradient)
	if !ok {
		return paint
	}
	g, ok := eg.Gradient.(*svggradient.Gradient)
	if !ok {
		return paint
	}
	bx, by, bw, bh := pathBounds(ops)
	sampler := svggradient.NewSampler(g, c.Transform, [4]float64{bx, by, bw, bh}, buf.Img.Bounds(), opacity)
	return svgstyle.EffectiveGradient{Gradient: sampler}
}

// normalizeDash duplicates an odd-length dasharray to make it even, per
// SVG's own stroke-dasharray rule.
func normalizeDash(d svgstyle.Dash) svgstyle.Dash {
	if len(d.Array) == 0 {
		return d
	}
	sum := 0.0
	for _, v := range d.Array {
		sum += v
	}
	if sum <= 0 {
		return svgstyle.Dash{}
	}
	if len(d.Array)%2 == 0 {
		return d
	}
	doubled := make([]float64, len(d.Array)*2)
	copy(doubled, d.Array)
	copy(doubled[len(d.Array):], d.Array)
	return svgstyle.Dash{Array: doubled, Offset: d.Offset}
}

func feedOps(rd *svgraster.Driver, m svgstyle.Matrix2D, ops []svgxml.PathOp) {
	started := false
	for _, op := range ops {
		switch op.Kind {
		case svgxml.OpMove:
			if started {
				rd.Stop(false)
			}
			rd.Start(m.TransformFixed(op.X, op.Y))
			started = true
		case svgxml.OpLine:
			rd.Line(m.TransformFixed(op.X, op.Y))
		case svgxml.OpCubic:
			rd.CubeBezier(m.TransformFixed(op.X1, op.Y1), m.TransformFixed(op.X2, op.Y2), m.TransformFixed(op.X, op.Y))
		case svgxml.OpQuad:
			rd.QuadBezier(m.TransformFixed(op.X1, op.Y1), m.TransformFixed(op.X, op.Y))
		case svgxml.OpClose:
			rd.Stop(true)
			started = false
		}
	}
	if started {
		rd.Stop(false)
	}
}

// markerVertices walks the (untransformed, user-space) path ops and
// records one vertex per endpoint, with a tangent direction computed
// from the incoming/outgoing segment: marker-start fires once,
// marker-end once, marker-mid at every interior vertex, in
// path-vertex order.
func markerVertices(ops []svgxml.PathOp) []vertex {
	type pt struct{ x, y float64 }
	var pts []pt
	var subpathStart int
	for _, op := range ops {
		switch op.Kind {
		case svgxml.OpMove:
			subpathStart = len(pts)
			pts = append(pts, pt{op.X, op.Y})
		case svgxml.OpLine, svgxml.OpCubic, svgxml.OpQuad:
			pts = append(pts, pt{op.X, op.Y})
		case svgxml.OpClose:
			if subpathStart < len(pts) {
				pts = append(pts, pts[subpathStart])
			}
		}
	}
	if len(pts) == 0 {
		return nil
	}
	out := make([]vertex, len(pts))
	for i, p := range pts {
		kind := markerMid
		if i == 0 {
			kind = markerStart
		} else if i == len(pts)-1 {
			kind = markerEnd
		}
		dir := 0.0
		switch {
		case i == 0 && len(pts) > 1:
			dir = angleBetween(p, pts[i+1])
		case i == len(pts)-1:
			dir = angleBetween(pts[i-1], p)
		default:
			in := angleBetween(pts[i-1], p)
			out2 := angleBetween(p, pts[i+1])
			dir = (in + out2) / 2
		}
		out[i] = vertex{kind: kind, x: p.x, y: p.y, direction: dir}
	}
	return out
}

func angleBetween(a, b struct{ x, y float64 }) float64 {
	return math.Atan2(b.y-a.y, b.x-a.x)
}
