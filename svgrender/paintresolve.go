package svgrender

import (
	"github.com/benoitkugler/svgpp/svggradient"
	"github.com/benoitkugler/svgpp/svgstyle"
)

// ResolvePaint turns a Paint (as parsed from fill/stroke) into an
// EffectivePaint ready to hand to the rasterizer, including the
// stop-count and identical-endpoint gradient special cases.
func (d *Document) ResolvePaint(p svgstyle.Paint, style svgstyle.Style) (svgstyle.EffectivePaint, error) {
	switch paint := p.(type) {
	case svgstyle.PaintNone, nil:
		return svgstyle.EffectiveNone{}, nil
	case svgstyle.PaintCurrentColor:
		return svgstyle.EffectiveColor{Color: style.Color}, nil
	case svgstyle.PaintColor:
		return svgstyle.EffectiveColor{Color: paint.Color}, nil
	case svgstyle.PaintIRI:
		g, ok := d.gradients.Resolve(paint.Fragment)
		if !ok {
			if paint.Fallback != nil {
				return d.ResolvePaint(paint.Fallback, style)
			}
			return nil, d.fatal(MissingPaintServer, "", errFmt("can't find paint server %q", paint.Fragment))
		}
		switch g.StopCount() {
		case 0:
			return svgstyle.EffectiveNone{}, nil
		case 1:
			return svgstyle.EffectiveColor{Color: g.SoleStopColor()}, nil
		}
		if g.Kind == svggradient.Linear && g.X1 == g.X2 && g.Y1 == g.Y2 {
			return svgstyle.EffectiveColor{Color: g.ColorAt(1)}, nil
		}
		return svgstyle.EffectiveGradient{Gradient: g}, nil
	default:
		return svgstyle.EffectiveNone{}, nil
	}
}
