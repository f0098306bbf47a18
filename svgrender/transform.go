package svgrender

import (
	"strconv"
	"strings"

	"github.com/benoitkugler/svgpp/svgstyle"
)

// ParseTransformList parses an SVG "transform" attribute value (a
// whitespace/comma-separated sequence of matrix/translate/scale/
// rotate/skewX/skewY functions) into a single composed Matrix2D,
// folding the function list left-to-right with premultiplication.
func ParseTransformList(v string) (svgstyle.Matrix2D, error) {
	m := svgstyle.Identity
	v = strings.TrimSpace(v)
	for len(v) > 0 {
		open := strings.IndexByte(v, '(')
		if open < 0 {
			break
		}
		name := strings.TrimSpace(v[:open])
		close := strings.IndexByte(v[open:], ')')
		if close < 0 {
			return m, errFmt("unterminated transform function %q", name)
		}
		close += open
		args, err := parseFloatList(v[open+1 : close])
		if err != nil {
			return m, err
		}
		switch name {
		case "matrix":
			if len(args) != 6 {
				return m, errFmt("matrix() needs 6 arguments, got %d", len(args))
			}
			m = m.Mult(svgstyle.Matrix2D{A: args[0], B: args[1], C: args[2], D: args[3], E: args[4], F: args[5]})
		case "translate":
			tx, ty := arg(args, 0), arg(args, 1)
			m = m.Translate(tx, ty)
		case "scale":
			sx := arg(args, 0)
			sy := sx
			if len(args) > 1 {
				sy = args[1]
			}
			m = m.Scale(sx, sy)
		case "rotate":
			angle := arg(args, 0) * degToRad
			if len(args) == 3 {
				cx, cy := args[1], args[2]
				m = m.Translate(cx, cy).Rotate(angle).Translate(-cx, -cy)
			} else {
				m = m.Rotate(angle)
			}
		case "skewX":
			m = m.SkewX(arg(args, 0) * degToRad)
		case "skewY":
			m = m.SkewY(arg(args, 0) * degToRad)
		}
		v = strings.TrimSpace(v[close+1:])
		v = strings.TrimPrefix(v, ",")
		v = strings.TrimSpace(v)
	}
	return m, nil
}

const degToRad = 3.14159265358979323846 / 180

func arg(args []float64, i int) float64 {
	if i < len(args) {
		return args[i]
	}
	return 0
}

func parseFloatList(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' })
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
