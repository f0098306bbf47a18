package svgfilter

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/benoitkugler/svgpp/svgxml"
)

// Parse builds a Chain from a <filter> element's primitive children,
// logging one warning per unrecognized primitive tag rather than
// failing the whole chain.
func Parse(filterEl *svgxml.Element, logger zerolog.Logger) *Chain {
	c := &Chain{}
	for _, child := range filterEl.Children {
		result, _ := child.Attr("result")
		switch child.Tag {
		case "feGaussianBlur":
			sx, sy := parseStdDeviation(child)
			c.AddPrimitive(result, GaussianBlur{StdDeviationX: sx, StdDeviationY: sy})
		case "feOffset":
			dx := attrFloat(child, "dx", 0)
			dy := attrFloat(child, "dy", 0)
			c.AddPrimitive(result, Offset{DX: int(dx), DY: int(dy)})
		case "feMerge":
			var inputs []string
			for _, node := range child.Children {
				if node.Tag != "feMergeNode" {
					continue
				}
				in, _ := node.Attr("in")
				if in == "" {
					in = "SourceGraphic"
				}
				inputs = append(inputs, in)
			}
			c.AddPrimitive(result, Merge{Inputs: inputs})
		default:
			logger.Warn().Str("primitive", child.Tag).Msg("unsupported filter primitive, passed through unchanged")
		}
	}
	return c
}

func parseStdDeviation(el *svgxml.Element) (float64, float64) {
	v, ok := el.Attr("stdDeviation")
	if !ok {
		return 0, 0
	}
	parts := strings.Fields(strings.ReplaceAll(v, ",", " "))
	if len(parts) == 0 {
		return 0, 0
	}
	x, _ := strconv.ParseFloat(parts[0], 64)
	y := x
	if len(parts) > 1 {
		y, _ = strconv.ParseFloat(parts[1], 64)
	}
	return x, y
}

func attrFloat(el *svgxml.Element, name string, def float64) float64 {
	v, ok := el.Attr(name)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}
