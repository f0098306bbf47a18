package svgstyle

import (
	"math"
	"strconv"
	"strings"
)

// LengthFactory resolves percentage and unit-suffixed lengths against
// the current viewport; every Canvas carries one of these to resolve
// viewport-relative lengths.
type LengthFactory struct {
	ViewportWidth, ViewportHeight float64
}

// PercentBasis selects which viewport dimension a percentage is relative
// to, per SVG's rules for x/width vs y/height vs radii.
type PercentBasis int

const (
	WidthPercentage PercentBasis = iota
	HeightPercentage
	DiagPercentage // sqrt((w^2+h^2)/2), used for e.g. circle "r"
)

func (f LengthFactory) basisValue(basis PercentBasis) float64 {
	switch basis {
	case WidthPercentage:
		return f.ViewportWidth
	case HeightPercentage:
		return f.ViewportHeight
	default:
		w, h := f.ViewportWidth, f.ViewportHeight
		return (w*w + h*h) / 2
	}
}

// ParseLength parses a coordinate/length value, resolving a trailing "%"
// against basis and stripping the other absolute CSS unit suffixes on
// the assumption of a 96dpi user unit.
func (f LengthFactory) ParseLength(v string, basis PercentBasis) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	if strings.HasSuffix(v, "%") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 0, err
		}
		if basis == DiagPercentage {
			return n / 100 * math.Sqrt(f.basisValue(basis)), nil
		}
		return n / 100 * f.basisValue(basis), nil
	}
	for _, suffix := range []string{"px", "pt", "pc", "mm", "cm", "in", "em", "ex"} {
		if strings.HasSuffix(v, suffix) {
			n, err := strconv.ParseFloat(strings.TrimSuffix(v, suffix), 64)
			if err != nil {
				return 0, err
			}
			return n * unitScale(suffix), nil
		}
	}
	return strconv.ParseFloat(v, 64)
}

func unitScale(suffix string) float64 {
	switch suffix {
	case "px", "em", "ex":
		return 1
	case "pt":
		return 96.0 / 72.0
	case "pc":
		return 16
	case "mm":
		return 96.0 / 25.4
	case "cm":
		return 96.0 / 2.54
	case "in":
		return 96
	default:
		return 1
	}
}
