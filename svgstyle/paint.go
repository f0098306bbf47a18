package svgstyle

// Paint is the sum type parsed from a fill/stroke attribute, before the
// gradient registry is consulted (spec ref §3: Paint = none |
// currentColor | Color | IRI{fragment, fallback}).
//
// It is a tagged union via an unexported marker method rather than a
// runtime type switch over concrete structs only, per the Design Notes'
// guidance to avoid ad-hoc type checks scattered through the codebase.
type Paint interface {
	isPaint()
}

type PaintNone struct{}

func (PaintNone) isPaint() {}

type PaintCurrentColor struct{}

func (PaintCurrentColor) isPaint() {}

type PaintColor struct{ Color Color }

func (PaintColor) isPaint() {}

// PaintIRI references a paint server fragment, with an optional solid
// fallback used when the fragment cannot be resolved.
type PaintIRI struct {
	Fragment string
	Fallback Paint // nil, or one of PaintNone/PaintCurrentColor/PaintColor
}

func (PaintIRI) isPaint() {}

// EffectivePaint is what a Paint resolves to after consulting the
// gradient registry (spec ref §3: EffectivePaint = none | Color |
// Gradient). Gradient is represented opaquely here (an interface{}
// implemented by *svggradient.Gradient) to avoid an import cycle between
// svgstyle and svggradient; callers downcast with a type assertion.
type EffectivePaint interface {
	isEffectivePaint()
}

type EffectiveNone struct{}

func (EffectiveNone) isEffectivePaint() {}

type EffectiveColor struct{ Color Color }

func (EffectiveColor) isEffectivePaint() {}

// EffectiveGradient wraps a resolved gradient descriptor.
type EffectiveGradient struct{ Gradient interface{} }

func (EffectiveGradient) isEffectivePaint() {}
