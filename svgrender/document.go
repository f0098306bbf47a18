package svgrender

import (
	"github.com/rs/zerolog"

	"github.com/benoitkugler/svgpp/svgxml"
)

// ErrorMode controls whether non-fatal conditions (warn-and-continue
// kinds) escalate to a returned fatal error.
type ErrorMode uint8

const (
	Warn ErrorMode = iota
	Strict
)

// Document is the per-render shared state: the parsed XML tree, the
// lazy gradient/filter registries, the reference cycle-guard set, and a
// logger every non-fatal condition is reported through exactly once.
type Document struct {
	XML    *svgxml.Document
	Mode   ErrorMode
	Logger zerolog.Logger

	gradients *GradientRegistry
	filters   *FilterRegistry

	followed map[*svgxml.Element]bool
}

// NewDocument builds a render-scoped Document around an already-parsed
// XML tree.
func NewDocument(xmlDoc *svgxml.Document, mode ErrorMode, logger zerolog.Logger) *Document {
	d := &Document{XML: xmlDoc, Mode: mode, Logger: logger, followed: map[*svgxml.Element]bool{}}
	d.gradients = newGradientRegistry(d)
	d.filters = newFilterRegistry(d)
	return d
}

// report handles a non-fatal condition: logs it once at Warn level, or
// turns it into a fatal *Error under Strict mode.
func (d *Document) report(kind ErrorKind, element string, err error) error {
	if d.Mode == Strict {
		e := newError(kind, element, err)
		e.Fatal = true
		return e
	}
	d.Logger.Warn().Str("element", element).Str("kind", kind.String()).Msg(err.Error())
	return nil
}

// fatal always returns a fatal *Error, regardless of ErrorMode.
func (d *Document) fatal(kind ErrorKind, element string, err error) error {
	e := newError(kind, element, err)
	e.Fatal = true
	return e
}

// FollowRef is the scoped cycle-detection guard: taking it inserts el
// into the followed-refs set; Release removes it. A duplicate insertion
// is always fatal, regardless of ErrorMode.
type FollowRef struct {
	doc *Document
	el  *svgxml.Element
}

// Follow takes a FollowRef on el, or returns a fatal CyclicReference
// error if el is already being visited somewhere up the reference chain.
func (d *Document) Follow(el *svgxml.Element) (*FollowRef, error) {
	if d.followed[el] {
		return nil, d.fatal(CyclicReference, el.Tag, errCyclic(el))
	}
	d.followed[el] = true
	return &FollowRef{doc: d, el: el}, nil
}

// Release removes the guarded element from the followed-refs set. Safe
// to call via defer immediately after Follow succeeds.
func (r *FollowRef) Release() {
	if r == nil {
		return
	}
	delete(r.doc.followed, r.el)
}

func errCyclic(el *svgxml.Element) error {
	id := el.ID()
	if id == "" {
		return errFmt("cyclic reference found on <%s>", el.Tag)
	}
	return errFmt("cyclic reference found on <%s id=%q>", el.Tag, id)
}
