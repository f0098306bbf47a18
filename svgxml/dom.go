// Package svgxml parses an SVG document into an in-memory element tree
// with an id index, giving the renderer a findElementByID primitive
// that every cross-reference site (use, mask, marker, clip-path,
// gradient href) depends on.
package svgxml

import (
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// Attr is an ordered XML attribute, local-name only (namespaces beyond
// xlink are not modeled).
type Attr struct {
	Name  string
	Value string
}

// Element is one XML DOM node.
type Element struct {
	Tag        string
	Attrs      []Attr
	Children   []*Element
	Parent     *Element
	CharData   string
	Doc        *Document
}

// Attr looks up an attribute by local name, ignoring any namespace
// prefix (so "xlink:href" and "href" both match a request for "href",
// which is the common real-world laxness most SVG renderers apply).
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		local := a.Name
		if i := lastColon(a.Name); i >= 0 {
			local = a.Name[i+1:]
		}
		if local == name {
			return a.Value, true
		}
	}
	return "", false
}

func lastColon(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			return i
		}
	}
	return -1
}

// ID returns the element's "id" attribute, or "".
func (e *Element) ID() string { id, _ := e.Attr("id"); return id }

// Document is a parsed SVG document: an element tree plus an id index.
type Document struct {
	Root *Element
	ids  map[string]*Element
}

// FindElementByID looks up an element by its "id" attribute.
func (d *Document) FindElementByID(id string) (*Element, bool) {
	e, ok := d.ids[id]
	return e, ok
}

// Parse reads an SVG document from r using an xml.Decoder with a
// charset-detecting CharsetReader, building a full tree (rather than
// processing tokens as they arrive) because reference resolution
// (use/mask/marker/clip-path/gradient href) needs random access into
// already-seen and not-yet-seen siblings.
func Parse(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	doc := &Document{ids: map[string]*Element{}}
	var stack []*Element
	seenTag := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid svg xml document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			seenTag = true
			el := &Element{Tag: t.Name.Local, Doc: doc}
			for _, a := range t.Attr {
				name := a.Name.Local
				el.Attrs = append(el.Attrs, Attr{Name: name, Value: a.Value})
			}
			if id := el.ID(); id != "" {
				if _, dup := doc.ids[id]; !dup {
					doc.ids[id] = el
				}
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				el.Parent = parent
				parent.Children = append(parent.Children, el)
			} else {
				doc.Root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("invalid svg xml document: unbalanced end element %q", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].CharData += string(t)
			}
		}
	}
	if !seenTag || doc.Root == nil {
		return nil, fmt.Errorf("invalid svg xml document: no root element")
	}
	return doc, nil
}
