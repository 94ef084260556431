package source

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-pseudo/pkg/ast"
)

// Document wraps a raw tree payload (YAML or JSON) and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("source: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("source: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Module decodes the payload and requires a module root. Every call decodes
// afresh so callers own the returned tree.
func (d Document) Module() (*ast.Node, error) {
	if len(d.raw) == 0 {
		return nil, errors.New("source: document is empty")
	}
	module, err := ast.DecodeModule(d.raw)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", d.Location(), err)
	}
	return module, nil
}
