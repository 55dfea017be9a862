// Package docx generates and extracts zip-bundled word-processor document
// packages. The generator maps the tokenizer's block/run stream to document
// XML parts; the extractor reverses the mapping. Both accumulate warnings
// instead of failing on recoverable problems.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// Part names inside the package archive.
const (
	PartContentTypes     = "[Content_Types].xml"
	PartRels             = "_rels/.rels"
	PartDocument         = "word/document.xml"
	PartDocumentRels     = "word/_rels/document.xml.rels"
	PartStyles           = "word/styles.xml"
	PartNumbering        = "word/numbering.xml"
	PartComments         = "word/comments.xml"
	PartCommentsExtended = "word/commentsExtended.xml"
	PartCommentsIds      = "word/commentsIds.xml"
	PartFootnotes        = "word/footnotes.xml"
	PartEndnotes         = "word/endnotes.xml"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Package is an in-memory document package: named XML parts in insertion
// order. Each conversion owns its own Package; there is no shared state.
type Package struct {
	parts map[string][]byte
	order []string
}

// NewPackage returns an empty package.
func NewPackage() *Package {
	return &Package{parts: make(map[string][]byte)}
}

// SetPart stores a part, replacing any previous content under the name.
func (p *Package) SetPart(name string, data []byte) {
	if _, exists := p.parts[name]; !exists {
		p.order = append(p.order, name)
	}
	p.parts[name] = data
}

// Part returns a part's content, or nil when the part is absent.
func (p *Package) Part(name string) []byte {
	return p.parts[name]
}

// Has reports whether the package contains the named part.
func (p *Package) Has(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// Names lists part names in insertion order.
func (p *Package) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Write serializes the package as a zip archive.
func (p *Package) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, name := range p.order {
		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("creating archive entry %s: %w", name, err)
		}
		if _, err := f.Write(p.parts[name]); err != nil {
			return fmt.Errorf("writing archive entry %s: %w", name, err)
		}
	}
	return zw.Close()
}

// Bytes serializes the package to an in-memory archive.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OpenPackage reads a zip archive into a Package. An unreadable archive is
// a hard error; individual missing parts are not.
func OpenPackage(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening document package: %w", err)
	}
	pkg := NewPackage()
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening package part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading package part %s: %w", f.Name, err)
		}
		pkg.SetPart(f.Name, content)
	}
	return pkg, nil
}
