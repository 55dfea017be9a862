// Package manuscript ties the conversion pipeline together: frontmatter,
// tokenizing, bibliography resolution, and the document package codec. The
// CLI commands call this package; the pieces stay usable on their own.
package manuscript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/open-cli-collective/manuscript-cli/pkg/bibtex"
	"github.com/open-cli-collective/manuscript-cli/pkg/cite"
	"github.com/open-cli-collective/manuscript-cli/pkg/docx"
	"github.com/open-cli-collective/manuscript-cli/pkg/md"
)

// Options configures a conversion in either direction.
type Options struct {
	Author       string
	Highlight    *docx.HighlightConfig
	Timestamp    time.Time
	Bibliography []bibtex.Entry

	// KeyFormat shapes citation keys assigned during extraction; the zero
	// value is author-year-title.
	KeyFormat cite.KeyFormat
}

// ToDocx converts manuscript markdown into a document package archive.
// Warnings accumulate across the pipeline; they never abort the conversion.
func ToDocx(source []byte, opts Options) ([]byte, []string, error) {
	settings, body := md.ParseFrontmatter(source)
	tokens := md.Tokenize(string(body))

	pkg, warnings, err := docx.Generate(tokens, docx.GenerateOptions{
		Settings:     settings,
		Bibliography: opts.Bibliography,
		Highlight:    opts.Highlight,
		Author:       opts.Author,
		Timestamp:    opts.Timestamp,
	})
	if err != nil {
		return nil, warnings, err
	}
	data, err := pkg.Bytes()
	return data, warnings, err
}

// FromDocx converts a document package archive back into manuscript
// markdown plus the bibliography entries recovered from citation fields.
func FromDocx(data []byte, opts Options) (string, []bibtex.Entry, []string, error) {
	res, err := docx.ExtractAll(data, docx.ExtractOptions{KeyFormat: opts.KeyFormat})
	if err != nil {
		return "", nil, nil, err
	}
	return md.Render(res.Tokens), res.Bibliography, res.Warnings, nil
}

// LoadBibliography reads and parses a bibliography file. A missing path is
// not an error; it yields no entries.
func LoadBibliography(path string) ([]bibtex.Entry, []string, error) {
	if path == "" {
		return nil, nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading bibliography: %w", err)
	}
	entries, warnings := bibtex.Parse(string(data))
	return entries, warnings, nil
}

// ResolveBibliographyPath picks the bibliography file for a markdown
// source: an explicit flag wins, then the frontmatter reference resolved
// against the source directory, then a .bib sibling of the source.
func ResolveBibliographyPath(sourcePath, explicit string, settings md.Settings) string {
	if explicit != "" {
		return explicit
	}
	dir := filepath.Dir(sourcePath)
	if settings.Bibliography != "" {
		if filepath.IsAbs(settings.Bibliography) {
			return settings.Bibliography
		}
		return filepath.Join(dir, settings.Bibliography)
	}
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ".bib"
}

// DerivedOutputPath swaps a path's extension: draft.md becomes draft.docx.
func DerivedOutputPath(sourcePath, ext string) string {
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ext
}
