package manuscript

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/manuscript-cli/pkg/bibtex"
	"github.com/open-cli-collective/manuscript-cli/pkg/cite"
	"github.com/open-cli-collective/manuscript-cli/pkg/md"
)

func testOptions() Options {
	return Options{
		Author:    "Reviewer",
		Timestamp: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestToDocx_FromDocx_Roundtrip(t *testing.T) {
	source := `---
title: Roundtrip Draft
author: Jane Smith
---

# Introduction

A paragraph with **bold** text, math $x^2$, a tracked {++insertion++},
and an annotated {==claim==}{>>needs a source {>>agreed<<}<<}.

- first point
- second point
`
	opts := testOptions()
	opts.Bibliography = []bibtex.Entry{{
		Type:   "article",
		Key:    "smith2020",
		Fields: map[string]string{"title": "Quantum Widgets", "author": "Smith, Jane", "year": "2020"},
	}}

	data, warnings, err := ToDocx([]byte(source), opts)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	back, _, extractWarnings, err := FromDocx(data, Options{})
	require.NoError(t, err)
	assert.Empty(t, extractWarnings)

	_, body := md.ParseFrontmatter([]byte(source))
	want := md.Signature(md.Tokenize(string(body)))
	got := md.Signature(md.Tokenize(back))
	assert.Equal(t, want, got)
}

func TestToDocx_CitationBibliographyRoundtrip(t *testing.T) {
	source := "The result holds [@smith2020, p. 4].\n"
	opts := testOptions()
	opts.Bibliography = []bibtex.Entry{{
		Type:   "article",
		Key:    "smith2020",
		Fields: map[string]string{"title": "Quantum Widgets", "author": "Smith, Jane", "year": "2020"},
	}}

	data, warnings, err := ToDocx([]byte(source), opts)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	back, bib, _, err := FromDocx(data, Options{})
	require.NoError(t, err)
	assert.Contains(t, back, "[@smith2020, p. 4]")

	require.Len(t, bib, 1)
	assert.Equal(t, "smith2020", bib[0].Key)
	assert.Equal(t, "article", bib[0].Type)
	assert.Equal(t, "Quantum Widgets", bib[0].Field("title"))
	assert.Equal(t, "2020", bib[0].Field("year"))
	assert.Equal(t, "Smith, Jane", bib[0].Field("author"))
}

func TestFromDocx_KeyFormat(t *testing.T) {
	// Manager-linked items carry no embedded markdown key, so their
	// extracted key follows the configured format.
	source := "The result holds [@smith2020].\n"
	opts := testOptions()
	opts.Bibliography = []bibtex.Entry{{
		Type: "article",
		Key:  "smith2020",
		Fields: map[string]string{
			"title":      "Quantum Widgets",
			"author":     "Smith, Jane",
			"year":       "2020",
			"zotero-uri": "http://zotero.org/users/12345/items/ABCD2345",
		},
		ZoteroURI: "http://zotero.org/users/12345/items/ABCD2345",
	}}

	data, warnings, err := ToDocx([]byte(source), opts)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	back, _, _, err := FromDocx(data, Options{KeyFormat: cite.FormatNumeric})
	require.NoError(t, err)
	assert.Contains(t, back, "[@1]")

	back, _, _, err = FromDocx(data, Options{KeyFormat: cite.FormatAuthorYear})
	require.NoError(t, err)
	assert.Contains(t, back, "[@smith2020]")
}

func TestFromDocx_InvalidArchive(t *testing.T) {
	_, _, _, err := FromDocx([]byte("garbage"), Options{})
	assert.Error(t, err)
}

func TestLoadBibliography(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refs.bib")
	require.NoError(t, os.WriteFile(path, []byte("@article{smith2020,\n  title = {{Quantum Widgets}},\n  year = {2020},\n}\n"), 0o644))

	entries, warnings, err := LoadBibliography(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 1)
	assert.Equal(t, "Quantum Widgets", entries[0].Field("title"))
}

func TestLoadBibliography_Missing(t *testing.T) {
	entries, warnings, err := LoadBibliography(filepath.Join(t.TempDir(), "absent.bib"))
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, warnings)
}

func TestResolveBibliographyPath(t *testing.T) {
	settings := md.DefaultSettings()

	assert.Equal(t, "given.bib", ResolveBibliographyPath("doc/draft.md", "given.bib", settings))

	settings.Bibliography = "refs.bib"
	assert.Equal(t, filepath.Join("doc", "refs.bib"), ResolveBibliographyPath("doc/draft.md", "", settings))

	settings.Bibliography = ""
	assert.Equal(t, filepath.Join("doc", "draft.bib"), ResolveBibliographyPath(filepath.Join("doc", "draft.md"), "", settings))
}

func TestDerivedOutputPath(t *testing.T) {
	assert.Equal(t, "draft.docx", DerivedOutputPath("draft.md", ".docx"))
	assert.Equal(t, filepath.Join("a", "b.bib"), DerivedOutputPath(filepath.Join("a", "b.md"), ".bib"))
}
