package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/manuscript-cli/pkg/bibtex"
	"github.com/open-cli-collective/manuscript-cli/pkg/manuscript"
)

func writeDocument(t *testing.T, dir, markdown string, entries []bibtex.Entry) string {
	t.Helper()
	data, _, err := manuscript.ToDocx([]byte(markdown), manuscript.Options{
		Author:       "Reviewer",
		Bibliography: entries,
	})
	require.NoError(t, err)

	path := filepath.Join(dir, "review.docx")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestRunExtract_WritesMarkdown(t *testing.T) {
	tmpDir := t.TempDir()
	docPath := writeDocument(t, tmpDir, "# Title\n\nSome {++added++} text.\n", nil)

	opts := &extractOptions{output: "table", noColor: true}
	require.NoError(t, runExtract(docPath, opts))

	data, err := os.ReadFile(filepath.Join(tmpDir, "review.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Title")
	assert.Contains(t, string(data), "{++added++}")
}

func TestRunExtract_RecoversBibliography(t *testing.T) {
	tmpDir := t.TempDir()
	entries := []bibtex.Entry{{
		Type: "article",
		Key:  "smith2020",
		Fields: map[string]string{
			"title": "Quantum Widgets",
			"year":  "2020",
		},
	}}
	docPath := writeDocument(t, tmpDir, "Cites [@smith2020].\n", entries)

	opts := &extractOptions{output: "table", noColor: true}
	require.NoError(t, runExtract(docPath, opts))

	data, err := os.ReadFile(filepath.Join(tmpDir, "review.bib"))
	require.NoError(t, err)
	recovered, warnings := bibtex.Parse(string(data))
	require.Empty(t, warnings)
	require.Len(t, recovered, 1)
	assert.Equal(t, "smith2020", recovered[0].Key)
}

func TestRunExtract_RefusesOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	docPath := writeDocument(t, tmpDir, "text\n", nil)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "review.md"), []byte("existing"), 0644))

	opts := &extractOptions{output: "table", noColor: true}
	err := runExtract(docPath, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	opts.force = true
	require.NoError(t, runExtract(docPath, opts))
}

func TestRunExtract_InvalidArchive(t *testing.T) {
	tmpDir := t.TempDir()
	docPath := filepath.Join(tmpDir, "broken.docx")
	require.NoError(t, os.WriteFile(docPath, []byte("not a zip"), 0644))

	opts := &extractOptions{output: "table", noColor: true}
	err := runExtract(docPath, opts)
	require.Error(t, err)
}

func TestNewCmdExtract_Flags(t *testing.T) {
	cmd := NewCmdExtract()

	assert.Equal(t, "extract <document.docx>", cmd.Use)
	for _, name := range []string{"out", "bibliography", "stdout", "force"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
