package importcmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunImport_WritesMarkdown(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "page.html")
	html := "<h1>Title</h1><p>Some <strong>bold</strong> text</p>"
	require.NoError(t, os.WriteFile(source, []byte(html), 0644))

	opts := &importOptions{output: "table", noColor: true}
	require.NoError(t, runImport(source, opts))

	data, err := os.ReadFile(filepath.Join(tmpDir, "page.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Title")
	assert.Contains(t, string(data), "**bold**")
}

func TestRunImport_RefusesOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "page.html")
	require.NoError(t, os.WriteFile(source, []byte("<p>text</p>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "page.md"), []byte("existing"), 0644))

	opts := &importOptions{output: "table", noColor: true}
	err := runImport(source, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRunImport_MissingSource(t *testing.T) {
	opts := &importOptions{output: "table", noColor: true}
	err := runImport(filepath.Join(t.TempDir(), "absent.html"), opts)
	require.Error(t, err)
}

func TestNewCmdImport_Flags(t *testing.T) {
	cmd := NewCmdImport()

	assert.Equal(t, "import <page.html>", cmd.Use)
	for _, name := range []string{"out", "force"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
