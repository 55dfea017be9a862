package preview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPreview_AcceptWritesHTML(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "draft.md")
	content := "---\ntitle: Draft\n---\n\n# Title\n\nKeep {++new words++} here.\n"
	require.NoError(t, os.WriteFile(source, []byte(content), 0644))

	outPath := filepath.Join(tmpDir, "draft.html")
	opts := &previewOptions{outFile: outPath, accept: true, output: "table", noColor: true}
	require.NoError(t, runPreview(source, opts))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "new words")
	assert.NotContains(t, html, "{++")
	// Frontmatter is not part of the rendered body
	assert.NotContains(t, html, "title: Draft")
}

func TestRunPreview_RejectDropsAddition(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "draft.md")
	require.NoError(t, os.WriteFile(source, []byte("Keep {++new words++} here.\n"), 0644))

	outPath := filepath.Join(tmpDir, "draft.html")
	opts := &previewOptions{outFile: outPath, reject: true, output: "table", noColor: true}
	require.NoError(t, runPreview(source, opts))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "new words")
}

func TestRunPreview_DefaultKeepsMarkers(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "draft.md")
	require.NoError(t, os.WriteFile(source, []byte("Keep {++new words++} here.\n"), 0644))

	outPath := filepath.Join(tmpDir, "draft.html")
	opts := &previewOptions{outFile: outPath, output: "table", noColor: true}
	require.NoError(t, runPreview(source, opts))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "{++new words++}")
}

func TestNewCmdPreview_Flags(t *testing.T) {
	cmd := NewCmdPreview()

	assert.Equal(t, "preview <manuscript.md>", cmd.Use)
	for _, name := range []string{"out", "accept", "reject"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
