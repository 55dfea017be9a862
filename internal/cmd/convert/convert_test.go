package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateConfig(t *testing.T) {
	t.Helper()
	origXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Cleanup(func() { os.Setenv("XDG_CONFIG_HOME", origXDG) })
	for _, v := range []string{"MSC_AUTHOR", "MSC_HIGHLIGHT", "MSC_KEY_FORMAT"} {
		orig := os.Getenv(v)
		os.Unsetenv(v)
		t.Cleanup(func() { os.Setenv(v, orig) })
	}
}

func TestRunConvert_WritesDocument(t *testing.T) {
	isolateConfig(t)
	tmpDir := t.TempDir()

	source := filepath.Join(tmpDir, "draft.md")
	require.NoError(t, os.WriteFile(source, []byte("# Title\n\nSome {++added++} text.\n"), 0644))

	opts := &convertOptions{output: "table", noColor: true}
	require.NoError(t, runConvert(source, opts))

	data, err := os.ReadFile(filepath.Join(tmpDir, "draft.docx"))
	require.NoError(t, err)
	// Zip archives start with PK
	assert.Equal(t, "PK", string(data[:2]))
}

func TestRunConvert_RefusesOverwrite(t *testing.T) {
	isolateConfig(t)
	tmpDir := t.TempDir()

	source := filepath.Join(tmpDir, "draft.md")
	require.NoError(t, os.WriteFile(source, []byte("text\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "draft.docx"), []byte("existing"), 0644))

	opts := &convertOptions{output: "table", noColor: true}
	err := runConvert(source, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	opts.force = true
	require.NoError(t, runConvert(source, opts))
}

func TestRunConvert_SiblingBibliography(t *testing.T) {
	isolateConfig(t)
	tmpDir := t.TempDir()

	source := filepath.Join(tmpDir, "paper.md")
	require.NoError(t, os.WriteFile(source, []byte("Cites [@smith2020].\n"), 0644))
	bib := "@article{smith2020,\n  title = {Quantum Widgets},\n  year = {2020},\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "paper.bib"), []byte(bib), 0644))

	opts := &convertOptions{output: "table", noColor: true}
	require.NoError(t, runConvert(source, opts))

	_, err := os.Stat(filepath.Join(tmpDir, "paper.docx"))
	require.NoError(t, err)
}

func TestRunConvert_UnknownHighlight(t *testing.T) {
	isolateConfig(t)
	tmpDir := t.TempDir()

	source := filepath.Join(tmpDir, "draft.md")
	require.NoError(t, os.WriteFile(source, []byte("text\n"), 0644))

	opts := &convertOptions{output: "table", noColor: true, highlight: "chartreuse"}
	err := runConvert(source, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown highlight color")
}

func TestRunConvert_MissingSource(t *testing.T) {
	isolateConfig(t)
	opts := &convertOptions{output: "table", noColor: true}
	err := runConvert(filepath.Join(t.TempDir(), "absent.md"), opts)
	require.Error(t, err)
}

func TestNewCmdConvert_Flags(t *testing.T) {
	cmd := NewCmdConvert()

	assert.Equal(t, "convert <manuscript.md>", cmd.Use)
	for _, name := range []string{"out", "bibliography", "author", "highlight", "force"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}

	// Help text shows the delimiters the converter actually parses.
	assert.Contains(t, cmd.Flags().Lookup("highlight").Usage, "{==marked==}")
}
