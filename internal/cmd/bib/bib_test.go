package bib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/manuscript-cli/pkg/bibtex"
)

const sampleBib = `Some stray text.

@article{smith2020,
title={Quantum Widgets},year={2020},
  author = {Smith, Jane},
}

@book{doe2019, title = {Widget History}, year = {2019}}
`

func TestRunFmt_Write(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "refs.bib")
	require.NoError(t, os.WriteFile(path, []byte(sampleBib), 0644))

	opts := &fmtOptions{write: true, output: "table", noColor: true}
	require.NoError(t, runFmt(path, opts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	entries, warnings := bibtex.Parse(string(data))
	require.Empty(t, warnings)
	require.Len(t, entries, 2)
	assert.Equal(t, "smith2020", entries[0].Key)
	assert.Equal(t, "Quantum Widgets", entries[0].Field("title"))
	// Stray text between entries does not survive normalization
	assert.NotContains(t, string(data), "stray")
}

func TestRunFmt_MissingFile(t *testing.T) {
	opts := &fmtOptions{output: "table", noColor: true}
	err := runFmt(filepath.Join(t.TempDir(), "absent.bib"), opts)
	require.Error(t, err)
}

func TestRunList(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "refs.bib")
	require.NoError(t, os.WriteFile(path, []byte(sampleBib), 0644))

	opts := &listOptions{output: "plain", noColor: true}
	require.NoError(t, runList(path, opts))
}

func TestRunList_InvalidFormat(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "refs.bib")
	require.NoError(t, os.WriteFile(path, []byte(sampleBib), 0644))

	opts := &listOptions{output: "xml", noColor: true}
	err := runList(path, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestNewCmdBib(t *testing.T) {
	cmd := NewCmdBib()
	assert.Equal(t, "bib", cmd.Use)
	assert.Len(t, cmd.Commands(), 2)
}
