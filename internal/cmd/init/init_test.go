package init

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/manuscript-cli/internal/config"
)

func TestConfigFilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")

	cfg := config.Config{
		Author:    "Pat Reviewer",
		Highlight: "green",
	}

	err := cfg.Save(configPath)
	require.NoError(t, err)

	info, err := os.Stat(configPath)
	require.NoError(t, err)

	// On Unix, permissions should be 0600 (user read/write only)
	perm := info.Mode().Perm()
	assert.Equal(t, os.FileMode(0600), perm, "config file should have 0600 permissions")
}

func TestConfigFilePermissions_DirectoryCreation(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "deeply", "config.yml")

	cfg := config.Config{Author: "Pat Reviewer"}

	// Save should create the directory structure
	err := cfg.Save(configPath)
	require.NoError(t, err)

	_, err = os.Stat(configPath)
	require.NoError(t, err)

	dirInfo, err := os.Stat(filepath.Dir(configPath))
	require.NoError(t, err)
	assert.True(t, dirInfo.IsDir())
}

func TestNewCmdInit_Flags(t *testing.T) {
	cmd := NewCmdInit()

	assert.Equal(t, "init", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	authorFlag := cmd.Flags().Lookup("author")
	require.NotNil(t, authorFlag)
	assert.Equal(t, "", authorFlag.DefValue)

	highlightFlag := cmd.Flags().Lookup("highlight")
	require.NotNil(t, highlightFlag)
	assert.Equal(t, "", highlightFlag.DefValue)
	assert.Contains(t, highlightFlag.Usage, "{==marked==}")
	assert.Contains(t, cmd.Long, "{==marked==}")
}

func TestHighlightOptions(t *testing.T) {
	opts := highlightOptions()
	require.NotEmpty(t, opts)

	// Yellow leads as the default, and appears exactly once
	assert.Equal(t, "yellow", opts[0].Value)
	count := 0
	for _, opt := range opts {
		if opt.Value == "yellow" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
