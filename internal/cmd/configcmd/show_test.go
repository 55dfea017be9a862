package configcmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/manuscript-cli/internal/config"
)

func TestRunShow_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	origXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", origXDG)

	cfg := &config.Config{
		Author:    "Pat Reviewer",
		Highlight: "green",
		KeyFormat: "author-year",
	}
	require.NoError(t, cfg.Save(filepath.Join(tmpDir, "msc", "config.yml")))

	err := runShow(true)
	require.NoError(t, err)
}

func TestRunShow_NoConfigFile(t *testing.T) {
	// Clear env vars
	for _, v := range []string{"MSC_AUTHOR", "MSC_HIGHLIGHT", "MSC_KEY_FORMAT"} {
		orig := os.Getenv(v)
		os.Unsetenv(v)
		defer os.Setenv(v, orig)
	}

	origXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", t.TempDir())
	defer os.Setenv("XDG_CONFIG_HOME", origXDG)

	err := runShow(true)
	require.NoError(t, err)
}
