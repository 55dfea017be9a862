// Package root provides the root command for the msc CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manuscript-cli/internal/cmd/bib"
	"github.com/open-cli-collective/manuscript-cli/internal/cmd/completion"
	"github.com/open-cli-collective/manuscript-cli/internal/cmd/configcmd"
	"github.com/open-cli-collective/manuscript-cli/internal/cmd/convert"
	"github.com/open-cli-collective/manuscript-cli/internal/cmd/extract"
	"github.com/open-cli-collective/manuscript-cli/internal/cmd/importcmd"
	initcmd "github.com/open-cli-collective/manuscript-cli/internal/cmd/init"
	"github.com/open-cli-collective/manuscript-cli/internal/cmd/preview"
	"github.com/open-cli-collective/manuscript-cli/internal/version"
)

// NewCmdRoot creates the root command for msc.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "msc",
		Short: "A command-line converter between Markdown manuscripts and Word documents",
		Long: `msc converts Markdown manuscripts to Word documents and back.

Tracked changes, comment threads, footnotes, math, and citations survive
the round trip: edits made in Word come back as CriticMarkup, comments as
inline threads, and citation fields as Pandoc citation keys.

Get started by running: msc init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/msc/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	// Set version template
	cmd.SetVersionTemplate("msc version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(convert.NewCmdConvert())
	cmd.AddCommand(extract.NewCmdExtract())
	cmd.AddCommand(preview.NewCmdPreview())
	cmd.AddCommand(importcmd.NewCmdImport())
	cmd.AddCommand(bib.NewCmdBib())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
