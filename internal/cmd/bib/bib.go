// Package bib provides bibliography maintenance commands.
package bib

import (
	"github.com/spf13/cobra"
)

// NewCmdBib creates the bib command.
func NewCmdBib() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bib",
		Short: "Work with BibTeX bibliographies",
		Long:  `Commands for inspecting and normalizing BibTeX bibliography files.`,
	}

	cmd.AddCommand(NewCmdFmt())
	cmd.AddCommand(NewCmdList())

	return cmd
}
