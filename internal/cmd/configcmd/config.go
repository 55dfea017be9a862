// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage msc configuration",
		Long:  `Commands for viewing and clearing msc configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdClear())

	return cmd
}
