package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdPowerShell creates the PowerShell completion command.
func NewCmdPowerShell() *cobra.Command {
	return &cobra.Command{
		Use:   "powershell",
		Short: "Generate PowerShell completion script",
		Long: `Generate PowerShell completion script for msc.

To load completions in your current shell session:

  msc completion powershell | Out-String | Invoke-Expression

To load completions for every new session, add the output to your
PowerShell profile ($PROFILE).`,
		Example: `  # Load in current session
  msc completion powershell | Out-String | Invoke-Expression

  # Install permanently (add to $PROFILE)
  msc completion powershell >> $PROFILE`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		},
	}
}
