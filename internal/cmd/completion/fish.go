package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdFish creates the fish completion command.
func NewCmdFish() *cobra.Command {
	return &cobra.Command{
		Use:   "fish",
		Short: "Generate fish completion script",
		Long: `Generate fish completion script for msc.

To load completions in your current shell session:

  msc completion fish | source

To load completions for every new session:

  msc completion fish > ~/.config/fish/completions/msc.fish`,
		Example: `  # Load in current session
  msc completion fish | source

  # Install permanently
  msc completion fish > ~/.config/fish/completions/msc.fish`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		},
	}
}
