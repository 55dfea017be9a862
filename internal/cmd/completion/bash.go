package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdBash creates the bash completion command.
func NewCmdBash() *cobra.Command {
	return &cobra.Command{
		Use:   "bash",
		Short: "Generate bash completion script",
		Long: `Generate bash completion script for msc.

To load completions in your current shell session:

  source <(msc completion bash)

To load completions for every new session:

  # Linux
  msc completion bash > /etc/bash_completion.d/msc

  # macOS (requires bash-completion)
  msc completion bash > $(brew --prefix)/etc/bash_completion.d/msc`,
		Example: `  # Load in current session
  source <(msc completion bash)

  # Install permanently (Linux)
  msc completion bash | sudo tee /etc/bash_completion.d/msc > /dev/null

  # Install permanently (macOS with Homebrew)
  msc completion bash > $(brew --prefix)/etc/bash_completion.d/msc`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		},
	}
}
