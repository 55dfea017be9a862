package bib

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manuscript-cli/internal/view"
	"github.com/open-cli-collective/manuscript-cli/pkg/bibtex"
)

type fmtOptions struct {
	write   bool
	output  string
	noColor bool
}

// NewCmdFmt creates the bib fmt command.
func NewCmdFmt() *cobra.Command {
	opts := &fmtOptions{}

	cmd := &cobra.Command{
		Use:   "fmt <references.bib>",
		Short: "Normalize a BibTeX file",
		Long: `Parse a BibTeX file and print it back in canonical form: one entry
per block, fields sorted, values braced. Malformed entries are dropped
with a warning.`,
		Example: `  # Print the normalized bibliography
  msc bib fmt references.bib

  # Rewrite the file in place
  msc bib fmt references.bib --write`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			return runFmt(args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "Rewrite the file instead of printing")

	return cmd
}

func runFmt(path string, opts *fmtOptions) error {
	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read bibliography: %w", err)
	}

	entries, warnings := bibtex.Parse(string(data))
	renderer.Warnings(warnings)

	formatted := bibtex.Serialize(entries)

	if opts.write {
		if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
			return fmt.Errorf("failed to write bibliography: %w", err)
		}
		renderer.Success(fmt.Sprintf("Formatted %s (%d entries)", path, len(entries)))
		return nil
	}

	fmt.Print(formatted)
	return nil
}
