package bib

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manuscript-cli/internal/view"
	"github.com/open-cli-collective/manuscript-cli/pkg/bibtex"
)

type listOptions struct {
	output  string
	noColor bool
}

// NewCmdList creates the bib list command.
func NewCmdList() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list <references.bib>",
		Short: "List bibliography entries",
		Long:  `List the citation keys in a BibTeX file with title and year.`,
		Example: `  # List entries
  msc bib list references.bib

  # Machine-readable output
  msc bib list references.bib -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			return runList(args[0], opts)
		},
	}

	return cmd
}

func runList(path string, opts *listOptions) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read bibliography: %w", err)
	}

	entries, warnings := bibtex.Parse(string(data))
	renderer.Warnings(warnings)

	headers := []string{"KEY", "TYPE", "YEAR", "TITLE"}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Key,
			entry.Type,
			entry.Field("year"),
			view.Truncate(entry.Field("title"), 60),
		})
	}

	renderer.RenderTable(headers, rows)
	return nil
}
