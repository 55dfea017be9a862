// Package importcmd provides the HTML import command.
package importcmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manuscript-cli/internal/view"
	"github.com/open-cli-collective/manuscript-cli/pkg/manuscript"
	"github.com/open-cli-collective/manuscript-cli/pkg/md"
)

type importOptions struct {
	outFile string
	force   bool
	output  string
	noColor bool
}

// NewCmdImport creates the import command.
func NewCmdImport() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import <page.html>",
		Short: "Import an HTML file as manuscript markdown",
		Long: `Convert an HTML file to manuscript markdown.

Vendor markup from word-processor exports (Google Docs, Office "Save as
Web Page") is stripped before conversion. Use "-" to read from stdin.`,
		Example: `  # Import an exported page
  msc import notes.html

  # Pipe HTML through
  curl -s https://example.org/article | msc import - -O article.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			return runImport(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outFile, "out", "O", "", "Output path (default: source with .md extension, stdout for stdin input)")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite the output file if it exists")

	return cmd
}

func runImport(sourcePath string, opts *importOptions) error {
	var html []byte
	var err error
	if sourcePath == "-" {
		html, err = io.ReadAll(os.Stdin)
	} else {
		html, err = os.ReadFile(sourcePath)
	}
	if err != nil {
		return fmt.Errorf("failed to read HTML: %w", err)
	}

	markdown, err := md.FromHTML(string(html))
	if err != nil {
		return fmt.Errorf("failed to convert HTML: %w", err)
	}

	outPath := opts.outFile
	if outPath == "" {
		if sourcePath == "-" {
			fmt.Print(markdown)
			return nil
		}
		outPath = manuscript.DerivedOutputPath(sourcePath, ".md")
	}
	if !opts.force {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
		}
	}
	if err := os.WriteFile(outPath, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.Success(fmt.Sprintf("Wrote %s", outPath))
	return nil
}
