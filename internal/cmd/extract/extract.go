// Package extract provides the document to markdown extraction command.
package extract

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manuscript-cli/internal/config"
	"github.com/open-cli-collective/manuscript-cli/internal/view"
	"github.com/open-cli-collective/manuscript-cli/pkg/bibtex"
	"github.com/open-cli-collective/manuscript-cli/pkg/manuscript"
)

type extractOptions struct {
	outFile      string
	bibliography string
	stdout       bool
	force        bool
	output       string
	noColor      bool
}

// NewCmdExtract creates the extract command.
func NewCmdExtract() *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <document.docx>",
		Short: "Extract Markdown from a Word document",
		Long: `Extract a Markdown manuscript from a Word document.

Tracked changes come back as CriticMarkup, Word comments as inline
threads, and citation fields as Pandoc citation keys. Bibliography data
embedded in citation fields is written to a BibTeX file alongside the
markdown when any is found.`,
		Example: `  # Extract review.docx to review.md
  msc extract review.docx

  # Print the markdown to stdout instead
  msc extract review.docx --stdout

  # Choose where the recovered bibliography goes
  msc extract review.docx --bibliography recovered.bib`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			return runExtract(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outFile, "out", "O", "", "Output path (default: source with .md extension)")
	cmd.Flags().StringVarP(&opts.bibliography, "bibliography", "b", "", "Path for the recovered BibTeX file")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Write markdown to stdout")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite existing files")

	return cmd
}

func runExtract(docPath string, opts *extractOptions) error {
	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)

	data, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	cfg, err := config.LoadWithEnv(config.DefaultConfigPath())
	if err != nil {
		cfg = &config.Config{}
	}

	markdown, entries, warnings, err := manuscript.FromDocx(data, manuscript.Options{
		KeyFormat: cfg.CitationFormat(),
	})
	if err != nil {
		return err
	}

	renderer.Warnings(warnings)

	if opts.stdout {
		fmt.Print(markdown)
		return nil
	}

	outPath := opts.outFile
	if outPath == "" {
		outPath = manuscript.DerivedOutputPath(docPath, ".md")
	}
	if !opts.force {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
		}
	}
	if err := os.WriteFile(outPath, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	renderer.Success(fmt.Sprintf("Wrote %s", outPath))

	if len(entries) > 0 {
		bibPath := opts.bibliography
		if bibPath == "" {
			bibPath = manuscript.DerivedOutputPath(docPath, ".bib")
		}
		if !opts.force {
			if _, err := os.Stat(bibPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", bibPath)
			}
		}
		if err := os.WriteFile(bibPath, []byte(bibtex.Serialize(entries)), 0644); err != nil {
			return fmt.Errorf("failed to write bibliography: %w", err)
		}
		renderer.Success(fmt.Sprintf("Wrote %s (%d entries)", bibPath, len(entries)))
	}

	return nil
}
