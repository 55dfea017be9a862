// Package convert provides the markdown to document conversion command.
package convert

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manuscript-cli/internal/config"
	"github.com/open-cli-collective/manuscript-cli/internal/view"
	"github.com/open-cli-collective/manuscript-cli/pkg/docx"
	"github.com/open-cli-collective/manuscript-cli/pkg/manuscript"
	"github.com/open-cli-collective/manuscript-cli/pkg/md"
)

type convertOptions struct {
	outFile      string
	bibliography string
	author       string
	highlight    string
	force        bool
	output       string
	noColor      bool
}

// NewCmdConvert creates the convert command.
func NewCmdConvert() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <manuscript.md>",
		Short: "Convert a Markdown manuscript to a Word document",
		Long: `Convert a Markdown manuscript to a Word document.

CriticMarkup edits become tracked changes, inline comment threads become
Word comments, footnotes, math, and Pandoc citations become their native
document equivalents. Citation keys are resolved against a BibTeX
bibliography when one is found.

The bibliography is located in this order: the --bibliography flag, the
frontmatter "bibliography" entry, then a .bib file next to the source.`,
		Example: `  # Convert draft.md to draft.docx
  msc convert draft.md

  # Pick the output path and bibliography explicitly
  msc convert draft.md -O review.docx --bibliography refs.bib

  # Attribute tracked changes to a name
  msc convert draft.md --author "Pat Reviewer"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			return runConvert(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outFile, "out", "O", "", "Output path (default: source with .docx extension)")
	cmd.Flags().StringVarP(&opts.bibliography, "bibliography", "b", "", "BibTeX bibliography file")
	cmd.Flags().StringVar(&opts.author, "author", "", "Author name for tracked changes and comments")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "Highlight color for {==marked==} text")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite the output file if it exists")

	return cmd
}

func runConvert(sourcePath string, opts *convertOptions) error {
	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)

	cfg, err := config.LoadWithEnv(config.DefaultConfigPath())
	if err != nil {
		cfg = &config.Config{}
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read manuscript: %w", err)
	}

	outPath := opts.outFile
	if outPath == "" {
		outPath = manuscript.DerivedOutputPath(sourcePath, ".docx")
	}
	if !opts.force {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
		}
	}

	settings, _ := md.ParseFrontmatter(source)
	bibPath := manuscript.ResolveBibliographyPath(sourcePath, opts.bibliography, settings)
	entries, bibWarnings, err := manuscript.LoadBibliography(bibPath)
	if err != nil {
		return err
	}

	highlight := docx.NewHighlightConfig()
	if c := firstNonEmpty(opts.highlight, cfg.Highlight); c != "" {
		if err := highlight.Set(c); err != nil {
			return err
		}
	}

	result, warnings, err := manuscript.ToDocx(source, manuscript.Options{
		Author:       firstNonEmpty(opts.author, cfg.Author),
		Highlight:    highlight,
		Timestamp:    time.Now(),
		Bibliography: entries,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, result, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	renderer.Warnings(append(bibWarnings, warnings...))
	renderer.Success(fmt.Sprintf("Wrote %s", outPath))
	if bibPath != "" && len(entries) > 0 {
		renderer.RenderKeyValue("Bibliography", bibPath)
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
