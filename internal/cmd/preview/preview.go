// Package preview provides an HTML preview of a manuscript.
package preview

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/open-cli-collective/manuscript-cli/internal/view"
	"github.com/open-cli-collective/manuscript-cli/pkg/critic"
	"github.com/open-cli-collective/manuscript-cli/pkg/md"
)

// htmlRenderer is a pre-configured goldmark instance with the GFM
// extensions the manuscript dialect uses.
var htmlRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Footnote,
	),
)

type previewOptions struct {
	outFile string
	accept  bool
	reject  bool
	output  string
	noColor bool
}

// NewCmdPreview creates the preview command.
func NewCmdPreview() *cobra.Command {
	opts := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview <manuscript.md>",
		Short: "Render a manuscript as HTML",
		Long: `Render a Markdown manuscript as HTML for a quick read.

CriticMarkup edits are resolved before rendering: --accept applies every
proposed change, --reject discards them. Without either flag the markers
are left in the text so pending edits stay visible.`,
		Example: `  # Preview with pending edits visible
  msc preview draft.md > draft.html

  # Preview the manuscript as it would read with all edits applied
  msc preview draft.md --accept -O draft.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			return runPreview(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outFile, "out", "O", "", "Output path (default: stdout)")
	cmd.Flags().BoolVar(&opts.accept, "accept", false, "Apply all proposed edits before rendering")
	cmd.Flags().BoolVar(&opts.reject, "reject", false, "Discard all proposed edits before rendering")
	cmd.MarkFlagsMutuallyExclusive("accept", "reject")

	return cmd
}

func runPreview(sourcePath string, opts *previewOptions) error {
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read manuscript: %w", err)
	}

	_, body := md.ParseFrontmatter(source)

	text := string(body)
	switch {
	case opts.accept:
		text = critic.Accept(text)
	case opts.reject:
		text = critic.Reject(text)
	}

	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(text), &buf); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}

	if opts.outFile == "" {
		fmt.Print(buf.String())
		return nil
	}

	if err := os.WriteFile(opts.outFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.Success(fmt.Sprintf("Wrote %s", opts.outFile))
	return nil
}
