// Package init provides the init command for msc.
package init

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manuscript-cli/internal/config"
	"github.com/open-cli-collective/manuscript-cli/pkg/docx"
)

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	var (
		author    string
		highlight string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize msc configuration",
		Long: `Initialize msc with your conversion defaults.

This command will guide you through setting up the author name used for
tracked changes and comments, the highlight color for {==marked==} text,
and the citation key format. The configuration will be saved to
~/.config/msc/config.yml.`,
		Example: `  # Interactive setup
  msc init

  # Pre-populate the author name
  msc init --author "Pat Reviewer"`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(author, highlight)
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Author name for tracked changes and comments")
	cmd.Flags().StringVar(&highlight, "highlight", "", "Highlight color for {==marked==} text")

	return cmd
}

func runInit(prefillAuthor, prefillHighlight string) error {
	configPath := config.DefaultConfigPath()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{}

	// Use prefilled values or prompt
	if prefillAuthor != "" {
		cfg.Author = prefillAuthor
	}
	if prefillHighlight != "" {
		cfg.Highlight = prefillHighlight
	}

	// Build the form
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Author").
				Description("Name attributed to tracked changes and comments").
				Placeholder("Pat Reviewer").
				Value(&cfg.Author).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("author is required")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Highlight color").
				Description("Color used for {==highlighted==} text").
				Options(highlightOptions()...).
				Value(&cfg.Highlight),

			huh.NewSelect[string]().
				Title("Citation key format").
				Description("Shape of keys assigned to recovered citations").
				Options(
					huh.NewOption("author-year-title (smith2020quantum)", "author-year-title"),
					huh.NewOption("author-year (smith2020)", "author-year"),
					huh.NewOption("numeric (1, 2, 3...)", "numeric"),
				).
				Value(&cfg.KeyFormat),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Save configuration
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	fmt.Println("\nYou're all set! Try running:")
	fmt.Println("  msc convert draft.md")
	fmt.Println("  msc extract draft.docx")

	return nil
}

func highlightOptions() []huh.Option[string] {
	names := docx.HighlightColors()
	sort.Strings(names)

	opts := make([]huh.Option[string], 0, len(names)+1)
	opts = append(opts, huh.NewOption("yellow (default)", "yellow"))
	for _, name := range names {
		if name == "yellow" {
			continue
		}
		opts = append(opts, huh.NewOption(name, name))
	}
	return opts
}
