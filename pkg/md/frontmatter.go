// frontmatter.go decodes the optional leading key-value block into document
// settings. Invalid values are dropped silently; frontmatter never fails a
// conversion.
package md

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
)

// NotePlacement selects where note text is emitted in the document package.
type NotePlacement string

const (
	NotesAsFootnotes NotePlacement = "footnotes"
	NotesAsEndnotes  NotePlacement = "endnotes"
)

// Settings are the document-level options read from frontmatter.
type Settings struct {
	Titles       []string
	Author       string
	CSL          string // citation style identifier
	Locale       string
	Notes        NotePlacement
	Timezone     string // ±HH:MM offset
	Bibliography string // path to the bibliography file

	BodyFont     string
	BodyFontSize float64 // points
	CodeFont     string
	CodeFontSize float64 // points; 0 means derive from body size

	CodeBackground string // hex color, no '#'
	CodeForeground string
	CodeInset      int // twips of indentation around code blocks
}

// DefaultSettings returns the settings used when frontmatter omits a key.
func DefaultSettings() Settings {
	return Settings{
		Locale:       "en-US",
		Notes:        NotesAsFootnotes,
		BodyFont:     "Constantia",
		BodyFontSize: 12,
		CodeFont:     "Consolas",
	}
}

// envelope is the raw yaml shape; title accepts a string or a list.
type envelope struct {
	Title          any    `yaml:"title"`
	Author         string `yaml:"author"`
	CSL            string `yaml:"csl"`
	Lang           string `yaml:"lang"`
	Notes          string `yaml:"notes"`
	Timezone       string `yaml:"timezone"`
	Bibliography   string `yaml:"bibliography"`
	Font           string `yaml:"font"`
	FontSize       any    `yaml:"fontsize"`
	CodeFont       string `yaml:"codefont"`
	CodeFontSize   any    `yaml:"codefontsize"`
	CodeBackground string `yaml:"codebackground"`
	CodeForeground string `yaml:"codeforeground"`
	CodeInset      any    `yaml:"codeinset"`
}

var (
	timezonePattern = regexp.MustCompile(`^[+-]\d{2}:\d{2}$`)
	hexColorPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)
)

// ParseFrontmatter splits source into settings and the markdown body. A
// missing or malformed frontmatter block yields defaults and the full
// source as body.
func ParseFrontmatter(source []byte) (Settings, []byte) {
	settings := DefaultSettings()

	var env envelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return settings, source
	}

	switch t := env.Title.(type) {
	case string:
		if t != "" {
			settings.Titles = []string{t}
		}
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				settings.Titles = append(settings.Titles, s)
			}
		}
	}

	settings.Author = strings.TrimSpace(env.Author)
	settings.CSL = strings.TrimSpace(env.CSL)
	settings.Bibliography = strings.TrimSpace(env.Bibliography)
	if env.Lang != "" {
		settings.Locale = env.Lang
	}
	switch NotePlacement(env.Notes) {
	case NotesAsFootnotes, NotesAsEndnotes:
		settings.Notes = NotePlacement(env.Notes)
	}
	if timezonePattern.MatchString(env.Timezone) {
		settings.Timezone = env.Timezone
	}
	if env.Font != "" {
		settings.BodyFont = env.Font
	}
	if size, ok := positiveNumber(env.FontSize); ok {
		settings.BodyFontSize = size
	}
	if env.CodeFont != "" {
		settings.CodeFont = env.CodeFont
	}
	if size, ok := positiveNumber(env.CodeFontSize); ok {
		settings.CodeFontSize = size
	}
	if hexColorPattern.MatchString(env.CodeBackground) {
		settings.CodeBackground = strings.TrimPrefix(env.CodeBackground, "#")
	}
	if hexColorPattern.MatchString(env.CodeForeground) {
		settings.CodeForeground = strings.TrimPrefix(env.CodeForeground, "#")
	}
	if inset, ok := positiveNumber(env.CodeInset); ok {
		settings.CodeInset = int(inset)
	}

	return settings, body
}

// positiveNumber accepts yaml ints and floats greater than zero.
func positiveNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		if n > 0 {
			return float64(n), true
		}
	case float64:
		if n > 0 {
			return n, true
		}
	}
	return 0, false
}
