// render.go writes a token stream back to manuscript markdown. It is the
// inverse of Tokenize up to whitespace normalization.
package md

import (
	"fmt"
	"strings"
)

// Render serializes tokens to markdown text. Footnote definitions are
// emitted after the blocks that reference them, numbered in reference order.
func Render(tokens []Token) string {
	var sb strings.Builder
	var notes []string

	for i, tok := range tokens {
		switch tok.Type {
		case BlockHeading:
			sb.WriteString(strings.Repeat("#", tok.Level))
			sb.WriteString(" ")
			renderRuns(&sb, tok.Runs, &notes)
		case BlockCodeBlock:
			sb.WriteString("```")
			sb.WriteString(tok.Language)
			sb.WriteString("\n")
			sb.WriteString(tok.Text)
			sb.WriteString("```")
		case BlockBlockquote:
			renderQuoted(&sb, "", tok.Runs, &notes)
		case BlockAlert:
			sb.WriteString("> [!")
			sb.WriteString(tok.AlertKind)
			sb.WriteString("]\n")
			renderQuoted(&sb, "", tok.Runs, &notes)
		case BlockListItem:
			if tok.Level > 0 {
				sb.WriteString("  ")
			}
			if tok.Ordered {
				sb.WriteString("1. ")
			} else {
				sb.WriteString("- ")
			}
			if tok.Task {
				if tok.Checked {
					sb.WriteString("[x] ")
				} else {
					sb.WriteString("[ ] ")
				}
			}
			renderRuns(&sb, tok.Runs, &notes)
		case BlockTable:
			renderTable(&sb, tok, &notes)
		case BlockThematicBreak:
			sb.WriteString("---")
		default:
			renderRuns(&sb, tok.Runs, &notes)
		}

		// Consecutive list items stay in one list; everything else is
		// separated by a blank line.
		if i+1 < len(tokens) && tok.Type == BlockListItem && tokens[i+1].Type == BlockListItem {
			sb.WriteString("\n")
		} else {
			sb.WriteString("\n\n")
		}
	}

	for i, note := range notes {
		fmt.Fprintf(&sb, "[^%d]: %s\n", i+1, note)
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func renderQuoted(sb *strings.Builder, prefix string, runs []Run, notes *[]string) {
	var inner strings.Builder
	renderRuns(&inner, runs, notes)
	for i, line := range strings.Split(inner.String(), "\n") {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("> ")
		sb.WriteString(prefix)
		sb.WriteString(line)
	}
}

func renderTable(sb *strings.Builder, tok Token, notes *[]string) {
	for i, row := range tok.Rows {
		sb.WriteString("|")
		for _, cell := range row {
			sb.WriteString(" ")
			var inner strings.Builder
			renderRuns(&inner, cell.Runs, notes)
			sb.WriteString(strings.ReplaceAll(inner.String(), "|", "\\|"))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
		if i == 0 {
			sb.WriteString("|")
			for range row {
				sb.WriteString(" --- |")
			}
			sb.WriteString("\n")
		}
	}
}

func renderRuns(sb *strings.Builder, runs []Run, notes *[]string) {
	for _, r := range runs {
		switch r.Type {
		case RunText:
			sb.WriteString(r.Text)
		case RunBold:
			sb.WriteString("**" + r.Text + "**")
		case RunItalic:
			sb.WriteString("*" + r.Text + "*")
		case RunBoldItalic:
			sb.WriteString("***" + r.Text + "***")
		case RunStrikethrough:
			sb.WriteString("~~" + r.Text + "~~")
		case RunCode:
			sb.WriteString(codeSpan(r.Text))
		case RunMath:
			if r.Display {
				sb.WriteString("$$" + r.Text + "$$")
			} else {
				sb.WriteString("$" + r.Text + "$")
			}
		case RunCitation:
			renderCitation(sb, r)
		case RunAddition:
			sb.WriteString("{++" + r.Text + "++}")
		case RunDeletion:
			sb.WriteString("{--" + r.Text + "--}")
		case RunSubstitution:
			sb.WriteString("{~~" + r.Old + "~>" + r.New + "~~}")
		case RunHighlight:
			sb.WriteString("{==" + r.Text + "==}")
		case RunComment:
			renderComment(sb, r)
		case RunFootnoteRef:
			*notes = append(*notes, r.Text)
			fmt.Fprintf(sb, "[^%d]", len(*notes))
		case RunSoftBreak:
			sb.WriteString("\n")
		}
	}
}

// codeSpan wraps text in a backtick run longer than any run it contains.
func codeSpan(text string) string {
	max := 0
	run := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '`' {
			run++
			if run > max {
				max = run
			}
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", max+1)
	if max > 0 {
		return fence + " " + text + " " + fence
	}
	return fence + text + fence
}

func renderCitation(sb *strings.Builder, r Run) {
	sb.WriteString("[")
	for i, ref := range r.Keys {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString("@")
		sb.WriteString(ref.Key)
		if ref.Locator != "" {
			sb.WriteString(", p. ")
			sb.WriteString(ref.Locator)
		}
	}
	sb.WriteString("]")
}

func renderComment(sb *strings.Builder, r Run) {
	if r.Text != "" {
		sb.WriteString("{==" + r.Text + "==}")
	}
	sb.WriteString("{>>" + r.CommentText)
	for _, reply := range r.Replies {
		sb.WriteString(" {>>" + reply + "<<}")
	}
	sb.WriteString("<<}")
}
