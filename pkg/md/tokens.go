// tokens.go defines the block token and inline run model produced by the
// tokenizer and consumed by the document generator.
package md

import (
	"fmt"
	"strings"
)

// BlockType identifies a block-level token.
type BlockType int

const (
	BlockParagraph BlockType = iota
	BlockHeading
	BlockListItem
	BlockCodeBlock
	BlockBlockquote
	BlockAlert
	BlockTable
	BlockThematicBreak
)

// RunType identifies an inline run within a block.
type RunType int

const (
	RunText RunType = iota
	RunBold
	RunItalic
	RunBoldItalic
	RunStrikethrough
	RunCode
	RunMath
	RunCitation
	RunAddition
	RunDeletion
	RunSubstitution
	RunHighlight
	RunComment
	RunFootnoteRef
	RunSoftBreak
)

// CitationRef is a single cited item inside a citation group.
type CitationRef struct {
	Key     string
	Locator string // page or section reference, empty if none
}

// Run is one inline unit. Fields beyond Type and Text apply per type:
// substitutions carry Old/New, math carries Display, citations carry Keys,
// comments carry CommentText and Replies (Text is the annotated span).
type Run struct {
	Type        RunType
	Text        string
	Old         string
	New         string
	Display     bool
	Keys        []CitationRef
	CommentText string
	Replies     []string
}

// Cell is one table cell's run sequence.
type Cell struct {
	Runs []Run
}

// Token is one block-level unit with its ordered inline runs. Tables carry
// Rows instead of Runs; code blocks carry their raw Text and Language.
type Token struct {
	Type      BlockType
	Level     int    // heading level 1-6, or list nesting depth 0-1
	Ordered   bool   // list item ordering
	Task      bool   // list item is a task item
	Checked   bool   // task item checked state
	Language  string // code block info string
	AlertKind string // NOTE, TIP, IMPORTANT, WARNING, CAUTION
	Runs      []Run
	Rows      [][]Cell
	Text      string // code block content
}

// Signature returns a normalized structural fingerprint of a token stream.
// Two streams with equal signatures carry the same semantic content; the
// roundtrip tests compare signatures rather than raw markdown bytes.
func Signature(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		fmt.Fprintf(&sb, "%d/%d/%v/%v/%v/%s/%s", tok.Type, tok.Level, tok.Ordered, tok.Task, tok.Checked, tok.Language, tok.AlertKind)
		if tok.Type == BlockCodeBlock {
			fmt.Fprintf(&sb, "{%s}", strings.TrimRight(tok.Text, "\n"))
		}
		for _, row := range tok.Rows {
			sb.WriteString("|")
			for _, cell := range row {
				writeRunSignature(&sb, cell.Runs)
				sb.WriteString(",")
			}
		}
		writeRunSignature(&sb, tok.Runs)
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeRunSignature(sb *strings.Builder, runs []Run) {
	for _, r := range runs {
		fmt.Fprintf(sb, "[%d:%s", r.Type, collapseSpace(r.Text))
		if r.Type == RunSubstitution {
			fmt.Fprintf(sb, "~%s>%s", collapseSpace(r.Old), collapseSpace(r.New))
		}
		if r.Type == RunMath && r.Display {
			sb.WriteString("$$")
		}
		for _, k := range r.Keys {
			fmt.Fprintf(sb, "@%s/%s", k.Key, k.Locator)
		}
		if r.Type == RunComment {
			fmt.Fprintf(sb, ">>%s", collapseSpace(r.CommentText))
			for _, rep := range r.Replies {
				fmt.Fprintf(sb, ">>>%s", collapseSpace(rep))
			}
		}
		sb.WriteString("]")
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
