// tokenizer.go turns manuscript markdown into the block token stream.
package md

import (
	"strings"

	"github.com/open-cli-collective/manuscript-cli/pkg/critic"
)

// Tokenize parses markdown source (without frontmatter) into block tokens.
// Tracked-change spans are preprocessed first so a paragraph break inside a
// span does not split the block that contains it.
func Tokenize(input string) []Token {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = critic.PreprocessBreaks(input)

	lines := strings.Split(input, "\n")
	notes, noteLines := collectFootnotes(lines)

	var tokens []Token
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case noteLines[i] || trimmed == "":
			i++

		case strings.HasPrefix(trimmed, "```"):
			tok, next := scanFence(lines, i)
			tokens = append(tokens, tok)
			i = next

		case isThematicBreak(trimmed):
			tokens = append(tokens, Token{Type: BlockThematicBreak})
			i++

		case headingLevel(trimmed) > 0:
			level := headingLevel(trimmed)
			content := strings.TrimSpace(trimmed[level:])
			tokens = append(tokens, Token{Type: BlockHeading, Level: level, Runs: ScanRuns(content, notes)})
			i++

		case strings.HasPrefix(trimmed, ">"):
			tok, next := scanQuote(lines, i, notes)
			tokens = append(tokens, tok)
			i = next

		case isListItem(line):
			tok := scanListItem(line, notes)
			tokens = append(tokens, tok)
			i++

		case isTableStart(lines, i):
			tok, next := scanTable(lines, i, notes)
			tokens = append(tokens, tok)
			i = next

		default:
			tok, next := scanParagraph(lines, i, noteLines, notes)
			tokens = append(tokens, tok)
			i = next
		}
	}
	return tokens
}

// collectFootnotes extracts [^id]: definition lines. Returns the map from
// identifier to definition text and the set of consumed line indices.
func collectFootnotes(lines []string) (map[string]string, map[int]bool) {
	notes := make(map[string]string)
	consumed := make(map[int]bool)
	for i, line := range lines {
		if !strings.HasPrefix(line, "[^") {
			continue
		}
		close := strings.Index(line, "]:")
		if close < 0 {
			continue
		}
		id := line[2:close]
		if id == "" || strings.ContainsAny(id, " \n") {
			continue
		}
		text := strings.TrimSpace(line[close+2:])
		consumed[i] = true
		// Indented continuation lines extend the definition.
		for j := i + 1; j < len(lines); j++ {
			if !strings.HasPrefix(lines[j], "    ") && !strings.HasPrefix(lines[j], "\t") {
				break
			}
			text += " " + strings.TrimSpace(lines[j])
			consumed[j] = true
		}
		notes[id] = text
	}
	return notes, consumed
}

func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level >= len(line) || line[level] != ' ' {
		return 0
	}
	return level
}

func isThematicBreak(line string) bool {
	if len(line) < 3 {
		return false
	}
	c := line[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	for i := 0; i < len(line); i++ {
		if line[i] != c {
			return false
		}
	}
	return true
}

func scanFence(lines []string, start int) (Token, int) {
	opener := strings.TrimSpace(lines[start])
	fenceLen := 0
	for fenceLen < len(opener) && opener[fenceLen] == '`' {
		fenceLen++
	}
	language := strings.TrimSpace(opener[fenceLen:])

	var body []string
	i := start + 1
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, strings.Repeat("`", fenceLen)) && strings.Trim(trimmed, "`") == "" {
			i++
			break
		}
		body = append(body, lines[i])
	}
	text := strings.Join(body, "\n")
	if text != "" {
		text += "\n"
	}
	return Token{Type: BlockCodeBlock, Language: language, Text: text}, i
}

// alertKinds are the recognized alert box labels.
var alertKinds = map[string]bool{
	"NOTE": true, "TIP": true, "IMPORTANT": true, "WARNING": true, "CAUTION": true,
}

// scanQuote reads a blockquote or alert box. An alert opens with "> [!KIND]"
// on its own line followed by quoted content lines.
func scanQuote(lines []string, start int, notes map[string]string) (Token, int) {
	var content []string
	kind := ""
	i := start
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, ">") {
			break
		}
		body := strings.TrimPrefix(strings.TrimPrefix(trimmed, ">"), " ")
		if i == start && strings.HasPrefix(body, "[!") {
			if end := strings.IndexByte(body, ']'); end > 2 {
				label := body[2:end]
				if alertKinds[label] {
					kind = label
					continue
				}
			}
		}
		content = append(content, body)
	}
	text := strings.Join(content, "\n")
	if kind != "" {
		return Token{Type: BlockAlert, AlertKind: kind, Runs: ScanRuns(text, notes)}, i
	}
	return Token{Type: BlockBlockquote, Runs: ScanRuns(text, notes)}, i
}

func isListItem(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return false
	}
	if (trimmed[0] == '-' || trimmed[0] == '*' || trimmed[0] == '+') && len(trimmed) > 1 && trimmed[1] == ' ' {
		return true
	}
	return orderedMarkerLen(trimmed) > 0
}

// orderedMarkerLen returns the length of an ordered list marker like "12."
// including the trailing space, or 0.
func orderedMarkerLen(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(s) {
		return 0
	}
	if s[i] != '.' && s[i] != ')' {
		return 0
	}
	if s[i+1] != ' ' {
		return 0
	}
	return i + 2
}

func scanListItem(line string, notes map[string]string) Token {
	indent := len(line) - len(strings.TrimLeft(line, " "))
	trimmed := strings.TrimLeft(line, " ")

	tok := Token{Type: BlockListItem}
	if indent >= 2 {
		tok.Level = 1
	}

	if n := orderedMarkerLen(trimmed); n > 0 {
		tok.Ordered = true
		trimmed = trimmed[n:]
	} else {
		trimmed = trimmed[2:]
	}

	if strings.HasPrefix(trimmed, "[ ] ") {
		tok.Task = true
		trimmed = trimmed[4:]
	} else if strings.HasPrefix(trimmed, "[x] ") || strings.HasPrefix(trimmed, "[X] ") {
		tok.Task = true
		tok.Checked = true
		trimmed = trimmed[4:]
	}

	tok.Runs = ScanRuns(trimmed, notes)
	return tok
}

func isTableStart(lines []string, i int) bool {
	if !strings.HasPrefix(strings.TrimSpace(lines[i]), "|") {
		return false
	}
	if i+1 >= len(lines) {
		return false
	}
	return isTableSeparator(strings.TrimSpace(lines[i+1]))
}

func isTableSeparator(line string) bool {
	if !strings.HasPrefix(line, "|") {
		return false
	}
	body := strings.Trim(line, "|")
	if body == "" {
		return false
	}
	for _, cell := range strings.Split(body, "|") {
		cell = strings.TrimSpace(cell)
		if strings.Trim(cell, ":-") != "" || !strings.Contains(cell, "-") {
			return false
		}
	}
	return true
}

func scanTable(lines []string, start int, notes map[string]string) (Token, int) {
	tok := Token{Type: BlockTable}
	i := start
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "|") {
			break
		}
		if i == start+1 && isTableSeparator(trimmed) {
			continue
		}
		var row []Cell
		for _, cell := range splitTableRow(trimmed) {
			row = append(row, Cell{Runs: ScanRuns(strings.TrimSpace(cell), notes)})
		}
		tok.Rows = append(tok.Rows, row)
	}
	return tok, i
}

// splitTableRow splits a pipe row into cells, ignoring pipes inside inert
// zones (a | inside `code` or $math$ is cell content).
func splitTableRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	regions := ScanRegions(line)

	var cells []string
	last := 0
	for pos := 0; pos < len(line); pos++ {
		if line[pos] != '|' {
			continue
		}
		if InRegion(regions, pos, pos+1) != nil {
			continue
		}
		if pos > 0 && line[pos-1] == '\\' {
			continue
		}
		cells = append(cells, line[last:pos])
		last = pos + 1
	}
	cells = append(cells, line[last:])
	return cells
}

// scanParagraph gathers consecutive plain lines into one paragraph token.
func scanParagraph(lines []string, start int, noteLines map[int]bool, notes map[string]string) (Token, int) {
	var content []string
	i := start
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || noteLines[i] {
			break
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, ">") ||
			headingLevel(trimmed) > 0 || isThematicBreak(trimmed) || isListItem(lines[i]) {
			break
		}
		content = append(content, trimmed)
	}
	text := strings.Join(content, "\n")
	return Token{Type: BlockParagraph, Runs: ScanRuns(text, notes)}, i
}
