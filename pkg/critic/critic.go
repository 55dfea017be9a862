// Package critic implements scanning and preprocessing of CriticMarkup
// tracked-change syntax: additions, deletions, substitutions, highlights,
// and comments (with nested comment threads).
package critic

import "strings"

// Kind identifies a CriticMarkup span kind.
type Kind int

const (
	KindAddition     Kind = iota // {++text++}
	KindDeletion                 // {--text--}
	KindSubstitution             // {~~old~>new~~}
	KindHighlight                // {==text==}
	KindComment                  // {>>text<<}, may nest same-kind replies
)

// marker describes the delimiters for one span kind.
type marker struct {
	kind  Kind
	open  string
	close string
}

// markers is ordered; scanning tries each opener at the current offset.
var markers = []marker{
	{KindAddition, "{++", "++}"},
	{KindDeletion, "{--", "--}"},
	{KindSubstitution, "{~~", "~~}"},
	{KindHighlight, "{==", "==}"},
	{KindComment, "{>>", "<<}"},
}

// substitutionSep separates old from new text inside a substitution span.
const substitutionSep = "~>"

// Match is a structured record for one matched span.
type Match struct {
	Kind       Kind
	Start      int // byte offset of the opening delimiter
	End        int // byte offset just past the closing delimiter
	InnerStart int // byte offset of the payload
	InnerEnd   int // byte offset just past the payload
	SepOffset  int // substitution only: offset of "~>" within input, -1 otherwise
}

// Inner returns the payload text of the match within input.
func (m Match) Inner(input string) string {
	return input[m.InnerStart:m.InnerEnd]
}

// OldNew returns the old and new payloads of a substitution match. A
// substitution with no separator yields the whole payload as old text.
func (m Match) OldNew(input string) (string, string) {
	if m.Kind != KindSubstitution {
		return m.Inner(input), ""
	}
	if m.SepOffset < 0 {
		return m.Inner(input), ""
	}
	return input[m.InnerStart:m.SepOffset], input[m.SepOffset+len(substitutionSep) : m.InnerEnd]
}

// HasMarkers reports whether input contains any CriticMarkup opener prefix.
// Used as a fast path: text without openers needs no scanning.
func HasMarkers(input string) bool {
	for _, m := range markers {
		if strings.Contains(input, m.open) {
			return true
		}
	}
	return false
}

// Scan walks input left to right and returns all matched spans in document
// order. The cursor never rewinds: an opener with no closer is skipped as
// literal text. Comment spans use depth-aware matching so a nested reply
// ({>>...<<} inside a comment) does not terminate the outer span.
func Scan(input string) []Match {
	if !HasMarkers(input) {
		return nil
	}

	var matches []Match
	pos := 0
	for pos < len(input) {
		if input[pos] != '{' {
			pos++
			continue
		}
		m, end, ok := matchAt(input, pos)
		if !ok {
			pos++
			continue
		}
		matches = append(matches, m)
		pos = end
	}
	return matches
}

// matchAt attempts to match any span kind at pos. Returns the match, the
// offset just past it, and whether a complete span was found.
func matchAt(input string, pos int) (Match, int, bool) {
	for _, mk := range markers {
		if !strings.HasPrefix(input[pos:], mk.open) {
			continue
		}
		innerStart := pos + len(mk.open)
		var innerEnd int
		if mk.kind == KindComment {
			innerEnd = findCommentClose(input, innerStart)
		} else {
			innerEnd = findClose(input, innerStart, mk.close)
		}
		if innerEnd < 0 {
			// Unclosed marker: leave it as literal text.
			return Match{}, pos, false
		}
		m := Match{
			Kind:       mk.kind,
			Start:      pos,
			End:        innerEnd + len(mk.close),
			InnerStart: innerStart,
			InnerEnd:   innerEnd,
			SepOffset:  -1,
		}
		if mk.kind == KindSubstitution {
			if sep := strings.Index(input[innerStart:innerEnd], substitutionSep); sep >= 0 {
				m.SepOffset = innerStart + sep
			}
		}
		return m, m.End, true
	}
	return Match{}, pos, false
}

// findClose returns the offset of the closing delimiter after start, or -1.
func findClose(input string, start int, close string) int {
	idx := strings.Index(input[start:], close)
	if idx < 0 {
		return -1
	}
	return start + idx
}

// findCommentClose returns the offset of the closing "<<}" that balances the
// comment opened just before start, counting nested "{>>" openers, or -1.
func findCommentClose(input string, start int) int {
	depth := 0
	pos := start
	for pos < len(input) {
		switch {
		case strings.HasPrefix(input[pos:], "{>>"):
			depth++
			pos += 3
		case strings.HasPrefix(input[pos:], "<<}"):
			if depth == 0 {
				return pos
			}
			depth--
			pos += 3
		default:
			pos++
		}
	}
	return -1
}

// Thread is a comment payload split into the root text and its nested
// reply texts, in order of appearance.
type Thread struct {
	Root    string
	Replies []string
}

// ParseThread splits a comment span payload into root text and replies.
// Replies are the nested {>>...<<} spans at the first nesting level; text
// between replies belongs to the root. Reply-of-reply nesting inside a
// reply payload is flattened into that reply's text.
func ParseThread(inner string) Thread {
	var t Thread
	var root strings.Builder
	pos := 0
	for pos < len(inner) {
		if strings.HasPrefix(inner[pos:], "{>>") {
			end := findCommentClose(inner, pos+3)
			if end >= 0 {
				reply := StripMarkers(inner[pos+3 : end])
				t.Replies = append(t.Replies, strings.TrimSpace(reply))
				pos = end + 3
				continue
			}
		}
		root.WriteByte(inner[pos])
		pos++
	}
	t.Root = strings.TrimSpace(root.String())
	return t
}

// StripMarkers removes nested comment delimiters from text, keeping payloads.
func StripMarkers(text string) string {
	text = strings.ReplaceAll(text, "{>>", "")
	return strings.ReplaceAll(text, "<<}", "")
}
