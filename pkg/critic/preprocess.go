// preprocess.go rewrites paragraph breaks inside tracked-change spans so the
// block tokenizer does not split a span across block boundaries.
package critic

import "strings"

// ParaBreakPlaceholder stands in for a double newline inside a span. The
// pilcrow pair is outside the markup grammar, so substitution is reversible.
const ParaBreakPlaceholder = "¶¶"

// PreprocessBreaks replaces every double newline that falls inside a
// tracked-change span with ParaBreakPlaceholder. Unclosed markers are left
// untouched. The function is re-entrant: output contains no double newline
// inside any span, so a second call returns its input unchanged.
func PreprocessBreaks(input string) string {
	if !HasMarkers(input) {
		return input
	}

	matches := Scan(input)
	if len(matches) == 0 {
		return input
	}

	var sb strings.Builder
	sb.Grow(len(input))
	last := 0
	for _, m := range matches {
		sb.WriteString(input[last:m.Start])
		sb.WriteString(strings.ReplaceAll(input[m.Start:m.End], "\n\n", ParaBreakPlaceholder))
		last = m.End
	}
	sb.WriteString(input[last:])
	return sb.String()
}

// RestoreBreaks is the inverse of PreprocessBreaks for span payload text.
func RestoreBreaks(text string) string {
	return strings.ReplaceAll(text, ParaBreakPlaceholder, "\n\n")
}

// Accept resolves all tracked changes in favor of the proposed edits:
// additions and substitution replacements are kept, deletions dropped,
// highlights unwrapped, comments removed.
func Accept(input string) string {
	return resolve(input, true)
}

// Reject resolves all tracked changes in favor of the original text.
func Reject(input string) string {
	return resolve(input, false)
}

func resolve(input string, accept bool) string {
	matches := Scan(input)
	if len(matches) == 0 {
		return input
	}

	var sb strings.Builder
	sb.Grow(len(input))
	last := 0
	for _, m := range matches {
		sb.WriteString(input[last:m.Start])
		switch m.Kind {
		case KindAddition:
			if accept {
				sb.WriteString(m.Inner(input))
			}
		case KindDeletion:
			if !accept {
				sb.WriteString(m.Inner(input))
			}
		case KindSubstitution:
			old, new := m.OldNew(input)
			if accept {
				sb.WriteString(new)
			} else {
				sb.WriteString(old)
			}
		case KindHighlight:
			sb.WriteString(m.Inner(input))
		case KindComment:
			// Dropped in both directions.
		}
		last = m.End
	}
	sb.WriteString(input[last:])
	return sb.String()
}
