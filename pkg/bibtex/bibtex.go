// Package bibtex implements parsing and serialization of BibTeX
// bibliographies: @type{key, field = {value}, ...} entry blocks.
package bibtex

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is one bibliography entry. ZoteroKey and ZoteroURI mirror the
// zotero-key and zotero-uri fields when present; they stay in Fields so
// serialization reproduces them.
type Entry struct {
	Type      string
	Key       string
	Fields    map[string]string
	ZoteroKey string
	ZoteroURI string
}

// Field returns a field value, empty string if absent.
func (e Entry) Field(name string) string {
	return e.Fields[strings.ToLower(name)]
}

// Parse reads all entry blocks from input. Text between entries is ignored.
// Malformed entries are skipped and reported as warnings; parsing never
// fails outright.
func Parse(input string) ([]Entry, []string) {
	var entries []Entry
	var warnings []string

	pos := 0
	for pos < len(input) {
		at := strings.IndexByte(input[pos:], '@')
		if at < 0 {
			break
		}
		pos += at
		entry, end, err := parseEntry(input, pos)
		if err != nil {
			warnings = append(warnings, err.Error())
			pos++
			continue
		}
		entries = append(entries, entry)
		pos = end
	}
	return entries, warnings
}

func parseEntry(input string, pos int) (Entry, int, error) {
	start := pos
	pos++ // skip '@'

	typeStart := pos
	for pos < len(input) && input[pos] != '{' && input[pos] != '(' {
		pos++
	}
	if pos >= len(input) || input[pos] != '{' {
		return Entry{}, start, fmt.Errorf("entry at offset %d: expected '{' after type", start)
	}
	entryType := strings.ToLower(strings.TrimSpace(input[typeStart:pos]))
	if entryType == "" {
		return Entry{}, start, fmt.Errorf("entry at offset %d: empty type", start)
	}
	pos++ // skip '{'

	keyStart := pos
	for pos < len(input) && input[pos] != ',' && input[pos] != '}' {
		pos++
	}
	if pos >= len(input) {
		return Entry{}, start, fmt.Errorf("entry at offset %d: unterminated", start)
	}
	entry := Entry{
		Type:   entryType,
		Key:    strings.TrimSpace(input[keyStart:pos]),
		Fields: make(map[string]string),
	}
	if input[pos] == '}' {
		return entry, pos + 1, nil
	}
	pos++ // skip ','

	for pos < len(input) {
		pos = skipSpace(input, pos)
		if pos < len(input) && input[pos] == '}' {
			pos++
			break
		}
		name, value, next, err := parseField(input, pos)
		if err != nil {
			return Entry{}, start, fmt.Errorf("entry %q: %w", entry.Key, err)
		}
		entry.Fields[name] = value
		pos = skipSpace(input, next)
		if pos < len(input) && input[pos] == ',' {
			pos++
		}
	}

	entry.ZoteroKey = entry.Fields["zotero-key"]
	entry.ZoteroURI = entry.Fields["zotero-uri"]
	return entry, pos, nil
}

func parseField(input string, pos int) (string, string, int, error) {
	nameStart := pos
	for pos < len(input) && input[pos] != '=' && input[pos] != '}' && input[pos] != ',' {
		pos++
	}
	if pos >= len(input) || input[pos] != '=' {
		return "", "", pos, fmt.Errorf("field at offset %d: expected '='", nameStart)
	}
	name := strings.ToLower(strings.TrimSpace(input[nameStart:pos]))
	if name == "" {
		return "", "", pos, fmt.Errorf("field at offset %d: empty name", nameStart)
	}
	pos = skipSpace(input, pos+1)
	if pos >= len(input) {
		return "", "", pos, fmt.Errorf("field %q: missing value", name)
	}

	switch input[pos] {
	case '{':
		value, end, err := parseBraced(input, pos)
		if err != nil {
			return "", "", pos, fmt.Errorf("field %q: %w", name, err)
		}
		// A doubled outer brace protects the value from case changes;
		// the stored value is the inner text.
		if wrappedInBraces(value) {
			value = value[1 : len(value)-1]
		}
		return name, value, end, nil
	case '"':
		end := pos + 1
		for end < len(input) && input[end] != '"' {
			end++
		}
		if end >= len(input) {
			return "", "", pos, fmt.Errorf("field %q: unterminated quoted value", name)
		}
		return name, input[pos+1 : end], end + 1, nil
	default:
		end := pos
		for end < len(input) && input[end] != ',' && input[end] != '}' && input[end] != '\n' {
			end++
		}
		return name, strings.TrimSpace(input[pos:end]), end, nil
	}
}

// parseBraced reads a brace-balanced value starting at '{'. Returns the
// inner text (outer braces stripped) and the offset past the closing brace.
func parseBraced(input string, pos int) (string, int, error) {
	depth := 0
	start := pos
	for pos < len(input) {
		switch input[pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start+1 : pos], pos + 1, nil
			}
		}
		pos++
	}
	return "", pos, fmt.Errorf("unbalanced braces at offset %d", start)
}

// wrappedInBraces reports whether the leading '{' closes at the very end of
// value, i.e. the whole value is one protected group.
func wrappedInBraces(value string) bool {
	if len(value) < 2 || value[0] != '{' || value[len(value)-1] != '}' {
		return false
	}
	depth := 0
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i == len(value)-1
			}
		}
	}
	return false
}

func skipSpace(input string, pos int) int {
	for pos < len(input) && (input[pos] == ' ' || input[pos] == '\t' || input[pos] == '\n' || input[pos] == '\r') {
		pos++
	}
	return pos
}

// Serialize writes entries back to BibTeX. Every field is single-braced
// except title, which is always double-braced to protect its casing.
// Fields are emitted in sorted order for deterministic output.
func Serialize(entries []Entry) string {
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("@")
		sb.WriteString(e.Type)
		sb.WriteString("{")
		sb.WriteString(e.Key)
		sb.WriteString(",\n")

		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			sb.WriteString("  ")
			sb.WriteString(name)
			sb.WriteString(" = ")
			if name == "title" {
				sb.WriteString("{{")
				sb.WriteString(e.Fields[name])
				sb.WriteString("}}")
			} else {
				sb.WriteString("{")
				sb.WriteString(e.Fields[name])
				sb.WriteString("}")
			}
			sb.WriteString(",\n")
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}
