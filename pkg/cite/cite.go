// Package cite assigns stable citation keys and numeric identifiers to
// bibliographic items. Identity is deterministic: the DOI when present,
// otherwise normalized title plus year.
package cite

import (
	"fmt"
	"strings"
)

// Metadata describes one cited bibliographic item.
type Metadata struct {
	Authors   []string // "Family, Given" order
	Title     string
	Year      string
	Container string
	DOI       string
	Type      string
	Fields    map[string]string // raw source fields
}

// KeyFormat selects how citation keys are built.
type KeyFormat int

const (
	// FormatAuthorYearTitle builds keys like smith2020quantum.
	FormatAuthorYearTitle KeyFormat = iota
	// FormatAuthorYear builds keys like smith2020.
	FormatAuthorYear
	// FormatNumeric numbers items in first-seen order: 1, 2, 3...
	FormatNumeric
)

// IdentityOf derives the deduplication identity for an item.
func IdentityOf(meta Metadata) string {
	if doi := strings.TrimSpace(meta.DOI); doi != "" {
		return "doi:" + strings.ToLower(doi)
	}
	title := strings.ToLower(strings.Join(strings.Fields(meta.Title), " "))
	return "titleyear:" + title + "|" + strings.TrimSpace(meta.Year)
}

// Mapper assigns citation keys and numeric ids. Mappings are append-only
// during the build pass and read-only afterward: an identity keeps its first
// assigned key and id for the lifetime of the mapper.
type Mapper struct {
	format  KeyFormat
	keys    map[string]string // identity -> key
	ids     map[string]int    // identity -> numeric id
	used    map[string]bool   // keys already handed out
	counter int
}

// NewMapper creates a Mapper using the given key format.
func NewMapper(format KeyFormat) *Mapper {
	return &Mapper{
		format: format,
		keys:   make(map[string]string),
		ids:    make(map[string]int),
		used:   make(map[string]bool),
	}
}

// KeyFor returns the citation key for an item, assigning one on first sight.
// Identical identity always yields the identical key.
func (m *Mapper) KeyFor(meta Metadata) string {
	identity := IdentityOf(meta)
	if key, ok := m.keys[identity]; ok {
		return key
	}

	m.counter++
	m.ids[identity] = m.counter

	var key string
	switch m.format {
	case FormatNumeric:
		key = fmt.Sprintf("%d", m.counter)
	case FormatAuthorYear:
		key = m.dedupe(baseKey(meta, false))
	default:
		key = m.dedupe(baseKey(meta, true))
	}
	m.keys[identity] = key
	m.used[key] = true
	return key
}

// IDFor returns the numeric identifier for an item, assigning the key first
// if the item has not been seen.
func (m *Mapper) IDFor(meta Metadata) int {
	m.KeyFor(meta)
	return m.ids[IdentityOf(meta)]
}

// dedupe appends a numeric suffix starting at 2 until the key is unused.
func (m *Mapper) dedupe(key string) string {
	if !m.used[key] {
		return key
	}
	for suffix := 2; ; suffix++ {
		candidate := fmt.Sprintf("%s%d", key, suffix)
		if !m.used[candidate] {
			return candidate
		}
	}
}

// titleStopwords never count as the significant first title word.
var titleStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "on": true, "of": true, "in": true,
	"and": true, "for": true, "to": true, "with": true, "from": true,
}

func baseKey(meta Metadata, withTitleWord bool) string {
	author := "anon"
	if len(meta.Authors) > 0 {
		family := meta.Authors[0]
		if comma := strings.Index(family, ","); comma >= 0 {
			family = family[:comma]
		} else if space := strings.LastIndex(strings.TrimSpace(family), " "); space >= 0 {
			family = strings.TrimSpace(family)[space+1:]
		}
		if cleaned := sanitizeKeyPart(family); cleaned != "" {
			author = cleaned
		}
	}

	key := author + sanitizeKeyPart(meta.Year)
	if withTitleWord {
		key += firstSignificantWord(meta.Title)
	}
	return key
}

func firstSignificantWord(title string) string {
	for _, word := range strings.Fields(title) {
		cleaned := sanitizeKeyPart(word)
		if cleaned == "" || titleStopwords[cleaned] {
			continue
		}
		return cleaned
	}
	return ""
}

// sanitizeKeyPart lowercases and keeps only letters and digits.
func sanitizeKeyPart(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// FormatLocator appends a page locator to a rendered citation key. The
// characters that would break the citation list syntax are stripped from
// the locator first; a locator that strips to nothing adds no suffix.
func FormatLocator(key, locator string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ';', '@':
			return -1
		}
		return r
	}, locator)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return key
	}
	return key + ", p. " + cleaned
}
