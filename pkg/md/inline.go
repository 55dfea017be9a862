// inline.go scans block content into inline runs. Inert zones are computed
// first; tracked-change, citation, and footnote patterns that overlap a code
// or math span are classified as that span's plain content, never as markup.
package md

import (
	"strings"

	"github.com/open-cli-collective/manuscript-cli/pkg/critic"
)

// ScanRuns tokenizes inline content into an ordered run sequence. notes maps
// footnote identifiers to their definition text; a reference with no
// definition still produces a footnote run with empty text.
func ScanRuns(text string, notes map[string]string) []Run {
	regions := ScanRegions(text)
	marks := filterRegionOverlaps(critic.Scan(text), regions)

	var runs []Run
	pos := 0
	textStart := 0

	flush := func(end int) {
		if end > textStart {
			runs = append(runs, Run{Type: RunText, Text: text[textStart:end]})
		}
	}

	for pos < len(text) {
		if r := regionStartingAt(regions, pos); r != nil {
			flush(pos)
			if r.Kind == RegionCode {
				runs = append(runs, Run{Type: RunCode, Text: text[r.InnerStart:r.InnerEnd]})
			} else {
				runs = append(runs, Run{Type: RunMath, Text: strings.TrimSpace(text[r.InnerStart:r.InnerEnd]), Display: r.Display})
			}
			pos = r.End
			textStart = pos
			continue
		}

		if m := markStartingAt(marks, pos); m != nil {
			flush(pos)
			run, end := trackedRun(text, marks, *m)
			runs = append(runs, run)
			pos = end
			textStart = pos
			continue
		}

		if text[pos] == '[' {
			if run, end, ok := scanFootnoteRef(text, pos, notes); ok {
				flush(pos)
				runs = append(runs, run)
				pos = end
				textStart = pos
				continue
			}
			if run, end, ok := scanCitation(text, pos, regions); ok {
				flush(pos)
				runs = append(runs, run)
				pos = end
				textStart = pos
				continue
			}
		}

		if run, end, ok := scanEmphasis(text, pos, regions); ok {
			flush(pos)
			runs = append(runs, run)
			pos = end
			textStart = pos
			continue
		}

		if text[pos] == '\n' {
			flush(pos)
			runs = append(runs, Run{Type: RunSoftBreak})
			pos++
			textStart = pos
			continue
		}

		pos++
	}
	flush(len(text))
	return runs
}

// filterRegionOverlaps drops tracked-change matches that overlap an inert
// zone; their text stays part of the zone's content.
func filterRegionOverlaps(marks []critic.Match, regions []Region) []critic.Match {
	if len(regions) == 0 {
		return marks
	}
	kept := marks[:0]
	for _, m := range marks {
		if InRegion(regions, m.Start, m.End) == nil {
			kept = append(kept, m)
		}
	}
	return kept
}

func regionStartingAt(regions []Region, pos int) *Region {
	for i := range regions {
		if regions[i].Start == pos {
			return &regions[i]
		}
	}
	return nil
}

func markStartingAt(marks []critic.Match, pos int) *critic.Match {
	for i := range marks {
		if marks[i].Start == pos {
			return &marks[i]
		}
	}
	return nil
}

// trackedRun converts a CriticMarkup match into a run. A highlight
// immediately followed by a comment span becomes a single annotated comment
// run spanning the highlighted text; the returned end covers both spans.
func trackedRun(text string, marks []critic.Match, m critic.Match) (Run, int) {
	restore := critic.RestoreBreaks

	switch m.Kind {
	case critic.KindAddition:
		return Run{Type: RunAddition, Text: restore(m.Inner(text))}, m.End
	case critic.KindDeletion:
		return Run{Type: RunDeletion, Text: restore(m.Inner(text))}, m.End
	case critic.KindSubstitution:
		old, new := m.OldNew(text)
		return Run{Type: RunSubstitution, Old: restore(old), New: restore(new)}, m.End
	case critic.KindHighlight:
		if next := markStartingAt(marks, m.End); next != nil && next.Kind == critic.KindComment {
			th := critic.ParseThread(restore(next.Inner(text)))
			return Run{
				Type:        RunComment,
				Text:        restore(m.Inner(text)),
				CommentText: th.Root,
				Replies:     th.Replies,
			}, next.End
		}
		return Run{Type: RunHighlight, Text: restore(m.Inner(text))}, m.End
	case critic.KindComment:
		th := critic.ParseThread(restore(m.Inner(text)))
		return Run{Type: RunComment, CommentText: th.Root, Replies: th.Replies}, m.End
	}
	return Run{Type: RunText, Text: text[m.Start:m.End]}, m.End
}

// scanFootnoteRef matches [^id] at pos.
func scanFootnoteRef(text string, pos int, notes map[string]string) (Run, int, bool) {
	if pos+2 >= len(text) || text[pos+1] != '^' {
		return Run{}, pos, false
	}
	end := strings.IndexByte(text[pos+2:], ']')
	if end < 0 || end == 0 {
		return Run{}, pos, false
	}
	id := text[pos+2 : pos+2+end]
	if strings.ContainsAny(id, " \n") {
		return Run{}, pos, false
	}
	return Run{Type: RunFootnoteRef, Text: notes[id]}, pos + 2 + end + 1, true
}

// scanCitation matches a pandoc-style citation group [@key; @key2, loc] at
// pos. Every semicolon-separated item must begin with '@'.
func scanCitation(text string, pos int, regions []Region) (Run, int, bool) {
	close := strings.IndexByte(text[pos:], ']')
	if close < 0 {
		return Run{}, pos, false
	}
	end := pos + close + 1
	if InRegion(regions, pos, end) != nil {
		return Run{}, pos, false
	}
	inner := text[pos+1 : end-1]
	if !strings.Contains(inner, "@") {
		return Run{}, pos, false
	}

	var keys []CitationRef
	for _, item := range strings.Split(inner, ";") {
		item = strings.TrimSpace(item)
		if !strings.HasPrefix(item, "@") {
			return Run{}, pos, false
		}
		item = item[1:]
		ref := CitationRef{Key: item}
		if comma := strings.Index(item, ","); comma >= 0 {
			ref.Key = strings.TrimSpace(item[:comma])
			ref.Locator = strings.TrimSpace(item[comma+1:])
			ref.Locator = strings.TrimPrefix(ref.Locator, "p. ")
		}
		if ref.Key == "" {
			return Run{}, pos, false
		}
		keys = append(keys, ref)
	}
	if len(keys) == 0 {
		return Run{}, pos, false
	}
	return Run{Type: RunCitation, Keys: keys}, end, true
}

// emphasisDelims is ordered longest-first so *** wins over ** and *.
var emphasisDelims = []struct {
	delim string
	typ   RunType
}{
	{"***", RunBoldItalic},
	{"**", RunBold},
	{"*", RunItalic},
	{"~~", RunStrikethrough},
}

// scanEmphasis matches *italic*, **bold**, ***both***, and ~~strike~~ spans.
// The closing delimiter may not sit inside an inert zone.
func scanEmphasis(text string, pos int, regions []Region) (Run, int, bool) {
	for _, d := range emphasisDelims {
		if !strings.HasPrefix(text[pos:], d.delim) {
			continue
		}
		innerStart := pos + len(d.delim)
		search := innerStart
		for {
			idx := strings.Index(text[search:], d.delim)
			if idx < 0 {
				break
			}
			closeAt := search + idx
			if closeAt == innerStart {
				// Empty emphasis is literal text.
				break
			}
			if InRegion(regions, closeAt, closeAt+len(d.delim)) != nil {
				search = closeAt + 1
				continue
			}
			return Run{Type: d.typ, Text: text[innerStart:closeAt]}, closeAt + len(d.delim), true
		}
	}
	return Run{}, pos, false
}
