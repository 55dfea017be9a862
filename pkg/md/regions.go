// regions.go computes inert zones (code and math spans) inside a block of
// text. Pattern syntax that overlaps an inert zone is never reinterpreted as
// tracked-change, citation, or highlight markup.
package md

// RegionKind distinguishes inert zone types.
type RegionKind int

const (
	RegionCode RegionKind = iota
	RegionMath
)

// Region is one inert zone, with byte offsets into the scanned text. Inner
// offsets exclude the delimiters.
type Region struct {
	Kind       RegionKind
	Start      int
	End        int
	InnerStart int
	InnerEnd   int
	Display    bool // math only: $$ display mode
}

// ScanRegions finds all inline code spans and math spans in text, in
// document order. Code spans are matched first (equal-length backtick runs);
// math spans are then matched outside code. The scan is a single
// left-to-right pass per pattern class with a cursor that never rewinds, so
// spans of any length are matched in one pass.
func ScanRegions(text string) []Region {
	regions := scanCodeSpans(text)
	regions = mergeRegions(regions, scanMathSpans(text, regions))
	return regions
}

// InRegion returns the region containing [start,end), or nil.
func InRegion(regions []Region, start, end int) *Region {
	for i := range regions {
		r := &regions[i]
		if start < r.End && end > r.Start {
			return r
		}
	}
	return nil
}

// scanCodeSpans matches backtick code spans. The closing run must have the
// same length as the opening run.
func scanCodeSpans(text string) []Region {
	var regions []Region
	pos := 0
	for pos < len(text) {
		if text[pos] != '`' {
			pos++
			continue
		}
		runLen := 0
		for pos+runLen < len(text) && text[pos+runLen] == '`' {
			runLen++
		}
		closeAt := findBacktickRun(text, pos+runLen, runLen)
		if closeAt < 0 {
			pos += runLen
			continue
		}
		regions = append(regions, Region{
			Kind:       RegionCode,
			Start:      pos,
			End:        closeAt + runLen,
			InnerStart: pos + runLen,
			InnerEnd:   closeAt,
		})
		pos = closeAt + runLen
	}
	return regions
}

// findBacktickRun returns the offset of the next backtick run of exactly n
// backticks at or after start, or -1.
func findBacktickRun(text string, start, n int) int {
	pos := start
	for pos < len(text) {
		if text[pos] != '`' {
			pos++
			continue
		}
		runLen := 0
		for pos+runLen < len(text) && text[pos+runLen] == '`' {
			runLen++
		}
		if runLen == n {
			return pos
		}
		pos += runLen
	}
	return -1
}

// scanMathSpans matches $$...$$ display math and $...$ inline math outside
// the given code regions. A dollar escaped with a backslash does not open or
// close a span.
func scanMathSpans(text string, code []Region) []Region {
	var regions []Region
	pos := 0
	for pos < len(text) {
		if text[pos] != '$' || escapedAt(text, pos) {
			pos++
			continue
		}
		if r := InRegion(code, pos, pos+1); r != nil {
			pos = r.End
			continue
		}
		display := pos+1 < len(text) && text[pos+1] == '$'
		delimLen := 1
		if display {
			delimLen = 2
		}
		closeAt := findMathClose(text, pos+delimLen, delimLen, code)
		if closeAt < 0 {
			pos += delimLen
			continue
		}
		if closeAt == pos+delimLen && !display {
			// Empty inline span ($$ as two singles) is not math.
			pos = closeAt + delimLen
			continue
		}
		regions = append(regions, Region{
			Kind:       RegionMath,
			Start:      pos,
			End:        closeAt + delimLen,
			InnerStart: pos + delimLen,
			InnerEnd:   closeAt,
			Display:    display,
		})
		pos = closeAt + delimLen
	}
	return regions
}

func findMathClose(text string, start, delimLen int, code []Region) int {
	pos := start
	for pos < len(text) {
		if text[pos] != '$' || escapedAt(text, pos) {
			pos++
			continue
		}
		if r := InRegion(code, pos, pos+1); r != nil {
			pos = r.End
			continue
		}
		if delimLen == 2 {
			if pos+1 < len(text) && text[pos+1] == '$' {
				return pos
			}
			pos++
			continue
		}
		return pos
	}
	return -1
}

func escapedAt(text string, pos int) bool {
	backslashes := 0
	for i := pos - 1; i >= 0 && text[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 1
}

// mergeRegions combines two ordered region lists into one ordered list.
func mergeRegions(a, b []Region) []Region {
	out := make([]Region, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Start <= b[j].Start {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
