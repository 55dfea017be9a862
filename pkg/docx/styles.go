// styles.go derives the style part from document settings. All size
// arithmetic is deterministic: the format measures run sizes in half-points,
// so a requested point size doubles; heading sizes keep their default ratio
// to the body size; the inferred code size sits two half-points under the
// body, floored at 1.
package docx

import (
	"fmt"
	"math"
	"strings"

	"github.com/open-cli-collective/manuscript-cli/pkg/md"
)

// defaultBodyPoints is the body size the default heading sizes are scaled
// against.
const defaultBodyPoints = 12

// defaultHeadingPoints holds the heading sizes at the default body size.
var defaultHeadingPoints = [7]float64{0, 20, 16, 14, 13, 12, 12}

func halfPoints(points float64) int {
	return int(math.Round(points * 2))
}

// headingHalfPoints scales a heading level's default size by the requested
// body size, rounded to the nearest half-point.
func headingHalfPoints(level int, bodyPoints float64) int {
	if level < 1 || level > 6 {
		level = 6
	}
	return int(math.Round(defaultHeadingPoints[level] * bodyPoints / defaultBodyPoints * 2))
}

// titleHalfPoints scales the 28pt default title size by the requested body
// size, same ratio rule as the headings.
func titleHalfPoints(bodyPoints float64) int {
	return int(math.Round(28 * bodyPoints / defaultBodyPoints * 2))
}

// codeHalfPoints resolves the code size: explicit setting wins, otherwise
// the body half-point size minus two, floored at one.
func codeHalfPoints(s md.Settings) int {
	if s.CodeFontSize > 0 {
		return halfPoints(s.CodeFontSize)
	}
	hp := halfPoints(s.BodyFontSize) - 2
	if hp < 1 {
		hp = 1
	}
	return hp
}

func buildStyles(s md.Settings) []byte {
	bodyHP := halfPoints(s.BodyFontSize)
	codeHP := codeHalfPoints(s)

	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)

	fmt.Fprintf(&sb, `<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="%d"/><w:lang w:val="%s"/></w:rPr></w:rPrDefault></w:docDefaults>`,
		escapeAttr(s.BodyFont), escapeAttr(s.BodyFont), bodyHP, escapeAttr(s.Locale))

	fmt.Fprintf(&sb, `<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="%d"/></w:rPr></w:style>`,
		escapeAttr(s.BodyFont), escapeAttr(s.BodyFont), bodyHP)

	fmt.Fprintf(&sb, `<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:rPr><w:b/><w:sz w:val="%d"/></w:rPr></w:style>`,
		titleHalfPoints(s.BodyFontSize))

	for level := 1; level <= 6; level++ {
		fmt.Fprintf(&sb, `<w:style w:type="paragraph" w:styleId="Heading%d"><w:name w:val="heading %d"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="%d"/></w:pPr><w:rPr><w:b/><w:sz w:val="%d"/></w:rPr></w:style>`,
			level, level, level-1, headingHalfPoints(level, s.BodyFontSize))
	}

	sb.WriteString(`<w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/><w:basedOn w:val="Normal"/><w:pPr><w:ind w:left="720"/></w:pPr><w:rPr><w:i/></w:rPr></w:style>`)
	sb.WriteString(`<w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/><w:basedOn w:val="Normal"/><w:pPr><w:ind w:left="720"/></w:pPr></w:style>`)

	sb.WriteString(`<w:style w:type="paragraph" w:styleId="Code"><w:name w:val="Code"/><w:basedOn w:val="Normal"/><w:pPr>`)
	if s.CodeBackground != "" {
		fmt.Fprintf(&sb, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, escapeAttr(s.CodeBackground))
	}
	if s.CodeInset > 0 {
		fmt.Fprintf(&sb, `<w:ind w:left="%d" w:right="%d"/>`, s.CodeInset, s.CodeInset)
	}
	fmt.Fprintf(&sb, `</w:pPr><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="%d"/>`,
		escapeAttr(s.CodeFont), escapeAttr(s.CodeFont), codeHP)
	if s.CodeForeground != "" {
		fmt.Fprintf(&sb, `<w:color w:val="%s"/>`, escapeAttr(s.CodeForeground))
	}
	sb.WriteString(`</w:rPr></w:style>`)

	fmt.Fprintf(&sb, `<w:style w:type="character" w:styleId="CodeChar"><w:name w:val="Code Char"/><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="%d"/></w:rPr></w:style>`,
		escapeAttr(s.CodeFont), escapeAttr(s.CodeFont), codeHP)

	sb.WriteString(`<w:style w:type="character" w:styleId="CommentReference"><w:name w:val="annotation reference"/><w:rPr><w:sz w:val="16"/></w:rPr></w:style>`)
	sb.WriteString(`<w:style w:type="character" w:styleId="FootnoteReference"><w:name w:val="footnote reference"/><w:rPr><w:vertAlign w:val="superscript"/></w:rPr></w:style>`)
	sb.WriteString(`<w:style w:type="character" w:styleId="EndnoteReference"><w:name w:val="endnote reference"/><w:rPr><w:vertAlign w:val="superscript"/></w:rPr></w:style>`)

	sb.WriteString(`</w:styles>`)
	return []byte(sb.String())
}

// buildNumbering emits the two list definitions: 1 bullet, 2 decimal.
func buildNumbering() []byte {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	sb.WriteString(`<w:abstractNum w:abstractNumId="1"><w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl><w:lvl w:ilvl="1"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#9702;"/><w:pPr><w:ind w:left="1440" w:hanging="360"/></w:pPr></w:lvl></w:abstractNum>`)
	sb.WriteString(`<w:abstractNum w:abstractNumId="2"><w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl><w:lvl w:ilvl="1"><w:numFmt w:val="decimal"/><w:lvlText w:val="%2."/><w:pPr><w:ind w:left="1440" w:hanging="360"/></w:pPr></w:lvl></w:abstractNum>`)
	sb.WriteString(`<w:num w:numId="1"><w:abstractNumId w:val="1"/></w:num>`)
	sb.WriteString(`<w:num w:numId="2"><w:abstractNumId w:val="2"/></w:num>`)
	sb.WriteString(`</w:numbering>`)
	return []byte(sb.String())
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	return strings.ReplaceAll(escapeText(s), `"`, "&quot;")
}
