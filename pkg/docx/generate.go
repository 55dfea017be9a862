// generate.go maps the tokenizer's block/run stream to a complete document
// package. Recoverable problems (unresolved citation keys, math that fails
// to parse) become warnings on the result, never errors.
package docx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/open-cli-collective/manuscript-cli/pkg/bibtex"
	"github.com/open-cli-collective/manuscript-cli/pkg/cite"
	"github.com/open-cli-collective/manuscript-cli/pkg/latex"
	"github.com/open-cli-collective/manuscript-cli/pkg/md"
)

// GenerateOptions configures one generation pass.
type GenerateOptions struct {
	Settings     md.Settings
	Bibliography []bibtex.Entry
	Highlight    *HighlightConfig
	Author       string    // tracked-change and comment author
	Timestamp    time.Time // revision timestamp; zero means now
}

// Generate renders tokens into a document package. Warnings accumulate
// alongside the package; the only hard failures are serialization errors.
func Generate(tokens []md.Token, opts GenerateOptions) (*Package, []string, error) {
	g := newGenerator(opts)
	g.writeTitles()
	for _, tok := range tokens {
		g.writeBlock(tok)
	}
	g.writeSources()
	return g.assemble()
}

type generator struct {
	opts      GenerateOptions
	body      strings.Builder
	comments  []comment
	notes     []note
	warnings  []string
	highlight string
	author    string
	date      string

	commentSeq int
	revSeq     int
	citeSeq    int
	noteSeq    int

	entries map[string]bibtex.Entry
	itemIDs map[string]int // citation key -> stable numeric item id
	itemSeq int

	cited    []string // resolved keys in first-citation order
	citedSet map[string]bool
}

func newGenerator(opts GenerateOptions) *generator {
	author := opts.Author
	if author == "" {
		author = opts.Settings.Author
	}
	if author == "" {
		author = "manuscript"
	}
	ts := opts.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	highlight := DefaultHighlightColor
	if opts.Highlight != nil {
		highlight = opts.Highlight.Get()
	}
	entries := make(map[string]bibtex.Entry, len(opts.Bibliography))
	for _, e := range opts.Bibliography {
		entries[e.Key] = e
	}
	date := ts.UTC().Format("2006-01-02T15:04:05Z")
	if loc := locationFromOffset(opts.Settings.Timezone); loc != nil {
		date = ts.In(loc).Format("2006-01-02T15:04:05-07:00")
	}
	return &generator{
		opts:      opts,
		highlight: highlight,
		author:    author,
		date:      date,
		entries:   entries,
		itemIDs:   make(map[string]int),
		citedSet:  make(map[string]bool),
	}
}

// locationFromOffset converts a validated ±HH:MM frontmatter offset into a
// fixed zone. Anything else means UTC.
func locationFromOffset(offset string) *time.Location {
	if len(offset) != 6 || offset[3] != ':' {
		return nil
	}
	sign := 1
	switch offset[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return nil
	}
	hours, err := strconv.Atoi(offset[1:3])
	if err != nil {
		return nil
	}
	mins, err := strconv.Atoi(offset[4:6])
	if err != nil {
		return nil
	}
	return time.FixedZone(offset, sign*(hours*3600+mins*60))
}

func (g *generator) warnf(format string, args ...any) {
	g.warnings = append(g.warnings, fmt.Sprintf(format, args...))
}

// writeTitles renders the frontmatter titles ahead of the body. Extraction
// skips Title-styled paragraphs, so the markdown body stays metadata-free.
func (g *generator) writeTitles() {
	for _, title := range g.opts.Settings.Titles {
		g.openParagraph(`<w:pStyle w:val="Title"/>`)
		g.writeTextRun(title)
		g.closeParagraph()
	}
}

// writeSources appends the rendered reference list when frontmatter names a
// citation style. Extraction strips the trailing section again, keeping it
// out of the markdown source.
func (g *generator) writeSources() {
	if g.opts.Settings.CSL == "" || len(g.cited) == 0 {
		return
	}
	g.openParagraph(`<w:pStyle w:val="Heading1"/>`)
	g.writeTextRun("Sources")
	g.closeParagraph()
	for _, key := range g.cited {
		g.openParagraph("")
		g.writeTextRun(formatReference(g.entries[key]))
		g.closeParagraph()
	}
}

// formatReference renders an author-date reference line. The style
// identifier opts the section in; styled output beyond author-date is not
// implemented.
func formatReference(e bibtex.Entry) string {
	var sb strings.Builder
	if a := e.Field("author"); a != "" {
		sb.WriteString(a + " ")
	}
	if y := e.Field("year"); y != "" {
		sb.WriteString("(" + y + "). ")
	}
	if t := e.Field("title"); t != "" {
		sb.WriteString(t + ".")
	}
	if d := e.Field("doi"); d != "" {
		sb.WriteString(" doi:" + d)
	}
	return strings.TrimSpace(sb.String())
}

func (g *generator) writeBlock(tok md.Token) {
	switch tok.Type {
	case md.BlockHeading:
		g.openParagraph(fmt.Sprintf(`<w:pStyle w:val="Heading%d"/>`, tok.Level))
		g.writeRuns(tok.Runs)
		g.closeParagraph()
	case md.BlockCodeBlock:
		g.writeCodeBlock(tok)
	case md.BlockBlockquote:
		g.openParagraph(`<w:pStyle w:val="Quote"/>`)
		g.writeRuns(tok.Runs)
		g.closeParagraph()
	case md.BlockAlert:
		g.openParagraph(`<w:pStyle w:val="Quote"/>`)
		g.writeFormattedRun("[!"+tok.AlertKind+"]", `<w:b/>`)
		g.body.WriteString(`<w:r><w:br/></w:r>`)
		g.writeRuns(tok.Runs)
		g.closeParagraph()
	case md.BlockListItem:
		g.writeListItem(tok)
	case md.BlockTable:
		g.writeTable(tok)
	case md.BlockThematicBreak:
		g.body.WriteString(`<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="auto"/></w:pBdr></w:pPr></w:p>`)
	default:
		g.openParagraph("")
		g.writeRuns(tok.Runs)
		g.closeParagraph()
	}
}

func (g *generator) openParagraph(pPr string) {
	g.body.WriteString("<w:p>")
	if pPr != "" {
		g.body.WriteString("<w:pPr>")
		g.body.WriteString(pPr)
		g.body.WriteString("</w:pPr>")
	}
}

func (g *generator) closeParagraph() {
	g.body.WriteString("</w:p>")
}

// writeCodeBlock emits one Code-styled paragraph; lines separate on w:br. A
// vanished run preserves the fence language tag through the roundtrip.
func (g *generator) writeCodeBlock(tok md.Token) {
	g.openParagraph(`<w:pStyle w:val="Code"/>`)
	if tok.Language != "" {
		g.body.WriteString(`<w:r><w:rPr><w:vanish/></w:rPr><w:t xml:space="preserve">`)
		g.body.WriteString(escapeText(tok.Language))
		g.body.WriteString("</w:t></w:r>")
	}
	lines := strings.Split(strings.TrimRight(tok.Text, "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			g.body.WriteString(`<w:r><w:br/></w:r>`)
		}
		g.writeTextRun(line)
	}
	g.closeParagraph()
}

func (g *generator) writeListItem(tok md.Token) {
	numID := 1
	if tok.Ordered {
		numID = 2
	}
	g.openParagraph(fmt.Sprintf(`<w:pStyle w:val="ListParagraph"/><w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr>`, tok.Level, numID))
	if tok.Task {
		marker := "[ ] "
		if tok.Checked {
			marker = "[x] "
		}
		g.writeTextRun(marker)
	}
	g.writeRuns(tok.Runs)
	g.closeParagraph()
}

func (g *generator) writeTable(tok md.Token) {
	g.body.WriteString(`<w:tbl><w:tblPr><w:tblBorders><w:top w:val="single" w:sz="4"/><w:bottom w:val="single" w:sz="4"/><w:left w:val="single" w:sz="4"/><w:right w:val="single" w:sz="4"/><w:insideH w:val="single" w:sz="4"/><w:insideV w:val="single" w:sz="4"/></w:tblBorders></w:tblPr>`)
	for _, row := range tok.Rows {
		g.body.WriteString("<w:tr>")
		for _, cell := range row {
			g.body.WriteString("<w:tc><w:p>")
			g.writeRuns(cell.Runs)
			g.body.WriteString("</w:p></w:tc>")
		}
		g.body.WriteString("</w:tr>")
	}
	g.body.WriteString("</w:tbl>")
}

func (g *generator) writeRuns(runs []md.Run) {
	for _, r := range runs {
		g.writeRun(r)
	}
}

func (g *generator) writeRun(r md.Run) {
	switch r.Type {
	case md.RunText:
		g.writeTextRun(r.Text)
	case md.RunBold:
		g.writeFormattedRun(r.Text, `<w:b/>`)
	case md.RunItalic:
		g.writeFormattedRun(r.Text, `<w:i/>`)
	case md.RunBoldItalic:
		g.writeFormattedRun(r.Text, `<w:b/><w:i/>`)
	case md.RunStrikethrough:
		g.writeFormattedRun(r.Text, `<w:strike/>`)
	case md.RunCode:
		g.writeFormattedRun(r.Text, `<w:rStyle w:val="CodeChar"/>`)
	case md.RunHighlight:
		g.writeFormattedRun(r.Text, fmt.Sprintf(`<w:highlight w:val="%s"/>`, g.highlight))
	case md.RunMath:
		g.writeMath(r)
	case md.RunCitation:
		g.writeCitation(r)
	case md.RunAddition:
		g.revSeq++
		fmt.Fprintf(&g.body, `<w:ins w:id="%d" w:author="%s" w:date="%s">`, g.revSeq, escapeAttr(g.author), g.date)
		g.writeBrokenText(r.Text, false)
		g.body.WriteString("</w:ins>")
	case md.RunDeletion:
		g.revSeq++
		fmt.Fprintf(&g.body, `<w:del w:id="%d" w:author="%s" w:date="%s">`, g.revSeq, escapeAttr(g.author), g.date)
		g.writeBrokenText(r.Text, true)
		g.body.WriteString("</w:del>")
	case md.RunSubstitution:
		g.writeRun(md.Run{Type: md.RunDeletion, Text: r.Old})
		g.writeRun(md.Run{Type: md.RunAddition, Text: r.New})
	case md.RunComment:
		g.writeCommentThread(r)
	case md.RunFootnoteRef:
		g.writeNoteRef(r)
	case md.RunSoftBreak:
		g.body.WriteString(`<w:r><w:br/></w:r>`)
	}
}

func (g *generator) writeTextRun(text string) {
	if text == "" {
		return
	}
	g.body.WriteString(`<w:r><w:t xml:space="preserve">`)
	g.body.WriteString(escapeText(text))
	g.body.WriteString("</w:t></w:r>")
}

func (g *generator) writeFormattedRun(text, rPr string) {
	if text == "" {
		return
	}
	g.body.WriteString("<w:r><w:rPr>")
	g.body.WriteString(rPr)
	g.body.WriteString(`</w:rPr><w:t xml:space="preserve">`)
	g.body.WriteString(escapeText(text))
	g.body.WriteString("</w:t></w:r>")
}

// writeBrokenText writes tracked span text, turning newlines into breaks so
// a span may cross paragraph boundaries of the source.
func (g *generator) writeBrokenText(text string, deleted bool) {
	open, tag := `<w:r><w:t xml:space="preserve">`, "w:t"
	if deleted {
		open, tag = `<w:r><w:delText xml:space="preserve">`, "w:delText"
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			g.body.WriteString(`<w:r><w:br/></w:r>`)
		}
		if line == "" {
			continue
		}
		g.body.WriteString(open)
		g.body.WriteString(escapeText(line))
		g.body.WriteString("</" + tag + "></w:r>")
	}
}

func (g *generator) writeMath(r md.Run) {
	omml, err := latex.ToOMML(r.Text, r.Display)
	if err != nil {
		g.warnf("math %q: %v", r.Text, err)
		g.writeTextRun(r.Text)
		return
	}
	g.body.WriteString(omml)
}

// writeCommentThread emits one comment per thread member. Every member
// shares the root's range and gets its own reference; reply parentage is
// recorded through the extended part.
func (g *generator) writeCommentThread(r md.Run) {
	rootID := g.commentSeq
	rootParaID := commentParaID(rootID)
	members := append([]string{r.CommentText}, r.Replies...)
	ids := make([]int, len(members))
	for i, text := range members {
		ids[i] = g.commentSeq
		g.commentSeq++
		c := comment{
			id:     ids[i],
			paraID: commentParaID(ids[i]),
			author: g.author,
			date:   g.date,
			text:   text,
		}
		if i > 0 {
			c.parentParaID = rootParaID
		}
		g.comments = append(g.comments, c)
	}

	for _, id := range ids {
		fmt.Fprintf(&g.body, `<w:commentRangeStart w:id="%d"/>`, id)
	}
	if r.Text == "" {
		// A standalone comment still needs a run to anchor its range.
		g.body.WriteString(`<w:r><w:t xml:space="preserve"></w:t></w:r>`)
	} else {
		g.writeTextRun(r.Text)
	}
	for _, id := range ids {
		fmt.Fprintf(&g.body, `<w:commentRangeEnd w:id="%d"/>`, id)
		fmt.Fprintf(&g.body, `<w:r><w:rPr><w:rStyle w:val="CommentReference"/></w:rPr><w:commentReference w:id="%d"/></w:r>`, id)
	}
}

func (g *generator) writeNoteRef(r md.Run) {
	g.noteSeq++
	g.notes = append(g.notes, note{id: g.noteSeq, text: r.Text})
	ref, style := "footnoteReference", "FootnoteReference"
	if g.opts.Settings.Notes == md.NotesAsEndnotes {
		ref, style = "endnoteReference", "EndnoteReference"
	}
	fmt.Fprintf(&g.body, `<w:r><w:rPr><w:rStyle w:val="%s"/></w:rPr><w:%s w:id="%d"/></w:r>`, style, ref, g.noteSeq)
}

// writeCitation emits the field triplet: begin, the structured payload as
// instruction text, separate, the plain display text, end.
func (g *generator) writeCitation(r md.Run) {
	g.citeSeq++
	payload := cite.CitationPayload{
		CitationID: fmt.Sprintf("cit-%d", g.citeSeq),
		Properties: cite.CitationProperties{PlainCitation: plainCitation(r.Keys)},
	}
	for _, ref := range r.Keys {
		payload.CitationItems = append(payload.CitationItems, g.citationItem(ref))
	}
	instr, err := payload.MarshalField()
	if err != nil {
		g.warnf("citation %v: %v", r.Keys, err)
		g.writeTextRun(plainCitation(r.Keys))
		return
	}
	g.body.WriteString(`<w:r><w:fldChar w:fldCharType="begin"/></w:r>`)
	g.body.WriteString(`<w:r><w:instrText xml:space="preserve">`)
	g.body.WriteString(escapeText(instr))
	g.body.WriteString(`</w:instrText></w:r>`)
	g.body.WriteString(`<w:r><w:fldChar w:fldCharType="separate"/></w:r>`)
	g.writeTextRun(payload.Properties.PlainCitation)
	g.body.WriteString(`<w:r><w:fldChar w:fldCharType="end"/></w:r>`)
}

// citationItem resolves one cited key against the bibliography. Manager-
// linked entries keep their real URI and a stable numeric id; everything
// else gets a synthetic embedded identity. Unresolved keys still produce an
// item so the citation survives the roundtrip, plus a warning.
func (g *generator) citationItem(ref md.CitationRef) cite.CitationItem {
	entry, ok := g.entries[ref.Key]
	if !ok {
		g.warnf("unresolved citation key %q", ref.Key)
	}
	if ok && !g.citedSet[ref.Key] {
		g.citedSet[ref.Key] = true
		g.cited = append(g.cited, ref.Key)
	}

	item := cite.CitationItem{Locator: ref.Locator}
	if ok && entry.ZoteroURI != "" {
		if _, seen := g.itemIDs[ref.Key]; !seen {
			g.itemSeq++
			g.itemIDs[ref.Key] = g.itemSeq
		}
		item.ID = g.itemIDs[ref.Key]
		item.URIs = []string{entry.ZoteroURI}
	} else {
		item.ID = ref.Key
		item.URIs = []string{cite.EmbeddedURI(ref.Key)}
	}
	if ok {
		item.ItemData = itemData(entry)
	}
	return item
}

func itemData(entry bibtex.Entry) map[string]any {
	data := map[string]any{"id": entry.Key}
	if t := entry.Field("title"); t != "" {
		data["title"] = t
	}
	if entry.Type != "" {
		data["type"] = entry.Type
	}
	if doi := entry.Field("doi"); doi != "" {
		data["DOI"] = doi
	}
	if year := entry.Field("year"); year != "" {
		data["issued"] = map[string]any{"raw": year}
	}
	if author := entry.Field("author"); author != "" {
		var list []map[string]any
		for _, name := range strings.Split(author, " and ") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			person := map[string]any{"literal": name}
			if comma := strings.Index(name, ","); comma >= 0 {
				person = map[string]any{
					"family": strings.TrimSpace(name[:comma]),
					"given":  strings.TrimSpace(name[comma+1:]),
				}
			}
			list = append(list, person)
		}
		data["author"] = list
	}
	return data
}

func plainCitation(keys []md.CitationRef) string {
	var parts []string
	for _, ref := range keys {
		parts = append(parts, cite.FormatLocator(ref.Key, ref.Locator))
	}
	return "(" + strings.Join(parts, "; ") + ")"
}

// assemble packages the rendered parts with their relationships and
// content-type manifest.
func (g *generator) assemble() (*Package, []string, error) {
	pkg := NewPackage()
	endnotes := g.opts.Settings.Notes == md.NotesAsEndnotes

	pkg.SetPart(PartContentTypes, g.buildContentTypes(endnotes))
	pkg.SetPart(PartRels, buildRootRels())
	pkg.SetPart(PartDocument, g.buildDocument())
	pkg.SetPart(PartDocumentRels, g.buildDocumentRels(endnotes))
	pkg.SetPart(PartStyles, buildStyles(g.opts.Settings))
	pkg.SetPart(PartNumbering, buildNumbering())
	if len(g.comments) > 0 {
		pkg.SetPart(PartComments, buildComments(g.comments))
		pkg.SetPart(PartCommentsExtended, buildCommentsExtended(g.comments))
		pkg.SetPart(PartCommentsIds, buildCommentsIds(g.comments))
	}
	if len(g.notes) > 0 {
		if endnotes {
			pkg.SetPart(PartEndnotes, buildEndnotes(g.notes))
		} else {
			pkg.SetPart(PartFootnotes, buildFootnotes(g.notes))
		}
	}
	return pkg, g.warnings, nil
}

func (g *generator) buildDocument() []byte {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math" xmlns:w14="http://schemas.microsoft.com/office/word/2010/wordml" xmlns:w15="http://schemas.microsoft.com/office/word/2012/wordml"><w:body>`)
	sb.WriteString(g.body.String())
	sb.WriteString(`<w:sectPr/></w:body></w:document>`)
	return []byte(sb.String())
}

func (g *generator) buildContentTypes(endnotes bool) []byte {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	sb.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	sb.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	sb.WriteString(`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>`)
	if len(g.comments) > 0 {
		sb.WriteString(`<Override PartName="/word/comments.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.comments+xml"/>`)
		sb.WriteString(`<Override PartName="/word/commentsExtended.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.commentsExtended+xml"/>`)
		sb.WriteString(`<Override PartName="/word/commentsIds.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.commentsIds+xml"/>`)
	}
	if len(g.notes) > 0 {
		if endnotes {
			sb.WriteString(`<Override PartName="/word/endnotes.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.endnotes+xml"/>`)
		} else {
			sb.WriteString(`<Override PartName="/word/footnotes.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footnotes+xml"/>`)
		}
	}
	sb.WriteString(`</Types>`)
	return []byte(sb.String())
}

func buildRootRels() []byte {
	return []byte(xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`)
}

func (g *generator) buildDocumentRels(endnotes bool) []byte {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	sb.WriteString(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>`)
	next := 3
	if len(g.comments) > 0 {
		fmt.Fprintf(&sb, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments" Target="comments.xml"/>`, next)
		next++
		fmt.Fprintf(&sb, `<Relationship Id="rId%d" Type="http://schemas.microsoft.com/office/2011/relationships/commentsExtended" Target="commentsExtended.xml"/>`, next)
		next++
		fmt.Fprintf(&sb, `<Relationship Id="rId%d" Type="http://schemas.microsoft.com/office/2016/09/relationships/commentsIds" Target="commentsIds.xml"/>`, next)
		next++
	}
	if len(g.notes) > 0 {
		if endnotes {
			fmt.Fprintf(&sb, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/endnotes" Target="endnotes.xml"/>`, next)
		} else {
			fmt.Fprintf(&sb, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footnotes" Target="footnotes.xml"/>`, next)
		}
	}
	sb.WriteString(`</Relationships>`)
	return []byte(sb.String())
}
