// extract.go reconstructs the block/run stream from a document package. XML
// walks are depth-bounded; a missing part yields an empty result for that
// part, and only an unreadable archive or unparseable XML is a hard error.
package docx

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/open-cli-collective/manuscript-cli/pkg/bibtex"
	"github.com/open-cli-collective/manuscript-cli/pkg/cite"
	"github.com/open-cli-collective/manuscript-cli/pkg/latex"
	"github.com/open-cli-collective/manuscript-cli/pkg/md"
)

// maxPartDepth bounds recursive element walks over package parts.
const maxPartDepth = 64

// ExtractResult is everything recovered from a package: the token stream,
// bibliography entries rebuilt from citation payloads, and warnings.
type ExtractResult struct {
	Tokens       []md.Token
	Bibliography []bibtex.Entry
	Warnings     []string
}

// ExtractOptions configures extraction. The zero value uses the
// author-year-title key format.
type ExtractOptions struct {
	// KeyFormat selects how citation keys are assigned to manager-linked
	// items, which carry no embedded markdown key.
	KeyFormat cite.KeyFormat
}

// Extract parses a document package archive into the token stream.
func Extract(data []byte) ([]md.Token, []string, error) {
	res, err := ExtractAll(data, ExtractOptions{})
	if err != nil {
		return nil, nil, err
	}
	return res.Tokens, res.Warnings, nil
}

// ExtractAll parses a package archive and returns the full result.
func ExtractAll(data []byte, opts ExtractOptions) (ExtractResult, error) {
	pkg, err := OpenPackage(data)
	if err != nil {
		return ExtractResult{}, err
	}
	tokens, bib, warnings, err := extractPackage(pkg, opts)
	return ExtractResult{Tokens: tokens, Bibliography: bib, Warnings: warnings}, err
}

// ExtractPackage walks an opened package. Comments, notes, and extended
// thread links come from their parts when present.
func ExtractPackage(pkg *Package) ([]md.Token, []string, error) {
	tokens, _, warnings, err := extractPackage(pkg, ExtractOptions{})
	return tokens, warnings, err
}

func extractPackage(pkg *Package, opts ExtractOptions) ([]md.Token, []bibtex.Entry, []string, error) {
	ex := &extractor{
		comments: make(map[int]extractedComment),
		parents:  make(map[string]string),
		byParaID: make(map[string]int),
		notes:    make(map[int]string),
		bibKeys:  make(map[string]bool),
		mapper:   cite.NewMapper(opts.KeyFormat),
	}
	if err := ex.loadComments(pkg); err != nil {
		return nil, nil, nil, err
	}
	if err := ex.loadNotes(pkg); err != nil {
		return nil, nil, nil, err
	}

	docPart := pkg.Part(PartDocument)
	if docPart == nil {
		return nil, nil, ex.warnings, nil
	}
	doc, err := xmlquery.Parse(strings.NewReader(string(docPart)))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parsing document part: %w", err)
	}
	body := findElement(doc, "body", 0)
	if body == nil {
		return nil, nil, ex.warnings, nil
	}

	var tokens []md.Token
	for child := body.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		switch child.Data {
		case "p":
			if tok, ok := ex.paragraphToken(child); ok {
				tokens = append(tokens, tok)
			}
		case "tbl":
			tokens = append(tokens, ex.tableToken(child))
		}
	}
	return stripTrailingSources(tokens), ex.bib, ex.warnings, nil
}

type extractedComment struct {
	text   string
	paraID string
}

type extractor struct {
	warnings []string
	comments map[int]extractedComment
	parents  map[string]string // comment paraId -> parent paraId
	byParaID map[string]int    // comment paraId -> id
	notes    map[int]string
	bib      []bibtex.Entry
	bibKeys  map[string]bool
	mapper   *cite.Mapper
}

func (ex *extractor) warnf(format string, args ...any) {
	ex.warnings = append(ex.warnings, fmt.Sprintf(format, args...))
}

func (ex *extractor) loadComments(pkg *Package) error {
	part := pkg.Part(PartComments)
	if part == nil {
		return nil
	}
	doc, err := xmlquery.Parse(strings.NewReader(string(part)))
	if err != nil {
		return fmt.Errorf("parsing comments part: %w", err)
	}
	walkElements(doc, "comment", 0, func(el *xmlquery.Node) {
		id, err := strconv.Atoi(attrLocal(el, "id"))
		if err != nil {
			return
		}
		c := extractedComment{text: collectText(el, 0)}
		if p := findElement(el, "p", 0); p != nil {
			c.paraID = attrLocal(p, "paraId")
		}
		ex.comments[id] = c
		if c.paraID != "" {
			ex.byParaID[c.paraID] = id
		}
	})

	extPart := pkg.Part(PartCommentsExtended)
	if extPart == nil {
		return nil
	}
	ext, err := xmlquery.Parse(strings.NewReader(string(extPart)))
	if err != nil {
		return fmt.Errorf("parsing extended comments part: %w", err)
	}
	walkElements(ext, "commentEx", 0, func(el *xmlquery.Node) {
		paraID := attrLocal(el, "paraId")
		parent := attrLocal(el, "paraIdParent")
		if paraID != "" && parent != "" {
			ex.parents[paraID] = parent
		}
	})
	return nil
}

func (ex *extractor) loadNotes(pkg *Package) error {
	for _, name := range []string{PartFootnotes, PartEndnotes} {
		part := pkg.Part(name)
		if part == nil {
			continue
		}
		doc, err := xmlquery.Parse(strings.NewReader(string(part)))
		if err != nil {
			return fmt.Errorf("parsing notes part %s: %w", name, err)
		}
		for _, el := range []string{"footnote", "endnote"} {
			walkElements(doc, el, 0, func(n *xmlquery.Node) {
				if t := attrLocal(n, "type"); t != "" {
					return // separator entries
				}
				if id, err := strconv.Atoi(attrLocal(n, "id")); err == nil {
					ex.notes[id] = collectText(n, 0)
				}
			})
		}
	}
	return nil
}

// rootOf resolves a comment id to its thread root, flattening reply chains.
func (ex *extractor) rootOf(id int) int {
	paraID := ex.comments[id].paraID
	for hops := 0; hops < maxPartDepth; hops++ {
		parent, ok := ex.parents[paraID]
		if !ok {
			break
		}
		paraID = parent
	}
	if rootID, ok := ex.byParaID[paraID]; ok {
		return rootID
	}
	return id
}

// piece is one extracted run with the comment ids covering it.
type piece struct {
	run md.Run
	ids []int
}

func idKey(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func (ex *extractor) paragraphToken(p *xmlquery.Node) (md.Token, bool) {
	style, level, ordered, listItem := paragraphStyle(p)

	if hasBottomBorder(p) {
		return md.Token{Type: md.BlockThematicBreak}, true
	}
	// Title paragraphs carry frontmatter metadata, not body content.
	if style == "Title" {
		return md.Token{}, false
	}
	if style == "Code" {
		return ex.codeBlockToken(p), true
	}

	runs := ex.extractRuns(p)

	switch {
	case strings.HasPrefix(style, "Heading"):
		lvl, err := strconv.Atoi(strings.TrimPrefix(style, "Heading"))
		if err != nil || lvl < 1 || lvl > 6 {
			lvl = 1
		}
		return md.Token{Type: md.BlockHeading, Level: lvl, Runs: runs}, true
	case listItem:
		return listToken(runs, level, ordered), true
	case style == "Quote":
		if kind, rest, ok := alertRuns(runs); ok {
			return md.Token{Type: md.BlockAlert, AlertKind: kind, Runs: rest}, true
		}
		return md.Token{Type: md.BlockBlockquote, Runs: runs}, true
	}
	if len(runs) == 0 {
		return md.Token{}, false
	}
	return md.Token{Type: md.BlockParagraph, Runs: runs}, true
}

func (ex *extractor) codeBlockToken(p *xmlquery.Node) md.Token {
	tok := md.Token{Type: md.BlockCodeBlock}
	var sb strings.Builder
	for r := p.FirstChild; r != nil; r = r.NextSibling {
		if r.Type != xmlquery.ElementNode || r.Data != "r" {
			continue
		}
		if hasRunProp(r, "vanish") {
			tok.Language = collectText(r, 0)
			continue
		}
		for child := r.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != xmlquery.ElementNode {
				continue
			}
			switch child.Data {
			case "t":
				sb.WriteString(child.InnerText())
			case "br":
				sb.WriteString("\n")
			}
		}
	}
	tok.Text = sb.String() + "\n"
	return tok
}

func (ex *extractor) tableToken(tbl *xmlquery.Node) md.Token {
	tok := md.Token{Type: md.BlockTable}
	for tr := tbl.FirstChild; tr != nil; tr = tr.NextSibling {
		if tr.Type != xmlquery.ElementNode || tr.Data != "tr" {
			continue
		}
		var row []md.Cell
		for tc := tr.FirstChild; tc != nil; tc = tc.NextSibling {
			if tc.Type != xmlquery.ElementNode || tc.Data != "tc" {
				continue
			}
			var cellRuns []md.Run
			for p := tc.FirstChild; p != nil; p = p.NextSibling {
				if p.Type == xmlquery.ElementNode && p.Data == "p" {
					cellRuns = append(cellRuns, ex.extractRuns(p)...)
				}
			}
			row = append(row, md.Cell{Runs: cellRuns})
		}
		tok.Rows = append(tok.Rows, row)
	}
	return tok
}

// extractRuns walks a paragraph's children into runs, then merges adjacent
// pieces: equal comment-id sets fold into one annotated span, split text
// runs rejoin, and a deletion directly followed by an insertion becomes a
// substitution.
func (ex *extractor) extractRuns(p *xmlquery.Node) []md.Run {
	var pieces []piece
	var active []int
	fieldState := 0 // 0 idle, 1 instruction, 2 display
	var instr strings.Builder

	add := func(r md.Run) {
		pieces = append(pieces, piece{run: r, ids: append([]int(nil), active...)})
	}

	for child := p.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		switch child.Data {
		case "commentRangeStart":
			if id, err := strconv.Atoi(attrLocal(child, "id")); err == nil {
				active = append(active, id)
			}
		case "commentRangeEnd":
			if id, err := strconv.Atoi(attrLocal(child, "id")); err == nil {
				active = removeID(active, id)
			}
		case "ins":
			add(md.Run{Type: md.RunAddition, Text: collectText(child, 0)})
		case "del":
			add(md.Run{Type: md.RunDeletion, Text: collectText(child, 0)})
		case "oMath", "oMathPara":
			source := latex.RenderLaTeX(latex.NodesFromOMML(wrapNode(child)))
			if source != "" {
				add(md.Run{Type: md.RunMath, Text: source, Display: child.Data == "oMathPara"})
			}
		case "r":
			fieldState = ex.handleRun(child, fieldState, &instr, add)
		}
	}
	return ex.mergePieces(pieces)
}

// handleRun processes one w:r element and returns the next field state.
func (ex *extractor) handleRun(r *xmlquery.Node, state int, instr *strings.Builder, add func(md.Run)) int {
	if fld := findElement(r, "fldChar", 0); fld != nil {
		switch attrLocal(fld, "fldCharType") {
		case "begin":
			instr.Reset()
			return 1
		case "separate":
			return 2
		case "end":
			if run, ok := ex.citationRun(instr.String()); ok {
				add(run)
			} else if text := strings.TrimSpace(instr.String()); text != "" {
				ex.warnf("unrecognized field instruction %q", text)
			}
			return 0
		}
		return state
	}
	if state == 1 {
		if it := findElement(r, "instrText", 0); it != nil {
			instr.WriteString(it.InnerText())
		}
		return state
	}
	if state == 2 {
		return state // display text is regenerated, not extracted
	}
	if findElement(r, "commentReference", 0) != nil {
		return state
	}
	if hasRunProp(r, "vanish") {
		return state
	}
	if ref := findElement(r, "footnoteReference", 0); ref != nil {
		add(ex.noteRun(ref))
		return state
	}
	if ref := findElement(r, "endnoteReference", 0); ref != nil {
		add(ex.noteRun(ref))
		return state
	}

	runType := runTypeFromProps(r)
	for child := r.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		switch child.Data {
		case "t", "delText":
			add(md.Run{Type: runType, Text: child.InnerText()})
		case "br":
			add(md.Run{Type: md.RunSoftBreak})
		}
	}
	return state
}

func (ex *extractor) noteRun(ref *xmlquery.Node) md.Run {
	id, _ := strconv.Atoi(attrLocal(ref, "id"))
	return md.Run{Type: md.RunFootnoteRef, Text: ex.notes[id]}
}

// citationRun rebuilds a citation run from field instruction text. Keys for
// embedded items come straight out of the synthetic URI; manager-linked
// items derive a key from their item data.
func (ex *extractor) citationRun(instruction string) (md.Run, bool) {
	payload, ok := cite.ParseField(instruction)
	if !ok {
		return md.Run{}, false
	}
	var keys []md.CitationRef
	for _, item := range payload.CitationItems {
		ref := md.CitationRef{Key: ex.itemKey(item), Locator: item.Locator}
		if ref.Key == "" {
			ex.warnf("citation item without a recoverable key in %q", payload.CitationID)
			continue
		}
		ex.recordBibEntry(ref.Key, item)
		keys = append(keys, ref)
	}
	if len(keys) == 0 {
		return md.Run{}, false
	}
	return md.Run{Type: md.RunCitation, Keys: keys}, true
}

func (ex *extractor) itemKey(item cite.CitationItem) string {
	for _, uri := range item.URIs {
		if strings.Contains(uri, "/embedded/") {
			if key := cite.ItemKeyFromURI(uri); key != "" {
				return key
			}
		}
	}
	if len(item.ItemData) > 0 {
		return ex.mapper.KeyFor(metadataFromItemData(item.ItemData))
	}
	if s, ok := item.ID.(string); ok {
		return s
	}
	return ""
}

// recordBibEntry rebuilds a bibliography entry from a citation item the
// first time its key appears.
func (ex *extractor) recordBibEntry(key string, item cite.CitationItem) {
	if ex.bibKeys[key] {
		return
	}
	ex.bibKeys[key] = true

	entry := bibtex.Entry{Type: "misc", Key: key, Fields: make(map[string]string)}
	if t, ok := item.ItemData["type"].(string); ok && t != "" {
		entry.Type = t
	}
	if title, ok := item.ItemData["title"].(string); ok && title != "" {
		entry.Fields["title"] = title
	}
	if doi, ok := item.ItemData["DOI"].(string); ok && doi != "" {
		entry.Fields["doi"] = doi
	}
	meta := metadataFromItemData(item.ItemData)
	if meta.Year != "" {
		entry.Fields["year"] = meta.Year
	}
	if len(meta.Authors) > 0 {
		entry.Fields["author"] = strings.Join(meta.Authors, " and ")
	}
	for _, uri := range item.URIs {
		if strings.Contains(uri, "/embedded/") {
			continue
		}
		entry.ZoteroURI = uri
		entry.ZoteroKey = cite.ItemKeyFromURI(uri)
		break
	}
	ex.bib = append(ex.bib, entry)
}

func metadataFromItemData(data map[string]any) cite.Metadata {
	meta := cite.Metadata{}
	if title, ok := data["title"].(string); ok {
		meta.Title = title
	}
	if doi, ok := data["DOI"].(string); ok {
		meta.DOI = doi
	}
	if issued, ok := data["issued"].(map[string]any); ok {
		if raw, ok := issued["raw"].(string); ok {
			meta.Year = raw
		}
	}
	if authors, ok := data["author"].([]any); ok {
		for _, a := range authors {
			person, ok := a.(map[string]any)
			if !ok {
				continue
			}
			if family, ok := person["family"].(string); ok {
				given, _ := person["given"].(string)
				meta.Authors = append(meta.Authors, strings.TrimSpace(family+", "+given))
			} else if literal, ok := person["literal"].(string); ok {
				meta.Authors = append(meta.Authors, literal)
			}
		}
	}
	return meta
}

func (ex *extractor) mergePieces(pieces []piece) []md.Run {
	// Join text runs split by the writer.
	var joined []piece
	for _, pc := range pieces {
		if len(joined) > 0 {
			prev := &joined[len(joined)-1]
			if prev.run.Type == md.RunText && pc.run.Type == md.RunText && idKey(prev.ids) == idKey(pc.ids) {
				prev.run.Text += pc.run.Text
				continue
			}
		}
		joined = append(joined, pc)
	}

	// A deletion directly followed by an insertion is a substitution.
	var folded []piece
	for _, pc := range joined {
		if len(folded) > 0 {
			prev := &folded[len(folded)-1]
			if prev.run.Type == md.RunDeletion && pc.run.Type == md.RunAddition && idKey(prev.ids) == idKey(pc.ids) {
				prev.run = md.Run{Type: md.RunSubstitution, Old: prev.run.Text, New: pc.run.Text}
				continue
			}
		}
		folded = append(folded, pc)
	}

	// Fold comment-covered spans into annotated comment runs.
	var out []md.Run
	for i := 0; i < len(folded); {
		if len(folded[i].ids) == 0 {
			out = append(out, folded[i].run)
			i++
			continue
		}
		key := idKey(folded[i].ids)
		var anchor strings.Builder
		j := i
		for j < len(folded) && idKey(folded[j].ids) == key {
			anchor.WriteString(folded[j].run.Text)
			j++
		}
		out = append(out, ex.commentRun(folded[i].ids, anchor.String()))
		i = j
	}
	return out
}

// commentRun builds the annotated run for a covered span. The root is the
// member with no parent link; everyone else is a reply under it, in id
// order, regardless of reply-to-reply chains.
func (ex *extractor) commentRun(ids []int, anchor string) md.Run {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)

	rootID := sorted[0]
	for _, id := range sorted {
		if ex.rootOf(id) == id {
			rootID = id
			break
		}
	}
	run := md.Run{Type: md.RunComment, Text: anchor, CommentText: ex.comments[rootID].text}
	for _, id := range sorted {
		if id != rootID {
			run.Replies = append(run.Replies, ex.comments[id].text)
		}
	}
	return run
}

func listToken(runs []md.Run, level int, ordered bool) md.Token {
	tok := md.Token{Type: md.BlockListItem, Level: level, Ordered: ordered, Runs: runs}
	if len(runs) > 0 && runs[0].Type == md.RunText {
		switch {
		case strings.HasPrefix(runs[0].Text, "[ ] "):
			tok.Task = true
			runs[0].Text = runs[0].Text[4:]
		case strings.HasPrefix(runs[0].Text, "[x] "):
			tok.Task, tok.Checked = true, true
			runs[0].Text = runs[0].Text[4:]
		}
		if tok.Task && runs[0].Text == "" {
			runs = runs[1:]
		}
		tok.Runs = runs
	}
	return tok
}

// alertRuns detects the generator's alert shape: a bold [!KIND] label, a
// break, then the content runs.
func alertRuns(runs []md.Run) (string, []md.Run, bool) {
	if len(runs) == 0 || runs[0].Type != md.RunBold {
		return "", nil, false
	}
	label := runs[0].Text
	if !strings.HasPrefix(label, "[!") || !strings.HasSuffix(label, "]") {
		return "", nil, false
	}
	rest := runs[1:]
	if len(rest) > 0 && rest[0].Type == md.RunSoftBreak {
		rest = rest[1:]
	}
	return label[2 : len(label)-1], rest, true
}

// stripTrailingSources drops a trailing heading-delimited section labelled
// "Sources"; it duplicates the bibliography this engine regenerates.
func stripTrailingSources(tokens []md.Token) []md.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Type != md.BlockHeading {
			continue
		}
		if strings.EqualFold(runText(tokens[i].Runs), "Sources") {
			return tokens[:i]
		}
		return tokens
	}
	return tokens
}

func runText(runs []md.Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return strings.TrimSpace(sb.String())
}

func paragraphStyle(p *xmlquery.Node) (style string, level int, ordered, listItem bool) {
	pPr := findElement(p, "pPr", 0)
	if pPr == nil {
		return "", 0, false, false
	}
	if ps := findElement(pPr, "pStyle", 0); ps != nil {
		style = attrLocal(ps, "val")
	}
	if numPr := findElement(pPr, "numPr", 0); numPr != nil {
		listItem = true
		if ilvl := findElement(numPr, "ilvl", 0); ilvl != nil {
			level, _ = strconv.Atoi(attrLocal(ilvl, "val"))
		}
		if numID := findElement(numPr, "numId", 0); numID != nil {
			ordered = attrLocal(numID, "val") == "2"
		}
	}
	return style, level, ordered, listItem
}

func hasBottomBorder(p *xmlquery.Node) bool {
	pPr := findElement(p, "pPr", 0)
	if pPr == nil {
		return false
	}
	return findElement(pPr, "pBdr", 0) != nil
}

func hasRunProp(r *xmlquery.Node, name string) bool {
	rPr := findElement(r, "rPr", 0)
	if rPr == nil {
		return false
	}
	return findElement(rPr, name, 0) != nil
}

func runTypeFromProps(r *xmlquery.Node) md.RunType {
	rPr := findElement(r, "rPr", 0)
	if rPr == nil {
		return md.RunText
	}
	if rs := findElement(rPr, "rStyle", 0); rs != nil && attrLocal(rs, "val") == "CodeChar" {
		return md.RunCode
	}
	if findElement(rPr, "highlight", 0) != nil {
		return md.RunHighlight
	}
	bold := findElement(rPr, "b", 0) != nil
	italic := findElement(rPr, "i", 0) != nil
	switch {
	case bold && italic:
		return md.RunBoldItalic
	case bold:
		return md.RunBold
	case italic:
		return md.RunItalic
	case findElement(rPr, "strike", 0) != nil:
		return md.RunStrikethrough
	}
	return md.RunText
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// attrLocal returns an attribute value matched by local name, so prefixed
// attributes like w:id and w15:paraId resolve regardless of prefix.
func attrLocal(n *xmlquery.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// findElement returns the first descendant element with the local name,
// depth-bounded.
func findElement(n *xmlquery.Node, name string, depth int) *xmlquery.Node {
	if depth > maxPartDepth {
		return nil
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		if child.Data == name {
			return child
		}
		if found := findElement(child, name, depth+1); found != nil {
			return found
		}
	}
	return nil
}

// walkElements visits every descendant element with the local name.
func walkElements(n *xmlquery.Node, name string, depth int, visit func(*xmlquery.Node)) {
	if depth > maxPartDepth {
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		if child.Data == name {
			visit(child)
		}
		walkElements(child, name, depth+1, visit)
	}
}

// collectText gathers visible text content, mapping breaks to newlines.
func collectText(n *xmlquery.Node, depth int) string {
	if depth > maxPartDepth {
		return ""
	}
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		switch child.Data {
		case "t", "delText":
			sb.WriteString(child.InnerText())
		case "br":
			sb.WriteString("\n")
		case "rPr", "pPr":
			// property containers carry no content
		default:
			sb.WriteString(collectText(child, depth+1))
		}
	}
	return sb.String()
}

// wrapNode lifts an element into a synthetic parent so the OMML walker can
// treat it as a root's child.
func wrapNode(el *xmlquery.Node) *xmlquery.Node {
	clone := *el
	clone.NextSibling = nil
	clone.PrevSibling = nil
	return &xmlquery.Node{FirstChild: &clone, LastChild: &clone}
}
