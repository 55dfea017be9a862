// notes.go renders the footnote or endnote part, selected by the document
// settings. Note identifiers start at 1; the separator entries use the
// reserved negative and zero identifiers.
package docx

import (
	"fmt"
	"strings"
)

type note struct {
	id   int
	text string
}

func buildFootnotes(notes []note) []byte {
	return buildNotePart("footnotes", "footnote", notes)
}

func buildEndnotes(notes []note) []byte {
	return buildNotePart("endnotes", "endnote", notes)
}

func buildNotePart(root, element string, notes []note) []byte {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	fmt.Fprintf(&sb, `<w:%s xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`, root)
	fmt.Fprintf(&sb, `<w:%s w:type="separator" w:id="-1"><w:p><w:r><w:separator/></w:r></w:p></w:%s>`, element, element)
	fmt.Fprintf(&sb, `<w:%s w:type="continuationSeparator" w:id="0"><w:p><w:r><w:continuationSeparator/></w:r></w:p></w:%s>`, element, element)
	for _, n := range notes {
		fmt.Fprintf(&sb, `<w:%s w:id="%d"><w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p></w:%s>`,
			element, n.id, escapeText(n.text), element)
	}
	fmt.Fprintf(&sb, `</w:%s>`, root)
	return []byte(sb.String())
}
