// comments.go renders the three comment parts. A thread is one comment per
// member; reply parentage is recorded in the extended part by paragraph
// identifier, and every comment gets a durable identifier for cross-session
// stability.
package docx

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// comment is one rendered comment thread member.
type comment struct {
	id           int
	paraID       string // hex paragraph identifier inside the comment part
	parentParaID string // thread root's paraID, empty for roots
	author       string
	date         string
	text         string
}

// commentParaID builds the hex paragraph identifier for a comment.
func commentParaID(id int) string {
	return fmt.Sprintf("%08X", 0x1000_0000+id)
}

// durableCommentID derives an 8-hex durable identifier.
func durableCommentID() string {
	u := uuid.New()
	return strings.ToUpper(fmt.Sprintf("%02x%02x%02x%02x", u[0], u[1], u[2], u[3]))
}

func buildComments(comments []comment) []byte {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:comments xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:w14="http://schemas.microsoft.com/office/word/2010/wordml">`)
	for _, c := range comments {
		fmt.Fprintf(&sb, `<w:comment w:id="%d" w:author="%s" w:date="%s" w:initials="%s">`,
			c.id, escapeAttr(c.author), escapeAttr(c.date), escapeAttr(initials(c.author)))
		fmt.Fprintf(&sb, `<w:p w14:paraId="%s"><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
			c.paraID, escapeText(c.text))
		sb.WriteString(`</w:comment>`)
	}
	sb.WriteString(`</w:comments>`)
	return []byte(sb.String())
}

func buildCommentsExtended(comments []comment) []byte {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w15:commentsEx xmlns:w15="http://schemas.microsoft.com/office/word/2012/wordml">`)
	for _, c := range comments {
		if c.parentParaID != "" {
			fmt.Fprintf(&sb, `<w15:commentEx w15:paraId="%s" w15:paraIdParent="%s" w15:done="0"/>`, c.paraID, c.parentParaID)
		} else {
			fmt.Fprintf(&sb, `<w15:commentEx w15:paraId="%s" w15:done="0"/>`, c.paraID)
		}
	}
	sb.WriteString(`</w15:commentsEx>`)
	return []byte(sb.String())
}

func buildCommentsIds(comments []comment) []byte {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w16cid:commentsIds xmlns:w16cid="http://schemas.microsoft.com/office/word/2016/wordml/cid">`)
	for _, c := range comments {
		fmt.Fprintf(&sb, `<w16cid:commentId w16cid:paraId="%s" w16cid:durableId="%s"/>`, c.paraID, durableCommentID())
	}
	sb.WriteString(`</w16cid:commentsIds>`)
	return []byte(sb.String())
}

func initials(author string) string {
	var sb strings.Builder
	for _, word := range strings.Fields(author) {
		sb.WriteString(strings.ToUpper(string([]rune(word)[0])))
	}
	if sb.Len() == 0 {
		return "A"
	}
	return sb.String()
}
