package md

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// FromHTML converts an HTML document to manuscript markdown. Word-processor
// exports (Google Docs, Office "Save as Web Page") carry vendor markup that
// the converter would otherwise render as literal text, so it is stripped
// first.
func FromHTML(html string) (string, error) {
	if html == "" {
		return "", nil
	}

	html = stripOfficeMarkup(html)

	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(markdown) + "\n", nil
}

var (
	// Conditional comments like <!--[if gte mso 9]>...<![endif]-->
	msoConditionalPattern = regexp.MustCompile(`(?s)<!--\[if[^\]]*\]>.*?<!\[endif\]-->`)

	// Office namespace elements: <o:p>, <w:sdt>, <v:shape>, closing tags,
	// and self-closing forms
	officeElementPattern = regexp.MustCompile(`</?(?:o|w|v|m):[a-zA-Z-]+[^>]*>`)

	// <style> and <script> blocks exported alongside the content
	styleBlockPattern  = regexp.MustCompile(`(?s)<style[^>]*>.*?</style>`)
	scriptBlockPattern = regexp.MustCompile(`(?s)<script[^>]*>.*?</script>`)

	// Google Docs wraps the whole export in a single bold <b id="docs-internal-guid-...">
	docsGUIDPattern = regexp.MustCompile(`<b\s+id="docs-internal-guid-[^"]*"[^>]*>|</b>\s*$`)
)

func stripOfficeMarkup(html string) string {
	html = msoConditionalPattern.ReplaceAllString(html, "")
	html = styleBlockPattern.ReplaceAllString(html, "")
	html = scriptBlockPattern.ReplaceAllString(html, "")
	if docsGUIDPattern.MatchString(html) {
		html = docsGUIDPattern.ReplaceAllString(html, "")
	}
	html = officeElementPattern.ReplaceAllString(html, "")
	return html
}
