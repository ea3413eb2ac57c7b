package internal

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlTagPattern   = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	blankLinePattern = regexp.MustCompile(`\n[ \t]*\n+`)

	// sanitizer is shared; bluemonday policies are safe for concurrent use once built
	sanitizer = bluemonday.UGCPolicy()
)

// looksLikeHTML reports whether s already contains markup
func looksLikeHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// RenderHTML turns s into safe-to-render HTML. Plain text is split into
// paragraphs on blank lines, escaped, and given line breaks. Markup is
// kept but passed through the sanitizer.
func RenderHTML(s string) string {
	if isBlank(s) {
		return ""
	}
	if looksLikeHTML(s) {
		return sanitizer.Sanitize(s)
	}
	return sanitizer.Sanitize(wrapParagraphs(s))
}

func wrapParagraphs(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var b strings.Builder
	for _, para := range blankLinePattern.Split(strings.TrimSpace(s), -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		escaped := html.EscapeString(para)
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(escaped, "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

// renderSections renders every non-blank section as a titled block, in order
func renderSections(sections []SnapshotSection) string {
	blocks := make([]string, 0, len(sections))
	for _, sec := range sections {
		if isBlank(sec.Content) {
			continue
		}
		body := RenderHTML(sec.Content)
		if body == "" {
			continue
		}
		blocks = append(blocks, "<h3>"+html.EscapeString(SectionTitle(sec.ID))+"</h3>"+body)
	}
	return strings.Join(blocks, "\n")
}
