package tweet

import (
	"html"
	"strings"
)

// Highlight returns an HTML copy of text with case-insensitive occurrences
// of phrase wrapped in <mark> tags. The phrase is stripped of surrounding
// quotes first (the search form quotes exact phrases). Everything outside
// the marks is HTML-escaped.
//
// Highlighting is cosmetic: if the stripped phrase is empty the escaped
// original is returned unchanged, and no input can make Highlight fail.
func Highlight(text, phrase string) string {
	needle := strings.Trim(strings.TrimSpace(phrase), `"`)
	if needle == "" {
		return html.EscapeString(text)
	}

	lowerText := strings.ToLower(text)
	lowerNeedle := strings.ToLower(needle)

	// Lowercasing shifts byte offsets for a handful of Unicode characters
	// (e.g. İ). Marking is best-effort, so skip it rather than mis-slice.
	if len(lowerText) != len(text) || len(lowerNeedle) != len(needle) {
		return html.EscapeString(text)
	}

	var b strings.Builder
	for {
		i := strings.Index(lowerText, lowerNeedle)
		if i < 0 {
			b.WriteString(html.EscapeString(text))
			break
		}
		b.WriteString(html.EscapeString(text[:i]))
		b.WriteString("<mark>")
		b.WriteString(html.EscapeString(text[i : i+len(needle)]))
		b.WriteString("</mark>")
		text = text[i+len(needle):]
		lowerText = lowerText[i+len(lowerNeedle):]
	}
	return b.String()
}
