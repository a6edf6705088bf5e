package search

import (
	"html"
	"html/template"
	"strings"
)

// Highlight returns text HTML-escaped, with every case-insensitive
// occurrence of query wrapped in <mark>. The query is matched literally.
func Highlight(text, query string) template.HTML {
	if query == "" {
		return template.HTML(html.EscapeString(text))
	}

	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)
	// Offsets in the lowered text only line up with text when lowering
	// kept every byte length.
	if len(lowerText) != len(text) || len(lowerQuery) != len(query) {
		return template.HTML(html.EscapeString(text))
	}

	var b strings.Builder
	rest := 0
	for {
		i := strings.Index(lowerText[rest:], lowerQuery)
		if i < 0 {
			break
		}
		start := rest + i
		end := start + len(lowerQuery)
		b.WriteString(html.EscapeString(text[rest:start]))
		b.WriteString("<mark>")
		b.WriteString(html.EscapeString(text[start:end]))
		b.WriteString("</mark>")
		rest = end
	}
	b.WriteString(html.EscapeString(text[rest:]))
	return template.HTML(b.String())
}
