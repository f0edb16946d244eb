package contrast

import (
	"html"
	"regexp"
	"strings"
)

// Story and recommendation text arrives with the platform's template markup
// ({{#paragraph}}, {{{nl}}}, {{#code}}) and occasional HTML.
var (
	newlineMarkup   = regexp.MustCompile(`\{\{\{?nl\}?\}\}`)
	blockMarkup     = regexp.MustCompile(`\{\{[#/](paragraph|header|listElement|orderedList|unorderedList|table|tableRow)\}\}`)
	otherMarkup     = regexp.MustCompile(`\{\{\{?[#/]?[A-Za-z]+\}?\}\}`)
	blockTags       = regexp.MustCompile(`(?i)</?(p|div|li|ul|ol|pre|h[1-6]|tr|table|blockquote)[^>]*>`)
	brTags          = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags         = regexp.MustCompile(`<[^>]+>`)
	multiSpaces     = regexp.MustCompile(`[ \t]+`)
	multiNewlinesRe = regexp.MustCompile(`\n{3,}`)
)

// plainText reduces marked-up platform text to readable plain text.
// Paragraph breaks survive as single newlines; blank lines are dropped.
func plainText(s string) string {
	if !strings.ContainsAny(s, "{<&") {
		return strings.TrimSpace(s)
	}

	s = newlineMarkup.ReplaceAllString(s, "\n")
	s = blockMarkup.ReplaceAllString(s, "\n")
	s = otherMarkup.ReplaceAllString(s, "")

	s = blockTags.ReplaceAllString(s, "\n")
	s = brTags.ReplaceAllString(s, "\n")
	s = allTags.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	s = multiSpaces.ReplaceAllString(s, " ")
	s = multiNewlinesRe.ReplaceAllString(s, "\n\n")

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
