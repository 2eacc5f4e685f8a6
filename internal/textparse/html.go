package textparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockTags are elements whose boundaries become line breaks in the extracted text
var blockTags = []string{"p", "div", "li", "br", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "section", "article"}

// ExtractText flattens an HTML CV export into plain text suitable for Parse.
// Block-level boundaries become newlines so the section scanner still sees one
// logical line per element. Unparsable markup degrades to the raw input.
func ExtractText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	doc.Find("script, style, head").Remove()

	for _, tag := range blockTags {
		doc.Find(tag).Each(func(_ int, sel *goquery.Selection) {
			sel.AppendHtml("\n")
		})
	}

	var sb strings.Builder
	for _, line := range strings.Split(doc.Text(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		sb.WriteString(trimmed)
		sb.WriteString("\n")
	}
	return sb.String()
}
