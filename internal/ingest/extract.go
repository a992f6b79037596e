// Package ingest prepares uploaded HTML for storage: sanitization and
// plain-text extraction for the downstream parsing pipeline.
package ingest

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractText returns the document's visible text, one block element
// per line, with collapsed whitespace. The parsed text is what the
// chunking job consumes.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var lines []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, td, th, pre, blockquote").Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text != "" {
			lines = append(lines, text)
		}
	})

	return strings.Join(lines, "\n"), nil
}
