// Package export flattens stored applications into CSV.
package export

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	lineBreakRe  = regexp.MustCompile(`[\r\n]+`)
	whitespaceRe = regexp.MustCompile(`[ \t]+`)
)

// CleanValue prepares a field value for a CSV cell: markup is stripped,
// HTML entities are decoded, and internal line breaks collapse to "; " so
// every record stays on one row.
func CleanValue(s string) string {
	if strings.ContainsAny(s, "<>") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	s = html.UnescapeString(s)
	s = lineBreakRe.ReplaceAllString(s, "; ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
