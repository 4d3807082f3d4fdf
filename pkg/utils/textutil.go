// Package utils provides small text helpers shared across the pipeline.
package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NormalizeWhitespace collapses runs of whitespace into single spaces
// and trims the result.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripHTML removes markup from a fragment, returning the trimmed text.
// Parse failures fall back to the input unchanged.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// SplitPair splits "EUR/USD" into base and quote. The second return is
// empty when the separator is missing.
func SplitPair(pair string) (base, quote string) {
	base, quote, ok := strings.Cut(pair, "/")
	if !ok {
		return strings.TrimSpace(pair), ""
	}
	return strings.TrimSpace(base), strings.TrimSpace(quote)
}
