package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var markupRegex = regexp.MustCompile(`<\s*/?\s*[a-zA-Z][a-zA-Z0-9]*[^<>]*>`)

// normalizeSpace collapses multiple spaces into one and trims the string.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// HTMLToText converts HTML to plain text, collapsing whitespace.
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html // Fallback to original if parsing fails
	}
	return normalizeSpace(doc.Text())
}

func containsMarkup(s string) bool {
	return markupRegex.MatchString(s)
}

// plainText strips markup from scraped free text. Text without tags is
// returned byte-for-byte.
func plainText(s string) string {
	if !containsMarkup(s) {
		return s
	}
	return HTMLToText(s)
}

// formatNumber prints a float in its shortest exact decimal form: 12.5, 5, 0.75.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// countryOf returns the last non-empty comma segment of a "City, Country"
// string, or "" when there is no comma.
func countryOf(cityCountry string) string {
	if !strings.Contains(cityCountry, ",") {
		return ""
	}
	parts := strings.Split(cityCountry, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		if p := strings.TrimSpace(parts[i]); p != "" {
			return p
		}
	}
	return ""
}

func sanitizeStringSlice(values []string) []string {
	clean := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	return clean
}
