package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/david/uni-finder/internal/models"
)

var (
	amountNumberRegex = regexp.MustCompile(`\d[\d,.]*`)

	// Checked in order: prefixed dollar forms must win over the bare "$".
	currencyPatterns = []struct {
		code string
		re   *regexp.Regexp
	}{
		{"SGD", regexp.MustCompile(`(?i)\bSGD\b|S\$`)},
		{"CAD", regexp.MustCompile(`(?i)\bCAD\b|C\$`)},
		{"AUD", regexp.MustCompile(`(?i)\bAUD\b|A\$`)},
		{"HKD", regexp.MustCompile(`(?i)\bHKD\b|HK\$`)},
		{"CHF", regexp.MustCompile(`(?i)\bCHF\b`)},
		{"GBP", regexp.MustCompile(`(?i)£|\bGBP\b|\bpounds?\b`)},
		{"EUR", regexp.MustCompile(`(?i)€|\bEUR\b|\beuros?\b`)},
		{"JPY", regexp.MustCompile(`(?i)¥|\bJPY\b|\byen\b`)},
		{"USD", regexp.MustCompile(`(?i)\$|\bUSD\b|\bdollars?\b`)},
	}
)

// ParseAmount reads a currency and a min/max range out of a free-text award
// amount. A single figure is a maximum unless the text says "minimum" or
// "at least". Text without figures yields the zero Amount.
func ParseAmount(text string) models.Amount {
	amounts := amountFigures(text)
	if len(amounts) == 0 {
		return models.Amount{}
	}

	a := models.Amount{Currency: detectCurrency(text)}
	lower := strings.ToLower(text)

	if len(amounts) == 1 {
		if strings.Contains(lower, "minimum") || strings.Contains(lower, "at least") {
			a.Min = amounts[0]
		} else {
			a.Max = amounts[0]
		}
		return a
	}

	a.Min, a.Max = amounts[0], amounts[0]
	for _, v := range amounts[1:] {
		a.Min = min(a.Min, v)
		a.Max = max(a.Max, v)
	}
	if a.Min == a.Max {
		a.Min = 0
	}
	return a
}

func detectCurrency(text string) string {
	for _, p := range currencyPatterns {
		if p.re.MatchString(text) {
			return p.code
		}
	}
	return ""
}

// amountFigures handles 1,000,000 / 1.000.000 / 1000000 / 1,000.50.
func amountFigures(text string) []float64 {
	var amounts []float64
	for _, m := range amountNumberRegex.FindAllString(text, -1) {
		m = strings.TrimRight(m, ",.")
		if val, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64); err == nil && val > 0 {
			amounts = append(amounts, val)
			continue
		}
		if val, err := strconv.ParseFloat(strings.ReplaceAll(m, ".", ""), 64); err == nil && val > 0 {
			amounts = append(amounts, val)
		}
	}
	return amounts
}
