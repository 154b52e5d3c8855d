package ingest

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	linkRegex  = regexp.MustCompile(`https?://[^\s]+`)
	emailRegex = regexp.MustCompile(`[\w.+-]+@[\w-]+(?:\.[\w-]+)+`)
	// Optional country code, optional parenthesized area code, then two or
	// three digit groups split by dots, dashes or spaces.
	phoneRegex   = regexp.MustCompile(`(?:\+\d{1,3}[\s.-]?)?(?:\(\d{1,4}\)|\d{1,4})[\s.-]?\d{2,4}[\s.-]?\d{2,4}(?:[\s.-]?\d{2,4})?`)
	isEmailRegex = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.[a-zA-Z]{2,}$`)
	percentRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)%(?:\s*\(approx\.\))?`)

	isoDateRegex    = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	monthYearRegex  = regexp.MustCompile(`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?\s+\d{4}\b`)
	monthDayYearRgx = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s*\d{4}\b`)
)

// LinkExtraction is free text with its URLs pulled out.
type LinkExtraction struct {
	Text  string   `json:"text"`
	Links []string `json:"links"`
}

type ContactExtraction struct {
	Text   string   `json:"text"`
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
}

type RateExtraction struct {
	Rate  string   `json:"rate"`
	Notes string   `json:"notes"`
	Links []string `json:"links"`
}

type DeadlineExtraction struct {
	Date  string   `json:"date"`
	Notes string   `json:"notes"`
	Links []string `json:"links"`
}

// ExtractLinks removes every absolute http(s) URL from text and returns the
// remainder with the URLs, percent-decoded, in order of appearance.
func ExtractLinks(text string) LinkExtraction {
	if text == "" {
		return LinkExtraction{Text: "", Links: []string{}}
	}

	matches := linkRegex.FindAllString(text, -1)
	links := make([]string, 0, len(matches))
	for _, m := range matches {
		links = append(links, decodeURL(m))
	}

	return LinkExtraction{
		Text:  normalizeSpace(linkRegex.ReplaceAllString(text, "")),
		Links: links,
	}
}

func decodeURL(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ExtractContact pulls email addresses first, then phone numbers out of the
// email-stripped text. Overlapping matches are not reconciled.
func ExtractContact(text string) ContactExtraction {
	if text == "" {
		return ContactExtraction{Text: "", Emails: []string{}, Phones: []string{}}
	}

	emails := emailRegex.FindAllString(text, -1)
	rest := emailRegex.ReplaceAllString(text, "")

	phones := phoneRegex.FindAllString(rest, -1)
	rest = phoneRegex.ReplaceAllString(rest, "")

	if emails == nil {
		emails = []string{}
	}
	if phones == nil {
		phones = []string{}
	}
	for i := range phones {
		phones[i] = strings.TrimSpace(phones[i])
	}

	return ContactExtraction{
		Text:   normalizeSpace(rest),
		Emails: emails,
		Phones: phones,
	}
}

// IsEmailAddress reports whether the whole string is a single local@domain.tld address.
func IsEmailAddress(s string) bool {
	return isEmailRegex.MatchString(s)
}

// ParseAcceptanceRate finds the first percentage in text. Rate is "N/A" when
// there is none.
func ParseAcceptanceRate(text string) RateExtraction {
	le := ExtractLinks(text)

	rate := "N/A"
	if m := percentRegex.FindStringSubmatch(le.Text); m != nil {
		rate = m[1] + "%"
	}

	return RateExtraction{
		Rate:  rate,
		Notes: normalizeSpace(percentRegex.ReplaceAllString(le.Text, "")),
		Links: le.Links,
	}
}

// ParseDeadline finds the first date in text, trying ISO dates, then
// "Jan 2025", then "January 15, 2025". Date is empty when none match.
func ParseDeadline(text string) DeadlineExtraction {
	le := ExtractLinks(text)

	for _, re := range []*regexp.Regexp{isoDateRegex, monthYearRegex, monthDayYearRgx} {
		loc := re.FindStringIndex(le.Text)
		if loc == nil {
			continue
		}
		return DeadlineExtraction{
			Date:  le.Text[loc[0]:loc[1]],
			Notes: normalizeSpace(le.Text[:loc[0]] + " " + le.Text[loc[1]:]),
			Links: le.Links,
		}
	}

	return DeadlineExtraction{Date: "", Notes: le.Text, Links: le.Links}
}
