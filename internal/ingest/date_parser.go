package ingest

import (
	"fmt"
	"strings"
	"time"
)

// longDateLayout is the display form, e.g. "September 1, 2025".
const longDateLayout = "January 2, 2006"

var fullDateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan. 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"01/02/2006",
	"1/2/2006",
}

// Month-only shapes resolve to the first day of the month.
var monthFormats = []string{
	"Jan 2006",
	"Jan. 2006",
	"January 2006",
	"2006-01",
}

// parseCalendarDate tries every known layout. All results are in UTC so the
// rendered date never depends on the host time zone.
func parseCalendarDate(text string) (time.Time, error) {
	t, _, err := parseCalendarDateShape(text)
	return t, err
}

// parseCalendarDateShape also reports whether text named only a month.
func parseCalendarDateShape(text string) (time.Time, bool, error) {
	text = normalizeSpace(text)
	if text == "" {
		return time.Time{}, false, fmt.Errorf("empty date")
	}

	for _, layout := range fullDateFormats {
		if t, err := time.Parse(layout, text); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), false, nil
		}
	}
	// "Sept" is common in the dataset but not a Go month abbreviation.
	monthText := strings.Replace(text, "Sept ", "Sep ", 1)
	monthText = strings.Replace(monthText, "Sept. ", "Sep. ", 1)
	for _, layout := range monthFormats {
		if t, err := time.Parse(layout, monthText); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("unable to parse date: %s", text)
}

// FormatDate renders a date string as "Month D, YYYY". Text that carries a
// date inside prose is reduced to that date first. Anything unparseable is
// returned unchanged.
func FormatDate(raw string) string {
	if t, err := parseCalendarDate(raw); err == nil {
		return t.Format(longDateLayout)
	}
	if found := ParseDeadline(raw).Date; found != "" {
		if t, err := parseCalendarDate(found); err == nil {
			return t.Format(longDateLayout)
		}
	}
	return raw
}
