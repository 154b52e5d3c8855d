package ingest

import (
	"reflect"
	"testing"
)

func TestExtractLinks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected LinkExtraction
	}{
		{
			name:     "Two links stripped and whitespace collapsed",
			input:    "see http://a.com and http://b.com",
			expected: LinkExtraction{Text: "see and", Links: []string{"http://a.com", "http://b.com"}},
		},
		{
			name:     "Links are percent-decoded",
			input:    "Info: https://example.edu/admissions%20office",
			expected: LinkExtraction{Text: "Info:", Links: []string{"https://example.edu/admissions office"}},
		},
		{
			name:     "Malformed escapes kept as written",
			input:    "https://example.edu/100%zz",
			expected: LinkExtraction{Text: "", Links: []string{"https://example.edu/100%zz"}},
		},
		{
			name:     "No links",
			input:    "  Rolling admissions ",
			expected: LinkExtraction{Text: "Rolling admissions", Links: []string{}},
		},
		{
			name:     "Empty input",
			input:    "",
			expected: LinkExtraction{Text: "", Links: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLinks(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestExtractContact(t *testing.T) {
	got := ExtractContact("Email admissions@utoronto.ca or call +1 (416) 978-2011")
	expected := ContactExtraction{
		Text:   "Email or call",
		Emails: []string{"admissions@utoronto.ca"},
		Phones: []string{"+1 (416) 978-2011"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %+v, got %+v", expected, got)
	}

	got = ExtractContact("Office: 020.7594.8000, intl.office@imperial.ac.uk")
	if !reflect.DeepEqual(got.Emails, []string{"intl.office@imperial.ac.uk"}) {
		t.Errorf("unexpected emails %v", got.Emails)
	}
	if !reflect.DeepEqual(got.Phones, []string{"020.7594.8000"}) {
		t.Errorf("unexpected phones %v", got.Phones)
	}

	got = ExtractContact("")
	if got.Text != "" || len(got.Emails) != 0 || len(got.Phones) != 0 || got.Emails == nil || got.Phones == nil {
		t.Errorf("expected empty non-nil result, got %+v", got)
	}
}

func TestIsEmailAddress(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"a.b@uni.edu", true},
		{"intl-office@mail.uni-heidelberg.de", true},
		{"not an email", false},
		{"a@b.c", false},
		{" a.b@uni.edu", false},
		{"Email a.b@uni.edu", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsEmailAddress(tt.input); got != tt.expected {
			t.Errorf("IsEmailAddress(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestParseAcceptanceRate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected RateExtraction
	}{
		{
			name:     "Approximate rate with notes",
			input:    "12.5% (approx.) of applicants",
			expected: RateExtraction{Rate: "12.5%", Notes: "of applicants", Links: []string{}},
		},
		{
			name:     "Link stripped before rate lookup",
			input:    "About 8% per https://example.edu/stats%20page",
			expected: RateExtraction{Rate: "8%", Notes: "About per", Links: []string{"https://example.edu/stats page"}},
		},
		{
			name:     "First rate wins, every rate removed from notes",
			input:    "43% overall, 20% international",
			expected: RateExtraction{Rate: "43%", Notes: "overall, international", Links: []string{}},
		},
		{
			name:     "No rate",
			input:    "Not published",
			expected: RateExtraction{Rate: "N/A", Notes: "Not published", Links: []string{}},
		},
		{
			name:     "Empty",
			input:    "",
			expected: RateExtraction{Rate: "N/A", Notes: "", Links: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAcceptanceRate(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestParseDeadline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected DeadlineExtraction
	}{
		{
			name:     "ISO date",
			input:    "Deadline: 2026-01-15 (final)",
			expected: DeadlineExtraction{Date: "2026-01-15", Notes: "Deadline: (final)", Links: []string{}},
		},
		{
			name:     "Month and year",
			input:    "Applications close Jan 2026",
			expected: DeadlineExtraction{Date: "Jan 2026", Notes: "Applications close", Links: []string{}},
		},
		{
			name:     "Full month day year",
			input:    "Due January 15, 2026 for fall",
			expected: DeadlineExtraction{Date: "January 15, 2026", Notes: "Due for fall", Links: []string{}},
		},
		{
			name:     "ISO shape is tried first",
			input:    "Sept 2025 or 2025-10-01",
			expected: DeadlineExtraction{Date: "2025-10-01", Notes: "Sept 2025 or", Links: []string{}},
		},
		{
			name:     "Links removed",
			input:    "See https://apply.example.edu/dates",
			expected: DeadlineExtraction{Date: "", Notes: "See", Links: []string{"https://apply.example.edu/dates"}},
		},
		{
			name:     "No date",
			input:    "Rolling",
			expected: DeadlineExtraction{Date: "", Notes: "Rolling", Links: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDeadline(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}
