package ingest

import "testing"

func TestFormatDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2025-09-01", "September 1, 2025"},
		{"January 15, 2026", "January 15, 2026"},
		{"15 Jan 2026", "January 15, 2026"},
		{"Sept 2025", "September 1, 2025"},
		{"Sep. 2025", "September 1, 2025"},
		{"2025-09", "September 1, 2025"},
		{"2026-01-15T23:59:59Z", "January 15, 2026"},
		{"Apply by 2026-01-15 via the portal", "January 15, 2026"},
		{"Rolling admissions", "Rolling admissions"},
		{"2026-13-45", "2026-13-45"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FormatDate(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFormatDate_Deterministic(t *testing.T) {
	for _, input := range []string{"2025-09-01", "Sept 2025", "TBA"} {
		if FormatDate(input) != FormatDate(input) {
			t.Fatalf("FormatDate(%q) not deterministic", input)
		}
	}
}
