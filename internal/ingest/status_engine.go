package ingest

import (
	"strings"
	"time"

	"github.com/david/uni-finder/internal/models"
)

const (
	StatusOpen    = "open"
	StatusClosed  = "closed"
	StatusRolling = "rolling"
	StatusUnknown = "unknown"
)

// StatusDecision is the application window of one university at a point in
// time. It is computed on demand and never stored on the record, so
// normalization stays independent of the clock.
type StatusDecision struct {
	Status     string     `json:"status"`
	Reason     string     `json:"reason"`
	DeadlineAt *time.Time `json:"deadline_at,omitempty"`
}

var rollingKeywords = []string{
	"rolling",
	"year-round",
	"year round",
	"continuous",
	"open until filled",
}

var closedKeywords = []string{
	"closed",
	"not accepting",
	"no intake",
}

// ComputeStatusDecision reads the deadline text of u against now. Month-only
// deadlines ("Jan 2026") run to the end of that month.
func ComputeStatusDecision(u models.University, now time.Time) StatusDecision {
	now = now.UTC()
	raw := strings.ToLower(u.AppDeadline.Raw)

	if containsAny(raw, rollingKeywords) {
		return StatusDecision{Status: StatusRolling, Reason: "rolling_admissions"}
	}
	if containsAny(raw, closedKeywords) {
		return StatusDecision{Status: StatusClosed, Reason: "source_closed"}
	}

	deadline, ok := parseDeadlineCandidate(u.AppDeadline.Raw)
	if !ok {
		return StatusDecision{Status: StatusUnknown, Reason: "missing_deadline"}
	}
	if deadline.After(now) {
		return StatusDecision{Status: StatusOpen, Reason: "future_deadline", DeadlineAt: &deadline}
	}
	return StatusDecision{Status: StatusClosed, Reason: "deadline_passed", DeadlineAt: &deadline}
}

// parseDeadlineCandidate returns the last instant of the deadline day, or of
// the month for month-only dates.
func parseDeadlineCandidate(raw string) (time.Time, bool) {
	text := normalizeSpace(raw)
	if text == "" {
		return time.Time{}, false
	}

	t, monthOnly, err := parseCalendarDateShape(text)
	if err != nil {
		found := ParseDeadline(text).Date
		if found == "" {
			return time.Time{}, false
		}
		if t, monthOnly, err = parseCalendarDateShape(found); err != nil {
			return time.Time{}, false
		}
	}

	if monthOnly {
		return t.AddDate(0, 1, 0).Add(-time.Second), true
	}
	return t.Add(24*time.Hour - time.Second), true
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
