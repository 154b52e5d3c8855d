package query

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/david/uni-finder/internal/models"
)

// folder maps text to a caseless, NFC-composed form. A Caser is stateful, so
// each Filter call gets its own.
type folder struct {
	caser cases.Caser
}

func newFolder() *folder {
	return &folder{caser: cases.Fold()}
}

func (f *folder) fold(s string) string {
	return f.caser.String(norm.NFC.String(s))
}

// Filter returns the records that pass every active predicate, in their
// original order. The input slice is never modified.
func Filter(records []models.University, c Criteria) []models.University {
	f := newFolder()
	term := f.fold(strings.TrimSpace(c.SearchTerm))

	out := make([]models.University, 0, len(records))
	for _, u := range records {
		if term != "" && !matchesSearch(f, u, term) {
			continue
		}
		if c.Country != "" && !strings.Contains(u.CityCountry, c.Country) {
			continue
		}
		if u.Rank < c.RankMin || u.Rank > c.RankMax {
			continue
		}
		if c.Advanced && !inRateRange(u.AcceptanceRate, c.RateMin, c.RateMax) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// matchesSearch expects term already folded.
func matchesSearch(f *folder, u models.University, term string) bool {
	contains := func(s string) bool {
		return s != "" && strings.Contains(f.fold(s), term)
	}

	if contains(u.Name) || contains(u.CityCountry) || contains(u.AcceptanceCriteria) || contains(u.Ranking.Display) {
		return true
	}
	for _, p := range u.Programs {
		if contains(p) {
			return true
		}
	}
	for _, s := range u.Scholarships {
		if contains(s.Name) || contains(s.Amount) {
			return true
		}
	}
	return false
}

// A missing rate never satisfies a range.
func inRateRange(r models.AcceptanceRate, lo, hi float64) bool {
	if r.Value == nil {
		return false
	}
	v := *r.Value
	return v >= lo && v <= hi
}
