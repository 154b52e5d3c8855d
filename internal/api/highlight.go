package api

import (
	"strings"

	"github.com/david/uni-finder/internal/models"
	"github.com/david/uni-finder/internal/query"
)

type fieldHighlight struct {
	Segments []query.Segment `json:"segments"`
	HTML     string          `json:"html"`
}

// highlights maps a field name to its marked-up text.
type highlights map[string]fieldHighlight

// highlightUniversity marks term in every searchable display field. Fields
// without a match are left out.
func highlightUniversity(u models.University, term string) highlights {
	fields := map[string]string{
		"name":               u.Name,
		"cityCountry":        u.CityCountry,
		"acceptanceCriteria": u.AcceptanceCriteria,
		"ranking":            u.Ranking.Display,
		"programs":           strings.Join(u.Programs, ", "),
	}

	names := make([]string, 0, len(u.Scholarships))
	for _, sch := range u.Scholarships {
		names = append(names, strings.TrimSpace(sch.Name+" "+sch.Amount))
	}
	fields["scholarships"] = strings.Join(names, ", ")

	out := make(highlights)
	for field, text := range fields {
		segments := query.Highlight(text, term)
		if !query.HasMatch(segments) {
			continue
		}
		out[field] = fieldHighlight{Segments: segments, HTML: query.HighlightHTML(text, term)}
	}
	return out
}
