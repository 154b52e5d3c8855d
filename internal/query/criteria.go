// Package query filters, sorts, paginates and highlights the normalized
// university collection. Everything here is a pure function of its
// arguments: callers thread an explicit State value through instead of
// keeping ambient UI state.
package query

import (
	"github.com/david/uni-finder/internal/ingest"
	"github.com/david/uni-finder/internal/models"
)

// Criteria is the active filter combination for one query.
type Criteria struct {
	SearchTerm string  `json:"q"`
	Country    string  `json:"country"`
	RankMin    int     `json:"rank_min"`
	RankMax    int     `json:"rank_max"`
	Advanced   bool    `json:"advanced"`
	RateMin    float64 `json:"rate_min"`
	RateMax    float64 `json:"rate_max"`
}

// DefaultCriteria spans the whole collection: no search, no country, and
// rank and rate ranges equal to the dataset bounds.
func DefaultCriteria(records []models.University) Criteria {
	c := Criteria{}
	c.RankMin, c.RankMax = ingest.RankBounds(records)
	c.RateMin, c.RateMax = ingest.RateBounds(ingest.ExtractAcceptanceRates(records))
	return c
}
