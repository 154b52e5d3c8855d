package query

import (
	"github.com/david/uni-finder/internal/ingest"
	"github.com/david/uni-finder/internal/models"
)

func f64(v float64) *float64 { return &v }

func sampleUniversities() []models.University {
	return ingest.Normalize([]models.RawUniversity{
		{
			Rank:               1,
			Name:               "University of Toronto",
			CityCountry:        "Toronto, Canada",
			Ranking:            models.RawRanking{System: "QS", Value: f64(21)},
			Programs:           []string{"Computer Science", "Engineering"},
			AcceptanceRate:     models.RawAcceptanceRate{Value: f64(43)},
			AcceptanceCriteria: "Strong grades in mathematics",
			Scholarships:       []models.Scholarship{{Name: "Lester B. Pearson", Amount: "Full tuition"}},
		},
		{
			Rank:           2,
			Name:           "ETH Zurich",
			CityCountry:    "Zurich, Switzerland",
			Ranking:        models.RawRanking{System: "QS", Value: f64(7)},
			Programs:       []string{"Physics"},
			AcceptanceRate: models.RawAcceptanceRate{Value: f64(27), Estimated: true},
		},
		{
			Rank:        3,
			Name:        "McGill University",
			CityCountry: "Montreal, Canada",
			Ranking:     models.RawRanking{System: "QS"},
			Programs:    []string{"Medicine"},
		},
		{
			Rank:           4,
			Name:           "Université de Montréal",
			CityCountry:    "Montreal, Canada",
			Ranking:        models.RawRanking{System: "THE", Value: f64(111)},
			Programs:       []string{"Law"},
			AcceptanceRate: models.RawAcceptanceRate{Value: f64(57)},
			Scholarships:   []models.Scholarship{{Name: "Bourse d'excellence", Amount: "CAD 10,000"}},
		},
	})
}

func names(records []models.University) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}
