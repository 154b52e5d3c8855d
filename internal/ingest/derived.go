package ingest

import (
	"math"
	"sort"

	"github.com/david/uni-finder/internal/models"
)

// Summary is the aggregate view used for stats and filter bounds.
type Summary struct {
	Count          int     `json:"count"`
	Countries      int     `json:"countries"`
	RatedCount     int     `json:"rated_count"`
	EstimatedCount int     `json:"estimated_count"`
	RateMin        float64 `json:"rate_min"`
	RateMax        float64 `json:"rate_max"`
	RateMean       float64 `json:"rate_mean"`
	RankMin        int     `json:"rank_min"`
	RankMax        int     `json:"rank_max"`
}

// ExtractCountries returns the distinct country names, sorted.
func ExtractCountries(records []models.University) []string {
	seen := make(map[string]struct{})
	countries := []string{}
	for _, r := range records {
		c := countryOf(r.CityCountry)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		countries = append(countries, c)
	}
	sort.Strings(countries)
	return countries
}

// ExtractAcceptanceRates collects every finite acceptance rate in record order.
func ExtractAcceptanceRates(records []models.University) []float64 {
	rates := []float64{}
	for _, r := range records {
		v := r.AcceptanceRate.Value
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		rates = append(rates, *v)
	}
	return rates
}

// RankBounds returns the smallest and largest rank, or 0, 0 for no records.
func RankBounds(records []models.University) (int, int) {
	if len(records) == 0 {
		return 0, 0
	}
	lo, hi := records[0].Rank, records[0].Rank
	for _, r := range records[1:] {
		if r.Rank < lo {
			lo = r.Rank
		}
		if r.Rank > hi {
			hi = r.Rank
		}
	}
	return lo, hi
}

// RateBounds returns the smallest and largest rate, or 0, 0 for none.
func RateBounds(rates []float64) (float64, float64) {
	if len(rates) == 0 {
		return 0, 0
	}
	lo, hi := rates[0], rates[0]
	for _, v := range rates[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func Summarize(records []models.University) Summary {
	rates := ExtractAcceptanceRates(records)
	s := Summary{
		Count:      len(records),
		Countries:  len(ExtractCountries(records)),
		RatedCount: len(rates),
	}
	s.RankMin, s.RankMax = RankBounds(records)
	s.RateMin, s.RateMax = RateBounds(rates)

	for _, r := range records {
		if r.AcceptanceRate.Estimated {
			s.EstimatedCount++
		}
	}
	if len(rates) > 0 {
		var sum float64
		for _, v := range rates {
			sum += v
		}
		s.RateMean = sum / float64(len(rates))
	}
	return s
}
