package ingest

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/david/uni-finder/internal/models"
)

// universityNamespace scopes the name-based record IDs.
var universityNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://uni-finder/universities"))

// Normalize maps every raw record to its canonical form and then drops the
// ones without a name or with a non-positive rank. The input is not modified.
func Normalize(raw []models.RawUniversity) []models.University {
	mapped := make([]models.University, 0, len(raw))
	for _, r := range raw {
		mapped = append(mapped, FromRaw(r))
	}

	out := make([]models.University, 0, len(mapped))
	seen := make(map[uuid.UUID]int)
	for _, u := range mapped {
		if !keep(u) {
			continue
		}
		// Repeated rank and name pairs get an occurrence-derived id so every
		// record stays addressable.
		base := u.ID
		if n := seen[base]; n > 0 {
			u.ID = uuid.NewSHA1(base, []byte(strconv.Itoa(n)))
		}
		seen[base]++
		out = append(out, u)
	}
	return out
}

func keep(u models.University) bool {
	return strings.TrimSpace(u.Name) != "" && u.Rank > 0
}

// FromRaw converts a RawUniversity into a canonical University. It never
// fails: every derived field has a fallback.
func FromRaw(raw models.RawUniversity) models.University {
	u := models.University{
		ID:                 UniversityID(int(raw.Rank), raw.Name),
		Rank:               int(raw.Rank),
		Name:               raw.Name,
		CityCountry:        raw.CityCountry,
		Country:            countryOf(raw.CityCountry),
		Ranking:            NormalizeRanking(raw.Ranking),
		Programs:           copyStrings(raw.Programs),
		ProgramStart:       NormalizeDate(raw.ProgramStart),
		AppDeadline:        NormalizeDate(raw.AppDeadline),
		AcceptanceRate:     NormalizeAcceptanceRate(raw.AcceptanceRate),
		AcceptanceCriteria: plainText(raw.AcceptanceCriteria),
		Contact:            NormalizeContact(raw.Contact),
		Website:            raw.Website,
		Image:              raw.Image,
		Citations:          copyStrings(raw.Citations),
	}

	u.Scholarships = make([]models.ScholarshipAward, 0, len(raw.Scholarships))
	for _, s := range raw.Scholarships {
		u.Scholarships = append(u.Scholarships, models.ScholarshipAward{
			Scholarship: models.Scholarship{
				Name:   plainText(s.Name),
				Amount: s.Amount,
				URL:    s.URL,
			},
			Parsed: ParseAmount(s.Amount),
		})
	}

	return u
}

// UniversityID is stable across runs for the same rank and name.
func UniversityID(rank int, name string) uuid.UUID {
	return uuid.NewSHA1(universityNamespace, []byte(strconv.Itoa(rank)+"|"+name))
}

// NormalizeRanking renders "<system> #<value>".
func NormalizeRanking(r models.RawRanking) models.Ranking {
	value := "N/A"
	if r.Value != nil {
		value = formatNumber(*r.Value)
	}
	return models.Ranking{
		System:  r.System,
		Value:   copyFloat(r.Value),
		Display: r.System + " #" + value,
	}
}

// NormalizeAcceptanceRate renders "<value>%", with " (est.)" for estimates.
func NormalizeAcceptanceRate(r models.RawAcceptanceRate) models.AcceptanceRate {
	display := "N/A"
	if r.Value != nil {
		display = formatNumber(*r.Value) + "%"
		if r.Estimated {
			display += " (est.)"
		}
	}
	return models.AcceptanceRate{
		Value:     copyFloat(r.Value),
		Estimated: r.Estimated,
		Display:   display,
	}
}

func NormalizeDate(raw string) models.DateField {
	return models.DateField{Raw: raw, Formatted: FormatDate(raw)}
}

func NormalizeContact(raw string) models.Contact {
	return models.Contact{Raw: raw, IsEmail: IsEmailAddress(raw)}
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
