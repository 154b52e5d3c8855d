package query

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/david/uni-finder/internal/models"
)

type Column string

const (
	ColumnRank               Column = "rank"
	ColumnName               Column = "name"
	ColumnCityCountry        Column = "cityCountry"
	ColumnRanking            Column = "ranking"
	ColumnPrograms           Column = "programs"
	ColumnProgramStart       Column = "programStart"
	ColumnAppDeadline        Column = "appDeadline"
	ColumnAcceptanceRate     Column = "acceptanceRate"
	ColumnAcceptanceCriteria Column = "acceptanceCriteria"
	ColumnScholarships       Column = "scholarships"
	ColumnContact            Column = "contact"
	ColumnWebsite            Column = "website"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
	None       Direction = "none"
)

// ParseDirection accepts asc, desc or none in any case. Empty means asc.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Ascending, nil
	case Ascending, Descending, None:
		return d, nil
	}
	return "", fmt.Errorf("invalid sort direction: %s", s)
}

// SortSpec names the single active sort column.
type SortSpec struct {
	Column    Column    `json:"column"`
	Direction Direction `json:"direction"`
}

// missingValue sorts records without a number after every real value.
const missingValue = 999

// sortKey extracts either a numeric or a string key from a record. Exactly
// one of the two functions is set.
type sortKey struct {
	number func(models.University) float64
	text   func(models.University) string
}

var sortKeys = map[Column]sortKey{
	ColumnRank:               {number: func(u models.University) float64 { return float64(u.Rank) }},
	ColumnRanking:            {number: func(u models.University) float64 { return orMissing(u.Ranking.Value) }},
	ColumnAcceptanceRate:     {number: func(u models.University) float64 { return orMissing(u.AcceptanceRate.Value) }},
	ColumnName:               {text: func(u models.University) string { return u.Name }},
	ColumnCityCountry:        {text: func(u models.University) string { return u.CityCountry }},
	ColumnAcceptanceCriteria: {text: func(u models.University) string { return u.AcceptanceCriteria }},
	ColumnWebsite:            {text: func(u models.University) string { return u.Website }},
	ColumnProgramStart:       {text: func(u models.University) string { return u.ProgramStart.Raw }},
	ColumnAppDeadline:        {text: func(u models.University) string { return u.AppDeadline.Raw }},
	ColumnContact:            {text: func(u models.University) string { return u.Contact.Raw }},
	ColumnPrograms:           {text: func(u models.University) string { return strings.Join(u.Programs, ",") }},
	ColumnScholarships:       {text: scholarshipNames},
}

func orMissing(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return missingValue
	}
	return *v
}

func scholarshipNames(u models.University) string {
	names := make([]string, 0, len(u.Scholarships))
	for _, s := range u.Scholarships {
		names = append(names, s.Name)
	}
	return strings.Join(names, ",")
}

// Columns lists every sortable column.
func Columns() []Column {
	cols := make([]Column, 0, len(sortKeys))
	for c := range sortKeys {
		cols = append(cols, c)
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i] < cols[j] })
	return cols
}

func IsSortable(c Column) bool {
	_, ok := sortKeys[c]
	return ok
}

// Sort returns a sorted copy. Equal keys keep their relative order; an
// unknown column or direction None returns the records in input order.
func Sort(records []models.University, spec SortSpec) []models.University {
	out := make([]models.University, len(records))
	copy(out, records)

	key, ok := sortKeys[spec.Column]
	if !ok || (spec.Direction != Ascending && spec.Direction != Descending) {
		return out
	}

	var less func(a, b models.University) bool
	if key.number != nil {
		less = func(a, b models.University) bool { return key.number(a) < key.number(b) }
	} else {
		less = func(a, b models.University) bool {
			return strings.ToLower(key.text(a)) < strings.ToLower(key.text(b))
		}
	}

	if spec.Direction == Descending {
		sort.SliceStable(out, func(i, j int) bool { return less(out[j], out[i]) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

// NextSort is the header-click transition: the active column flips between
// ascending and descending, any other column starts ascending.
func NextSort(current SortSpec, column Column) SortSpec {
	if current.Column == column && current.Direction == Ascending {
		return SortSpec{Column: column, Direction: Descending}
	}
	return SortSpec{Column: column, Direction: Ascending}
}
