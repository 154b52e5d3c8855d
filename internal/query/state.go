package query

import "github.com/david/uni-finder/internal/models"

// State is the complete input of one table view. Every With method returns
// a new value; the receiver is left untouched.
type State struct {
	Criteria Criteria `json:"criteria"`
	Sort     SortSpec `json:"sort"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}

// NewState starts on page one, sorted by rank, with criteria spanning
// the collection.
func NewState(records []models.University) State {
	return State{
		Criteria: DefaultCriteria(records),
		Sort:     SortSpec{Column: ColumnRank, Direction: Ascending},
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// Changing any filter returns to the first page.

func (s State) WithSearch(term string) State {
	s.Criteria.SearchTerm = term
	s.Page = 1
	return s
}

func (s State) WithCountry(country string) State {
	s.Criteria.Country = country
	s.Page = 1
	return s
}

func (s State) WithRankRange(lo, hi int) State {
	s.Criteria.RankMin, s.Criteria.RankMax = lo, hi
	s.Page = 1
	return s
}

func (s State) WithAdvanced(on bool) State {
	s.Criteria.Advanced = on
	s.Page = 1
	return s
}

func (s State) WithRateRange(lo, hi float64) State {
	s.Criteria.RateMin, s.Criteria.RateMax = lo, hi
	s.Page = 1
	return s
}

// WithSortColumn applies the header-click transition.
func (s State) WithSortColumn(column Column) State {
	s.Sort = NextSort(s.Sort, column)
	s.Page = 1
	return s
}

func (s State) WithSort(spec SortSpec) State {
	s.Sort = spec
	s.Page = 1
	return s
}

func (s State) WithPage(page int) State {
	s.Page = page
	return s
}

func (s State) WithPageSize(size int) State {
	s.PageSize = size
	s.Page = 1
	return s
}

// Execute runs the query and returns the requested page, clamped into the
// result's page range.
func (s State) Execute(records []models.University) Page[models.University] {
	ordered := Run(records, s.Criteria, s.Sort)
	first := Paginate(ordered, s.PageSize, 1)
	return Paginate(ordered, s.PageSize, ClampPage(s.Page, first.TotalPages))
}
