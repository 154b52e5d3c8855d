package query

import "github.com/david/uni-finder/internal/models"

// Run filters then sorts. records is not modified.
func Run(records []models.University, c Criteria, spec SortSpec) []models.University {
	return Sort(Filter(records, c), spec)
}
