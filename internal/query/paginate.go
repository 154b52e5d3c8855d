package query

// DefaultPageSize is the reference table page size.
const DefaultPageSize = 25

// Page is one slice of an ordered result.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Number     int `json:"page"`
	Size       int `json:"page_size"`
}

// Paginate slices items into pages of pageSize. It does not clamp page: an
// out-of-range page yields an empty slice. A non-positive pageSize falls back
// to DefaultPageSize.
func Paginate[T any](items []T, pageSize, page int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	p := Page[T]{Items: []T{}, Total: total, TotalPages: totalPages, Number: page, Size: pageSize}
	// Checked before multiplying so a huge page cannot overflow start.
	if page < 1 || page > totalPages {
		return p
	}

	start := (page - 1) * pageSize
	if start >= total {
		return p
	}
	end := min(start+pageSize, total)
	p.Items = items[start:end]
	return p
}

// ClampPage keeps page within [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
