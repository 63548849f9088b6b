// pagination.go normalizes page/limit query parameters for list endpoints.
package validation

import "strconv"

const (
	// DefaultPageSize is used when the limit parameter is absent or unparseable
	DefaultPageSize = 10
	// MaxPageSize caps the limit parameter
	MaxPageSize = 50
)

// Pagination holds normalized list-endpoint paging parameters.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the SQL offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages computes the page count for a result total. Always at least 1 so
// an empty result set still renders as "page 1 of 1".
func (p Pagination) TotalPages(total int) int {
	pages := (total + p.Limit - 1) / p.Limit
	if pages < 1 {
		return 1
	}
	return pages
}

// ParsePagination normalizes raw page/limit query strings. Non-numeric or
// out-of-range values fall back rather than erroring: page clamps to at least 1,
// limit clamps into [1, MaxPageSize] and defaults to DefaultPageSize.
func ParsePagination(pageStr, limitStr string) Pagination {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		limit = DefaultPageSize
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return Pagination{Page: page, Limit: limit}
}
