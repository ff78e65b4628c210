package inkwell

// Default and maximum page sizes used when a caller omits or exceeds them.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// MaxPage bounds the page number so the skip offset stays well inside int64.
const MaxPage = 1_000_000_000

// Pagination describes one page of a result set.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"totalPosts"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NormalizePage clamps page to [1, MaxPage] and limit to [1, MaxPageSize],
// substituting DefaultPageSize for a non-positive limit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// Offset returns the number of documents to skip for a 1-based page.
func Offset(page, limit int) int64 {
	return int64(page-1) * int64(limit)
}

// NewPagination computes page metadata from an independently counted total.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
