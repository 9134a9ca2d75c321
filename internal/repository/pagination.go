package repository

// Pagination defaults applied when callers omit or mangle paging params.
const (
	DefaultLimit = 10
	MaxLimit     = 1000
)

// Page metadata returned alongside list results.
type Page struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NormalizePage clamps the page number to 1 or greater.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// NormalizeLimit applies the default page size and caps oversized requests.
func NormalizeLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Offset converts page/limit into a row offset.
func Offset(page, limit int) int {
	return (NormalizePage(page) - 1) * NormalizeLimit(limit)
}

// PageCount returns ceil(total/limit).
func PageCount(total int64, limit int) int {
	limit = NormalizeLimit(limit)
	return int((total + int64(limit) - 1) / int64(limit))
}

// NewPage assembles pagination metadata for a result set.
func NewPage(page, limit int, total int64) Page {
	return Page{
		Page:  NormalizePage(page),
		Limit: NormalizeLimit(limit),
		Total: total,
		Pages: PageCount(total, limit),
	}
}
