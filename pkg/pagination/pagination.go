package pagination

const (
	// DefaultPerPage is the standard page size when a size is not provided.
	DefaultPerPage = 10
	// MaxPerPage caps how many rows any table view can request per page.
	MaxPerPage = 100
)

// NormalizePerPage enforces the configured default and maximum page sizes.
func NormalizePerPage(perPage int) int {
	if perPage <= 0 {
		return DefaultPerPage
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// TotalPages returns how many pages the given row count spans.
func TotalPages(total, perPage int) int {
	perPage = NormalizePerPage(perPage)
	if total <= 0 {
		return 0
	}
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	return pages
}

// ClampPage keeps a 1-based page number inside the valid range for the total.
func ClampPage(page, total, perPage int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(total, perPage); last > 0 && page > last {
		return last
	}
	return page
}

// Slice returns the 1-based page of items for the given page size.
func Slice[T any](items []T, page, perPage int) []T {
	perPage = NormalizePerPage(perPage)
	page = ClampPage(page, len(items), perPage)

	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
