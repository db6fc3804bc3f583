package services

const (
	maxPerPage      = 100
	fallbackPerPage = 10
)

// normalizePaging clamps list parameters: pages start at 1 and an out of
// range page size falls back to 10.
func normalizePaging(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > maxPerPage {
		perPage = fallbackPerPage
	}
	return page, perPage
}
