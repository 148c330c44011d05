package domain

// Page is one window of a paginated resource. TotalCount is the backend's
// count across all pages.
type Page[T any] struct {
	Items      []T
	TotalCount int
}

// TotalPages is ceil(total/size), never less than one.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}
