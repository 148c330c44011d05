package listing

import "github.com/spec-kit/ticket-console/internal/domain"

// Window cuts page out of an already complete collection. It serves
// resources whose endpoint returns everything at once.
func Window[T any](all []T, page, size int) domain.Page[T] {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = len(all)
	}
	start := (page - 1) * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return domain.Page[T]{Items: append([]T(nil), all[start:end]...), TotalCount: len(all)}
}
