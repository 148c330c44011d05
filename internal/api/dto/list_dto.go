package dto

// Pagination carries the backend's authoritative total.
type Pagination struct {
	TotalCount int `json:"totalCount"`
}

// ListResponse is the envelope of every list endpoint. Data is a pointer so a
// missing field can be told apart from an empty page.
type ListResponse[T any] struct {
	Data       *[]T        `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
