package models

// SortOrder represents the direction of a list sort
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ListParams holds pagination and sorting for list endpoints.
// Zero values fall back to page 1 with the default page size.
type ListParams struct {
	Page  int
	Limit int
	Sort  string
	Order SortOrder
}

// ListResult is the unwrapped shape of a paginated list response
type ListResult[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}
