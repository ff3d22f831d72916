package helpers

// PaginationInfo describes where a page sits in a list. Pages are 1-based.
type PaginationInfo struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	PageSize    int `json:"pageSize"`
	TotalItems  int `json:"totalItems"`
}

// NewPaginationInfo creates a PaginationInfo for the 1-based page. An empty list
// still has one (empty) page.
func NewPaginationInfo(totalItems, page, size int) PaginationInfo {
	if size <= 0 {
		size = 1
	}
	totalPages := totalItems / size
	if totalItems%size != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}
	return PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}
