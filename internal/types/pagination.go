package types

// PaginationResponse echoes pagination parameters alongside list results
type PaginationResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewPaginationResponse builds a pagination response from a filter and total
func NewPaginationResponse(total int, f *QueryFilter) PaginationResponse {
	return PaginationResponse{
		Total:  total,
		Limit:  f.GetLimit(),
		Offset: f.GetOffset(),
	}
}
