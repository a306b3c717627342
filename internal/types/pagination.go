package types

// PaginationResponse represents standardized pagination metadata
type PaginationResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewPaginationResponse creates a new pagination response
func NewPaginationResponse(total, limit, offset int) *PaginationResponse {
	return &PaginationResponse{
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}
