package types

// PageInfo contains pagination metadata for list responses.
type PageInfo struct {
	TotalItems int  `json:"total_items"`
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	HasMore    bool `json:"has_more"`
}

// ListResponse is a generic paginated response wrapper.
type ListResponse[T any] struct {
	Data     []T      `json:"data"`
	PageInfo PageInfo `json:"pagination"`
}

// NewPageInfo derives pagination metadata from the query bounds and the total
// row count reported by the store.
func NewPageInfo(offset, limit, total int) PageInfo {
	return PageInfo{
		TotalItems: total,
		Offset:     offset,
		Limit:      limit,
		HasMore:    offset+limit < total,
	}
}
