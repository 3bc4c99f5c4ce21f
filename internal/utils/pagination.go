package utils

// PageInfo describes one page of a listing response.
type PageInfo struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Size       int  `json:"size"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Paginate computes page metadata for a listing. Pages are 1-based.
func Paginate(total, page, size int) PageInfo {
	if size < 1 {
		size = 1
	}
	if page < 1 {
		page = 1
	}
	totalPages := (total + size - 1) / size
	return PageInfo{
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
