package services

import "github.com/Zayan93/yatube/internal/models"

// PageSize is the fixed number of posts per page
const PageSize = 10

// Page is one page of a reverse-chronological post listing
type Page struct {
	Number     int           `json:"number"`
	Size       int           `json:"size"`
	TotalItems int           `json:"total_items"`
	TotalPages int           `json:"total_pages"`
	HasNext    bool          `json:"has_next"`
	HasPrev    bool          `json:"has_prev"`
	Posts      []models.Post `json:"posts"`
}

// paginate slices posts into the requested page. The page number clamps to
// the valid range: below 1 becomes 1, beyond the last page becomes the last
// page. An empty listing still yields page 1 of 1.
func paginate(posts []models.Post, page int) *Page {
	totalItems := len(posts)
	totalPages := (totalItems + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return &Page{
		Number:     page,
		Size:       PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
		Posts:      posts[start:end],
	}
}
