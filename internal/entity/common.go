package entity

// PageRequest is the uniform list-endpoint paging input, 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request to sane values, applying the per-entity
// default limit.
func (pr *PageRequest) Normalize(defaultLimit int) {
	if pr.Page < 1 {
		pr.Page = 1
	}
	if pr.Limit < 1 {
		pr.Limit = defaultLimit
	}
}

// Offset is the row offset of the requested page.
func (pr PageRequest) Offset() int {
	return (pr.Page - 1) * pr.Limit
}

// Pagination is the uniform list-endpoint paging output.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes the page count as ceil(total/limit).
func NewPagination(pr PageRequest, total int) Pagination {
	return Pagination{
		Page:  pr.Page,
		Limit: pr.Limit,
		Total: total,
		Pages: (total + pr.Limit - 1) / pr.Limit,
	}
}
