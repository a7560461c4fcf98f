package dto

import "github.com/socialapp/social-service/internal/model"

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination computes total page count the way the feed contract
// requires: pages = ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

type PostPage struct {
	Posts      []*model.FullPost `json:"posts"`
	Pagination Pagination        `json:"pagination"`
}

type LikesCount struct {
	LikesCount int `json:"likes_count"`
}
