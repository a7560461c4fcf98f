package dto

import "github.com/socialapp/social-service/internal/model"

// CreatePostRequest binds the multipart form of POST /posts. Media
// files arrive separately through the request's multipart reader.
type CreatePostRequest struct {
	Text       string `form:"text"`
	Links      string `form:"links"`      // JSON-encoded []model.Link
	Visibility string `form:"visibility"` // defaults to public
}

type UpdatePostRequest struct {
	Text       *string       `json:"text"`
	Links      *[]model.Link `json:"links"`
	Visibility *string       `json:"visibility"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type PageRequest struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}
