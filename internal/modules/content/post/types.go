package post

import "errors"

type CreatePostDTO struct {
	Title    string `json:"title"    binding:"required"`
	Content  string `json:"content"  binding:"required"`
	ImageURL string `json:"imageUrl"`
	VideoURL string `json:"videoUrl"`
}

type UpdatePostDTO struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"imageUrl"`
	VideoURL *string `json:"videoUrl"`
}

var (
	errPostNotFound = errors.New("post not found")
	errNotPostOwner = errors.New("not the post owner")
)
