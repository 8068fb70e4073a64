package comment

import "errors"

type CreateCommentDTO struct {
	Content string `json:"content" binding:"required"`
	PostID  string `json:"postId"  binding:"required"`
}

type UpdateCommentDTO struct {
	Content string `json:"content" binding:"required"`
}

var (
	errCommentNotFound = errors.New("comment not found")
	errNotCommentOwner = errors.New("not the comment owner")
	errPostNotFound    = errors.New("post not found")
)
