package like

import "errors"

// LikePostDTO identifies the post being liked.
type LikePostDTO struct {
	PostID string `json:"postId" binding:"required"`
}

// LikeCommentDTO identifies the comment being liked.
type LikeCommentDTO struct {
	CommentID string `json:"commentId" binding:"required"`
}

var (
	errAlreadyLiked    = errors.New("already liked")
	errNotLiked        = errors.New("not liked")
	errPostNotFound    = errors.New("post not found")
	errCommentNotFound = errors.New("comment not found")
)
