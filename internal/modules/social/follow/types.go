package follow

import "errors"

// FollowDTO identifies the user being followed.
type FollowDTO struct {
	UserID string `json:"userId" binding:"required"`
}

var (
	errSelfFollow       = errors.New("cannot follow yourself")
	errAlreadyFollowing = errors.New("already following")
	errNotFollowing     = errors.New("not following")
	errUserNotFound     = errors.New("user not found")
)
