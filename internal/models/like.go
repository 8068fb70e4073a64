package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeableType names the kind of document a like points at.
type LikeableType string

const (
	LikeablePost    LikeableType = "Post"
	LikeableComment LikeableType = "Comment"
)

// Like records one user liking one likeable document. A unique compound index
// on (user, likeable, likeableType) enforces at most one like per pair.
type Like struct {
	ID           primitive.ObjectID `json:"_id"          bson:"_id,omitempty"`
	User         primitive.ObjectID `json:"user"         bson:"user"`
	Likeable     primitive.ObjectID `json:"likeable"     bson:"likeable"`
	LikeableType LikeableType       `json:"likeableType" bson:"likeableType"`
	CreatedAt    time.Time          `json:"createdAt"    bson:"createdAt"`
}

func (Like) Collection() string { return "likes" }
