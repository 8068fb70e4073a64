package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a user-authored feed entry. Deletion is a soft delete; counters are
// maintained with independent $inc updates.
type Post struct {
	ID            primitive.ObjectID `json:"_id"                bson:"_id,omitempty"`
	Title         string             `json:"title"              bson:"title"`
	Content       string             `json:"content"            bson:"content"`
	ImageURL      string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	VideoURL      string             `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`
	Author        primitive.ObjectID `json:"-"                  bson:"author"`
	AuthorRef     *UserRef           `json:"author,omitempty"   bson:"-"`
	LikesCount    int64              `json:"likesCount"         bson:"likesCount"`
	CommentsCount int64              `json:"commentsCount"      bson:"commentsCount"`
	DeletedAt     *time.Time         `json:"-"                  bson:"deletedAt,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"          bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"          bson:"updatedAt"`
}

func (Post) Collection() string { return "posts" }
