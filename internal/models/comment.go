package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment belongs to exactly one post. Soft-deleted like posts.
type Comment struct {
	ID         primitive.ObjectID `json:"_id"              bson:"_id,omitempty"`
	Content    string             `json:"content"          bson:"content"`
	Author     primitive.ObjectID `json:"-"                bson:"author"`
	AuthorRef  *UserRef           `json:"author,omitempty" bson:"-"`
	Post       primitive.ObjectID `json:"post"             bson:"post"`
	LikesCount int64              `json:"likesCount"       bson:"likesCount"`
	DeletedAt  *time.Time         `json:"-"                bson:"deletedAt,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"        bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"        bson:"updatedAt"`
}

func (Comment) Collection() string { return "comments" }
