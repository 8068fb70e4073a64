package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Follow is a directed edge in the social graph. A unique compound index on
// (follower, following) keeps the edge set simple.
type Follow struct {
	ID        primitive.ObjectID `json:"_id"       bson:"_id,omitempty"`
	Follower  primitive.ObjectID `json:"follower"  bson:"follower"`
	Following primitive.ObjectID `json:"following" bson:"following"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

func (Follow) Collection() string { return "follows" }
