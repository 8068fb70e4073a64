package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole enumerates the permission levels a user can hold.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User represents an account. Password is never serialized; stores must
// project it out except on the login path.
type User struct {
	ID             primitive.ObjectID `json:"_id"            bson:"_id,omitempty"`
	Email          string             `json:"email"          bson:"email"`
	Password       string             `json:"-"              bson:"password,omitempty"`
	FirstName      string             `json:"firstName"      bson:"firstName"`
	LastName       string             `json:"lastName"       bson:"lastName"`
	Role           UserRole           `json:"role"           bson:"role"`
	FollowersCount int64              `json:"followersCount" bson:"followersCount"`
	FollowingCount int64              `json:"followingCount" bson:"followingCount"`
	DeletedAt      *time.Time         `json:"-"              bson:"deletedAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"      bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"      bson:"updatedAt"`
}

func (User) Collection() string { return "users" }

// FullName is used when composing notification messages.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserRef is the author projection embedded in posts, comments and
// notifications returned to clients.
type UserRef struct {
	ID        primitive.ObjectID `json:"_id"       bson:"_id"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	FirstName string             `json:"firstName" bson:"firstName"`
	LastName  string             `json:"lastName"  bson:"lastName"`
}
