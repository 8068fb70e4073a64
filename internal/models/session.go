package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session binds a user to one rotatable refresh token. The refresh token is
// unique across live sessions; rotation replaces Token and ExpiresAt in place.
type Session struct {
	ID                    primitive.ObjectID `json:"_id"                   bson:"_id,omitempty"`
	User                  primitive.ObjectID `json:"user"                  bson:"user"`
	IPAddress             string             `json:"ipAddress,omitempty"   bson:"ipAddress,omitempty"`
	RefreshToken          string             `json:"refreshToken"          bson:"refreshToken"`
	RefreshTokenExpiresAt time.Time          `json:"refreshTokenExpiresAt" bson:"refreshTokenExpiresAt"`
	CreatedAt             time.Time          `json:"createdAt"             bson:"createdAt"`
	UpdatedAt             time.Time          `json:"updatedAt"             bson:"updatedAt"`
}

func (Session) Collection() string { return "sessions" }
