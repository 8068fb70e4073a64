package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType classifies what triggered a notification.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
)

// Notification is a rendered inbox entry for one recipient.
type Notification struct {
	ID                primitive.ObjectID  `json:"_id"                         bson:"_id,omitempty"`
	Recipient         primitive.ObjectID  `json:"recipient"                   bson:"recipient"`
	Sender            primitive.ObjectID  `json:"-"                           bson:"sender"`
	SenderRef         *UserRef            `json:"sender,omitempty"            bson:"-"`
	Type              NotificationType    `json:"type"                        bson:"type"`
	Message           string              `json:"message"                     bson:"message"`
	RelatedEntity     *primitive.ObjectID `json:"relatedEntity,omitempty"     bson:"relatedEntity,omitempty"`
	RelatedEntityType string              `json:"relatedEntityType,omitempty" bson:"relatedEntityType,omitempty"`
	IsRead            bool                `json:"isRead"                      bson:"isRead"`
	ReadAt            *time.Time          `json:"readAt,omitempty"            bson:"readAt,omitempty"`
	DeletedAt         *time.Time          `json:"-"                           bson:"deletedAt,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"                   bson:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"                   bson:"updatedAt"`
}

func (Notification) Collection() string { return "notifications" }
