package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opencircle/core/internal/database"
	"github.com/opencircle/core/internal/models"
	"github.com/opencircle/core/internal/pkg/pagination"
	"github.com/opencircle/core/internal/pkg/response"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Service creates and manages inbox notifications. Creation helpers render
// the final message text at write time, the way the feed fan-out expects it.
type Service struct {
	notifications *mongo.Collection
	users         *mongo.Collection
	posts         *mongo.Collection
	comments      *mongo.Collection
}

func NewService(db *database.Database) *Service {
	return &Service{
		notifications: db.Collection(models.Notification{}.Collection()),
		users:         db.Collection(models.User{}.Collection()),
		posts:         db.Collection(models.Post{}.Collection()),
		comments:      db.Collection(models.Comment{}.Collection()),
	}
}

func (s *Service) create(ctx context.Context, n *models.Notification) error {
	now := time.Now()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = now
	n.UpdatedAt = now
	_, err := s.notifications.InsertOne(ctx, n)
	return err
}

// NotifyLike records a like notification unless the user liked their own
// content.
func (s *Service) NotifyLike(ctx context.Context, sender, recipient, entity primitive.ObjectID, entityType string) error {
	if sender == recipient {
		return nil
	}

	var verb string
	switch entityType {
	case "post":
		var p models.Post
		if err := s.posts.FindOne(ctx, bson.M{"_id": entity}).Decode(&p); err != nil {
			return err
		}
		verb = fmt.Sprintf("liked your post %q", excerpt(p.Title))
	case "comment":
		var cm models.Comment
		if err := s.comments.FindOne(ctx, bson.M{"_id": entity}).Decode(&cm); err != nil {
			return err
		}
		verb = fmt.Sprintf("liked your comment %q", excerpt(cm.Content))
	default:
		return fmt.Errorf("unknown likeable type %q", entityType)
	}

	name, err := s.senderName(ctx, sender)
	if err != nil {
		return err
	}

	return s.create(ctx, &models.Notification{
		Recipient:         recipient,
		Sender:            sender,
		Type:              models.NotificationLike,
		Message:           name + " " + verb,
		RelatedEntity:     &entity,
		RelatedEntityType: entityType,
	})
}

// NotifyComment records a comment notification for the post's author.
func (s *Service) NotifyComment(ctx context.Context, sender, postID primitive.ObjectID) error {
	var p models.Post
	if err := s.posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&p); err != nil {
		return err
	}
	if p.Author == sender {
		return nil
	}

	name, err := s.senderName(ctx, sender)
	if err != nil {
		return err
	}

	return s.create(ctx, &models.Notification{
		Recipient:         p.Author,
		Sender:            sender,
		Type:              models.NotificationComment,
		Message:           fmt.Sprintf("%s commented on your post %q", name, excerpt(p.Title)),
		RelatedEntity:     &postID,
		RelatedEntityType: "post",
	})
}

// NotifyFollow records a follow notification.
func (s *Service) NotifyFollow(ctx context.Context, follower, following primitive.ObjectID) error {
	if follower == following {
		return nil
	}

	name, err := s.senderName(ctx, follower)
	if err != nil {
		return err
	}

	return s.create(ctx, &models.Notification{
		Recipient: following,
		Sender:    follower,
		Type:      models.NotificationFollow,
		Message:   name + " started following you",
	})
}

func (s *Service) senderName(ctx context.Context, id primitive.ObjectID) (string, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"firstName": 1, "lastName": 1})).Decode(&u)
	if err != nil {
		return "", fmt.Errorf("resolve sender: %w", err)
	}
	return u.FullName(), nil
}

// List returns the recipient's notifications, newest first, with sender names
// resolved for display.
func (s *Service) List(ctx context.Context, userID primitive.ObjectID, q pagination.Query, dto *ListQueryDTO) ([]models.Notification, response.Pagination, error) {
	filter := bson.M{"recipient": userID, "deletedAt": nil}
	if dto.UnreadOnly {
		filter["isRead"] = false
	}
	if dto.Type != "" {
		filter["type"] = dto.Type
	}

	total, err := s.notifications.CountDocuments(ctx, filter)
	if err != nil {
		return nil, response.Pagination{}, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))

	cur, err := s.notifications.Find(ctx, filter, opts)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	var items []models.Notification
	if err := cur.All(ctx, &items); err != nil {
		return nil, response.Pagination{}, err
	}

	if err := s.populateSenders(ctx, items); err != nil {
		return nil, response.Pagination{}, err
	}
	return items, q.Meta(total), nil
}

func (s *Service) populateSenders(ctx context.Context, items []models.Notification) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	seen := make(map[primitive.ObjectID]bool, len(items))
	for _, n := range items {
		if !seen[n.Sender] {
			seen[n.Sender] = true
			ids = append(ids, n.Sender)
		}
	}

	cur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"firstName": 1, "lastName": 1}))
	if err != nil {
		return err
	}
	var users []models.UserRef
	if err := cur.All(ctx, &users); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]*models.UserRef, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range items {
		items[i].SenderRef = byID[items[i].Sender]
	}
	return nil
}

// UnreadCount returns the number of unread, undeleted notifications.
func (s *Service) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.notifications.CountDocuments(ctx, bson.M{
		"recipient": userID,
		"isRead":    false,
		"deletedAt": nil,
	})
}

// ownedFilter scopes a single-notification write to its recipient and keeps
// soft-deleted entries out of reach.
func ownedFilter(id, userID primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "recipient": userID, "deletedAt": nil}
}

// MarkAsRead marks one notification read, scoped to its recipient.
func (s *Service) MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	now := time.Now()
	res := s.notifications.FindOneAndUpdate(ctx,
		ownedFilter(id, userID),
		bson.M{"$set": bson.M{"isRead": true, "readAt": now, "updatedAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var n models.Notification
	if err := res.Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

// MarkAllAsRead marks every unread notification read and returns how many.
func (s *Service) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	now := time.Now()
	res, err := s.notifications.UpdateMany(ctx,
		bson.M{"recipient": userID, "isRead": false, "deletedAt": nil},
		bson.M{"$set": bson.M{"isRead": true, "readAt": now, "updatedAt": now}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete soft-deletes one notification, scoped to its recipient.
func (s *Service) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.notifications.UpdateOne(ctx,
		ownedFilter(id, userID),
		bson.M{"$set": bson.M{"deletedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errNotificationNotFound
	}
	return nil
}
