package like

import (
	"context"
	"errors"
	"time"

	"github.com/opencircle/core/internal/database"
	"github.com/opencircle/core/internal/models"
	"github.com/opencircle/core/internal/modules/notification"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service toggles likes on posts and comments. The unique compound index on
// (user, likeable, likeableType) is what makes LikePost/LikeComment safe under
// concurrent double-taps: the second insert fails with a duplicate key.
type Service struct {
	likes    *mongo.Collection
	posts    *mongo.Collection
	comments *mongo.Collection
	notify   *notification.Service
	logger   *zap.Logger
}

func NewService(db *database.Database, notify *notification.Service, logger *zap.Logger) *Service {
	return &Service{
		likes:    db.Collection(models.Like{}.Collection()),
		posts:    db.Collection(models.Post{}.Collection()),
		comments: db.Collection(models.Comment{}.Collection()),
		notify:   notify,
		logger:   logger.Named("like"),
	}
}

func (s *Service) LikePost(ctx context.Context, userID primitive.ObjectID, dto *LikePostDTO) error {
	postID, err := primitive.ObjectIDFromHex(dto.PostID)
	if err != nil {
		return errPostNotFound
	}

	var p models.Post
	err = s.posts.FindOne(ctx, bson.M{"_id": postID, "deletedAt": nil}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errPostNotFound
	}
	if err != nil {
		return err
	}

	if err := s.insertLike(ctx, userID, postID, models.LikeablePost); err != nil {
		return err
	}
	if _, err := s.posts.UpdateOne(ctx, bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"likesCount": 1}}); err != nil {
		return err
	}

	if err := s.notify.NotifyLike(ctx, userID, p.Author, postID, "post"); err != nil {
		s.logger.Warn("like notification failed", zap.Error(err))
	}
	return nil
}

func (s *Service) UnlikePost(ctx context.Context, userID, postID primitive.ObjectID) error {
	removed, err := s.removeLike(ctx, userID, postID, models.LikeablePost)
	if err != nil {
		return err
	}
	if !removed {
		return errNotLiked
	}
	_, err = s.posts.UpdateOne(ctx, bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"likesCount": -1}})
	return err
}

func (s *Service) LikeComment(ctx context.Context, userID primitive.ObjectID, dto *LikeCommentDTO) error {
	commentID, err := primitive.ObjectIDFromHex(dto.CommentID)
	if err != nil {
		return errCommentNotFound
	}

	var cm models.Comment
	err = s.comments.FindOne(ctx, bson.M{"_id": commentID, "deletedAt": nil}).Decode(&cm)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errCommentNotFound
	}
	if err != nil {
		return err
	}

	if err := s.insertLike(ctx, userID, commentID, models.LikeableComment); err != nil {
		return err
	}
	if _, err := s.comments.UpdateOne(ctx, bson.M{"_id": commentID},
		bson.M{"$inc": bson.M{"likesCount": 1}}); err != nil {
		return err
	}

	if err := s.notify.NotifyLike(ctx, userID, cm.Author, commentID, "comment"); err != nil {
		s.logger.Warn("like notification failed", zap.Error(err))
	}
	return nil
}

func (s *Service) UnlikeComment(ctx context.Context, userID, commentID primitive.ObjectID) error {
	removed, err := s.removeLike(ctx, userID, commentID, models.LikeableComment)
	if err != nil {
		return err
	}
	if !removed {
		return errNotLiked
	}
	_, err = s.comments.UpdateOne(ctx, bson.M{"_id": commentID},
		bson.M{"$inc": bson.M{"likesCount": -1}})
	return err
}

func (s *Service) insertLike(ctx context.Context, userID, likeable primitive.ObjectID, typ models.LikeableType) error {
	_, err := s.likes.InsertOne(ctx, &models.Like{
		ID:           primitive.NewObjectID(),
		User:         userID,
		Likeable:     likeable,
		LikeableType: typ,
		CreatedAt:    time.Now(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return errAlreadyLiked
	}
	return err
}

func (s *Service) removeLike(ctx context.Context, userID, likeable primitive.ObjectID, typ models.LikeableType) (bool, error) {
	res, err := s.likes.DeleteOne(ctx, bson.M{
		"user":         userID,
		"likeable":     likeable,
		"likeableType": typ,
	})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
