package comment

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
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Service struct {
	comments *mongo.Collection
	posts    *mongo.Collection
	users    *mongo.Collection
	notify   *notification.Service
	logger   *zap.Logger
}

func NewService(db *database.Database, notify *notification.Service, logger *zap.Logger) *Service {
	return &Service{
		comments: db.Collection(models.Comment{}.Collection()),
		posts:    db.Collection(models.Post{}.Collection()),
		users:    db.Collection(models.User{}.Collection()),
		notify:   notify,
		logger:   logger.Named("comment"),
	}
}

// Create attaches a comment to an existing post, bumps the post's comment
// counter and fans out a notification. The fan-out is best effort.
func (s *Service) Create(ctx context.Context, dto *CreateCommentDTO, author *models.User) (*models.Comment, error) {
	postID, err := primitive.ObjectIDFromHex(dto.PostID)
	if err != nil {
		return nil, errPostNotFound
	}
	if err := s.posts.FindOne(ctx, bson.M{"_id": postID, "deletedAt": nil}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errPostNotFound
		}
		return nil, err
	}

	now := time.Now()
	cm := &models.Comment{
		ID:        primitive.NewObjectID(),
		Content:   dto.Content,
		Author:    author.ID,
		Post:      postID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.comments.InsertOne(ctx, cm); err != nil {
		return nil, err
	}

	if _, err := s.posts.UpdateOne(ctx, bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"commentsCount": 1}}); err != nil {
		return nil, err
	}

	if err := s.notify.NotifyComment(ctx, author.ID, postID); err != nil {
		s.logger.Warn("comment notification failed", zap.Error(err))
	}

	cm.AuthorRef = &models.UserRef{
		ID:        author.ID,
		Email:     author.Email,
		FirstName: author.FirstName,
		LastName:  author.LastName,
	}
	return cm, nil
}

// FindByPost lists a post's comments, newest first.
func (s *Service) FindByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	cur, err := s.comments.Find(ctx,
		bson.M{"post": postID, "deletedAt": nil},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var comments []models.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	if err := s.populateAuthors(ctx, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Service) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var cm models.Comment
	err := s.comments.FindOne(ctx, bson.M{"_id": id, "deletedAt": nil}).Decode(&cm)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errCommentNotFound
	}
	if err != nil {
		return nil, err
	}

	one := []models.Comment{cm}
	if err := s.populateAuthors(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Update edits a comment's content. Authors may only edit their own.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, dto *UpdateCommentDTO, user *models.User) (*models.Comment, error) {
	if _, err := s.findOwned(ctx, id, user); err != nil {
		return nil, err
	}

	res := s.comments.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"content": dto.Content, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Comment
	if err := res.Decode(&updated); err != nil {
		return nil, err
	}

	one := []models.Comment{updated}
	if err := s.populateAuthors(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Delete soft-deletes a comment and decrements the post's counter.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID, user *models.User) error {
	cm, err := s.findOwned(ctx, id, user)
	if err != nil {
		return err
	}

	if _, err := s.comments.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"deletedAt": time.Now()}},
	); err != nil {
		return err
	}

	_, err = s.posts.UpdateOne(ctx, bson.M{"_id": cm.Post},
		bson.M{"$inc": bson.M{"commentsCount": -1}})
	return err
}

func (s *Service) findOwned(ctx context.Context, id primitive.ObjectID, user *models.User) (*models.Comment, error) {
	var cm models.Comment
	err := s.comments.FindOne(ctx, bson.M{"_id": id, "deletedAt": nil}).Decode(&cm)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	if cm.Author != user.ID && user.Role != models.RoleAdmin {
		return nil, errNotCommentOwner
	}
	return &cm, nil
}

func (s *Service) populateAuthors(ctx context.Context, comments []models.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(comments))
	seen := make(map[primitive.ObjectID]bool, len(comments))
	for _, cm := range comments {
		if !seen[cm.Author] {
			seen[cm.Author] = true
			ids = append(ids, cm.Author)
		}
	}

	cur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"email": 1, "firstName": 1, "lastName": 1}))
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
	for i := range comments {
		comments[i].AuthorRef = byID[comments[i].Author]
	}
	return nil
}
