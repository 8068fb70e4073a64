package follow

import (
	"context"
	"errors"
	"time"

	"github.com/opencircle/core/internal/database"
	"github.com/opencircle/core/internal/models"
	"github.com/opencircle/core/internal/modules/content/post"
	"github.com/opencircle/core/internal/modules/notification"
	"github.com/opencircle/core/internal/pkg/pagination"
	"github.com/opencircle/core/internal/pkg/response"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Service manages follow edges and the denormalized follower counters on the
// user documents. The unique (follower, following) index keeps the edge set
// duplicate-free under concurrent requests.
type Service struct {
	follows *mongo.Collection
	users   *mongo.Collection
	posts   *post.Service
	notify  *notification.Service
	logger  *zap.Logger
}

func NewService(db *database.Database, posts *post.Service, notify *notification.Service, logger *zap.Logger) *Service {
	return &Service{
		follows: db.Collection(models.Follow{}.Collection()),
		users:   db.Collection(models.User{}.Collection()),
		posts:   posts,
		notify:  notify,
		logger:  logger.Named("follow"),
	}
}

func (s *Service) Follow(ctx context.Context, followerID primitive.ObjectID, dto *FollowDTO) error {
	followingID, err := primitive.ObjectIDFromHex(dto.UserID)
	if err != nil {
		return errUserNotFound
	}
	if followingID == followerID {
		return errSelfFollow
	}

	err = s.users.FindOne(ctx, bson.M{"_id": followingID, "deletedAt": nil},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errUserNotFound
	}
	if err != nil {
		return err
	}

	_, err = s.follows.InsertOne(ctx, &models.Follow{
		ID:        primitive.NewObjectID(),
		Follower:  followerID,
		Following: followingID,
		CreatedAt: time.Now(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return errAlreadyFollowing
	}
	if err != nil {
		return err
	}

	if err := s.adjustCounts(ctx, followerID, followingID, 1); err != nil {
		return err
	}

	if err := s.notify.NotifyFollow(ctx, followerID, followingID); err != nil {
		s.logger.Warn("follow notification failed", zap.Error(err))
	}
	return nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, followingID primitive.ObjectID) error {
	res, err := s.follows.DeleteOne(ctx, bson.M{
		"follower":  followerID,
		"following": followingID,
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errNotFollowing
	}
	return s.adjustCounts(ctx, followerID, followingID, -1)
}

func (s *Service) adjustCounts(ctx context.Context, followerID, followingID primitive.ObjectID, delta int) error {
	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": followerID},
		bson.M{"$inc": bson.M{"followingCount": delta}}); err != nil {
		return err
	}
	_, err := s.users.UpdateOne(ctx, bson.M{"_id": followingID},
		bson.M{"$inc": bson.M{"followersCount": delta}})
	return err
}

// Feed returns posts by the user and everyone they follow, newest first.
func (s *Service) Feed(ctx context.Context, userID primitive.ObjectID, q pagination.Query) ([]models.Post, response.Pagination, error) {
	cur, err := s.follows.Find(ctx, bson.M{"follower": userID},
		options.Find().SetProjection(bson.M{"following": 1}))
	if err != nil {
		return nil, response.Pagination{}, err
	}
	var edges []models.Follow
	if err := cur.All(ctx, &edges); err != nil {
		return nil, response.Pagination{}, err
	}

	authors := make([]primitive.ObjectID, 0, len(edges)+1)
	authors = append(authors, userID)
	for _, e := range edges {
		authors = append(authors, e.Following)
	}
	return s.posts.ListByAuthors(ctx, q, authors)
}
