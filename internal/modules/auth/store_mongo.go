package auth

import (
	"context"
	"errors"
	"time"

	"github.com/opencircle/core/internal/database"
	"github.com/opencircle/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on top of the document database.
type MongoStore struct {
	users    *mongo.Collection
	sessions *mongo.Collection
}

func NewMongoStore(db *database.Database) *MongoStore {
	return &MongoStore{
		users:    db.Collection(models.User{}.Collection()),
		sessions: db.Collection(models.Session{}.Collection()),
	}
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	now := time.Now()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.users.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string, withPassword bool) (*models.User, error) {
	opts := options.FindOne()
	if !withPassword {
		opts.SetProjection(bson.M{"password": 0})
	}

	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email": email, "deletedAt": nil}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	opts := options.FindOne().SetProjection(bson.M{"password": 0})

	var u models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id, "deletedAt": nil}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) CreateSession(ctx context.Context, userID primitive.ObjectID, refreshToken string, expiresAt time.Time, ip string) (*models.Session, error) {
	now := time.Now()
	sess := &models.Session{
		ID:                    primitive.NewObjectID(),
		User:                  userID,
		IPAddress:             ip,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if _, err := s.sessions.InsertOne(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *MongoStore) FindSessionByID(ctx context.Context, id primitive.ObjectID) (*models.Session, error) {
	var sess models.Session
	err := s.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *MongoStore) FindValidSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	filter := bson.M{
		"refreshToken":          refreshToken,
		"refreshTokenExpiresAt": bson.M{"$gt": time.Now()},
	}

	var sess models.Session
	err := s.sessions.FindOne(ctx, filter).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// RotateSession is a conditional update matching the current token value, so
// two racing rotations of the same token resolve to exactly one winner.
func (s *MongoStore) RotateSession(ctx context.Context, sessionID primitive.ObjectID, currentToken, newToken string, newExpiresAt time.Time) (bool, error) {
	res, err := s.sessions.UpdateOne(ctx,
		bson.M{"_id": sessionID, "refreshToken": currentToken},
		bson.M{"$set": bson.M{
			"refreshToken":          newToken,
			"refreshTokenExpiresAt": newExpiresAt,
			"updatedAt":             time.Now(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (s *MongoStore) DeleteSessionForUser(ctx context.Context, sessionID, userID primitive.ObjectID) (bool, error) {
	res, err := s.sessions.DeleteOne(ctx, bson.M{"_id": sessionID, "user": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

func (s *MongoStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.sessions.DeleteMany(ctx, bson.M{
		"refreshTokenExpiresAt": bson.M{"$lt": time.Now()},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
