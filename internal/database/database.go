package database

import (
	"context"
	"fmt"
	"time"

	"github.com/opencircle/core/internal/config"
	"github.com/opencircle/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Database bundles the mongo client and the application database handle.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a MongoDB connection, verifies it and ensures indexes.
func Connect(ctx context.Context, cfg *config.AppConfig) (*Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI()))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	d := &Database{client: client, db: client.Database(cfg.Mongo.DBName)}
	if err := d.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return d, nil
}

// Collection returns a handle for the named collection.
func (d *Database) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// Ping verifies connectivity, for health checks.
func (d *Database) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

// Disconnect closes the underlying client.
func (d *Database) Disconnect(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// ensureIndexes creates the unique and query indexes the stores rely on.
// Uniqueness of users.email and sessions.refreshToken is load-bearing.
func (d *Database) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		models.User{}.Collection(): {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		models.Session{}.Collection(): {
			{Keys: bson.D{{Key: "refreshToken", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "refreshTokenExpiresAt", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
		models.Post{}.Collection(): {
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		models.Comment{}.Collection(): {
			{Keys: bson.D{{Key: "post", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		models.Like{}.Collection(): {
			{
				Keys: bson.D{
					{Key: "user", Value: 1},
					{Key: "likeable", Value: 1},
					{Key: "likeableType", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
		models.Follow{}.Collection(): {
			{
				Keys:    bson.D{{Key: "follower", Value: 1}, {Key: "following", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		models.Notification{}.Collection(): {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "isRead", Value: 1}}},
		},
	}

	for coll, idx := range indexes {
		if _, err := d.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("collection %s: %w", coll, err)
		}
	}
	return nil
}
