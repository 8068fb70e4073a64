package auth

import (
	"context"
	"time"

	"github.com/opencircle/core/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the persistence boundary the auth service works against. Lookup
// methods return (nil, nil) when no document matches.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string, withPassword bool) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	CreateSession(ctx context.Context, userID primitive.ObjectID, refreshToken string, expiresAt time.Time, ip string) (*models.Session, error)
	FindSessionByID(ctx context.Context, id primitive.ObjectID) (*models.Session, error)
	// FindValidSessionByToken matches only sessions whose refresh-token expiry
	// is strictly in the future.
	FindValidSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error)
	// RotateSession replaces token and expiry only if the session still holds
	// currentToken. Returns false when another rotation won the race.
	RotateSession(ctx context.Context, sessionID primitive.ObjectID, currentToken, newToken string, newExpiresAt time.Time) (bool, error)
	// DeleteSessionForUser removes the session only if it belongs to userID.
	DeleteSessionForUser(ctx context.Context, sessionID, userID primitive.ObjectID) (bool, error)
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
