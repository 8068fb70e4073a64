package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/opencircle/core/internal/models"
	"github.com/opencircle/core/internal/pkg/hashing"
	"github.com/opencircle/core/internal/pkg/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service orchestrates signup, login, logout and refresh over the session
// store and the token codec.
type Service struct {
	store      Store
	codec      *token.Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(store Store, codec *token.Codec, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		store:      store,
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Signup creates a user with the default role. The returned record carries no
// password digest.
func (s *Service) Signup(ctx context.Context, dto *SignupDTO) (*models.User, error) {
	existing, err := s.store.FindUserByEmail(ctx, dto.Email, false)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	digest, err := hashing.Hash(dto.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Email:     dto.Email,
		Password:  digest,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Role:      models.RoleUser,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	u.Password = ""
	return u, nil
}

// Login verifies credentials, opens a session and mints the token pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, dto *LoginDTO) (*LoginResult, error) {
	u, err := s.store.FindUserByEmail(ctx, dto.Email, true)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if !hashing.Verify(dto.Password, u.Password) {
		return nil, ErrInvalidCredentials
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	sess, err := s.store.CreateSession(ctx, u.ID, refreshToken, time.Now().Add(s.refreshTTL), dto.IPAddress)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.codec.Sign(u.ID.Hex(), u.Email, sess.ID.Hex(), s.accessTTL)
	if err != nil {
		return nil, err
	}

	u.Password = ""
	return &LoginResult{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout deletes the session scoped to its owner. Deleting a session that is
// gone or owned by someone else is a no-op.
func (s *Service) Logout(ctx context.Context, user *models.User, sessionID string) error {
	sid, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil
	}
	_, err = s.store.DeleteSessionForUser(ctx, sid, user.ID)
	return err
}

// Refresh rotates the session's refresh token and mints a fresh access token.
// The presented token becomes permanently invalid: a replay of it, or a race
// between two refreshes, yields ErrInvalidRefreshToken for the loser.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	sess, err := s.store.FindValidSessionByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.store.FindUserByID(ctx, sess.User)
	if err != nil {
		return nil, err
	}
	if u == nil {
		// Dangling session without a user; treated like any other invalid
		// token instead of leaking the inconsistency.
		return nil, ErrInvalidRefreshToken
	}

	newToken, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	rotated, err := s.store.RotateSession(ctx, sess.ID, refreshToken, newToken, time.Now().Add(s.refreshTTL))
	if err != nil {
		return nil, err
	}
	if !rotated {
		return nil, ErrInvalidRefreshToken
	}

	accessToken, err := s.codec.Sign(u.ID.Hex(), u.Email, sess.ID.Hex(), s.accessTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newToken}, nil
}

// ResolveSession loads the session named by a verified access token's claims
// and resolves its owning user. A nil user means the session was revoked or
// its owner is gone, and the bearer must be rejected.
func (s *Service) ResolveSession(ctx context.Context, sessionID string) (*models.User, error) {
	sid, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, nil
	}
	sess, err := s.store.FindSessionByID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	return s.store.FindUserByID(ctx, sess.User)
}

// CleanupExpiredSessions removes sessions whose refresh token has lapsed.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredSessions(ctx)
}

// newRefreshToken returns 256 bits of hex-encoded entropy.
func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
