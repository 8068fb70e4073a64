package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"sync"
	"testing"
	"time"

	"github.com/opencircle/core/internal/models"
	"github.com/opencircle/core/internal/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store with the same contract as MongoStore,
// including the conditional-update semantics of RotateSession.
type memStore struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]*models.User
	sessions map[primitive.ObjectID]*models.Session
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[primitive.ObjectID]*models.User),
		sessions: make(map[primitive.ObjectID]*models.Session),
	}
}

func (m *memStore) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) FindUserByEmail(ctx context.Context, email string, withPassword bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			if !withPassword {
				cp.Password = ""
			}
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	cp.Password = ""
	return &cp, nil
}

func (m *memStore) CreateSession(ctx context.Context, userID primitive.ObjectID, refreshToken string, expiresAt time.Time, ip string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := &models.Session{
		ID:                    primitive.NewObjectID(),
		User:                  userID,
		IPAddress:             ip,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
	}
	m.sessions[sess.ID] = sess
	cp := *sess
	return &cp, nil
}

func (m *memStore) FindSessionByID(ctx context.Context, id primitive.ObjectID) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *sess
	return &cp, nil
}

func (m *memStore) FindValidSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sess := range m.sessions {
		if sess.RefreshToken == refreshToken && sess.RefreshTokenExpiresAt.After(time.Now()) {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) RotateSession(ctx context.Context, sessionID primitive.ObjectID, currentToken, newToken string, newExpiresAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok || sess.RefreshToken != currentToken {
		return false, nil
	}
	sess.RefreshToken = newToken
	sess.RefreshTokenExpiresAt = newExpiresAt
	return true, nil
}

func (m *memStore) DeleteSessionForUser(ctx context.Context, sessionID, userID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok || sess.User != userID {
		return false, nil
	}
	delete(m.sessions, sessionID)
	return true, nil
}

func (m *memStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, sess := range m.sessions {
		if sess.RefreshTokenExpiresAt.Before(time.Now()) {
			delete(m.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

func newTestService(t *testing.T) (*Service, *memStore, *token.Codec) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	codec := token.NewCodec(key, &key.PublicKey)
	store := newMemStore()
	return NewService(store, codec, 15*time.Minute, 7*24*time.Hour), store, codec
}

func signupAndLogin(t *testing.T, svc *Service) *LoginResult {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Signup(ctx, &SignupDTO{
		Email:     "alice@example.com",
		Password:  "hunter22",
		FirstName: "Alice",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, &LoginDTO{
		Email:     "alice@example.com",
		Password:  "hunter22",
		IPAddress: "203.0.113.7",
	})
	require.NoError(t, err)
	return result
}

func TestSignup(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, &SignupDTO{
		Email:    "alice@example.com",
		Password: "hunter22",
		LastName: "Doe",
	})
	require.NoError(t, err)
	assert.False(t, u.ID.IsZero())
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Empty(t, u.Password, "returned user must not carry the digest")

	_, err = svc.Signup(ctx, &SignupDTO{
		Email:    "alice@example.com",
		Password: "other-password",
		LastName: "Doe",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _, codec := newTestService(t)

	result := signupAndLogin(t, svc)
	assert.Empty(t, result.User.Password)
	assert.GreaterOrEqual(t, len(result.RefreshToken), 32)

	claims, err := codec.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.Hex(), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.NotEmpty(t, claims.SessionID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	signupAndLogin(t, svc)

	_, err := svc.Login(ctx, &LoginDTO{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email fails identically so callers cannot enumerate accounts.
	_, err = svc.Login(ctx, &LoginDTO{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, codec := newTestService(t)
	ctx := context.Background()
	result := signupAndLogin(t, svc)

	pair, err := svc.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, result.RefreshToken, pair.RefreshToken)

	claims, err := codec.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.Hex(), claims.UserID)

	// Replaying the consumed token must fail.
	_, err = svc.Refresh(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The rotated token keeps working.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshRejectsExpiredSession(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	result := signupAndLogin(t, svc)

	store.mu.Lock()
	for _, sess := range store.sessions {
		sess.RefreshTokenExpiresAt = time.Now().Add(-time.Minute)
	}
	store.mu.Unlock()

	_, err := svc.Refresh(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshRejectsDanglingSession(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	result := signupAndLogin(t, svc)

	store.mu.Lock()
	store.users = make(map[primitive.ObjectID]*models.User)
	store.mu.Unlock()

	_, err := svc.Refresh(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestConcurrentRefreshHasOneWinner(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	result := signupAndLogin(t, svc)

	const racers = 16
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Refresh(ctx, result.RefreshToken)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrInvalidRefreshToken)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, codec := newTestService(t)
	ctx := context.Background()
	result := signupAndLogin(t, svc)

	claims, err := codec.Verify(result.AccessToken)
	require.NoError(t, err)

	u, err := svc.ResolveSession(ctx, claims.SessionID)
	require.NoError(t, err)
	require.NotNil(t, u)

	require.NoError(t, svc.Logout(ctx, result.User, claims.SessionID))

	// Outstanding access tokens for the session stop resolving immediately.
	u, err = svc.ResolveSession(ctx, claims.SessionID)
	require.NoError(t, err)
	assert.Nil(t, u)

	// The session's refresh token dies with it.
	_, err = svc.Refresh(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// Logging out again, or with garbage ids, is a no-op.
	assert.NoError(t, svc.Logout(ctx, result.User, claims.SessionID))
	assert.NoError(t, svc.Logout(ctx, result.User, "not-an-object-id"))
}

func TestLogoutScopedToOwner(t *testing.T) {
	svc, store, codec := newTestService(t)
	ctx := context.Background()
	result := signupAndLogin(t, svc)

	claims, err := codec.Verify(result.AccessToken)
	require.NoError(t, err)

	intruder := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	require.NoError(t, svc.Logout(ctx, intruder, claims.SessionID))

	store.mu.Lock()
	remaining := len(store.sessions)
	store.mu.Unlock()
	assert.Equal(t, 1, remaining, "someone else's logout must not delete the session")
}

func TestCleanupExpiredSessions(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	signupAndLogin(t, svc)

	userID := primitive.NewObjectID()
	_, err := store.CreateSession(ctx, userID, "stale-token", time.Now().Add(-time.Hour), "")
	require.NoError(t, err)

	deleted, err := svc.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	store.mu.Lock()
	remaining := len(store.sessions)
	store.mu.Unlock()
	assert.Equal(t, 1, remaining)
}
