package middleware

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencircle/core/internal/models"
	"github.com/opencircle/core/internal/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeAuthenticator struct {
	sessions map[string]*models.User
}

func (f *fakeAuthenticator) ResolveSession(ctx context.Context, sessionID string) (*models.User, error) {
	return f.sessions[sessionID], nil
}

func newAuthFixture(t *testing.T) (*token.Codec, *fakeAuthenticator, *models.User, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	codec := token.NewCodec(key, &key.PublicKey)

	user := &models.User{
		ID:    primitive.NewObjectID(),
		Email: "alice@example.com",
		Role:  models.RoleUser,
	}
	authn := &fakeAuthenticator{sessions: map[string]*models.User{"sess-1": user}}

	signed, err := codec.Sign(user.ID.Hex(), user.Email, "sess-1", time.Minute)
	require.NoError(t, err)
	return codec, authn, user, signed
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	codec, authn, user, signed := newAuthFixture(t)

	router := gin.New()
	router.GET("/protected", Auth(codec, authn), func(c *gin.Context) {
		got := CurrentUser(c)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "sess-1", CurrentSessionID(c))
		assert.True(t, IsAuthenticated(c))
		c.Status(http.StatusOK)
	})

	t.Run("valid token", func(t *testing.T) {
		w := doRequest(router, "Bearer "+signed)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := doRequest(router, "Basic "+signed)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doRequest(router, "Bearer garbage")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := codec.Sign(user.ID.Hex(), user.Email, "sess-1", -time.Minute)
		require.NoError(t, err)
		w := doRequest(router, "Bearer "+expired)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revoked session", func(t *testing.T) {
		delete(authn.sessions, "sess-1")
		defer func() { authn.sessions["sess-1"] = user }()
		w := doRequest(router, "Bearer "+signed)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	codec, authn, user, signed := newAuthFixture(t)

	newRouter := func(roles ...models.UserRole) *gin.Engine {
		router := gin.New()
		router.GET("/protected", Auth(codec, authn), RequireRoles(roles...), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("matching role passes", func(t *testing.T) {
		w := doRequest(newRouter(models.RoleUser, models.RoleAdmin), "Bearer "+signed)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("empty list allows any authenticated user", func(t *testing.T) {
		w := doRequest(newRouter(), "Bearer "+signed)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("role mismatch forbidden", func(t *testing.T) {
		w := doRequest(newRouter(models.RoleAdmin), "Bearer "+signed)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes admin gate", func(t *testing.T) {
		user.Role = models.RoleAdmin
		defer func() { user.Role = models.RoleUser }()
		w := doRequest(newRouter(models.RoleAdmin), "Bearer "+signed)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("without auth middleware forbidden", func(t *testing.T) {
		router := gin.New()
		router.GET("/protected", RequireRoles(models.RoleUser), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		w := doRequest(router, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestExtractBearerToken(t *testing.T) {
	assert.Equal(t, "abc", ExtractBearerToken("Bearer abc"))
	assert.Equal(t, "abc", ExtractBearerToken("bearer abc"))
	assert.Equal(t, "abc", ExtractBearerToken("  Bearer   abc  "))
	assert.Empty(t, ExtractBearerToken(""))
	assert.Empty(t, ExtractBearerToken("abc"))
	assert.Empty(t, ExtractBearerToken("Basic abc"))
}
