package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/opencircle/core/internal/models"
	"github.com/opencircle/core/internal/pkg/response"
	"github.com/opencircle/core/internal/pkg/token"
)

const (
	ContextKeyUser = "auth_user"
	ContextKeySID  = "auth_session_id"
)

// Authenticator resolves a verified token's session id to the owning user.
// A (nil, nil) result means the session does not exist anymore.
type Authenticator interface {
	ResolveSession(ctx context.Context, sessionID string) (*models.User, error)
}

// Auth returns a middleware that enforces bearer-token authentication.
// The session referenced by the token claims is re-checked on every request,
// so deleting a session immediately revokes all access tokens minted for it.
func Auth(codec *token.Codec, authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := ExtractBearerToken(c.GetHeader("Authorization"))
		if bearer == "" {
			response.Unauthorized(c)
			return
		}

		claims, err := codec.Verify(bearer)
		if err != nil {
			response.Unauthorized(c)
			return
		}

		user, err := authn.ResolveSession(c.Request.Context(), claims.SessionID)
		if err != nil {
			response.InternalError(c)
			return
		}
		if user == nil {
			response.Unauthorized(c)
			return
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeySID, claims.SessionID)
		c.Next()
	}
}

// RequireRoles gates a route behind a role allow-list. An empty list permits
// any authenticated user; otherwise the resolved user's role must be listed.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Forbidden(c, "")
			return
		}
		if len(roles) == 0 {
			c.Next()
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "")
	}
}

// CurrentUser extracts the authenticated user from the request context.
func CurrentUser(c *gin.Context) *models.User {
	v, _ := c.Get(ContextKeyUser)
	u, _ := v.(*models.User)
	return u
}

// CurrentSessionID extracts the authenticated session id.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated reports whether the request carries a resolved user.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUser(c) != nil
}

// ExtractBearerToken strips the Bearer scheme from an Authorization header.
func ExtractBearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
