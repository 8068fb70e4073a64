package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newRateLimitRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	router := gin.New()
	router.Use(RateLimit(rdb))
	router.POST("/login", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func hammer(router *gin.Engine, ip, authHeader string, n int) []int {
	codes := make([]int, 0, n)
	for i := 0; i < n; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = ip + ":12345"
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	return codes
}

func TestRateLimitBlocksAfterWindowMax(t *testing.T) {
	router := newRateLimitRouter(t)

	codes := hammer(router, "203.0.113.7", "", rateLimitMax+1)
	for i := 0; i < rateLimitMax; i++ {
		assert.Equal(t, http.StatusOK, codes[i], "request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, codes[rateLimitMax])
}

func TestRateLimitCountsBearerRequests(t *testing.T) {
	router := newRateLimitRouter(t)

	// A made-up bearer token must not exempt the client from the window.
	codes := hammer(router, "203.0.113.7", "Bearer junk", rateLimitMax+1)
	assert.Equal(t, http.StatusTooManyRequests, codes[rateLimitMax])
}

func TestRateLimitIsPerIP(t *testing.T) {
	router := newRateLimitRouter(t)

	hammer(router, "203.0.113.7", "", rateLimitMax+1)

	codes := hammer(router, "198.51.100.9", "", 1)
	assert.Equal(t, http.StatusOK, codes[0])
}
