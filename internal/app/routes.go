package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencircle/core/internal/middleware"
	"github.com/opencircle/core/internal/modules/auth"
	"github.com/opencircle/core/internal/modules/content/comment"
	"github.com/opencircle/core/internal/modules/content/post"
	"github.com/opencircle/core/internal/modules/notification"
	"github.com/opencircle/core/internal/modules/social/follow"
	"github.com/opencircle/core/internal/modules/social/like"
	"github.com/opencircle/core/internal/pkg/response"
	"github.com/opencircle/core/internal/pkg/token"
)

func (a *App) registerRoutes(codec *token.Codec) {
	r := a.router
	authMW := middleware.Auth(codec, a.authSvc)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "")
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.Use(middleware.RateLimit(a.rc.Raw()))

	api := r.Group("/api/v1")

	api.GET("/health", func(c *gin.Context) {
		status := "ok"
		if err := a.db.Ping(c.Request.Context()); err != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status": status,
			"uptime": time.Since(processStart).Truncate(time.Second).String(),
			"jobs":   a.sched.List(),
		})
	})

	// Auth
	auth.NewHandler(a.authSvc, a.logger).RegisterRoutes(api, authMW)

	// Content
	notifySvc := notification.NewService(a.db)
	postSvc := post.NewService(a.db)
	post.NewHandler(postSvc, a.logger).RegisterRoutes(api, authMW)
	commentSvc := comment.NewService(a.db, notifySvc, a.logger)
	comment.NewHandler(commentSvc, a.logger).RegisterRoutes(api, authMW)

	// Social
	likeSvc := like.NewService(a.db, notifySvc, a.logger)
	like.NewHandler(likeSvc, a.logger).RegisterRoutes(api, authMW)
	followSvc := follow.NewService(a.db, postSvc, notifySvc, a.logger)
	follow.NewHandler(followSvc, a.logger).RegisterRoutes(api, authMW)

	// Notifications
	notification.NewHandler(notifySvc, a.logger).RegisterRoutes(api, authMW)
}
