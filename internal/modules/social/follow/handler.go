package follow

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/opencircle/core/internal/middleware"
	"github.com/opencircle/core/internal/models"
	"github.com/opencircle/core/internal/pkg/pagination"
	"github.com/opencircle/core/internal/pkg/response"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.Named("follow")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	grp := rg.Group("/follow", authMW, middleware.RequireRoles(models.RoleUser, models.RoleAdmin))
	grp.POST("", h.follow)
	grp.DELETE("/:userId", h.unfollow)
	grp.GET("/feed", h.feed)
}

func (h *Handler) follow(c *gin.Context) {
	var dto FollowDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindingFailed(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.svc.Follow(c.Request.Context(), user.ID, &dto); err != nil {
		switch {
		case errors.Is(err, errSelfFollow):
			response.BadRequest(c, "You cannot follow yourself")
		case errors.Is(err, errUserNotFound):
			response.NotFound(c, "User not found")
		case errors.Is(err, errAlreadyFollowing):
			response.BadRequest(c, "You are already following this user")
		default:
			h.logger.Error("follow failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.Created(c, nil, "Followed successfully")
}

func (h *Handler) unfollow(c *gin.Context) {
	followingID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.svc.Unfollow(c.Request.Context(), user.ID, followingID); err != nil {
		switch {
		case errors.Is(err, errNotFollowing):
			response.BadRequest(c, "You are not following this user")
		default:
			h.logger.Error("unfollow failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil, "Unfollowed successfully")
}

func (h *Handler) feed(c *gin.Context) {
	user := middleware.CurrentUser(c)
	q := pagination.FromContext(c)

	posts, pag, err := h.svc.Feed(c.Request.Context(), user.ID, q)
	if err != nil {
		h.logger.Error("feed failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"results": posts, "pagination": pag}, "Feed retrieved successfully")
}
