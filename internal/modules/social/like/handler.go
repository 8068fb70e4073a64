package like

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/opencircle/core/internal/middleware"
	"github.com/opencircle/core/internal/models"
	"github.com/opencircle/core/internal/pkg/response"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.Named("like")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	grp := rg.Group("/like", authMW, middleware.RequireRoles(models.RoleUser, models.RoleAdmin))
	grp.POST("/post", h.likePost)
	grp.DELETE("/post/:postId", h.unlikePost)
	grp.POST("/comment", h.likeComment)
	grp.DELETE("/comment/:commentId", h.unlikeComment)
}

func (h *Handler) likePost(c *gin.Context) {
	var dto LikePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindingFailed(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.svc.LikePost(c.Request.Context(), user.ID, &dto); err != nil {
		switch {
		case errors.Is(err, errPostNotFound):
			response.NotFound(c, "Post not found")
		case errors.Is(err, errAlreadyLiked):
			response.BadRequest(c, "You have already liked this post")
		default:
			h.logger.Error("like post failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.Created(c, nil, "Post liked successfully")
}

func (h *Handler) unlikePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		response.NotFound(c, "Post not found")
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.svc.UnlikePost(c.Request.Context(), user.ID, postID); err != nil {
		switch {
		case errors.Is(err, errNotLiked):
			response.BadRequest(c, "You have not liked this post")
		default:
			h.logger.Error("unlike post failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil, "Post unliked successfully")
}

func (h *Handler) likeComment(c *gin.Context) {
	var dto LikeCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindingFailed(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.svc.LikeComment(c.Request.Context(), user.ID, &dto); err != nil {
		switch {
		case errors.Is(err, errCommentNotFound):
			response.NotFound(c, "Comment not found")
		case errors.Is(err, errAlreadyLiked):
			response.BadRequest(c, "You have already liked this comment")
		default:
			h.logger.Error("like comment failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.Created(c, nil, "Comment liked successfully")
}

func (h *Handler) unlikeComment(c *gin.Context) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		response.NotFound(c, "Comment not found")
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.svc.UnlikeComment(c.Request.Context(), user.ID, commentID); err != nil {
		switch {
		case errors.Is(err, errNotLiked):
			response.BadRequest(c, "You have not liked this comment")
		default:
			h.logger.Error("unlike comment failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil, "Comment unliked successfully")
}
