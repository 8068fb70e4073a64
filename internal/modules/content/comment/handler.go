package comment

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
	return &Handler{svc: svc, logger: logger.Named("comment")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	grp := rg.Group("/comment")
	grp.GET("/post/:postId", h.listByPost)
	grp.GET("/:id", h.get)

	authed := grp.Group("", authMW, middleware.RequireRoles(models.RoleUser, models.RoleAdmin))
	authed.POST("", h.create)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.remove)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindingFailed(c, err)
		return
	}

	cm, err := h.svc.Create(c.Request.Context(), &dto, middleware.CurrentUser(c))
	if err != nil {
		if errors.Is(err, errPostNotFound) {
			response.NotFound(c, "Post not found")
			return
		}
		h.logger.Error("create comment failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.Created(c, cm, "Comment created successfully")
}

func (h *Handler) listByPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		response.NotFound(c, "Post not found")
		return
	}

	comments, err := h.svc.FindByPost(c.Request.Context(), postID)
	if err != nil {
		h.logger.Error("list comments failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"comments": comments}, "Comments retrieved successfully")
}

func (h *Handler) get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Comment not found")
		return
	}

	cm, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errCommentNotFound) {
			response.NotFound(c, "Comment not found")
			return
		}
		h.logger.Error("get comment failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, cm, "Comment retrieved successfully")
}

func (h *Handler) update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Comment not found")
		return
	}

	var dto UpdateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindingFailed(c, err)
		return
	}

	cm, err := h.svc.Update(c.Request.Context(), id, &dto, middleware.CurrentUser(c))
	if err != nil {
		switch {
		case errors.Is(err, errCommentNotFound):
			response.NotFound(c, "Comment not found")
		case errors.Is(err, errNotCommentOwner):
			response.Forbidden(c, "You can only update your own comments")
		default:
			h.logger.Error("update comment failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, cm, "Comment updated successfully")
}

func (h *Handler) remove(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Comment not found")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, middleware.CurrentUser(c)); err != nil {
		switch {
		case errors.Is(err, errCommentNotFound):
			response.NotFound(c, "Comment not found")
		case errors.Is(err, errNotCommentOwner):
			response.Forbidden(c, "You can only delete your own comments")
		default:
			h.logger.Error("delete comment failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil, "Comment deleted successfully")
}
