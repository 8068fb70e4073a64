package post

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
	return &Handler{svc: svc, logger: logger.Named("post")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/post")
	roleMW := middleware.RequireRoles(models.RoleUser, models.RoleAdmin)

	g.POST("", authMW, roleMW, h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PATCH("/:id", authMW, roleMW, h.update)
	g.DELETE("/:id", authMW, roleMW, h.remove)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindingFailed(c, err)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), &dto, middleware.CurrentUser(c))
	if err != nil {
		h.logger.Error("create post failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.Created(c, p, "Post created successfully")
}

func (h *Handler) list(c *gin.Context) {
	var author *primitive.ObjectID
	if raw := c.Query("author"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			response.BadRequest(c, "Invalid author id")
			return
		}
		author = &id
	}

	posts, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), author)
	if err != nil {
		h.logger.Error("list posts failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"results": posts, "pagination": pag}, "Posts retrieved successfully")
}

func (h *Handler) get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Post not found")
		return
	}

	p, err := h.svc.FindOne(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errPostNotFound) {
			response.NotFound(c, "Post not found")
			return
		}
		h.logger.Error("get post failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, p, "Post retrieved successfully")
}

func (h *Handler) update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Post not found")
		return
	}

	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindingFailed(c, err)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, &dto, middleware.CurrentUser(c))
	if err != nil {
		switch {
		case errors.Is(err, errPostNotFound):
			response.NotFound(c, "Post not found")
		case errors.Is(err, errNotPostOwner):
			response.Forbidden(c, "You can only update your own posts")
		default:
			h.logger.Error("update post failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, p, "Post updated successfully")
}

func (h *Handler) remove(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Post not found")
		return
	}

	if err := h.svc.Remove(c.Request.Context(), id, middleware.CurrentUser(c)); err != nil {
		switch {
		case errors.Is(err, errPostNotFound):
			response.NotFound(c, "Post not found")
		case errors.Is(err, errNotPostOwner):
			response.Forbidden(c, "You can only delete your own posts")
		default:
			h.logger.Error("delete post failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil, "Post deleted successfully")
}
