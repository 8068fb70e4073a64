package notification

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/opencircle/core/internal/middleware"
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
	return &Handler{svc: svc, logger: logger.Named("notification")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/notifications", authMW, middleware.RequireRoles())

	g.GET("", h.list)
	g.GET("/unread-count", h.unreadCount)
	g.PATCH("/mark-all-read", h.markAllAsRead)
	g.PATCH("/:id/read", h.markAsRead)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	var dto ListQueryDTO
	if err := c.ShouldBindQuery(&dto); err != nil {
		response.BindingFailed(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	items, pag, err := h.svc.List(c.Request.Context(), user.ID, pagination.FromContext(c), &dto)
	if err != nil {
		h.logger.Error("list notifications failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"notifications": items, "pagination": pag}, "Notifications retrieved successfully")
}

func (h *Handler) unreadCount(c *gin.Context) {
	user := middleware.CurrentUser(c)
	count, err := h.svc.UnreadCount(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("unread count failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"count": count}, "")
}

func (h *Handler) markAsRead(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Notification not found")
		return
	}

	user := middleware.CurrentUser(c)
	n, err := h.svc.MarkAsRead(c.Request.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, errNotificationNotFound) {
			response.NotFound(c, "Notification not found")
			return
		}
		h.logger.Error("mark as read failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, n, "Notification marked as read")
}

func (h *Handler) markAllAsRead(c *gin.Context) {
	user := middleware.CurrentUser(c)
	modified, err := h.svc.MarkAllAsRead(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("mark all as read failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"modifiedCount": modified}, "All notifications marked as read")
}

func (h *Handler) delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Notification not found")
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.svc.Delete(c.Request.Context(), id, user.ID); err != nil {
		if errors.Is(err, errNotificationNotFound) {
			response.NotFound(c, "Notification not found")
			return
		}
		h.logger.Error("delete notification failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, nil, "Notification deleted successfully")
}
