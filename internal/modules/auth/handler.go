package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/opencircle/core/internal/middleware"
	"github.com/opencircle/core/internal/models"
	"github.com/opencircle/core/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.Named("auth")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")

	a.POST("/signup", h.signup)
	a.POST("/login", h.login)
	a.POST("/logout", authMW, middleware.RequireRoles(models.RoleUser, models.RoleAdmin), h.logout)
	a.POST("/refresh", h.refresh)
}

func (h *Handler) signup(c *gin.Context) {
	var dto SignupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindingFailed(c, err)
		return
	}

	u, err := h.svc.Signup(c.Request.Context(), &dto)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			response.BadRequest(c, "Already signed up. Please login to continue")
			return
		}
		h.logger.Error("signup failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, u, "Signup successfull")
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindingFailed(c, err)
		return
	}
	if dto.IPAddress == "" {
		dto.IPAddress = c.ClientIP()
	}

	result, err := h.svc.Login(c.Request.Context(), &dto)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(c)
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, result, "Login successfull")
}

func (h *Handler) logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sid := middleware.CurrentSessionID(c)

	if err := h.svc.Logout(c.Request.Context(), user, sid); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, nil, "Logout successfull")
}

func (h *Handler) refresh(c *gin.Context) {
	var dto RefreshTokenDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindingFailed(c, err)
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), dto.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			response.Unauthorized(c)
			return
		}
		h.logger.Error("refresh failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, pair, "Token refreshed successfully")
}
