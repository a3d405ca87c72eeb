package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platebook/backend/internal/service"
	"github.com/platebook/backend/internal/types"
)

type AuthHandler struct {
	authService    *service.AuthService
	storageService *service.StorageService
	logger         *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, storageService *service.StorageService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		storageService: storageService,
		logger:         logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	avatarURL, err := h.storageService.StoreBase64Image(c.Request.Context(), req.Avatar, "avatars")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user, token, err := h.authService.Register(&req, avatarURL)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  userResponse(user, false),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(user, false),
	})
}
