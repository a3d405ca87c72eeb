package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platebook/backend/internal/middleware"
	"github.com/platebook/backend/internal/models"
	"github.com/platebook/backend/internal/service"
	"github.com/platebook/backend/internal/types"
)

type UserHandler struct {
	userService    *service.UserService
	recipeService  *service.RecipeService
	storageService *service.StorageService
	subscriptions  *service.RelationManager[models.Subscription, models.User]
	authService    *service.AuthService
	logger         *zap.Logger
}

func NewUserHandler(
	userService *service.UserService,
	recipeService *service.RecipeService,
	storageService *service.StorageService,
	subscriptions *service.RelationManager[models.Subscription, models.User],
	authService *service.AuthService,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		userService:    userService,
		recipeService:  recipeService,
		storageService: storageService,
		subscriptions:  subscriptions,
		authService:    authService,
		logger:         logger,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middleware.AuthMiddleware(h.authService))
	{
		users.GET("/me", h.Me)
		users.PUT("/me/avatar", h.SetAvatar)
		users.DELETE("/me/avatar", h.DeleteAvatar)
		users.GET("/subscriptions", h.Subscriptions)
		users.POST("/:id/subscribe", h.Subscribe)
		users.DELETE("/:id/subscribe", h.Unsubscribe)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user, false))
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req types.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	avatarURL, err := h.storageService.StoreBase64Image(c.Request.Context(), req.Avatar, "avatars")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user, err := h.userService.SetAvatar(c.Request.Context(), userID, avatarURL)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": user.AvatarURL})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	if _, err := h.userService.SetAvatar(c.Request.Context(), userID, ""); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	author, err := h.subscriptions.Add(c.Request.Context(), userID, authorID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp, err := h.subscriptionResponse(c, author)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.subscriptions.Remove(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	authors, err := h.userService.Subscriptions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	results := make([]SubscriptionResponse, 0, len(authors))
	for i := range authors {
		resp, err := h.subscriptionResponse(c, &authors[i])
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		results = append(results, *resp)
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": results})
}

// subscriptionResponse builds the author block with a recipe preview capped
// by the recipes_limit query parameter.
func (h *UserHandler) subscriptionResponse(c *gin.Context, author *models.User) (*SubscriptionResponse, error) {
	limit := 0
	if v := c.Query("recipes_limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	recipes, err := h.recipeService.ListByAuthor(c.Request.Context(), author.ID, limit)
	if err != nil {
		return nil, err
	}
	count, err := h.recipeService.CountByAuthor(c.Request.Context(), author.ID)
	if err != nil {
		return nil, err
	}

	short := make([]ShortRecipeResponse, 0, len(recipes))
	for i := range recipes {
		short = append(short, shortRecipeResponse(&recipes[i]))
	}

	return &SubscriptionResponse{
		UserResponse: userResponse(author, true),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}
