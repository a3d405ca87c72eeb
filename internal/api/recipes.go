package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platebook/backend/config"
	"github.com/platebook/backend/internal/export"
	"github.com/platebook/backend/internal/middleware"
	"github.com/platebook/backend/internal/models"
	"github.com/platebook/backend/internal/service"
	"github.com/platebook/backend/internal/types"
)

type RecipeHandler struct {
	cfg            *config.Config
	recipeService  *service.RecipeService
	shoppingList   *service.ShoppingListService
	shortLinks     *service.ShortLinkService
	storageService *service.StorageService
	favorites      *service.RelationManager[models.Favorite, models.Recipe]
	cart           *service.RelationManager[models.CartItem, models.Recipe]
	subscriptions  *service.RelationManager[models.Subscription, models.User]
	authService    *service.AuthService
	logger         *zap.Logger
}

func NewRecipeHandler(
	cfg *config.Config,
	recipeService *service.RecipeService,
	shoppingList *service.ShoppingListService,
	shortLinks *service.ShortLinkService,
	storageService *service.StorageService,
	favorites *service.RelationManager[models.Favorite, models.Recipe],
	cart *service.RelationManager[models.CartItem, models.Recipe],
	subscriptions *service.RelationManager[models.Subscription, models.User],
	authService *service.AuthService,
	logger *zap.Logger,
) *RecipeHandler {
	return &RecipeHandler{
		cfg:            cfg,
		recipeService:  recipeService,
		shoppingList:   shoppingList,
		shortLinks:     shortLinks,
		storageService: storageService,
		favorites:      favorites,
		cart:           cart,
		subscriptions:  subscriptions,
		authService:    authService,
		logger:         logger,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListRecipes)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(h.authService), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetRecipe)
		recipes.GET("/:id/get-link", h.GetLink)
		recipes.POST("", middleware.AuthMiddleware(h.authService), h.CreateRecipe)
		recipes.PATCH("/:id", middleware.AuthMiddleware(h.authService), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.authService), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.AuthMiddleware(h.authService), h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(h.authService), h.UnfavoriteRecipe)
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(h.authService), h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(h.authService), h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := service.RecipeFilter{}

	for _, raw := range c.QueryArray("tags") {
		for _, slug := range strings.Split(raw, ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				filter.TagSlugs = append(filter.TagSlugs, slug)
			}
		}
	}

	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &id
	}

	// User-scoped predicates are deliberate no-ops for anonymous callers so
	// anonymous browsing still works.
	userID, authenticated := middleware.CurrentUserID(c)
	if authenticated {
		if boolQuery(c, "is_favorited") {
			filter.FavoritedBy = &userID
		}
		if boolQuery(c, "is_in_shopping_cart") {
			filter.InCartOf = &userID
		}
	}

	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	recipes, err := h.recipeService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses, err := h.recipeResponses(c, recipes, userID, authenticated)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": responses, "count": len(responses)})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	userID, authenticated := middleware.CurrentUserID(c)
	responses, err := h.recipeResponses(c, []models.Recipe{*recipe}, userID, authenticated)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, responses[0])
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imageURL, err := h.storageService.StoreBase64Image(c.Request.Context(), req.Image, "recipes")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), userID, &req, imageURL)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses, err := h.recipeResponses(c, []models.Recipe{*recipe}, userID, true)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, responses[0])
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imageURL, err := h.storageService.StoreBase64Image(c.Request.Context(), req.Image, "recipes")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), id, userID, &req, imageURL)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses, err := h.recipeResponses(c, []models.Recipe{*recipe}, userID, true)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, responses[0])
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.addRelation(c, h.favorites)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.removeRelation(c, h.favorites)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, h.cart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, h.cart)
}

// recipeRelation is the slice of the relation manager the favorite and cart
// endpoints need; both managers target recipes, so one handler serves both.
type recipeRelation interface {
	Add(ctx context.Context, ownerID, targetID uuid.UUID) (*models.Recipe, error)
	Remove(ctx context.Context, ownerID, targetID uuid.UUID) error
}

func (h *RecipeHandler) addRelation(c *gin.Context, manager recipeRelation) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := manager.Add(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, shortRecipeResponse(recipe))
}

func (h *RecipeHandler) removeRelation(c *gin.Context, manager recipeRelation) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := manager.Remove(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart aggregates the caller's cart into a shopping list and
// streams it as a text or PDF attachment. A broken rendering asset aborts the
// export; there is no degraded fallback.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	items, err := h.shoppingList.Aggregate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	rows := make([]export.Item, 0, len(items))
	for _, item := range items {
		rows = append(rows, export.Item{Name: item.Name, Unit: item.Unit, Amount: item.Amount})
	}

	if c.Query("format") == "txt" {
		c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(export.Text(rows)))
		return
	}

	pdfData, err := export.PDF(rows, export.PDFOptions{
		BrandingLink: h.cfg.BrandingLink,
		FontPath:     h.cfg.FontPath,
		LogoPath:     h.cfg.LogoPath,
	})
	if err != nil {
		h.logger.Error("shopping list export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render shopping list"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfData)
}

// GetLink returns a short link for the recipe's page, creating one if
// needed.
func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if _, err := h.recipeService.Get(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	link, err := h.shortLinks.Create(c.Request.Context(), h.cfg.BaseURL+"/recipes/"+id.String())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"short-link": h.cfg.BaseURL + "/s/" + link.Hash})
}

// recipeResponses decorates recipes with the caller-dependent flags using
// one bulk lookup per relation instead of one query per row.
func (h *RecipeHandler) recipeResponses(c *gin.Context, recipes []models.Recipe, userID uuid.UUID, authenticated bool) ([]RecipeResponse, error) {
	ids := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for i := range recipes {
		ids = append(ids, recipes[i].ID)
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	var favorited, inCart, subscribed map[uuid.UUID]bool
	if authenticated {
		var err error
		if favorited, err = h.favorites.LinkedTargets(c.Request.Context(), userID, ids); err != nil {
			return nil, err
		}
		if inCart, err = h.cart.LinkedTargets(c.Request.Context(), userID, ids); err != nil {
			return nil, err
		}
		if subscribed, err = h.subscriptions.LinkedTargets(c.Request.Context(), userID, authorIDs); err != nil {
			return nil, err
		}
	}

	responses := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		responses = append(responses, recipeResponse(r, subscribed[r.AuthorID], favorited[r.ID], inCart[r.ID]))
	}
	return responses, nil
}

func boolQuery(c *gin.Context, name string) bool {
	v := strings.ToLower(c.Query(name))
	return v == "1" || v == "true"
}
