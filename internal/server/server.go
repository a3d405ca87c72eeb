package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/platebook/backend/config"
	"github.com/platebook/backend/internal/api"
	"github.com/platebook/backend/internal/middleware"
	"github.com/platebook/backend/internal/service"
)

// Server wires services and handlers onto a gin engine and owns the HTTP
// listener.
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New builds the full application: services, handlers and routes.
func New(cfg *config.Config, db *gorm.DB, cache *redis.Client, s3cfg *config.S3Config, logger *zap.Logger) *Server {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	authService := service.NewAuthService(db, cfg.JWTSecret)
	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db)
	catalogService := service.NewCatalogService(db)
	shoppingService := service.NewShoppingListService(db)
	shortLinkService := service.NewShortLinkService(db, cache, logger)
	storageService := service.NewStorageService(s3cfg)

	favorites := service.NewFavoriteManager(db)
	cart := service.NewCartManager(db)
	subscriptions := service.NewSubscriptionManager(db)

	authHandler := api.NewAuthHandler(authService, storageService, logger)
	userHandler := api.NewUserHandler(userService, recipeService, storageService, subscriptions, authService, logger)
	recipeHandler := api.NewRecipeHandler(cfg, recipeService, shoppingService, shortLinkService, storageService, favorites, cart, subscriptions, authService, logger)
	catalogHandler := api.NewCatalogHandler(catalogService, logger)
	linkHandler := api.NewShortLinkHandler(cfg, shortLinkService, logger)

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)
	catalogHandler.RegisterRoutes(v1)
	linkHandler.RegisterRoutes(v1)
	linkHandler.RegisterRedirect(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: router,
		},
		logger: logger,
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start blocks serving HTTP until the listener fails or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
