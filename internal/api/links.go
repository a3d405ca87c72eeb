package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platebook/backend/config"
	"github.com/platebook/backend/internal/service"
	"github.com/platebook/backend/internal/types"
)

type ShortLinkHandler struct {
	cfg        *config.Config
	shortLinks *service.ShortLinkService
	logger     *zap.Logger
}

func NewShortLinkHandler(cfg *config.Config, shortLinks *service.ShortLinkService, logger *zap.Logger) *ShortLinkHandler {
	return &ShortLinkHandler{cfg: cfg, shortLinks: shortLinks, logger: logger}
}

// RegisterRoutes registers the creation endpoint under the API group. The
// redirect lives at the engine root, outside /api/v1.
func (h *ShortLinkHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/links", h.CreateLink)
}

func (h *ShortLinkHandler) RegisterRedirect(engine *gin.Engine) {
	engine.GET("/s/:hash", h.Redirect)
}

func (h *ShortLinkHandler) CreateLink(c *gin.Context) {
	var req types.ShortLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.shortLinks.Create(c.Request.Context(), req.OriginalURL)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"short-link": h.cfg.BaseURL + "/s/" + link.Hash})
}

func (h *ShortLinkHandler) Redirect(c *gin.Context) {
	originalURL, err := h.shortLinks.Resolve(c.Request.Context(), c.Param("hash"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Redirect(http.StatusFound, originalURL)
}
