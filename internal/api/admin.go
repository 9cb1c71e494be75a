package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/friendly-foods/backend/internal/service"
)

// AdminHandler serves the privileged reporting endpoints.
type AdminHandler struct {
	cache *service.CacheService
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(cache *service.CacheService) *AdminHandler {
	return &AdminHandler{cache: cache}
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	report, err := h.cache.Stats(c.Request.Context())
	if err != nil {
		log.Printf("Failed to build stats report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats."})
		return
	}
	c.JSON(http.StatusOK, report)
}
