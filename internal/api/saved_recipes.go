package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/friendly-foods/backend/internal/middleware"
	"github.com/friendly-foods/backend/internal/models"
	"github.com/friendly-foods/backend/internal/service"
)

// SavedRecipeHandler handles saved-recipe CRUD.
type SavedRecipeHandler struct {
	saved *service.SavedRecipeService
}

// NewSavedRecipeHandler creates a new SavedRecipeHandler instance.
func NewSavedRecipeHandler(saved *service.SavedRecipeService) *SavedRecipeHandler {
	return &SavedRecipeHandler{saved: saved}
}

// RegisterRoutes registers the saved-recipe routes on an authenticated
// group.
func (h *SavedRecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/saved-recipes")
	{
		recipes.GET("", h.List)
		recipes.POST("", h.Create)
		recipes.PUT("/:id", h.Rename)
		recipes.DELETE("/:id", h.Delete)
	}
}

// toResponse strips the owner from a saved recipe before sending.
func toResponse(r models.SavedRecipe) SavedRecipeResponse {
	return SavedRecipeResponse{
		ID:        r.ID,
		Title:     r.Title,
		SavedAt:   r.SavedAt,
		UpdatedAt: r.UpdatedAt,
		Recipe:    r.Recipe,
	}
}

func (h *SavedRecipeHandler) List(c *gin.Context) {
	recipes, err := h.saved.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		log.Printf("Failed to list saved recipes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load saved recipes."})
		return
	}

	out := make([]SavedRecipeResponse, len(recipes))
	for i, r := range recipes {
		out[i] = toResponse(r)
	}
	c.JSON(http.StatusOK, out)
}

func (h *SavedRecipeHandler) Create(c *gin.Context) {
	var req SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required."})
		return
	}
	if req.Recipe == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe data is required."})
		return
	}

	entry, err := h.saved.Create(c.Request.Context(), middleware.UserID(c), req.Title, *req.Recipe)
	if err != nil {
		log.Printf("Failed to save recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recipe."})
		return
	}
	c.JSON(http.StatusCreated, toResponse(*entry))
}

func (h *SavedRecipeHandler) Rename(c *gin.Context) {
	var req RenameRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required."})
		return
	}

	entry, err := h.saved.Rename(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Title)
	if err != nil {
		if errors.Is(err, service.ErrSavedRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Saved recipe not found."})
			return
		}
		log.Printf("Failed to rename saved recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update saved recipe."})
		return
	}
	c.JSON(http.StatusOK, toResponse(*entry))
}

func (h *SavedRecipeHandler) Delete(c *gin.Context) {
	err := h.saved.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSavedRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Saved recipe not found."})
			return
		}
		log.Printf("Failed to delete saved recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete saved recipe."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
