package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/friendly-foods/backend/internal/middleware"
	"github.com/friendly-foods/backend/internal/service"
)

// ProfileHandler handles allergen profile CRUD.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler instance.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// RegisterRoutes registers the profile routes on an authenticated group.
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profiles := router.Group("/profiles")
	{
		profiles.GET("", h.List)
		profiles.POST("", h.Create)
		profiles.PUT("/:id", h.Update)
		profiles.DELETE("/:id", h.Delete)
	}
}

func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.profiles.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		log.Printf("Failed to list profiles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profiles."})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *ProfileHandler) Create(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Profile name is required."})
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Profile name is required."})
		return
	}

	profile, err := h.profiles.Create(c.Request.Context(), middleware.UserID(c), *req.Name, req.Allergens)
	if err != nil {
		log.Printf("Failed to create profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile."})
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Name, req.Allergens)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found."})
			return
		}
		log.Printf("Failed to update profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile."})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	err := h.profiles.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found."})
			return
		}
		log.Printf("Failed to delete profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete profile."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
