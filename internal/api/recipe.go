package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/friendly-foods/backend/internal/service"
)

// RecipeHandler serves recipe generation. The streaming event protocol is
// the primary path; a buffered JSON body is offered as a compatibility
// adapter over the same pipeline.
type RecipeHandler struct {
	recipes *service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler instance.
func NewRecipeHandler(recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// Generate handles POST /api/recipe.
func (h *RecipeHandler) Generate(c *gin.Context) {
	var req GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	if strings.TrimSpace(req.Meal) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Meal name is required."})
		return
	}

	svcReq := service.GenerateRequest{
		Meal:      req.Meal,
		AvoidList: req.AvoidList,
		Force:     req.Force,
	}

	if wantsStream(c, req) {
		h.generateStream(c, svcReq)
		return
	}
	h.generateBuffered(c, svcReq)
}

// wantsStream decides between the event stream and the buffered body. An
// explicit stream field wins; otherwise clients opt in via Accept.
func wantsStream(c *gin.Context, req GenerateRecipeRequest) bool {
	if req.Stream != nil {
		return *req.Stream
	}
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

// generateBuffered runs the pipeline without a chunk sink and returns the
// terminal payload as a single JSON body.
func (h *RecipeHandler) generateBuffered(c *gin.Context, req service.GenerateRequest) {
	result, err := h.recipes.Generate(c.Request.Context(), req, nil)
	if err != nil {
		status, msg := generationError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, RecipeResponse{Recipe: result.Recipe, FromCache: result.FromCache})
}

// generateStream runs the pipeline while relaying events to the client.
// Each event is one `data: <json>` payload terminated by a blank line and
// flushed immediately. Exactly one terminal event (done or error) ends the
// stream; once the stream is open, every failure still produces one.
func (h *RecipeHandler) generateStream(c *gin.Context, req service.GenerateRequest) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	emit := func(payload interface{}) {
		// The client may have disconnected mid-generation; suppress
		// writes after close instead of erroring.
		if ctx.Err() != nil {
			return
		}
		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("Failed to encode stream event: %v", err)
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		c.Writer.Flush()
	}

	result, err := h.recipes.Generate(ctx, req, func(text string) {
		emit(gin.H{"chunk": text})
	})
	if err != nil {
		_, msg := generationError(err)
		emit(gin.H{"error": msg})
		return
	}

	emit(DoneEvent{Done: true, Recipe: result.Recipe, FromCache: result.FromCache})
}

// generationError maps pipeline failures to an HTTP status and a
// user-facing message. Parse failures get a fixed retry message, never the
// raw error; provider failures surface the upstream status and message.
func generationError(err error) (int, string) {
	var pe *service.ProviderError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "Meal name is required."
	case errors.Is(err, service.ErrMalformedRecipe):
		log.Printf("Failed to parse model response: %v", err)
		return http.StatusInternalServerError, "Received an unexpected response format. Please try again."
	case errors.As(err, &pe):
		log.Printf("Provider error: %v", err)
		status := pe.Status
		if status < 400 {
			status = http.StatusInternalServerError
		}
		msg := pe.Message
		if msg == "" {
			msg = "Failed to generate recipe. Please try again."
		}
		return status, msg
	default:
		log.Printf("Recipe generation failed: %v", err)
		return http.StatusInternalServerError, "Failed to generate recipe. Please try again."
	}
}
