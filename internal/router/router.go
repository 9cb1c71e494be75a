package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/friendly-foods/backend/internal/api"
	"github.com/friendly-foods/backend/internal/middleware"
)

// Options carries the handlers and cross-cutting pieces the router wires
// together.
type Options struct {
	Auth         *api.AuthHandler
	Profiles     *api.ProfileHandler
	SavedRecipes *api.SavedRecipeHandler
	Recipes      *api.RecipeHandler
	Admin        *api.AdminHandler

	TokenValidator middleware.TokenValidator
	AdminToken     string
	// RateLimiter is optional; when nil the recipe endpoint is unthrottled.
	RateLimiter *middleware.RateLimiter
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	root := router.Group("/api")

	opts.Auth.RegisterRoutes(root)

	protected := root.Group("")
	protected.Use(middleware.AuthMiddleware(opts.TokenValidator))
	{
		opts.Profiles.RegisterRoutes(protected)
		opts.SavedRecipes.RegisterRoutes(protected)
	}

	// Generation is open like the rest of the public surface, but rate
	// limited when a limiter is configured since it drives paid calls.
	recipe := root.Group("")
	if opts.RateLimiter != nil {
		recipe.Use(opts.RateLimiter.Middleware())
	}
	recipe.POST("/recipe", opts.Recipes.Generate)

	admin := root.Group("/admin")
	admin.Use(middleware.AdminAuth(opts.AdminToken))
	admin.GET("/stats", opts.Admin.Stats)

	return router
}
