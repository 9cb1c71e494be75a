package api

import (
	"time"

	"github.com/friendly-foods/backend/internal/models"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ProfileRequest is the body of profile create/update calls. Pointer
// fields distinguish "absent" from "empty" on update.
type ProfileRequest struct {
	Name      *string  `json:"name"`
	Allergens []string `json:"allergens"`
}

// SaveRecipeRequest is the body of POST /api/saved-recipes.
type SaveRecipeRequest struct {
	Title  string         `json:"title"`
	Recipe *models.Recipe `json:"recipe"`
}

// RenameRecipeRequest is the body of PUT /api/saved-recipes/:id.
type RenameRecipeRequest struct {
	Title string `json:"title"`
}

// SavedRecipeResponse is a saved recipe with the owner stripped.
type SavedRecipeResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	SavedAt   time.Time     `json:"savedAt"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty"`
	Recipe    models.Recipe `json:"recipe"`
}

// GenerateRecipeRequest is the body of POST /api/recipe.
type GenerateRecipeRequest struct {
	Meal      string   `json:"meal"`
	AvoidList []string `json:"avoidList"`
	Force     bool     `json:"force"`
	// Stream overrides content negotiation: true forces the event stream,
	// false forces the buffered JSON body.
	Stream *bool `json:"stream"`
}

// RecipeResponse is the buffered (non-streaming) generation response: the
// recipe fields flattened alongside the cache marker.
type RecipeResponse struct {
	models.Recipe
	FromCache bool `json:"_fromCache"`
}

// DoneEvent is the terminal success event on a generation stream.
type DoneEvent struct {
	Done      bool          `json:"done"`
	Recipe    models.Recipe `json:"recipe"`
	FromCache bool          `json:"_fromCache"`
}
