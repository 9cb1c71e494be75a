package models

import "time"

// Document is the whole application state as persisted by the document
// store. It is always read and written as a single unit.
type Document struct {
	Users        []User        `json:"users"`
	Profiles     []Profile     `json:"profiles"`
	SavedRecipes []SavedRecipe `json:"savedRecipes"`
	RecipeCache  []CacheEntry  `json:"recipeCache"`
	Stats        Stats         `json:"stats"`
}

// NewDocument returns an empty document with all collections initialized.
func NewDocument() *Document {
	return &Document{
		Users:        []User{},
		Profiles:     []Profile{},
		SavedRecipes: []SavedRecipe{},
		RecipeCache:  []CacheEntry{},
	}
}

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is a named allergen profile belonging to a user.
type Profile struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Name      string     `json:"name"`
	Allergens []string   `json:"allergens"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// SavedRecipe is a recipe a user chose to keep.
type SavedRecipe struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Title     string     `json:"title"`
	SavedAt   time.Time  `json:"savedAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Recipe    Recipe     `json:"recipe"`
}

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Amount string `json:"amount"`
	Item   string `json:"item"`
}

// Substitution records one allergen-driven ingredient swap.
type Substitution struct {
	Original   string `json:"original"`
	Substitute string `json:"substitute"`
	Reason     string `json:"reason"`
}

// Recipe is the structured recipe document returned by the model.
type Recipe struct {
	Title         string         `json:"title"`
	Servings      string         `json:"servings"`
	PrepTime      string         `json:"prepTime"`
	CookTime      string         `json:"cookTime"`
	Ingredients   []Ingredient   `json:"ingredients"`
	Instructions  []string       `json:"instructions"`
	Substitutions []Substitution `json:"substitutions"`
	AllergenNote  string         `json:"allergenNote"`
}

// CacheEntry maps a normalized cache key to a previously generated recipe
// plus usage metadata. At most one entry exists per cache key.
type CacheEntry struct {
	ID        string    `json:"id"`
	CacheKey  string    `json:"cacheKey"`
	Meal      string    `json:"meal"`
	Allergens []string  `json:"allergens"`
	Recipe    Recipe    `json:"recipe"`
	HitCount  int       `json:"hitCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Stats holds the global usage counters. Both values only ever grow.
type Stats struct {
	APICalls  int `json:"apiCalls"`
	CacheHits int `json:"cacheHits"`
}
