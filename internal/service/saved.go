package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/friendly-foods/backend/internal/models"
	"github.com/friendly-foods/backend/internal/store"
)

var ErrSavedRecipeNotFound = errors.New("saved recipe not found")

// SavedRecipeService manages recipes a user has saved.
type SavedRecipeService struct {
	store store.DocumentStore
}

func NewSavedRecipeService(s store.DocumentStore) *SavedRecipeService {
	return &SavedRecipeService{store: s}
}

// List returns the saved recipes belonging to userID.
func (s *SavedRecipeService) List(ctx context.Context, userID string) ([]models.SavedRecipe, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	recipes := []models.SavedRecipe{}
	for _, r := range doc.SavedRecipes {
		if r.UserID == userID {
			recipes = append(recipes, r)
		}
	}
	return recipes, nil
}

// Create saves a recipe under the given title for userID.
func (s *SavedRecipeService) Create(ctx context.Context, userID, title string, recipe models.Recipe) (*models.SavedRecipe, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	entry := models.SavedRecipe{
		ID:      uuid.New().String(),
		UserID:  userID,
		Title:   strings.TrimSpace(title),
		SavedAt: time.Now().UTC(),
		Recipe:  recipe,
	}
	doc.SavedRecipes = append(doc.SavedRecipes, entry)

	if err := s.store.Write(ctx, doc); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Rename changes the title of a saved recipe owned by userID.
func (s *SavedRecipeService) Rename(ctx context.Context, userID, id, title string) (*models.SavedRecipe, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	for i := range doc.SavedRecipes {
		if doc.SavedRecipes[i].ID != id || doc.SavedRecipes[i].UserID != userID {
			continue
		}
		doc.SavedRecipes[i].Title = strings.TrimSpace(title)
		now := time.Now().UTC()
		doc.SavedRecipes[i].UpdatedAt = &now

		if err := s.store.Write(ctx, doc); err != nil {
			return nil, err
		}
		entry := doc.SavedRecipes[i]
		return &entry, nil
	}

	return nil, ErrSavedRecipeNotFound
}

// Delete removes a saved recipe owned by userID.
func (s *SavedRecipeService) Delete(ctx context.Context, userID, id string) error {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return err
	}

	for i := range doc.SavedRecipes {
		if doc.SavedRecipes[i].ID == id && doc.SavedRecipes[i].UserID == userID {
			doc.SavedRecipes = append(doc.SavedRecipes[:i], doc.SavedRecipes[i+1:]...)
			return s.store.Write(ctx, doc)
		}
	}

	return ErrSavedRecipeNotFound
}
