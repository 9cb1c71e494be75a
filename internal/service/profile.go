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

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService manages per-user allergen profiles.
type ProfileService struct {
	store store.DocumentStore
}

func NewProfileService(s store.DocumentStore) *ProfileService {
	return &ProfileService{store: s}
}

// List returns the profiles belonging to userID.
func (s *ProfileService) List(ctx context.Context, userID string) ([]models.Profile, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	profiles := []models.Profile{}
	for _, p := range doc.Profiles {
		if p.UserID == userID {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

// Create adds a new profile for userID.
func (s *ProfileService) Create(ctx context.Context, userID, name string, allergens []string) (*models.Profile, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	if allergens == nil {
		allergens = []string{}
	}
	profile := models.Profile{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Allergens: allergens,
		CreatedAt: time.Now().UTC(),
	}
	doc.Profiles = append(doc.Profiles, profile)

	if err := s.store.Write(ctx, doc); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update modifies an existing profile. Nil fields are left unchanged.
func (s *ProfileService) Update(ctx context.Context, userID, id string, name *string, allergens []string) (*models.Profile, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	for i := range doc.Profiles {
		if doc.Profiles[i].ID != id || doc.Profiles[i].UserID != userID {
			continue
		}
		if name != nil {
			doc.Profiles[i].Name = strings.TrimSpace(*name)
		}
		if allergens != nil {
			doc.Profiles[i].Allergens = allergens
		}
		now := time.Now().UTC()
		doc.Profiles[i].UpdatedAt = &now

		if err := s.store.Write(ctx, doc); err != nil {
			return nil, err
		}
		profile := doc.Profiles[i]
		return &profile, nil
	}

	return nil, ErrProfileNotFound
}

// Delete removes a profile owned by userID.
func (s *ProfileService) Delete(ctx context.Context, userID, id string) error {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return err
	}

	for i := range doc.Profiles {
		if doc.Profiles[i].ID == id && doc.Profiles[i].UserID == userID {
			doc.Profiles = append(doc.Profiles[:i], doc.Profiles[i+1:]...)
			return s.store.Write(ctx, doc)
		}
	}

	return ErrProfileNotFound
}
