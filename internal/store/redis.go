package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/friendly-foods/backend/internal/models"
)

// documentKey is the single Redis key holding the application document.
const documentKey = "friendlyfoods:appdata"

// RedisStore keeps the application document as one JSON value in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	log.Printf("Successfully connected to Redis document store")
	return &RedisStore{client: client}, nil
}

// Read returns the current document, or a fresh empty document if none has
// been written yet.
func (s *RedisStore) Read(ctx context.Context) (*models.Document, error) {
	data, err := s.client.Get(ctx, documentKey).Bytes()
	if err == redis.Nil {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	normalize(&doc)
	return &doc, nil
}

// Write replaces the stored document.
func (s *RedisStore) Write(ctx context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := s.client.Set(ctx, documentKey, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// normalize fills in nil collections so callers never have to nil-check.
func normalize(doc *models.Document) {
	if doc.Users == nil {
		doc.Users = []models.User{}
	}
	if doc.Profiles == nil {
		doc.Profiles = []models.Profile{}
	}
	if doc.SavedRecipes == nil {
		doc.SavedRecipes = []models.SavedRecipe{}
	}
	if doc.RecipeCache == nil {
		doc.RecipeCache = []models.CacheEntry{}
	}
}
