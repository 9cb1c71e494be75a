package service

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/friendly-foods/backend/internal/models"
)

// Generator produces a streaming recipe generation. Implemented by
// LLMService; tests substitute a stub.
type Generator interface {
	GenerateRecipeStream(ctx context.Context, meal string, avoidList []string, onFragment func(string)) (string, error)
}

// GenerateRequest is one recipe generation request.
type GenerateRequest struct {
	Meal      string
	AvoidList []string
	Force     bool
}

// GenerateResult is the terminal outcome of a generation request.
type GenerateResult struct {
	Recipe    models.Recipe
	FromCache bool
}

// RecipeService orchestrates the generation pipeline: key normalization,
// cache lookup, streaming generation, parsing and cache write-back.
// Concurrent uncached requests for the same key are coalesced so only one
// upstream call runs; waiters share the leader's result (without chunks).
type RecipeService struct {
	cache  *CacheService
	llm    Generator
	flight singleflight.Group
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(cache *CacheService, llm Generator) *RecipeService {
	return &RecipeService{cache: cache, llm: llm}
}

// Generate runs one request through the pipeline. onChunk, if non-nil,
// receives generated text fragments in order while the model call is in
// progress; it is never called for a cache hit or for coalesced waiters.
//
// Store failures never fail the request: a lookup error is treated as a
// miss and an upsert error after a successful generation is logged while
// the recipe is still returned. Provider and parse failures are returned
// to the caller.
func (s *RecipeService) Generate(ctx context.Context, req GenerateRequest, onChunk func(string)) (*GenerateResult, error) {
	meal := strings.TrimSpace(req.Meal)
	if meal == "" {
		return nil, ErrInvalidInput
	}

	key := CacheKey(meal, req.AvoidList)

	if !req.Force {
		entry, err := s.cache.Lookup(ctx, key)
		if err != nil {
			log.Printf("Cache lookup failed, treating as miss: %v", err)
		}
		if entry != nil {
			log.Printf("Cache hit: %q", meal)
			return &GenerateResult{Recipe: entry.Recipe, FromCache: true}, nil
		}
	}

	// The leader of a coalesced group streams chunks through its own
	// onChunk; waiters only receive the final recipe.
	v, err, shared := s.flight.Do(key, func() (interface{}, error) {
		return s.generate(ctx, key, meal, req.AvoidList, onChunk)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Printf("Coalesced duplicate generation for %q", meal)
	}

	return &GenerateResult{Recipe: *v.(*models.Recipe), FromCache: false}, nil
}

func (s *RecipeService) generate(ctx context.Context, key, meal string, avoidList []string, onChunk func(string)) (*models.Recipe, error) {
	text, err := s.llm.GenerateRecipeStream(ctx, meal, avoidList, onChunk)
	if err != nil {
		return nil, err
	}

	recipe, err := ParseRecipe(text)
	if err != nil {
		return nil, err
	}

	if _, err := s.cache.Upsert(ctx, key, meal, avoidList, *recipe); err != nil {
		// The caller still gets their recipe; only caching is sacrificed.
		log.Printf("Cache write failed after generation for %q: %v", meal, err)
	} else {
		log.Printf("API call: %q cached", meal)
	}

	return recipe, nil
}
