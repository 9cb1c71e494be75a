package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/friendly-foods/backend/internal/models"
	"github.com/friendly-foods/backend/internal/store"
)

// CacheService reads and updates the recipe cache collection inside the
// application document. Every operation is a whole-document read-modify-
// write: there is no per-key locking, and two concurrent writers race with
// last-write-wins semantics.
type CacheService struct {
	store      store.DocumentStore
	maxEntries int
}

// NewCacheService creates a new CacheService. maxEntries bounds the cache
// collection; 0 preserves the original never-evict behavior.
func NewCacheService(s store.DocumentStore, maxEntries int) *CacheService {
	return &CacheService{store: s, maxEntries: maxEntries}
}

// Lookup scans the cache for an entry matching key. On a match it
// increments the entry's hit count and the global cacheHits counter and
// persists the document before returning, so this is a side-effecting read.
// A miss returns (nil, nil).
func (s *CacheService) Lookup(ctx context.Context, key string) (*models.CacheEntry, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	for i := range doc.RecipeCache {
		if doc.RecipeCache[i].CacheKey != key {
			continue
		}
		doc.RecipeCache[i].HitCount++
		doc.Stats.CacheHits++
		if err := s.store.Write(ctx, doc); err != nil {
			return nil, err
		}
		entry := doc.RecipeCache[i]
		return &entry, nil
	}

	return nil, nil
}

// Upsert commits a freshly generated recipe under key. An existing entry
// keeps its id, createdAt and hitCount and has its recipe, allergens and
// updatedAt overwritten; otherwise a new entry is created with a fresh id
// and a zero hit count. The global apiCalls counter is incremented either
// way, and the whole document is persisted in one write.
func (s *CacheService) Upsert(ctx context.Context, key, meal string, allergens []string, recipe models.Recipe) (*models.CacheEntry, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	if allergens == nil {
		allergens = []string{}
	}
	now := time.Now().UTC()

	idx := -1
	for i := range doc.RecipeCache {
		if doc.RecipeCache[i].CacheKey == key {
			idx = i
			break
		}
	}

	entry := models.CacheEntry{
		CacheKey:  key,
		Meal:      meal,
		Allergens: allergens,
		Recipe:    recipe,
		UpdatedAt: now,
	}
	if idx >= 0 {
		entry.ID = doc.RecipeCache[idx].ID
		entry.CreatedAt = doc.RecipeCache[idx].CreatedAt
		entry.HitCount = doc.RecipeCache[idx].HitCount
		doc.RecipeCache[idx] = entry
	} else {
		entry.ID = uuid.New().String()
		entry.CreatedAt = now
		doc.RecipeCache = append(doc.RecipeCache, entry)
	}

	s.evict(doc, key)
	doc.Stats.APICalls++

	if err := s.store.Write(ctx, doc); err != nil {
		return nil, err
	}
	return &entry, nil
}

// evict trims the cache to maxEntries by dropping the entries with the
// oldest updatedAt, never the entry just written.
func (s *CacheService) evict(doc *models.Document, keep string) {
	if s.maxEntries <= 0 || len(doc.RecipeCache) <= s.maxEntries {
		return
	}

	sort.SliceStable(doc.RecipeCache, func(i, j int) bool {
		return doc.RecipeCache[i].UpdatedAt.After(doc.RecipeCache[j].UpdatedAt)
	})
	cut := s.maxEntries
	for i := cut; i < len(doc.RecipeCache); i++ {
		if doc.RecipeCache[i].CacheKey == keep {
			doc.RecipeCache[i], doc.RecipeCache[cut-1] = doc.RecipeCache[cut-1], doc.RecipeCache[i]
			break
		}
	}
	doc.RecipeCache = doc.RecipeCache[:cut]
}

// CachedEntrySummary is the reporting view of one cache entry. Identifiers
// and recipe bodies are deliberately not exposed.
type CachedEntrySummary struct {
	Meal      string    `json:"meal"`
	Allergens []string  `json:"allergens"`
	HitCount  int       `json:"hitCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StatsReport is the read-only derived usage view.
type StatsReport struct {
	APICalls      int                  `json:"apiCalls"`
	CacheHits     int                  `json:"cacheHits"`
	TotalRequests int                  `json:"totalRequests"`
	CacheHitRate  int                  `json:"cacheHitRate"`
	CacheEntries  int                  `json:"cacheEntries"`
	AllCached     []CachedEntrySummary `json:"allCached"`
}

// Stats builds the usage report: total requests, hit rate as a rounded
// percentage, and the cache collection sorted by descending hit count.
func (s *CacheService) Stats(ctx context.Context) (*StatsReport, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	total := doc.Stats.APICalls + doc.Stats.CacheHits
	rate := 0
	if total > 0 {
		rate = int(math.Round(float64(doc.Stats.CacheHits) / float64(total) * 100))
	}

	entries := make([]models.CacheEntry, len(doc.RecipeCache))
	copy(entries, doc.RecipeCache)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].HitCount > entries[j].HitCount
	})

	allCached := make([]CachedEntrySummary, len(entries))
	for i, e := range entries {
		allCached[i] = CachedEntrySummary{
			Meal:      e.Meal,
			Allergens: e.Allergens,
			HitCount:  e.HitCount,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		}
	}

	return &StatsReport{
		APICalls:      doc.Stats.APICalls,
		CacheHits:     doc.Stats.CacheHits,
		TotalRequests: total,
		CacheHitRate:  rate,
		CacheEntries:  len(doc.RecipeCache),
		AllCached:     allCached,
	}, nil
}
