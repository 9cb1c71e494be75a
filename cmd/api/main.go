package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/friendly-foods/backend/config"
	"github.com/friendly-foods/backend/internal/api"
	"github.com/friendly-foods/backend/internal/middleware"
	"github.com/friendly-foods/backend/internal/router"
	"github.com/friendly-foods/backend/internal/server"
	"github.com/friendly-foods/backend/internal/service"
	"github.com/friendly-foods/backend/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	documents, redisClient, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize document store: %v", err)
	}

	cacheService := service.NewCacheService(documents, cfg.CacheMaxEntries)
	llmService := service.NewLLMService(cfg)
	recipeService := service.NewRecipeService(cacheService, llmService)
	authService := service.NewAuthService(documents, cfg.JWTSecret)
	profileService := service.NewProfileService(documents)
	savedService := service.NewSavedRecipeService(documents)

	var limiter *middleware.RateLimiter
	if cfg.GenerateRateLimit > 0 && redisClient != nil {
		limiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     cfg.GenerateRateLimit,
			KeyPrefix: "ratelimit:recipe",
		})
	}

	engine := router.SetupRouter(router.Options{
		Auth:           api.NewAuthHandler(authService),
		Profiles:       api.NewProfileHandler(profileService),
		SavedRecipes:   api.NewSavedRecipeHandler(savedService),
		Recipes:        api.NewRecipeHandler(recipeService),
		Admin:          api.NewAdminHandler(cacheService),
		TokenValidator: authService,
		AdminToken:     cfg.AdminToken,
		RateLimiter:    limiter,
	})

	srv := server.New(engine, fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal %v, shutting down", sig)
		if err := srv.Stop(context.Background()); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}
}

// buildStore selects the document store backend. The Redis client is also
// returned when available so the rate limiter can share it.
func buildStore(cfg *config.Config) (store.DocumentStore, *redis.Client, error) {
	switch cfg.StoreBackend {
	case "redis":
		opts := &redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		if cfg.RedisURL != "" {
			parsed, err := redis.ParseURL(cfg.RedisURL)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			opts = parsed
		}
		client := redis.NewClient(opts)
		s, err := store.NewRedisStore(client)
		if err != nil {
			return nil, nil, err
		}
		return s, client, nil
	default:
		s, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	}
}
