package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Auth configuration
	JWTSecret  string
	AdminToken string

	// Anthropic configuration
	AnthropicAPIKey string
	AnthropicAPIURL string
	AnthropicModel  string
	MaxTokens       int

	// Store configuration: "redis" or "sqlite"
	StoreBackend string
	SQLitePath   string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Cache configuration. 0 means the cache never evicts.
	CacheMaxEntries int

	// Rate limiting for the generation endpoint (requests per minute,
	// 0 disables). Only enforced when the redis backend is configured.
	GenerateRateLimit int
}

// LoadConfig creates a new Config instance from environment variables.
// The Anthropic API key may be supplied directly or via a *_FILE path.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerHost:        getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:        getEnv("PORT", "3001"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminToken:        os.Getenv("ADMIN_TOKEN"),
		AnthropicAPIURL:   getEnv("ANTHROPIC_API_URL", "https://api.anthropic.com"),
		AnthropicModel:    getEnv("ANTHROPIC_MODEL", "claude-opus-4-5"),
		MaxTokens:         getEnvInt("ANTHROPIC_MAX_TOKENS", 2048),
		StoreBackend:      getEnv("STORE_BACKEND", "sqlite"),
		SQLitePath:        getEnv("SQLITE_PATH", "friendlyfoods.db"),
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		RedisURL:          os.Getenv("REDIS_URL"),
		CacheMaxEntries:   getEnvInt("CACHE_MAX_ENTRIES", 0),
		GenerateRateLimit: getEnvInt("GENERATE_RATE_LIMIT", 0),
	}

	apiKey, err := loadAPIKey()
	if err != nil {
		return nil, err
	}
	cfg.AnthropicAPIKey = apiKey

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadAPIKey reads the Anthropic API key from ANTHROPIC_API_KEY or, if
// unset, from the file named by ANTHROPIC_API_KEY_FILE.
func loadAPIKey() (string, error) {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key, nil
	}

	keyFile := os.Getenv("ANTHROPIC_API_KEY_FILE")
	if keyFile == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY or ANTHROPIC_API_KEY_FILE must be set")
	}

	keyBytes, err := os.ReadFile(keyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read API key file: %w", err)
	}

	key := strings.TrimSpace(string(keyBytes))
	if key == "" {
		return "", fmt.Errorf("API key file is empty")
	}
	return key, nil
}

// Validate checks that the configuration is usable for the current
// environment.
func (c *Config) Validate() error {
	var errs []ValidationError

	if c.JWTSecret == "" {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "is required"})
	}
	switch c.StoreBackend {
	case "redis", "sqlite":
	default:
		errs = append(errs, ValidationError{Field: "STORE_BACKEND", Message: "must be redis or sqlite"})
	}
	if c.StoreBackend == "sqlite" && c.SQLitePath == "" {
		errs = append(errs, ValidationError{Field: "SQLITE_PATH", Message: "is required for the sqlite backend"})
	}
	if IsProduction() && c.AdminToken == "" {
		errs = append(errs, ValidationError{Field: "ADMIN_TOKEN", Message: "is required in production"})
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// RedisAddr returns the host:port address for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
