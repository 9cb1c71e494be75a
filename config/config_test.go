package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_HOST", "PORT", "JWT_SECRET", "ADMIN_TOKEN",
		"ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY_FILE", "ANTHROPIC_API_URL",
		"ANTHROPIC_MODEL", "ANTHROPIC_MAX_TOKENS",
		"STORE_BACKEND", "SQLITE_PATH",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_URL",
		"CACHE_MAX_ENTRIES", "GENERATE_RATE_LIMIT", "ENV",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.ServerPort)
	assert.Equal(t, "sk-test", cfg.AnthropicAPIKey)
	assert.Equal(t, "https://api.anthropic.com", cfg.AnthropicAPIURL)
	assert.Equal(t, 2048, cfg.MaxTokens)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, 0, cfg.CacheMaxEntries)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigRequiresAPIKey(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestLoadConfigAPIKeyFromFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")

	keyFile := filepath.Join(t.TempDir(), "api_key")
	require.NoError(t, os.WriteFile(keyFile, []byte("sk-from-file\n"), 0o600))
	t.Setenv("ANTHROPIC_API_KEY_FILE", keyFile)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", cfg.AnthropicAPIKey)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("STORE_BACKEND", "mongodb")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

func TestValidateRequiresAdminTokenInProduction(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ENV", "production")

	cfg := &Config{JWTSecret: "s", StoreBackend: "sqlite", SQLitePath: "x.db"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_TOKEN")
}

func TestGetEnvironment(t *testing.T) {
	clearConfigEnv(t)
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())
}
