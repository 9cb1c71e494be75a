package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/friendly-foods/backend/internal/middleware"
	"github.com/friendly-foods/backend/internal/service"
	"github.com/friendly-foods/backend/internal/store"
)

const testAdminToken = "test-admin-token"

// setupTestRouter wires the handlers onto a fresh engine backed by an
// in-memory store and the given generator.
func setupTestRouter(t *testing.T, gen service.Generator) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.NewMemoryStore()
	cache := service.NewCacheService(s, 0)
	auth := service.NewAuthService(s, "test-secret")

	engine := gin.New()
	root := engine.Group("/api")

	NewAuthHandler(auth).RegisterRoutes(root)

	protected := root.Group("")
	protected.Use(middleware.AuthMiddleware(auth))
	NewProfileHandler(service.NewProfileService(s)).RegisterRoutes(protected)
	NewSavedRecipeHandler(service.NewSavedRecipeService(s)).RegisterRoutes(protected)

	root.POST("/recipe", NewRecipeHandler(service.NewRecipeService(cache, gen)).Generate)

	admin := root.Group("/admin")
	admin.Use(middleware.AdminAuth(testAdminToken))
	admin.GET("/stats", NewAdminHandler(cache).Stats)

	return engine, s
}

// performRequest sends a JSON request through the router.
func performRequest(engine *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func registerTestUser(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	w := performRequest(engine, http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
