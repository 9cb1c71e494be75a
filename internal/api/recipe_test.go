package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friendly-foods/backend/internal/service"
)

const streamTestRecipe = `{
  "title": "Nut-Free Banana Bread",
  "servings": "8 servings",
  "prepTime": "15 minutes",
  "cookTime": "55 minutes",
  "ingredients": [{ "amount": "3", "item": "ripe bananas" }],
  "instructions": ["Step 1: Preheat the oven."],
  "substitutions": [],
  "allergenNote": "No nuts or dairy."
}`

// scriptedGenerator emits fixed fragments or a fixed error.
type scriptedGenerator struct {
	fragments []string
	err       error
	calls     int
}

func (g *scriptedGenerator) GenerateRecipeStream(ctx context.Context, meal string, avoidList []string, onFragment func(string)) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	var buf strings.Builder
	for _, f := range g.fragments {
		if onFragment != nil {
			onFragment(f)
		}
		buf.WriteString(f)
	}
	return buf.String(), nil
}

func chunkFragments(s string, size int) []string {
	var out []string
	for len(s) > size {
		out = append(out, s[:size])
		s = s[size:]
	}
	return append(out, s)
}

// parseStream decodes a `data: <json>` / blank-line framed body into its
// event payloads.
func parseStream(t *testing.T, body string) []map[string]interface{} {
	t.Helper()
	var events []map[string]interface{}
	for _, block := range strings.Split(strings.TrimSpace(body), "\n\n") {
		require.True(t, strings.HasPrefix(block, "data: "), "unexpected frame: %q", block)
		var evt map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(block, "data: ")), &evt))
		events = append(events, evt)
	}
	return events
}

func sseHeaders() map[string]string {
	return map[string]string{"Accept": "text/event-stream"}
}

func TestGenerateRecipeValidation(t *testing.T) {
	engine, _ := setupTestRouter(t, &scriptedGenerator{})

	w := performRequest(engine, http.MethodPost, "/api/recipe", GenerateRecipeRequest{Meal: "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Meal name is required.")
}

func TestGenerateRecipeStreaming(t *testing.T) {
	gen := &scriptedGenerator{fragments: chunkFragments(streamTestRecipe, 64)}
	engine, _ := setupTestRouter(t, gen)

	req := GenerateRecipeRequest{Meal: "banana bread", AvoidList: []string{"Nuts", "Dairy"}}
	w := performRequest(engine, http.MethodPost, "/api/recipe", req, sseHeaders())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	events := parseStream(t, w.Body.String())
	require.NotEmpty(t, events)

	// All but the last event are chunks, in order.
	var streamed strings.Builder
	for _, evt := range events[:len(events)-1] {
		chunk, ok := evt["chunk"].(string)
		require.True(t, ok, "expected chunk event, got %v", evt)
		streamed.WriteString(chunk)
	}
	assert.Equal(t, streamTestRecipe, streamed.String())

	terminal := events[len(events)-1]
	assert.Equal(t, true, terminal["done"])
	assert.Equal(t, false, terminal["_fromCache"])
	recipe, ok := terminal["recipe"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Nut-Free Banana Bread", recipe["title"])
}

func TestGenerateRecipeCacheHitEmitsNoChunks(t *testing.T) {
	gen := &scriptedGenerator{fragments: []string{streamTestRecipe}}
	engine, _ := setupTestRouter(t, gen)

	req := GenerateRecipeRequest{Meal: "banana bread", AvoidList: []string{"Nuts", "Dairy"}}
	w := performRequest(engine, http.MethodPost, "/api/recipe", req, sseHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	// Identical request with reordered allergens: served from cache as a
	// single terminal event.
	repeat := GenerateRecipeRequest{Meal: "Banana Bread", AvoidList: []string{"dairy", "nuts"}}
	w = performRequest(engine, http.MethodPost, "/api/recipe", repeat, sseHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	events := parseStream(t, w.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, true, events[0]["done"])
	assert.Equal(t, true, events[0]["_fromCache"])
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateRecipeForce(t *testing.T) {
	gen := &scriptedGenerator{fragments: []string{streamTestRecipe}}
	engine, _ := setupTestRouter(t, gen)

	req := GenerateRecipeRequest{Meal: "banana bread"}
	w := performRequest(engine, http.MethodPost, "/api/recipe", req, sseHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	req.Force = true
	w = performRequest(engine, http.MethodPost, "/api/recipe", req, sseHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	events := parseStream(t, w.Body.String())
	terminal := events[len(events)-1]
	assert.Equal(t, false, terminal["_fromCache"])
	assert.Equal(t, 2, gen.calls)
}

func TestGenerateRecipeProviderErrorEvent(t *testing.T) {
	gen := &scriptedGenerator{err: &service.ProviderError{Status: 429, Message: "Number of requests has exceeded your rate limit"}}
	engine, _ := setupTestRouter(t, gen)

	w := performRequest(engine, http.MethodPost, "/api/recipe", GenerateRecipeRequest{Meal: "banana bread"}, sseHeaders())

	// The stream was already open, so the failure arrives as a terminal
	// error event on a 200 response.
	require.Equal(t, http.StatusOK, w.Code)
	events := parseStream(t, w.Body.String())
	require.Len(t, events, 1)
	assert.Contains(t, events[0]["error"], "rate limit")
}

func TestGenerateRecipeMalformedErrorEvent(t *testing.T) {
	gen := &scriptedGenerator{fragments: []string{"not json at all"}}
	engine, _ := setupTestRouter(t, gen)

	w := performRequest(engine, http.MethodPost, "/api/recipe", GenerateRecipeRequest{Meal: "banana bread"}, sseHeaders())

	require.Equal(t, http.StatusOK, w.Code)
	events := parseStream(t, w.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, "Received an unexpected response format. Please try again.", events[0]["error"])
}

func TestGenerateRecipeBufferedMode(t *testing.T) {
	gen := &scriptedGenerator{fragments: []string{streamTestRecipe}}
	engine, _ := setupTestRouter(t, gen)

	// No Accept header: the terminal payload comes back as one JSON body
	// with the recipe fields flattened.
	w := performRequest(engine, http.MethodPost, "/api/recipe", GenerateRecipeRequest{Meal: "banana bread"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Nut-Free Banana Bread", resp["title"])
	assert.Equal(t, false, resp["_fromCache"])

	w = performRequest(engine, http.MethodPost, "/api/recipe", GenerateRecipeRequest{Meal: "banana bread"}, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["_fromCache"])
}

func TestGenerateRecipeBufferedProviderError(t *testing.T) {
	gen := &scriptedGenerator{err: &service.ProviderError{Status: 529, Message: "Overloaded"}}
	engine, _ := setupTestRouter(t, gen)

	w := performRequest(engine, http.MethodPost, "/api/recipe", GenerateRecipeRequest{Meal: "banana bread"}, nil)
	assert.Equal(t, 529, w.Code)
	assert.Contains(t, w.Body.String(), "Overloaded")
}

func TestGenerateRecipeExplicitStreamField(t *testing.T) {
	gen := &scriptedGenerator{fragments: []string{streamTestRecipe}}
	engine, _ := setupTestRouter(t, gen)

	streamOn := true
	w := performRequest(engine, http.MethodPost, "/api/recipe",
		GenerateRecipeRequest{Meal: "banana bread", Stream: &streamOn}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	streamOff := false
	w = performRequest(engine, http.MethodPost, "/api/recipe",
		GenerateRecipeRequest{Meal: "banana bread", Stream: &streamOff}, sseHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}
