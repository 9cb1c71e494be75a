package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/friendly-foods/backend/internal/models"
)

// The model is instructed to return bare JSON, but occasionally wraps it in
// a markdown code fence anyway. One leading fence (optionally tagged) and
// one trailing fence are stripped before parsing.
var (
	leadingFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// ParseRecipe strips incidental formatting from accumulated model output
// and parses it as a structured recipe. Returns ErrMalformedRecipe when the
// text is not a valid JSON object.
func ParseRecipe(raw string) (*models.Recipe, error) {
	content := strings.TrimSpace(raw)
	content = leadingFence.ReplaceAllString(content, "")
	content = trailingFence.ReplaceAllString(content, "")
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, "{") {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedRecipe)
	}

	var recipe models.Recipe
	if err := json.Unmarshal([]byte(content), &recipe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecipe, err)
	}

	return &recipe, nil
}
