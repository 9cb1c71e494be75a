package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/friendly-foods/backend/config"
)

const anthropicVersion = "2023-06-01"

// LLMService drives streaming recipe generation against the Anthropic
// messages API.
type LLMService struct {
	apiKey    string
	apiURL    string
	model     string
	maxTokens int
	client    *http.Client
}

// NewLLMService creates a new LLMService instance from configuration.
func NewLLMService(cfg *config.Config) *LLMService {
	return &LLMService{
		apiKey:    cfg.AnthropicAPIKey,
		apiURL:    strings.TrimRight(cfg.AnthropicAPIURL, "/"),
		model:     cfg.AnthropicModel,
		maxTokens: cfg.MaxTokens,
		client:    http.DefaultClient,
	}
}

// message is one entry in the messages array of a request.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesRequest is the body of a streaming /v1/messages call.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Stream    bool      `json:"stream"`
	Messages  []message `json:"messages"`
}

// streamEvent is one SSE payload from the messages stream. Only the fields
// needed to extract text deltas and errors are decoded.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// apiError is the body of a non-2xx response.
type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// BuildPrompt constructs the deterministic generation prompt for a meal and
// its avoid list.
func BuildPrompt(meal string, avoidList []string) string {
	avoidText := "none"
	if len(avoidList) > 0 {
		avoidText = strings.Join(avoidList, ", ")
	}

	return fmt.Sprintf(`You are a helpful recipe assistant specializing in allergy-friendly cooking.

The user wants to make: "%s"
Ingredients/allergens to AVOID: %s

Please create a detailed, allergy-friendly recipe. Respond with valid JSON in exactly this format:
{
  "title": "Recipe title",
  "servings": "e.g. 4 servings",
  "prepTime": "e.g. 15 minutes",
  "cookTime": "e.g. 30 minutes",
  "ingredients": [
    { "amount": "1 cup", "item": "ingredient name" }
  ],
  "instructions": [
    "Step 1: ...",
    "Step 2: ..."
  ],
  "substitutions": [
    { "original": "butter", "substitute": "coconut oil", "reason": "dairy-free alternative that works well for baking" }
  ],
  "allergenNote": "A brief paragraph confirming this recipe is free from the listed allergens and any general safety tips."
}

Important rules:
- Do NOT include any of the avoided ingredients or anything derived from them
- Make thoughtful substitutions that preserve the dish's flavor and texture as much as possible
- Only include substitutions that were actually made (if none were needed, use an empty array)
- Keep instructions clear and beginner-friendly
- Return ONLY the JSON object, no markdown, no extra text`, meal, avoidText)
}

// GenerateRecipeStream opens one streaming model call for the given meal
// and avoid list. Text fragments are passed to onFragment in arrival order
// as they are decoded; the accumulated text is returned once the stream
// completes. Provider-reported failures are returned as *ProviderError.
func (s *LLMService) GenerateRecipeStream(ctx context.Context, meal string, avoidList []string, onFragment func(string)) (string, error) {
	reqBody := messagesRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Stream:    true,
		Messages: []message{
			{Role: "user", Content: BuildPrompt(meal, avoidList)},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/v1/messages", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("failed to read error response: %w", readErr)
		}
		var apiErr apiError
		msg := strings.TrimSpace(string(body))
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", &ProviderError{Status: resp.StatusCode, Message: msg}
	}

	var buf strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		var evt streamEvent
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			continue
		}

		switch evt.Type {
		case "content_block_delta":
			if evt.Delta.Type == "text_delta" && evt.Delta.Text != "" {
				buf.WriteString(evt.Delta.Text)
				if onFragment != nil {
					onFragment(evt.Delta.Text)
				}
			}
		case "error":
			return "", &ProviderError{Status: http.StatusBadGateway, Message: evt.Error.Message}
		case "message_stop":
			return buf.String(), nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stream: %w", err)
	}

	// Stream ended without an explicit stop event; the buffer is presumed
	// complete.
	return buf.String(), nil
}
