package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates a request that fails pre-flight validation,
// such as an empty meal name.
var ErrInvalidInput = errors.New("meal name is required")

// ErrMalformedRecipe indicates the model call succeeded but the returned
// text was not valid recipe JSON after fence stripping. Callers surface a
// generic retry message for this, never the parse error itself.
var ErrMalformedRecipe = errors.New("malformed recipe response")

// ProviderError is a failure reported by the model provider, carrying the
// upstream HTTP status and message.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (status %d): %s", e.Status, e.Message)
}
