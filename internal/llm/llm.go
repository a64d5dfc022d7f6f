// Package llm talks to hosted text-generation services.
package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when the client has no API credential.
	ErrNotConfigured = errors.New("llm: api key is not configured")
	// ErrRateLimited marks a request rejected because of quota or rate limits.
	ErrRateLimited = errors.New("llm: rate limited")
)

// Params biases generation; zero values are omitted from the request.
type Params struct {
	Temperature     float64
	MaxOutputTokens int
	TopP            float64
	TopK            int
	// ThinkingBudget caps reasoning tokens on models that think before answering.
	// nil leaves the model default; thinking tokens count against MaxOutputTokens.
	ThinkingBudget *int
}

// Generator turns a prompt into free text.
type Generator interface {
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm: status %d (%s): %s", e.StatusCode, e.Status, e.Message)
}

// Is lets errors.Is(err, ErrRateLimited) match quota rejections.
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.RateLimited()
}

func (e *APIError) RateLimited() bool {
	return e.StatusCode == 429 || e.Status == "RESOURCE_EXHAUSTED"
}
