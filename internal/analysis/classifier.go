package analysis

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"campusdesk/backend/internal/config"
	"campusdesk/backend/internal/llm"
	"campusdesk/backend/internal/models"
)

// DefaultParams keeps generation close to deterministic; a single word is expected.
var DefaultParams = llm.Params{
	Temperature:     config.GenerationTemperature,
	MaxOutputTokens: config.GenerationMaxOutputTokens,
	TopP:            config.GenerationTopP,
	TopK:            config.GenerationTopK,
	ThinkingBudget:  thinkingBudget(config.GenerationThinkingBudget),
}

// Classifier assigns an urgency label to complaint text.
// Classify never fails: any error or ambiguous answer degrades to models.DefaultUrgency.
type Classifier struct {
	Generator llm.Generator
	Params    llm.Params
	// Timeout bounds each generator call.
	Timeout time.Duration
	// Backoff is the pause before the single retry after a rate-limit answer.
	Backoff time.Duration
}

// NewClassifier creates a Classifier with the default generation parameters.
// A nil generator is allowed and makes every classification return the default label.
func NewClassifier(gen llm.Generator, timeout, backoff time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = config.ClassifyTimeout
	}
	if backoff <= 0 {
		backoff = config.RateLimitBackoff
	}
	return &Classifier{
		Generator: gen,
		Params:    DefaultParams,
		Timeout:   timeout,
		Backoff:   backoff,
	}
}

func (c *Classifier) Classify(ctx context.Context, description string) models.Urgency {
	if strings.TrimSpace(description) == "" {
		return models.DefaultUrgency
	}
	if c == nil || c.Generator == nil {
		log.Println("WARN: urgency classifier is not configured, using default")
		return models.DefaultUrgency
	}

	prompt := BuildPrompt(description)
	for attempt := 1; attempt <= config.MaxClassifyAttempts; attempt++ {
		text, err := c.generate(ctx, prompt)
		if err == nil {
			u, ok := Normalize(text)
			if !ok {
				log.Printf("WARN: unrecognised classifier output %q, using default", text)
				return models.DefaultUrgency
			}
			log.Printf("INFO: complaint classified as %s (attempt %d)", u, attempt)
			return u
		}

		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			log.Println("WARN: classification credential missing, using default")
			return models.DefaultUrgency
		case errors.Is(err, llm.ErrRateLimited) && attempt < config.MaxClassifyAttempts:
			log.Printf("WARN: classifier rate limited, retrying in %s", c.Backoff)
			if !sleep(ctx, c.Backoff) {
				return models.DefaultUrgency
			}
		default:
			log.Printf("ERROR: classification failed on attempt %d: %v", attempt, err)
			return models.DefaultUrgency
		}
	}
	return models.DefaultUrgency
}

func (c *Classifier) generate(ctx context.Context, prompt string) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	return c.Generator.Generate(ctx, prompt, c.Params)
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func thinkingBudget(n int) *int { return &n }
