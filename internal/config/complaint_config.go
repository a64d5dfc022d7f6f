package config

import (
	"time"

	"campusdesk/backend/internal/models"
)

const (
	// Classification
	RateLimitBackoff    = 2 * time.Second
	MaxClassifyAttempts = 2
	ClassifyTimeout     = 15 * time.Second

	// Generation parameters: one uppercase word is all we need back.
	GenerationTemperature     = 0.1
	GenerationMaxOutputTokens = 10
	GenerationTopP            = 0.8
	GenerationTopK            = 10

	// Thinking is switched off so the whole output budget goes to the answer.
	GenerationThinkingBudget = 0

	// Submission limits
	MaxDescriptionLength = 2000
	MaxLocationLength    = 200
	MaxReplyLength       = 2000

	// Live feed
	SnapshotLimit = 500
)

// ComplaintWeights orders the admin triage queue; heavier complaints come first.
var ComplaintWeights = map[models.Urgency]int{
	models.UrgencyLow:      5,
	models.UrgencyMedium:   50,
	models.UrgencyHigh:     120,
	models.UrgencyCritical: 250,
}
