// Package analysis decides how urgent a complaint is.
// It builds the classification prompt, calls a text generator, reduces the free-text answer
// to one of the four urgency labels and weighs labels for triage ordering.
package analysis

import (
	"campusdesk/backend/internal/config"
	"campusdesk/backend/internal/models"
)

// GetWeight returns the triage weight for an urgency label.
// It returns 0 if the label is not recognized.
func GetWeight(u models.Urgency) int {
	return config.ComplaintWeights[u]
}
