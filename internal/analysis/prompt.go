package analysis

import (
	"fmt"
	"strings"
)

const promptTemplate = `You are an AI assistant designed to classify the urgency of campus complaints.
Strictly follow these rules:
1. Output ONLY ONE WORD.
2. The word MUST be one of: CRITICAL, HIGH, MEDIUM, LOW.
3. Output the word in UPPERCASE.

Levels:
- CRITICAL: safety hazards or emergencies (fire, gas leak, exposed wiring, flooding, medical or security threats).
- HIGH: disruption of an essential service (no water or electricity, broken lift, no internet in a whole block, unfit food).
- MEDIUM: moderate inconvenience that still needs attention (slow Wi-Fi, broken fan, noisy neighbours, late bus).
- LOW: cosmetic or minor issues (peeling paint, untidy notice board, squeaky door).

Complaint: "%s"

Output:`

// BuildPrompt embeds the complaint text into the classification instructions.
func BuildPrompt(description string) string {
	// Double quotes would close the quoted complaint early.
	cleaned := strings.ReplaceAll(strings.TrimSpace(description), `"`, `'`)
	return fmt.Sprintf(promptTemplate, cleaned)
}
