package analysis

import (
	"regexp"
	"strings"
	"unicode"

	"campusdesk/backend/internal/models"
)

// vocabulary in priority order for the containment stage.
var vocabulary = []struct {
	word    string
	urgency models.Urgency
}{
	{"CRITICAL", models.UrgencyCritical},
	{"HIGH", models.UrgencyHigh},
	{"MEDIUM", models.UrgencyMedium},
	{"LOW", models.UrgencyLow},
}

var extractionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:URGENCY|LEVEL|PRIORITY|SEVERITY)\s*(?:[:=\-]|IS)?\s*["'*]*(CRITICAL|HIGH|MEDIUM|LOW)\b`),
	regexp.MustCompile(`\b(CRITICAL|HIGH|MEDIUM|LOW)\b`),
}

// Normalize maps raw model output onto the canonical vocabulary.
// Stages run in order and the first hit wins: exact first token, substring containment
// (Critical > High > Medium > Low), then regex extraction. ok is false when nothing matched.
func Normalize(raw string) (u models.Urgency, ok bool) {
	text := strings.ToUpper(strings.TrimSpace(raw))
	if text == "" {
		return 0, false
	}

	if tokens := strings.FieldsFunc(text, isTokenSeparator); len(tokens) > 0 {
		if u, ok := lookup(tokens[0]); ok {
			return u, true
		}
	}

	for _, v := range vocabulary {
		if strings.Contains(text, v.word) {
			return v.urgency, true
		}
	}

	// Every word-bounded match is also a substring match, so stage two always answers first.
	// The extraction stage only keeps the cascade complete.
	for _, re := range extractionPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return lookup(m[1])
		}
	}
	return 0, false
}

func lookup(word string) (models.Urgency, bool) {
	for _, v := range vocabulary {
		if v.word == word {
			return v.urgency, true
		}
	}
	return 0, false
}

func isTokenSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '.', ',', '!', '?', ';', ':':
		return true
	}
	return false
}
