// Package localization holds the user-visible notices of the complaint desk.
// Each language is one JSON file named by its code (en.json, uk.json) mapping keys to text.
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Notice keys shared by the handlers and the alert notifier.
const (
	KeyUnauthenticated   = "notice.unauthenticated"
	KeyForbidden         = "notice.forbidden"
	KeyNotFound          = "notice.not_found"
	KeyAlreadyClosed     = "notice.already_closed"
	KeyValidation        = "notice.validation"
	KeyPermissionDenied  = "notice.storage.permission_denied"
	KeyUnavailable       = "notice.storage.unavailable"
	KeyNetwork           = "notice.storage.network"
	KeyUnknown           = "notice.storage.unknown"
	KeyAlertSubmitted    = "alert.submitted"
	KeyAlertTransitioned = "alert.transitioned"
)

type Localizer struct {
	translations map[string]map[string]string
	fallback     string
	mu           sync.RWMutex
}

// NewLocalizer loads every *.json file in path. fallback is the language used when a key is
// missing in the requested one.
func NewLocalizer(path, fallback string) (*Localizer, error) {
	if fallback == "" {
		fallback = "en"
	}
	l := &Localizer{
		translations: make(map[string]map[string]string),
		fallback:     fallback,
	}

	files, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(path, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}
		l.translations[lang] = translations
	}

	return l, nil
}

// GetString returns the text for key in lang, then in the fallback language, then the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if value, ok := l.translations[lang][key]; ok {
		return value
	}
	if value, ok := l.translations[l.fallback][key]; ok {
		return value
	}
	return key
}

// Format is GetString followed by fmt.Sprintf.
func (l *Localizer) Format(lang, key string, args ...any) string {
	return fmt.Sprintf(l.GetString(lang, key), args...)
}

// Match picks the first loaded language from an Accept-Language header value.
func (l *Localizer) Match(acceptLanguage string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		tag = strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := l.translations[tag]; ok {
			return tag
		}
	}
	return l.fallback
}
