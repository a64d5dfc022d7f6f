package config_test

import (
	"campusdesk/backend/internal/config"
	"campusdesk/backend/internal/models"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAMLThenEnv(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := "http_addr: \":9090\"\njwt_secret: from-file\ngemini_model: gemini-test\nclassify_timeout: 5s\ntelegram_admin_chat_id: 42\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))

	t.Setenv("GEMINI_API_KEY", "key-from-env")
	t.Setenv("RATE_LIMIT_BACKOFF", "250ms")
	t.Setenv("JWT_SECRET", "")

	// Act
	cfg, err := config.Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "gemini-test", cfg.GeminiModel)
	assert.Equal(t, 5*time.Second, cfg.ClassifyTimeout)
	assert.Equal(t, int64(42), cfg.TelegramAdminChatID)
	assert.Equal(t, "key-from-env", cfg.GeminiAPIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimitBackoff)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, config.RateLimitBackoff, cfg.RateLimitBackoff)
	assert.Equal(t, "High", cfg.NotifyMinUrgency)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load("")

	assert.Error(t, err)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REDIS_DB", "zero")

	_, err := config.Load("")

	assert.Error(t, err)
}

func TestComplaintWeightsOrdered(t *testing.T) {
	w := config.ComplaintWeights
	assert.Len(t, w, 4)
	assert.Greater(t, w[models.UrgencyCritical], w[models.UrgencyHigh])
	assert.Greater(t, w[models.UrgencyHigh], w[models.UrgencyMedium])
	assert.Greater(t, w[models.UrgencyMedium], w[models.UrgencyLow])
}
