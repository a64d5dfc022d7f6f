package llm_test

import (
	"campusdesk/backend/internal/analysis"
	"campusdesk/backend/internal/llm"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_Generate(t *testing.T) {
	// Arrange
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"HIGH\n"}]}}]}`))
	}))
	defer srv.Close()

	client := llm.NewGeminiClient(srv.Client(), "secret", srv.URL, "gemini-test")

	// Act
	text, err := client.Generate(context.Background(), "classify this", llm.Params{Temperature: 0.1, MaxOutputTokens: 10, TopP: 0.8, TopK: 10})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "HIGH\n", text)

	cfg := got["generationConfig"].(map[string]any)
	assert.Equal(t, 0.1, cfg["temperature"])
	assert.Equal(t, float64(10), cfg["maxOutputTokens"])
	assert.Equal(t, 0.8, cfg["topP"])
	assert.Equal(t, float64(10), cfg["topK"])
}

func TestGeminiClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	client := llm.NewGeminiClient(srv.Client(), "secret", srv.URL, "")

	_, err := client.Generate(context.Background(), "p", llm.Params{})

	assert.True(t, errors.Is(err, llm.ErrRateLimited))
	var apiErr *llm.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "quota exceeded", apiErr.Message)
}

func TestGeminiClient_OtherErrorsAreNotRateLimits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	client := llm.NewGeminiClient(srv.Client(), "bad", srv.URL, "")

	_, err := client.Generate(context.Background(), "p", llm.Params{})

	require.Error(t, err)
	assert.False(t, errors.Is(err, llm.ErrRateLimited))
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := llm.NewGeminiClient(srv.Client(), "k", srv.URL, "").Generate(context.Background(), "p", llm.Params{})

	assert.Error(t, err)
}

func TestGeminiClient_NotConfigured(t *testing.T) {
	client := llm.NewGeminiClient(nil, "  ", "", "")

	_, err := client.Generate(context.Background(), "p", llm.Params{})

	assert.False(t, client.Configured())
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestGeminiClient_ClassifierParamsDisableThinking(t *testing.T) {
	// Arrange
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"CRITICAL"}]}}]}`))
	}))
	defer srv.Close()

	// Act
	_, err := llm.NewGeminiClient(srv.Client(), "k", srv.URL, "").Generate(context.Background(), "p", analysis.DefaultParams)

	// Assert
	require.NoError(t, err)
	cfg := got["generationConfig"].(map[string]any)
	assert.Equal(t, float64(10), cfg["maxOutputTokens"])
	thinking, ok := cfg["thinkingConfig"].(map[string]any)
	require.True(t, ok, "thinking budget must be sent with a 10 token output cap")
	assert.Equal(t, float64(0), thinking["thinkingBudget"])
}

func TestGeminiClient_NoThinkingConfigByDefault(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"LOW"}]}}]}`))
	}))
	defer srv.Close()

	_, err := llm.NewGeminiClient(srv.Client(), "k", srv.URL, "").Generate(context.Background(), "p", llm.Params{MaxOutputTokens: 10})

	require.NoError(t, err)
	assert.NotContains(t, got["generationConfig"].(map[string]any), "thinkingConfig")
}

func TestGeminiClient_TruncatedCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"role":"model"},"finishReason":"MAX_TOKENS"}]}`))
	}))
	defer srv.Close()

	_, err := llm.NewGeminiClient(srv.Client(), "k", srv.URL, "").Generate(context.Background(), "p", llm.Params{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_TOKENS")
	assert.False(t, errors.Is(err, llm.ErrRateLimited))
}
