package groq

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panelcentral/backoffice/internal/platform/logging"
	"github.com/panelcentral/backoffice/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		Key:     "test-key",
		Logger:  logging.NewNop(),
	})
}

func TestGenerateSendsChatRequest(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, sonic.Unmarshal(raw, &captured))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"tres ideas de reels"}}]}`))
	})

	text, err := client.Generate(context.Background(), "Eres un estratega de contenido.", "Dame ideas para settembre")
	require.NoError(t, err)
	assert.Equal(t, "tres ideas de reels", text)

	assert.Equal(t, "llama-3.3-70b-versatile", captured["model"])
	assert.Equal(t, float64(8192), captured["max_tokens"])
	assert.Equal(t, 0.5, captured["temperature"])
	assert.Equal(t, 0.9, captured["top_p"])
	assert.Equal(t, 0.3, captured["frequency_penalty"])

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	first, ok := messages[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "system", first["role"])
}

func TestGenerateOmitsSystemMessageWhenEmpty(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, sonic.Unmarshal(raw, &captured))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	_, err := client.Generate(context.Background(), "", "hola")
	require.NoError(t, err)

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	only, ok := messages[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "user", only["role"])
}

func TestGenerateEmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":""}}]}`))
	})

	_, err := client.Generate(context.Background(), "", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text")
}

func TestGenerateProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key"}}`))
	})

	_, err := client.Generate(context.Background(), "", "hola")
	require.Error(t, err)
	assert.NotErrorIs(t, err, usecase.ErrDependencyUnavailable)
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestGenerateRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	})

	_, err := client.Generate(context.Background(), "", "hola")
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
}

func TestGenerateRequiresPrompt(t *testing.T) {
	client := NewClient(ClientConfig{Key: "k", Logger: logging.NewNop()})

	_, err := client.Generate(context.Background(), "sistema", "   ")
	require.Error(t, err)
}
