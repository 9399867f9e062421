package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/support-chat/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, 30, req.MaxTokens)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Prazo de entrega"}}],"usage":{"total_tokens":42}}`))
	}))
	defer srv.Close()

	p := NewProvider("sk-test", "").WithBaseURL(srv.URL)
	resp, err := p.Generate(context.Background(), llm.Request{System: "sys", Prompt: "hi", MaxTokens: 30}, "")
	require.NoError(t, err)
	assert.Equal(t, "Prazo de entrega", resp.Text)
	assert.Equal(t, 42, resp.TokensUsed)
}

func TestProvider_GenerateStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewCompatible("deepseek", srv.URL, "k", "deepseek-chat")
	_, err := p.Generate(context.Background(), llm.Request{Prompt: "hi"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deepseek returned status 429")
}
