package ollama

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
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.False(t, req.Stream)
		assert.EqualValues(t, 30, req.Options["num_predict"])

		_, _ = w.Write([]byte(`{"response":"Troca de produto","done":true,"eval_count":7}`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "")
	resp, err := p.Generate(context.Background(), llm.Request{Prompt: "hi", MaxTokens: 30}, "")
	require.NoError(t, err)
	assert.Equal(t, "Troca de produto", resp.Text)
	assert.Equal(t, 7, resp.TokensUsed)
}

func TestProvider_IsConfigured(t *testing.T) {
	assert.False(t, NewProvider("", "").IsConfigured())
	assert.True(t, NewProvider("http://localhost:11434", "").IsConfigured())
}
