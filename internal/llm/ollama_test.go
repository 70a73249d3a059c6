package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProviderGenerate(t *testing.T) {
	var gotReq ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message": map[string]string{"content": "local model reply"},
		})
	}))
	t.Cleanup(server.Close)

	p := NewOllamaProvider(server.URL)
	require.Equal(t, "ollama", p.Name())

	resp, err := p.Generate(context.Background(), &Request{
		Model:    "llama3.1",
		Messages: []Message{{Role: "user", Content: "hello there"}},
		JSONMode: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "local model reply", resp.Content)
	assert.Equal(t, "llama3.1", resp.Model)
	assert.Equal(t, "json", gotReq.Format, "JSON mode maps to format=json")
	assert.False(t, gotReq.Stream)
	// Token counts are length estimates, not zero.
	assert.Equal(t, len("hello there")/4, resp.InputTokens)
	assert.Equal(t, len("local model reply")/4, resp.OutputTokens)
}

func TestOllamaProviderDefaultBaseURL(t *testing.T) {
	p := NewOllamaProvider("")
	assert.Equal(t, "http://localhost:11434", p.baseURL)
}
