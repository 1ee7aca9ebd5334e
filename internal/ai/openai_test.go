package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hn-sans-ai/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestions(t *testing.T) {
	got := ParseSuggestions("- Tensor Cores\n2. llm\n\n\"inference server\"\n* tensor cores\n", []string{"LLM"})
	assert.Equal(t, []string{"tensor cores", "inference server"}, got)
}

func TestSuggestKeywords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req["model"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-test",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": "tensor cores\nai"},
			}},
		})
	}))
	defer srv.Close()

	c, err := NewOpenAI(Config{APIKey: "test-key", Model: "gpt-test", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	got, err := c.SuggestKeywords(context.Background(), model.Item{ID: 1, Title: "Tensor cores explained"}, []string{"ai"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tensor cores"}, got)
}

func TestNewOpenAIValidates(t *testing.T) {
	_, err := NewOpenAI(Config{Model: "m"})
	assert.Error(t, err)
	_, err = NewOpenAI(Config{APIKey: "k"})
	assert.Error(t, err)
}
