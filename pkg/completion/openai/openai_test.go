package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/aura/pkg/completion/openai"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Complete(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Hello from OpenAI"}}]
		}`))
	}))
	defer srv.Close()

	p := openai.New(openai.Config{APIKey: "test-key", BaseURL: srv.URL, Temperature: 0.5})
	reply, err := p.Complete(context.Background(), []domain.Message{
		domain.SystemMessage("sys"),
		domain.HumanMessage("hi"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AssistantMessage("Hello from OpenAI"), reply)

	assert.Equal(t, openai.DefaultModel, received["model"])
	msgs, ok := received["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestProvider_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	p := openai.New(openai.Config{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Complete(context.Background(), []domain.Message{domain.HumanMessage("hi")})
	assert.ErrorIs(t, err, openai.ErrNoChoices)
}
