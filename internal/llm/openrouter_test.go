package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouter_Generate(t *testing.T) {
	var body map[string]any
	var auth, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"openai/gpt-4o-mini","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"action\":\"search\"}"}}]}`))
	}))
	defer server.Close()

	p := NewOpenRouter(OpenRouterConfig{APIKey: "or-key", BaseURL: server.URL + "/api/v1", Model: "openai/gpt-4o-mini", HTTPClient: server.Client()})
	resp, err := p.Generate(context.Background(), Request{System: "only restaurants", Prompt: "sushi", SchemaName: "restaurant", Schema: testSchema()})
	require.NoError(t, err)

	assert.Equal(t, `{"action":"search"}`, resp.Content)
	assert.Equal(t, "openai/gpt-4o-mini", resp.Model)
	assert.Equal(t, "Bearer or-key", auth)
	assert.Equal(t, "/api/v1/chat/completions", path)
	assert.Equal(t, "openai/gpt-4o-mini", body["model"])

	messages := body["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])

	format := body["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]any)
	assert.Equal(t, "restaurant", schema["name"])
	assert.Equal(t, true, schema["strict"])
}

func TestOpenRouter_StatusError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream overloaded","type":"server_error"}}`))
	}))
	defer server.Close()

	p := NewOpenRouter(OpenRouterConfig{APIKey: "k", BaseURL: server.URL, Model: "m", HTTPClient: server.Client()})
	_, err := p.Generate(context.Background(), Request{Prompt: "sushi"})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "openrouter", statusErr.Provider)
	assert.Equal(t, 1, calls, "retries must be disabled")
}
