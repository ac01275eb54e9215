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

func TestGemini_Generate(t *testing.T) {
	var body map[string]any
	var path, apiKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		apiKey = r.Header.Get("x-goog-api-key")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"action\":"},{"text":"\"error\"}"}]}}]}`))
	}))
	defer server.Close()

	g := NewGemini(GeminiConfig{APIKey: "g-key", Model: "gemini-2.0-flash", Endpoint: server.URL, HTTPClient: server.Client()})

	resp, err := g.Generate(context.Background(), Request{System: "only restaurants", Prompt: "weather?", Schema: testSchema()})
	require.NoError(t, err)

	assert.Equal(t, `{"action":"error"}`, resp.Content)
	assert.Equal(t, "gemini-2.0-flash", resp.Model)
	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", path)
	assert.Equal(t, "g-key", apiKey)

	cfg := body["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", cfg["responseMimeType"])
	schema := cfg["responseSchema"].(map[string]any)
	assert.Equal(t, "OBJECT", schema["type"])
	assert.Equal(t, []any{"action", "sort", "price"}, schema["required"])
	assert.NotNil(t, body["systemInstruction"])
}

func TestGemini_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	g := NewGemini(GeminiConfig{APIKey: "k", Model: "models/gemini-2.0-flash", Endpoint: server.URL, HTTPClient: server.Client()})

	resp, err := g.Generate(context.Background(), Request{Prompt: "sushi"})
	require.NoError(t, err)
	assert.Empty(t, resp.Content)
}

func TestGemini_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	g := NewGemini(GeminiConfig{APIKey: "k", Model: "gemini-2.0-flash", Endpoint: server.URL, HTTPClient: server.Client()})

	_, err := g.Generate(context.Background(), Request{Prompt: "sushi"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "API key not valid", statusErr.Message)
}

func TestGemini_StatusErrorWithPlainBody(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream overloaded"))
	}))
	defer server.Close()

	g := NewGemini(GeminiConfig{APIKey: "k", Model: "gemini-2.0-flash", Endpoint: server.URL, HTTPClient: server.Client()})

	_, err := g.Generate(context.Background(), Request{Prompt: "sushi"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "upstream overloaded", statusErr.Message)
	assert.Equal(t, 1, calls)
}
