package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/octobees/restaurant-finder/api/internal/entity"
	"github.com/octobees/restaurant-finder/api/internal/llm"
	"github.com/octobees/restaurant-finder/api/internal/logging"
)

type providerStub struct {
	content  string
	err      error
	calls    int
	request  llm.Request
	deadline bool
}

func (p *providerStub) Name() string { return "stub" }

func (p *providerStub) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.calls++
	p.request = req
	_, p.deadline = ctx.Deadline()
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Content: p.content, Model: "stub-model"}, nil
}

const sushiIntent = `{"action":"search","parameters":{"query":"sushi","name":null,"near":"New York","min_price":1,"max_price":1,"open_now":true,"open_at":null,"sort":null}}`

func TestIntentResolver_Resolve(t *testing.T) {
	provider := &providerStub{content: sushiIntent}
	resolver := NewIntentResolver(provider, time.Second)
	resolver.now = func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }

	intent, err := resolver.Resolve(context.Background(), "Find cheap sushi in New York that's open now")
	require.NoError(t, err)

	assert.Equal(t, entity.ActionSearch, intent.Action)
	require.NotNil(t, intent.Parameters.Query)
	assert.Equal(t, "sushi", *intent.Parameters.Query)
	assert.Equal(t, "New York", *intent.Parameters.Near)
	assert.Equal(t, 1, *intent.Parameters.MinPrice)
	assert.Equal(t, 1, *intent.Parameters.MaxPrice)
	open, ok := intent.Parameters.Availability.OpenNow()
	assert.True(t, ok)
	assert.True(t, open)

	assert.True(t, provider.deadline)
	assert.Equal(t, "Find cheap sushi in New York that's open now", provider.request.Prompt)
	assert.Equal(t, "restaurant", provider.request.SchemaName)
	assert.Contains(t, provider.request.System, "ONLY handles restaurant-related")
	assert.Contains(t, provider.request.System, "Today is Friday.")
	assert.Same(t, intentSchema, provider.request.Schema)
}

func TestIntentResolver_ErrorActionIsNotAnError(t *testing.T) {
	provider := &providerStub{content: `{"action":"error","parameters":{"query":null,"name":null,"near":null,"min_price":null,"max_price":null,"open_now":null,"open_at":null,"sort":null}}`}
	intent, err := NewIntentResolver(provider, 0).Resolve(context.Background(), "what's the weather?")
	require.NoError(t, err)
	assert.Equal(t, entity.ActionError, intent.Action)
	assert.False(t, provider.deadline)
}

func TestIntentResolver_EmptyResponse(t *testing.T) {
	_, err := NewIntentResolver(&providerStub{content: "  \n"}, time.Second).Resolve(context.Background(), "sushi")
	require.ErrorIs(t, err, ErrEmptyModelResponse)
}

func TestIntentResolver_InvalidResponses(t *testing.T) {
	cases := map[string]string{
		"not json":        "sure! here are some restaurants",
		"unknown action":  `{"action":"book","parameters":{}}`,
		"missing action":  `{"parameters":{}}`,
		"unknown field":   `{"action":"search","parameters":{"cuisine":"thai"}}`,
		"extra top level": `{"action":"search","parameters":{},"confidence":0.9}`,
		"price too high":  `{"action":"search","parameters":{"min_price":5}}`,
		"bad sort":        `{"action":"search","parameters":{"sort":"popularity"}}`,
		"both open keys":  `{"action":"search","parameters":{"open_now":true,"open_at":"1T1200"}}`,
		"bad open_at":     `{"action":"search","parameters":{"open_at":"8T2500"}}`,
		"trailing data":   `{"action":"search","parameters":{}} {}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewIntentResolver(&providerStub{content: content}, time.Second).Resolve(context.Background(), "sushi")
			require.ErrorIs(t, err, ErrInvalidModelResponse)
		})
	}
}

func TestIntentResolver_ProviderStatusLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logging.WithContext(context.Background(), zap.New(core))
	provider := &providerStub{err: &llm.StatusError{Provider: "stub", StatusCode: 429, Message: "quota"}}

	_, err := NewIntentResolver(provider, time.Second).Resolve(ctx, "sushi")
	require.ErrorIs(t, err, ErrModelUnavailable)

	entries := logs.FilterMessage("model api error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Rate limit exceeded. Please try again later", entries[0].ContextMap()["detail"])
	assert.Equal(t, "stub", entries[0].ContextMap()["provider"])
}

func TestIntentResolver_TransportError(t *testing.T) {
	provider := &providerStub{err: errors.New("dial tcp: connection refused")}
	_, err := NewIntentResolver(provider, time.Second).Resolve(context.Background(), "sushi")
	require.ErrorIs(t, err, ErrModelUnavailable)
	assert.False(t, errors.Is(err, ErrInvalidModelResponse))
}

type hangingProvider struct{}

func (hangingProvider) Name() string { return "hanging" }

func (hangingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return &llm.Response{Content: sushiIntent}, nil
	}
}

func TestIntentResolver_Timeout(t *testing.T) {
	resolver := NewIntentResolver(hangingProvider{}, 20*time.Millisecond)

	start := time.Now()
	_, err := resolver.Resolve(context.Background(), "sushi")
	require.ErrorIs(t, err, ErrModelUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestIntentSchema_AllowsOnlyKnownActions(t *testing.T) {
	rendered := intentSchema.JSONSchema()
	props := rendered["properties"].(map[string]any)
	action := props["action"].(map[string]any)
	assert.Equal(t, []any{"search", "error"}, action["enum"])

	params := props["parameters"].(map[string]any)
	assert.Equal(t, false, params["additionalProperties"])
	assert.ElementsMatch(t,
		[]string{"query", "name", "near", "min_price", "max_price", "open_now", "open_at", "sort"},
		params["required"])
}
