package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/octobees/restaurant-finder/api/internal/entity"
	"github.com/octobees/restaurant-finder/api/internal/llm"
	"github.com/octobees/restaurant-finder/api/internal/logging"
	"github.com/octobees/restaurant-finder/api/internal/metrics"
	"github.com/octobees/restaurant-finder/api/internal/validation"
)

const modelUnavailableMessage = "We couldn't process your restaurant query at this time. Please try again later."

var (
	// ErrEmptyModelResponse is returned when the model answers with no content.
	ErrEmptyModelResponse = errors.New(modelUnavailableMessage)
	// ErrInvalidModelResponse is returned when the model output is not a valid intent.
	ErrInvalidModelResponse = errors.New(modelUnavailableMessage)
	// ErrModelUnavailable is returned when the provider call itself fails.
	ErrModelUnavailable = errors.New(modelUnavailableMessage)
)

const intentSchemaName = "restaurant"

const systemPrompt = `You are a restaurant search API that ONLY handles restaurant-related queries.

Rules:
- If the user is looking for a restaurant, a cuisine, a dish, or a place to eat or drink, respond with action "search".
- For anything else (weather, news, directions, general questions), respond with action "error" and set every parameter to null.
- "query" is the cuisine or type of restaurant, never the whole sentence. Use "restaurant" when no cuisine is given. When the user asks for a suggestion, pick a cuisine.
- "name" is the exact restaurant name the user mentioned, otherwise null.
- "near" is the location as a geocodable place name. Drop descriptive words such as "downtown" or "uptown" ("downtown LA" becomes "Los Angeles").
- Prices run from 1 (cheapest) to 4 (most expensive): cheap or budget = 1, moderate = 2, upscale = 3, luxury or fine dining = 4. For a single price level set both min_price and max_price to it.
- Set "open_now" to true when the user wants a place that is open right now.
- Set "open_at" only when the user names a day or time, as day number 1-7 (Monday = 1), "T", and 24h HHMM, e.g. "5T2030". Never set both open_now and open_at.
- "sort" is "rating" for best or top rated, "distance" for closest, "relevance" otherwise, or null.

Examples:
- "cheap sushi near downtown LA that's open now" -> search, query "sushi", near "Los Angeles", min_price 1, max_price 1, open_now true.
- "what's the weather tomorrow?" -> error.`

// IntentSource turns a free-text query into an Intent.
type IntentSource interface {
	Resolve(ctx context.Context, query string) (entity.Intent, error)
}

// IntentResolver asks a language model for a structured restaurant intent.
type IntentResolver struct {
	provider llm.Provider
	timeout  time.Duration
	now      func() time.Time
}

// NewIntentResolver creates a resolver; timeout bounds each model call.
func NewIntentResolver(provider llm.Provider, timeout time.Duration) *IntentResolver {
	return &IntentResolver{provider: provider, timeout: timeout, now: time.Now}
}

// Resolve sends query to the model and validates the answer. An "error" action is a
// valid result; callers treat it as a non-restaurant query.
func (r *IntentResolver) Resolve(ctx context.Context, query string) (intent entity.Intent, err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	logger := logging.FromContext(ctx).With(zap.String("provider", r.provider.Name()))

	start := time.Now()
	resp, err := r.provider.Generate(ctx, llm.Request{
		System:     r.systemInstruction(),
		Prompt:     query,
		SchemaName: intentSchemaName,
		Schema:     intentSchema,
	})
	metrics.ObserveUpstream(metrics.UpstreamModel, err, time.Since(start).Seconds())
	if err != nil {
		var statusErr *llm.StatusError
		if errors.As(err, &statusErr) {
			logger.Error("model api error",
				zap.Int("status", statusErr.StatusCode),
				zap.String("detail", llm.DescribeStatus(statusErr.StatusCode)),
				zap.String("message", statusErr.Message),
			)
		} else {
			logger.Error("model request failed", zap.Error(err))
		}
		return entity.Intent{}, fmt.Errorf("resolve intent: %v: %w", err, ErrModelUnavailable)
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		logger.Warn("model returned empty content", zap.String("model", resp.Model))
		return entity.Intent{}, fmt.Errorf("resolve intent: %w", ErrEmptyModelResponse)
	}

	intent, err = decodeIntent(content)
	if err != nil {
		logger.Warn("model returned invalid intent", zap.String("model", resp.Model), zap.Error(err))
		return entity.Intent{}, fmt.Errorf("resolve intent: %v: %w", err, ErrInvalidModelResponse)
	}

	logger.Debug("intent resolved", zap.String("action", intent.Action), zap.String("model", resp.Model))
	return intent, nil
}

func (r *IntentResolver) systemInstruction() string {
	return systemPrompt + "\n\nToday is " + r.now().Weekday().String() + "."
}

// decodeIntent parses model output strictly; nothing is coerced.
func decodeIntent(content string) (entity.Intent, error) {
	var intent entity.Intent
	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&intent); err != nil {
		return entity.Intent{}, fmt.Errorf("decode: %w", err)
	}
	if dec.More() {
		return entity.Intent{}, errors.New("decode: trailing data after intent")
	}
	if err := validation.Struct(intent); err != nil {
		return entity.Intent{}, fmt.Errorf("validate: %w", err)
	}
	return intent, nil
}

func nullable(t llm.Type, description string, enum ...string) *llm.Schema {
	return &llm.Schema{Type: t, Nullable: true, Description: description, Enum: enum}
}

var intentSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: []llm.Property{
		{Name: "action", Schema: &llm.Schema{
			Type:        llm.TypeString,
			Description: "search when the user is looking for a restaurant, error otherwise",
			Enum:        []string{entity.ActionSearch, entity.ActionError},
		}},
		{Name: "parameters", Schema: &llm.Schema{
			Type: llm.TypeObject,
			Properties: []llm.Property{
				{Name: "query", Schema: nullable(llm.TypeString, "cuisine or type of restaurant, not the whole query")},
				{Name: "name", Schema: nullable(llm.TypeString, "exact restaurant name mentioned by the user")},
				{Name: "near", Schema: nullable(llm.TypeString, "geocodable location")},
				{Name: "min_price", Schema: nullable(llm.TypeInteger, "minimum price level, 1 (cheapest) to 4")},
				{Name: "max_price", Schema: nullable(llm.TypeInteger, "maximum price level, 1 (cheapest) to 4")},
				{Name: "open_now", Schema: nullable(llm.TypeBoolean, "true when the venue must be open now")},
				{Name: "open_at", Schema: nullable(llm.TypeString, "day 1-7, T, 24h HHMM, e.g. 5T2030")},
				{Name: "sort", Schema: nullable(llm.TypeString, "result ordering",
					entity.SortRelevance, entity.SortRating, entity.SortDistance)},
			},
		}},
	},
}

var _ IntentSource = (*IntentResolver)(nil)
