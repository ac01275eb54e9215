package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenRouterConfig configures the OpenAI-compatible chat completions provider.
type OpenRouterConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// OpenRouter calls an OpenAI-compatible chat completions endpoint with a strict json_schema
// response format.
type OpenRouter struct {
	client openai.Client
	model  string
}

// NewOpenRouter builds the provider. SDK retries are disabled; failures surface immediately.
func NewOpenRouter(cfg OpenRouterConfig) *OpenRouter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return &OpenRouter{client: openai.NewClient(opts...), model: cfg.Model}
}

// Name implements Provider.
func (p *OpenRouter) Name() string { return "openrouter" }

// Generate implements Provider.
func (p *OpenRouter) Generate(ctx context.Context, req Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(0),
	}
	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.SchemaName,
					Strict: openai.Bool(true),
					Schema: req.Schema.JSONSchema(),
				},
			},
		}
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &StatusError{
				Provider:   p.Name(),
				StatusCode: apiErr.StatusCode,
				Message:    apiErr.Message,
				Err:        err,
			}
		}
		return nil, fmt.Errorf("openrouter chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return &Response{Model: completion.Model}, nil
	}
	return &Response{
		Content: completion.Choices[0].Message.Content,
		Model:   completion.Model,
	}, nil
}

var _ Provider = (*OpenRouter)(nil)
