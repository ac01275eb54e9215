package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com"

// GeminiConfig configures the Gemini generateContent provider.
type GeminiConfig struct {
	APIKey string
	Model  string
	// Endpoint overrides the API base URL, mainly for tests.
	Endpoint   string
	HTTPClient *http.Client
}

// Gemini calls v1beta/models/{model}:generateContent with a response schema.
type Gemini struct {
	rc    *resty.Client
	model string
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string                `json:"responseMimeType"`
	ResponseSchema   *geminiResponseSchema `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *geminiContent `json:"content"`
	} `json:"candidates"`
	ModelVersion string `json:"modelVersion"`
}

type geminiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// geminiResponseSchema is the OpenAPI subset accepted as responseSchema.
type geminiResponseSchema struct {
	Type        string                           `json:"type"`
	Description string                           `json:"description,omitempty"`
	Nullable    bool                             `json:"nullable,omitempty"`
	Format      string                           `json:"format,omitempty"`
	Enum        []string                         `json:"enum,omitempty"`
	Properties  map[string]*geminiResponseSchema `json:"properties,omitempty"`
	Required    []string                         `json:"required,omitempty"`
}

// NewGemini builds the provider. Retries stay disabled.
func NewGemini(cfg GeminiConfig) *Gemini {
	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}
	rc.SetBaseURL(strings.TrimRight(endpoint, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey).
		SetRetryCount(0)

	return &Gemini{rc: rc, model: strings.TrimPrefix(cfg.Model, "models/")}
}

// Name implements Provider.
func (g *Gemini) Name() string { return "gemini" }

// Generate implements Provider.
func (g *Gemini) Generate(ctx context.Context, req Request) (*Response, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMIMEType: "application/json",
		},
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	if req.Schema != nil {
		body.GenerationConfig.ResponseSchema = geminiSchema(req.Schema)
	}

	var out geminiResponse
	var apiErr geminiErrorBody
	resp, err := g.rc.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1beta/models/" + g.model + ":generateContent")
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return nil, &StatusError{
			Provider:   g.Name(),
			StatusCode: resp.StatusCode(),
			Message:    msg,
		}
	}

	result := &Response{Model: g.model}
	if out.ModelVersion != "" {
		result.Model = out.ModelVersion
	}
	if len(out.Candidates) == 0 || out.Candidates[0].Content == nil {
		return result, nil
	}
	var b strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	result.Content = b.String()
	return result, nil
}

// geminiSchema translates a Schema into the OpenAPI subset Gemini accepts.
func geminiSchema(s *Schema) *geminiResponseSchema {
	out := &geminiResponseSchema{
		Type:        strings.ToUpper(string(s.Type)),
		Description: s.Description,
		Nullable:    s.Nullable,
	}
	if len(s.Enum) > 0 {
		out.Format = "enum"
		out.Enum = append([]string(nil), s.Enum...)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*geminiResponseSchema, len(s.Properties))
		for _, p := range s.Properties {
			out.Properties[p.Name] = geminiSchema(p.Schema)
			out.Required = append(out.Required, p.Name)
		}
	}
	return out
}

var _ Provider = (*Gemini)(nil)
