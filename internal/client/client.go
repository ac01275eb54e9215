// Package client calls the restaurant finder API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/octobees/restaurant-finder/api/internal/dto"
	"github.com/octobees/restaurant-finder/api/internal/validation"
)

const executePath = "/api/execute"

// APIError is a non-200 answer from the API.
type APIError struct {
	StatusCode int
	Message    string
	// Fields is set for request validation failures.
	Fields validation.Errors
	// NotRestaurant is set when the query was rejected as off-topic.
	NotRestaurant bool
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Fields.Error())
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Searcher runs restaurant searches against the API.
type Searcher interface {
	Execute(ctx context.Context, req dto.SearchRequest, requestID string) (*dto.SearchResponse, error)
}

// Client posts search requests to the API.
type Client struct {
	client  *http.Client
	baseURL string
}

// New builds a client. With a nil http.Client it tries an ID token client for the base
// URL (for deployments behind IAM) and falls back to a plain client.
func New(client *http.Client, baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url must not be empty")
	}
	if client == nil {
		idc, err := idtoken.NewClient(context.Background(), baseURL)
		if err != nil {
			client = &http.Client{Timeout: 45 * time.Second}
		} else {
			client = idc
		}
	}
	return &Client{client: client, baseURL: baseURL}, nil
}

// Execute sends one search request and decodes the page.
func (c *Client) Execute(ctx context.Context, req dto.SearchRequest, requestID string) (*dto.SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+executePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if requestID != "" {
		httpReq.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var page dto.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("could not decode search response: %w", err)
	}
	return &page, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return apiErr
	}

	var envelope struct {
		Error             json.RawMessage `json:"error"`
		Message           string          `json:"message"`
		IsRestaurantQuery *bool           `json:"isRestaurantQuery"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}
	if envelope.IsRestaurantQuery != nil && !*envelope.IsRestaurantQuery {
		apiErr.NotRestaurant = true
	}

	var msg string
	var fields validation.Errors
	switch {
	case json.Unmarshal(envelope.Error, &msg) == nil && msg != "":
		apiErr.Message = msg
	case json.Unmarshal(envelope.Error, &fields) == nil && len(fields) > 0:
		apiErr.Fields = fields
		apiErr.Message = fields.Error()
	case envelope.Message != "":
		apiErr.Message = envelope.Message
	}
	return apiErr
}

var _ Searcher = (*Client)(nil)
