// Package llm abstracts the language models used to turn free text into structured output.
// Providers implement Provider so the service never depends on a specific vendor.
package llm

import (
	"context"
	"fmt"
	"net/http"
)

// Provider generates a single structured completion.
type Provider interface {
	// Name identifies the provider in logs and errors.
	Name() string
	// Generate sends one system instruction plus one user prompt and returns the raw JSON text
	// the model produced under the given schema.
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Request is a single-turn structured generation request.
type Request struct {
	System     string
	Prompt     string
	SchemaName string
	Schema     *Schema
}

// Response is the raw model output.
type Response struct {
	Content string
	Model   string
}

// StatusError reports a non-success answer from a provider API.
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error { return e.Err }

var statusDescriptions = map[int]string{
	http.StatusBadRequest:          "Invalid request parameters",
	http.StatusUnauthorized:        "Authentication failed. Please check your API key",
	http.StatusForbidden:           "You do not have permission to perform this action",
	http.StatusNotFound:            "The requested resource was not found",
	http.StatusUnprocessableEntity: "The request was well-formed but could not be processed",
	http.StatusTooManyRequests:     "Rate limit exceeded. Please try again later",
	http.StatusInternalServerError: "The server encountered an error",
	http.StatusBadGateway:          "Bad gateway error",
	http.StatusServiceUnavailable:  "Service unavailable",
	http.StatusGatewayTimeout:      "Gateway timeout",
}

// DescribeStatus maps a provider status code to a diagnostic description.
func DescribeStatus(code int) string {
	if msg, ok := statusDescriptions[code]; ok {
		return msg
	}
	return fmt.Sprintf("Status %d", code)
}
