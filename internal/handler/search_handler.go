package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/restaurant-finder/api/internal/dto"
	"github.com/octobees/restaurant-finder/api/internal/entity"
	"github.com/octobees/restaurant-finder/api/internal/logging"
	"github.com/octobees/restaurant-finder/api/internal/metrics"
	"github.com/octobees/restaurant-finder/api/internal/places"
	"github.com/octobees/restaurant-finder/api/internal/service"
	"github.com/octobees/restaurant-finder/api/internal/validation"
)

const (
	notRestaurantMessage = "I can only help you find restaurants. Try asking about a cuisine, a dish, or a place to eat."
	genericErrorMessage  = "Something went wrong. Please try again later."
)

// publicErrors are the failures whose message may be shown to callers.
var publicErrors = []error{
	service.ErrEmptyModelResponse,
	service.ErrInvalidModelResponse,
	service.ErrModelUnavailable,
	places.ErrSearchUnavailable,
	places.ErrMalformedUpstreamResponse,
}

// Finder runs one restaurant search.
type Finder interface {
	Search(ctx context.Context, req service.SearchRequest) (service.Outcome, error)
}

// SearchHandler serves POST /api/execute.
type SearchHandler struct {
	finder Finder
}

// NewSearchHandler wires the handler.
func NewSearchHandler(finder Finder) *SearchHandler {
	return &SearchHandler{finder: finder}
}

// Execute validates the request shape, runs the search, and maps the outcome to a status.
func (h *SearchHandler) Execute(c echo.Context) error {
	ctx := c.Request().Context()
	logger := logging.FromContext(ctx)

	var req dto.SearchRequest
	if err := c.Bind(&req); err != nil {
		logger.Info("rejected search payload", zap.Error(err))
		return ValidationFailed(c, bindErrors(err))
	}
	req.Query = strings.TrimSpace(req.Query)
	req.Cursor = strings.TrimSpace(req.Cursor)

	if err := validation.Struct(req); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return ValidationFailed(c, verrs)
		}
		return h.fail(c, err)
	}
	if req.Params != nil && req.Params.Action != entity.ActionSearch {
		return ValidationFailed(c, validation.Errors{{
			Field:   "params.action",
			Rule:    "eq",
			Message: "params.action must be search to continue a search",
		}})
	}

	outcome, err := h.finder.Search(ctx, service.SearchRequest{
		Query:  req.Query,
		Cursor: req.Cursor,
		Params: req.Params,
	})
	if err != nil {
		return h.fail(c, err)
	}
	metrics.RecordOutcome(outcome.Kind.String())

	switch outcome.Kind {
	case service.OutcomeResults:
		return c.JSON(http.StatusOK, searchResponse(outcome))
	case service.OutcomeNotRestaurant:
		return c.JSON(http.StatusBadRequest, dto.RejectionResponse{
			Success:           false,
			Error:             notRestaurantMessage,
			IsRestaurantQuery: false,
		})
	default:
		return c.JSON(http.StatusUnprocessableEntity, dto.FailureResponse{
			Success: false,
			Error:   fmt.Sprintf("Unsupported action: %s", outcome.Action),
		})
	}
}

func (h *SearchHandler) fail(c echo.Context, err error) error {
	logging.FromContext(c.Request().Context()).Error("restaurant search failed",
		zap.Error(err),
		zap.Stack("stack"),
	)
	metrics.RecordOutcome("error")
	return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: publicMessage(err)})
}

func searchResponse(outcome service.Outcome) dto.SearchResponse {
	results := outcome.Results
	if results == nil {
		results = []entity.Restaurant{}
	}
	resp := dto.SearchResponse{Results: results, Params: outcome.Params}
	if outcome.NextCursor != "" {
		cursor := outcome.NextCursor
		resp.NextCursor = &cursor
	}
	return resp
}

// publicMessage returns the caller-facing text for err; wrapped detail is never exposed.
func publicMessage(err error) string {
	for _, target := range publicErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return genericErrorMessage
}

func bindErrors(err error) validation.Errors {
	var availErr *entity.AvailabilityError
	if errors.As(err, &availErr) {
		rule := "open_at"
		if errors.Is(availErr, entity.ErrConflictingAvailability) {
			rule = "excluded_with"
		}
		return validation.Errors{{
			Field:   "params.parameters." + availErr.Field,
			Rule:    rule,
			Message: availErr.Error(),
		}}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusUnsupportedMediaType {
		return validation.Errors{{Field: "body", Rule: "content_type", Message: "body must be application/json"}}
	}
	return validation.Errors{{Field: "body", Rule: "json", Message: "body must be a valid search request"}}
}
