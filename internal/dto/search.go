package dto

import (
	"github.com/octobees/restaurant-finder/api/internal/entity"
	"github.com/octobees/restaurant-finder/api/internal/validation"
)

// SearchRequest is the body of POST /api/execute. A fresh search sends only Query; the
// next page is requested by echoing back the cursor and params of the previous response.
type SearchRequest struct {
	Query  string         `json:"query" validate:"required"`
	Cursor string         `json:"cursor,omitempty" validate:"required_with=Params"`
	Params *entity.Intent `json:"params,omitempty" validate:"required_with=Cursor"`
}

// SearchResponse is one page of restaurants. NextCursor is null on the last page.
type SearchResponse struct {
	Results    []entity.Restaurant `json:"results"`
	NextCursor *string             `json:"nextCursor"`
	Params     entity.Intent       `json:"params"`
}

// RejectionResponse tells the caller the query was not about restaurants.
type RejectionResponse struct {
	Success           bool   `json:"success"`
	Error             string `json:"error"`
	IsRestaurantQuery bool   `json:"isRestaurantQuery"`
}

// FailureResponse reports a search that could not be acted on.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ErrorResponse carries a single public error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse lists every rejected request field.
type ValidationErrorResponse struct {
	Error validation.Errors `json:"error"`
}
