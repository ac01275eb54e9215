package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/octobees/restaurant-finder/api/internal/entity"
	"github.com/octobees/restaurant-finder/api/internal/logging"
	"github.com/octobees/restaurant-finder/api/internal/places"
)

// Searcher runs one places query.
type Searcher interface {
	Search(ctx context.Context, params entity.SearchParameters, cursor string) (*places.Page, error)
}

// OutcomeKind classifies a finished search.
type OutcomeKind int

const (
	OutcomeResults OutcomeKind = iota
	OutcomeNotRestaurant
	OutcomeUnsupportedAction
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeResults:
		return "results"
	case OutcomeNotRestaurant:
		return "not_restaurant"
	case OutcomeUnsupportedAction:
		return "unsupported_action"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// SearchRequest is either a fresh query or a continuation carrying the cursor and the
// intent of the previous page.
type SearchRequest struct {
	Query  string
	Cursor string
	Params *entity.Intent
}

// IsContinuation reports whether the request resumes an earlier search.
func (r SearchRequest) IsContinuation() bool {
	return r.Cursor != "" && r.Params != nil
}

// Outcome is the result of a search. Results, NextCursor and Params are set only for
// OutcomeResults; Action holds the rejected action for OutcomeUnsupportedAction.
type Outcome struct {
	Kind       OutcomeKind
	Results    []entity.Restaurant
	NextCursor string
	Params     entity.Intent
	Action     string
}

// Finder sequences intent resolution, parameter building, and the places search.
type Finder struct {
	intents  IntentSource
	searcher Searcher
}

// NewFinder wires a Finder.
func NewFinder(intents IntentSource, searcher Searcher) *Finder {
	return &Finder{intents: intents, searcher: searcher}
}

// Search serves one page. Continuations skip the model and reuse the carried intent.
func (f *Finder) Search(ctx context.Context, req SearchRequest) (Outcome, error) {
	logger := logging.FromContext(ctx)

	if req.IsContinuation() {
		logger.Debug("continuing search", zap.String("cursor", req.Cursor))
		return f.fetch(ctx, *req.Params, req.Cursor)
	}

	intent, err := f.intents.Resolve(ctx, req.Query)
	if err != nil {
		return Outcome{}, err
	}

	switch intent.Action {
	case entity.ActionSearch:
		return f.fetch(ctx, intent, "")
	case entity.ActionError:
		logger.Info("query rejected as not restaurant related")
		return Outcome{Kind: OutcomeNotRestaurant}, nil
	default:
		logger.Warn("unsupported intent action", zap.String("action", intent.Action))
		return Outcome{Kind: OutcomeUnsupportedAction, Action: intent.Action}, nil
	}
}

func (f *Finder) fetch(ctx context.Context, intent entity.Intent, cursor string) (Outcome, error) {
	page, err := f.searcher.Search(ctx, BuildSearchParameters(intent.Parameters), cursor)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Kind:       OutcomeResults,
		Results:    page.Results,
		NextCursor: page.NextCursor,
		Params:     intent,
	}, nil
}
