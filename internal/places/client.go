// Package places talks to the Foursquare Places search API.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/octobees/restaurant-finder/api/internal/entity"
	"github.com/octobees/restaurant-finder/api/internal/logging"
	"github.com/octobees/restaurant-finder/api/internal/metrics"
	"github.com/octobees/restaurant-finder/api/internal/validation"
)

const searchPath = "/places/search"

var (
	// ErrSearchUnavailable is returned for any transport failure or non-2xx answer.
	ErrSearchUnavailable = errors.New("We couldn't retrieve restaurant information at this time. Please try again later.")
	// ErrMalformedUpstreamResponse is returned when the body does not match the expected shape.
	ErrMalformedUpstreamResponse = errors.New("We couldn't retrieve restaurant information at this time. Please try again later.")
)

var cursorPattern = regexp.MustCompile(`cursor=([^&>;\s]+)`)

var statusDescriptions = map[int]string{
	http.StatusUnauthorized:     "Invalid Foursquare API key. Please check credentials.",
	http.StatusForbidden:        "Access to this resource is forbidden.",
	http.StatusNotFound:         "The requested endpoint does not exist.",
	http.StatusMethodNotAllowed: "Method not allowed for this endpoint.",
	http.StatusConflict:         "Conflict in request. Modify your query and try again.",
}

// Config configures the search client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// HTTPClient replaces the default transport, mainly for tests.
	HTTPClient *http.Client
}

// Page is one page of search results. NextCursor is empty on the last page.
type Page struct {
	Results    []entity.Restaurant
	NextCursor string
}

// HasMore reports whether another page can be requested.
func (p *Page) HasMore() bool { return p.NextCursor != "" }

// Client performs places searches. It is safe for concurrent use.
type Client struct {
	rc      *resty.Client
	timeout time.Duration
}

// NewClient builds a search client. Retries stay disabled.
func NewClient(cfg Config) *Client {
	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", cfg.APIKey).
		SetRetryCount(0)

	return &Client{rc: rc, timeout: cfg.Timeout}
}

// Search runs one places query. A non-empty cursor requests the page it points at.
func (c *Client) Search(ctx context.Context, params entity.SearchParameters, cursor string) (page *Page, err error) {
	if cursor != "" {
		params = params.With("cursor", cursor)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	logger := logging.FromContext(ctx)
	start := time.Now()
	defer func() {
		metrics.ObserveUpstream(metrics.UpstreamPlaces, err, time.Since(start).Seconds())
	}()

	// The query string is attached verbatim so parameter order survives.
	resp, err := c.rc.R().
		SetContext(ctx).
		Get(searchPath + "?" + params.Encode())
	if err != nil {
		logger.Error("places request failed", zap.Error(err))
		return nil, fmt.Errorf("places search: %v: %w", err, ErrSearchUnavailable)
	}

	if !resp.IsSuccess() {
		detail := describeStatus(resp)
		logger.Error("places api error",
			zap.Int("status", resp.StatusCode()),
			zap.String("detail", detail),
		)
		return nil, fmt.Errorf("places search: %s: %w", detail, ErrSearchUnavailable)
	}

	results, err := decodeResults(resp.Body())
	if err != nil {
		logger.Error("places response rejected", zap.Error(err))
		return nil, fmt.Errorf("places search: %v: %w", err, ErrMalformedUpstreamResponse)
	}

	page = &Page{Results: results, NextCursor: NextCursor(resp.Header().Get("Link"))}
	logger.Debug("places search completed",
		zap.Int("results", len(results)),
		zap.Bool("has_more", page.HasMore()),
	)
	return page, nil
}

// NextCursor extracts the pagination cursor from a Link header value.
func NextCursor(link string) string {
	if link == "" {
		return ""
	}
	m := cursorPattern.FindStringSubmatch(link)
	if len(m) < 2 {
		return ""
	}
	if decoded, err := url.QueryUnescape(m[1]); err == nil {
		return decoded
	}
	return m[1]
}

func describeStatus(resp *resty.Response) string {
	if msg, ok := statusDescriptions[resp.StatusCode()]; ok {
		return msg
	}
	text := strings.TrimSpace(resp.String())
	if text == "" {
		text = http.StatusText(resp.StatusCode())
	}
	return fmt.Sprintf("Error: %d %s", resp.StatusCode(), text)
}

type searchResponse struct {
	Results []entity.Restaurant `json:"results" validate:"required,dive"`
}

func decodeResults(body []byte) ([]entity.Restaurant, error) {
	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if out.Results == nil {
		return nil, errors.New("results missing")
	}
	if err := validation.Struct(out); err != nil {
		return nil, fmt.Errorf("validate body: %w", err)
	}
	return out.Results, nil
}
