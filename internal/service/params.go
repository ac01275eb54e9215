package service

import (
	"strconv"
	"strings"

	"github.com/octobees/restaurant-finder/api/internal/entity"
)

// SearchFields is the fixed field list requested from the places API.
const SearchFields = "fsq_id,name,location,categories,rating,price,hours,photos,tel,website"

// SearchLimit is the page size requested from the places API.
const SearchLimit = 10

// BuildSearchParameters maps intent parameters onto places query parameters.
// The output depends only on p, so the same intent always yields the same query.
func BuildSearchParameters(p entity.Parameters) entity.SearchParameters {
	var pairs []entity.Param
	add := func(key, value string) {
		pairs = append(pairs, entity.Param{Key: key, Value: value})
	}

	switch {
	case nonEmpty(p.Name):
		add("query", strings.TrimSpace(*p.Name))
	case nonEmpty(p.Query):
		add("query", strings.TrimSpace(*p.Query))
	}
	if nonEmpty(p.Near) {
		add("near", strings.TrimSpace(*p.Near))
	}
	// min and max are forwarded independently; an inverted range reaches the API as-is.
	if p.MinPrice != nil {
		add("min_price", strconv.Itoa(*p.MinPrice))
	}
	if p.MaxPrice != nil {
		add("max_price", strconv.Itoa(*p.MaxPrice))
	}
	switch p.Availability.Kind() {
	case entity.AvailabilityOpenNow:
		open, _ := p.Availability.OpenNow()
		add("open_now", strconv.FormatBool(open))
	case entity.AvailabilityOpenAt:
		at, _ := p.Availability.OpenAt()
		add("open_at", at)
	}
	if nonEmpty(p.Sort) {
		add("sort", strings.ToUpper(strings.TrimSpace(*p.Sort)))
	}
	add("fields", SearchFields)
	add("limit", strconv.Itoa(SearchLimit))

	return entity.NewSearchParameters(pairs...)
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
